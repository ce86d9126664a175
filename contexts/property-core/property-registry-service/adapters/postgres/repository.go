package postgresadapter

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propshare/contexts/property-core/property-registry-service/domain/entities"
	domainerrors "propshare/contexts/property-core/property-registry-service/domain/errors"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type propertyModel struct {
	ID                uint64 `gorm:"column:id;primaryKey"`
	Address           string `gorm:"column:address"`
	TotalValue        uint64 `gorm:"column:total_value"`
	TotalShares       uint64 `gorm:"column:total_shares"`
	ShareLedgerLinked bool   `gorm:"column:share_ledger_linked"`
	Manager           string `gorm:"column:manager"`
	CreationHeight    uint64 `gorm:"column:creation_height"`
	Status            string `gorm:"column:status;index"`
	MetadataURI       string `gorm:"column:metadata_uri"`
	LegalEntity       string `gorm:"column:legal_entity"`
}

func (propertyModel) TableName() string { return "registry_properties" }

// NextID reserves a monotonic identifier from a sequence row.
func (r *Repository) NextID(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := struct {
			ID     int    `gorm:"column:id;primaryKey"`
			NextID uint64 `gorm:"column:next_id"`
		}{}
		if err := tx.Table("registry_sequence").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", 1).
			First(&row).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row.ID = 1
			row.NextID = 1
			if err := tx.Table("registry_sequence").Create(&row).Error; err != nil {
				return err
			}
		}
		next = row.NextID
		return tx.Table("registry_sequence").
			Where("id = ?", 1).
			Update("next_id", row.NextID+1).Error
	})
	if err != nil {
		return 0, r.logError("registry_repo_next_id_failed", err)
	}
	return next, nil
}

func (r *Repository) SaveProperty(ctx context.Context, property entities.Property) error {
	row := propertyModelFromEntity(property)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_value":         row.TotalValue,
			"share_ledger_linked": row.ShareLedgerLinked,
			"manager":             row.Manager,
			"status":              row.Status,
			"metadata_uri":        row.MetadataURI,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("registry_repo_save_property_failed", err, "property_id", property.ID)
	}
	return nil
}

func (r *Repository) GetProperty(ctx context.Context, propertyID uint64) (entities.Property, error) {
	var row propertyModel
	err := r.db.WithContext(ctx).Where("id = ?", propertyID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Property{}, domainerrors.ErrPropertyNotFound
		}
		return entities.Property{}, r.logError("registry_repo_get_property_failed", err, "property_id", propertyID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProperties(ctx context.Context) ([]entities.Property, error) {
	var rows []propertyModel
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, r.logError("registry_repo_list_properties_failed", err)
	}
	items := make([]entities.Property, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "property-core/property-registry-service",
		"layer", "adapter_postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("property registry repository failure", fields...)
	return err
}

func (m propertyModel) toEntity() entities.Property {
	return entities.Property{
		ID:                m.ID,
		Address:           m.Address,
		TotalValue:        m.TotalValue,
		TotalShares:       m.TotalShares,
		ShareLedgerLinked: m.ShareLedgerLinked,
		Manager:           m.Manager,
		CreationHeight:    m.CreationHeight,
		Status:            entities.PropertyStatus(m.Status),
		MetadataURI:       m.MetadataURI,
		LegalEntity:       m.LegalEntity,
	}
}

func propertyModelFromEntity(property entities.Property) propertyModel {
	return propertyModel{
		ID:                property.ID,
		Address:           property.Address,
		TotalValue:        property.TotalValue,
		TotalShares:       property.TotalShares,
		ShareLedgerLinked: property.ShareLedgerLinked,
		Manager:           property.Manager,
		CreationHeight:    property.CreationHeight,
		Status:            string(property.Status),
		MetadataURI:       property.MetadataURI,
		LegalEntity:       property.LegalEntity,
	}
}
