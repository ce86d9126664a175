package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"propshare/contexts/property-core/share-ledger-service/domain/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

type ledgerModel struct {
	PropertyID    uint64 `gorm:"column:property_id;primaryKey"`
	Name          string `gorm:"column:name"`
	Symbol        string `gorm:"column:symbol"`
	Decimals      uint8  `gorm:"column:decimals"`
	TotalSupply   uint64 `gorm:"column:total_supply"`
	MinInvestment uint64 `gorm:"column:min_investment"`
	Treasury      string `gorm:"column:treasury"`
	MetadataURI   string `gorm:"column:metadata_uri"`
	CreatedHeight uint64 `gorm:"column:created_height"`
	Initialized   bool   `gorm:"column:initialized"`
}

func (ledgerModel) TableName() string { return "share_ledgers" }

type holdingModel struct {
	PropertyID  uint64 `gorm:"column:property_id;primaryKey"`
	Principal   string `gorm:"column:principal;primaryKey"`
	Balance     uint64 `gorm:"column:balance"`
	Locked      uint64 `gorm:"column:locked"`
	Whitelisted bool   `gorm:"column:whitelisted"`
}

func (holdingModel) TableName() string { return "share_holdings" }

func (r *Repository) GetLedger(ctx context.Context, propertyID uint64) (entities.Ledger, bool, error) {
	var row ledgerModel
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ledger{}, false, nil
		}
		return entities.Ledger{}, false, r.logError("ledger_repo_get_ledger_failed", err, "property_id", propertyID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveLedger(ctx context.Context, ledger entities.Ledger) error {
	row := ledgerModelFromEntity(ledger)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_supply":   row.TotalSupply,
			"min_investment": row.MinInvestment,
			"metadata_uri":   row.MetadataURI,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("ledger_repo_save_ledger_failed", err, "property_id", ledger.PropertyID)
	}
	return nil
}

func (r *Repository) GetHolding(ctx context.Context, propertyID uint64, principal string) (entities.Holding, bool, error) {
	var row holdingModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("principal = ?", strings.TrimSpace(principal)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Holding{PropertyID: propertyID, Principal: strings.TrimSpace(principal)}, false, nil
		}
		return entities.Holding{}, false, r.logError("ledger_repo_get_holding_failed", err,
			"property_id", propertyID,
			"principal", strings.TrimSpace(principal),
		)
	}
	return row.toEntity(), true, nil
}

// SaveHoldings writes all rows in one transaction so transfer legs commit
// together or not at all.
func (r *Repository) SaveHoldings(ctx context.Context, holdings ...entities.Holding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, holding := range holdings {
			row := holdingModelFromEntity(holding)
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "property_id"}, {Name: "principal"}},
				DoUpdates: clause.Assignments(map[string]any{
					"balance":     row.Balance,
					"locked":      row.Locked,
					"whitelisted": row.Whitelisted,
				}),
			}).Create(&row).Error
			if err != nil {
				return r.logError("ledger_repo_save_holding_failed", err,
					"property_id", holding.PropertyID,
					"principal", strings.TrimSpace(holding.Principal),
				)
			}
		}
		return nil
	})
}

func (r *Repository) ListHoldings(ctx context.Context, propertyID uint64) ([]entities.Holding, error) {
	var rows []holdingModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("principal ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_holdings_failed", err, "property_id", propertyID)
	}
	items := make([]entities.Holding, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "property-core/share-ledger-service",
		"layer", "adapter_postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("share ledger repository failure", fields...)
	return err
}

func (m ledgerModel) toEntity() entities.Ledger {
	return entities.Ledger{
		PropertyID:    m.PropertyID,
		Name:          m.Name,
		Symbol:        m.Symbol,
		Decimals:      m.Decimals,
		TotalSupply:   m.TotalSupply,
		MinInvestment: m.MinInvestment,
		Treasury:      m.Treasury,
		MetadataURI:   m.MetadataURI,
		CreatedHeight: m.CreatedHeight,
		Initialized:   m.Initialized,
	}
}

func ledgerModelFromEntity(ledger entities.Ledger) ledgerModel {
	return ledgerModel{
		PropertyID:    ledger.PropertyID,
		Name:          ledger.Name,
		Symbol:        ledger.Symbol,
		Decimals:      ledger.Decimals,
		TotalSupply:   ledger.TotalSupply,
		MinInvestment: ledger.MinInvestment,
		Treasury:      ledger.Treasury,
		MetadataURI:   ledger.MetadataURI,
		CreatedHeight: ledger.CreatedHeight,
		Initialized:   ledger.Initialized,
	}
}

func (m holdingModel) toEntity() entities.Holding {
	return entities.Holding{
		PropertyID:  m.PropertyID,
		Principal:   m.Principal,
		Balance:     m.Balance,
		Locked:      m.Locked,
		Whitelisted: m.Whitelisted,
	}
}

func holdingModelFromEntity(holding entities.Holding) holdingModel {
	return holdingModel{
		PropertyID:  holding.PropertyID,
		Principal:   strings.TrimSpace(holding.Principal),
		Balance:     holding.Balance,
		Locked:      holding.Locked,
		Whitelisted: holding.Whitelisted,
	}
}
