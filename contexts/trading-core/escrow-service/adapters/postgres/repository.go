package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propshare/contexts/trading-core/escrow-service/domain/entities"
	domainerrors "propshare/contexts/trading-core/escrow-service/domain/errors"
	"propshare/contexts/trading-core/escrow-service/ports"
	"propshare/internal/shared/outbox"
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

type escrowModel struct {
	ID               uint64 `gorm:"column:id;primaryKey"`
	EscrowType       string `gorm:"column:escrow_type"`
	PropertyID       uint64 `gorm:"column:property_id;index"`
	Buyer            string `gorm:"column:buyer"`
	Seller           string `gorm:"column:seller"`
	Amount           uint64 `gorm:"column:amount"`
	ShareQuantity    uint64 `gorm:"column:share_quantity"`
	Status           string `gorm:"column:status;index"`
	SharesFunded     bool   `gorm:"column:shares_funded"`
	SharesDepositor  string `gorm:"column:shares_depositor"`
	Arbiter          string `gorm:"column:arbiter"`
	CreatedHeight    uint64 `gorm:"column:created_height"`
	ExpirationHeight uint64 `gorm:"column:expiration_height"`
}

func (escrowModel) TableName() string { return "escrow_escrows" }

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "escrow_outbox" }

// NextEscrowID reserves a monotonic identifier from a sequence row.
func (r *Repository) NextEscrowID(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := struct {
			ID     int    `gorm:"column:id;primaryKey"`
			NextID uint64 `gorm:"column:next_id"`
		}{}
		if err := tx.Table("escrow_sequence").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", 1).
			First(&row).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row.ID = 1
			row.NextID = 1
			if err := tx.Table("escrow_sequence").Create(&row).Error; err != nil {
				return err
			}
		}
		next = row.NextID
		return tx.Table("escrow_sequence").
			Where("id = ?", 1).
			Update("next_id", row.NextID+1).Error
	})
	if err != nil {
		return 0, r.logError("escrow_repo_next_id_failed", err)
	}
	return next, nil
}

func (r *Repository) SaveEscrow(ctx context.Context, escrow entities.Escrow) error {
	row := escrowModelFromEntity(escrow)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"seller":           row.Seller,
			"status":           row.Status,
			"shares_funded":    row.SharesFunded,
			"shares_depositor": row.SharesDepositor,
			"arbiter":          row.Arbiter,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("escrow_repo_save_escrow_failed", err, "escrow_id", escrow.ID)
	}
	return nil
}

func (r *Repository) GetEscrow(ctx context.Context, escrowID uint64) (entities.Escrow, error) {
	var row escrowModel
	err := r.db.WithContext(ctx).Where("id = ?", escrowID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Escrow{}, domainerrors.ErrEscrowNotFound
		}
		return entities.Escrow{}, r.logError("escrow_repo_get_escrow_failed", err, "escrow_id", escrowID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListByProperty(ctx context.Context, propertyID uint64) ([]entities.Escrow, error) {
	var rows []escrowModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("escrow_repo_list_by_property_failed", err, "property_id", propertyID)
	}
	return toEntities(rows), nil
}

func (r *Repository) ListExpiredActive(ctx context.Context, height uint64) ([]entities.Escrow, error) {
	var rows []escrowModel
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []string{
			string(entities.EscrowStatusCompleted),
			string(entities.EscrowStatusRefunded),
		}).
		Where("expiration_height <= ?", height).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("escrow_repo_list_expired_failed", err, "height", height)
	}
	return toEntities(rows), nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:           event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("escrow_repo_append_outbox_failed", err, "event_id", event.EventID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	query := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("escrow_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			ID:           row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			SentAt:       row.SentAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", outboxID).
		Updates(map[string]any{
			"status":  outbox.StatusPublished,
			"sent_at": sentAt,
		}).Error
	if err != nil {
		return r.logError("escrow_repo_mark_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "trading-core/escrow-service",
		"layer", "adapter_postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("escrow repository failure", fields...)
	return err
}

func (m escrowModel) toEntity() entities.Escrow {
	return entities.Escrow{
		ID:               m.ID,
		Type:             entities.EscrowType(m.EscrowType),
		PropertyID:       m.PropertyID,
		Buyer:            m.Buyer,
		Seller:           m.Seller,
		Amount:           m.Amount,
		ShareQuantity:    m.ShareQuantity,
		Status:           entities.EscrowStatus(m.Status),
		SharesFunded:     m.SharesFunded,
		SharesDepositor:  m.SharesDepositor,
		Arbiter:          m.Arbiter,
		CreatedHeight:    m.CreatedHeight,
		ExpirationHeight: m.ExpirationHeight,
	}
}

func escrowModelFromEntity(escrow entities.Escrow) escrowModel {
	return escrowModel{
		ID:               escrow.ID,
		EscrowType:       string(escrow.Type),
		PropertyID:       escrow.PropertyID,
		Buyer:            escrow.Buyer,
		Seller:           escrow.Seller,
		Amount:           escrow.Amount,
		ShareQuantity:    escrow.ShareQuantity,
		Status:           string(escrow.Status),
		SharesFunded:     escrow.SharesFunded,
		SharesDepositor:  escrow.SharesDepositor,
		Arbiter:          escrow.Arbiter,
		CreatedHeight:    escrow.CreatedHeight,
		ExpirationHeight: escrow.ExpirationHeight,
	}
}

func toEntities(rows []escrowModel) []entities.Escrow {
	items := make([]entities.Escrow, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}
