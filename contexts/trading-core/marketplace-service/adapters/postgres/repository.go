package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propshare/contexts/trading-core/marketplace-service/domain/entities"
	domainerrors "propshare/contexts/trading-core/marketplace-service/domain/errors"
	"propshare/contexts/trading-core/marketplace-service/ports"
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

type orderModel struct {
	ID               uint64 `gorm:"column:id;primaryKey"`
	PropertyID       uint64 `gorm:"column:property_id;index"`
	Trader           string `gorm:"column:trader"`
	OrderType        string `gorm:"column:order_type"`
	Quantity         uint64 `gorm:"column:quantity"`
	PricePerShare    uint64 `gorm:"column:price_per_share"`
	TotalPrice       uint64 `gorm:"column:total_price"`
	ExpirationHeight uint64 `gorm:"column:expiration_height"`
	Status           string `gorm:"column:status;index"`
	CreatedHeight    uint64 `gorm:"column:created_height"`
}

func (orderModel) TableName() string { return "marketplace_orders" }

type statsModel struct {
	PropertyID     uint64 `gorm:"column:property_id;primaryKey"`
	LastTradePrice uint64 `gorm:"column:last_trade_price"`
	TradingVolume  uint64 `gorm:"column:trading_volume"`
}

func (statsModel) TableName() string { return "marketplace_stats" }

type feeModel struct {
	ID     int    `gorm:"column:id;primaryKey"`
	FeeBps uint64 `gorm:"column:fee_bps"`
}

func (feeModel) TableName() string { return "marketplace_fee" }

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "marketplace_outbox" }

// NextOrderID reserves a monotonic identifier from a sequence row.
func (r *Repository) NextOrderID(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := struct {
			ID     int    `gorm:"column:id;primaryKey"`
			NextID uint64 `gorm:"column:next_id"`
		}{}
		if err := tx.Table("marketplace_sequence").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", 1).
			First(&row).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row.ID = 1
			row.NextID = 1
			if err := tx.Table("marketplace_sequence").Create(&row).Error; err != nil {
				return err
			}
		}
		next = row.NextID
		return tx.Table("marketplace_sequence").
			Where("id = ?", 1).
			Update("next_id", row.NextID+1).Error
	})
	if err != nil {
		return 0, r.logError("marketplace_repo_next_id_failed", err)
	}
	return next, nil
}

func (r *Repository) SaveOrder(ctx context.Context, order entities.Order) error {
	row := orderModelFromEntity(order)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status": row.Status,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("marketplace_repo_save_order_failed", err, "order_id", order.ID)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, orderID uint64) (entities.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Order{}, domainerrors.ErrOrderNotFound
		}
		return entities.Order{}, r.logError("marketplace_repo_get_order_failed", err, "order_id", orderID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOpenOrdersByProperty(ctx context.Context, propertyID uint64) ([]entities.Order, error) {
	var rows []orderModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("status = ?", string(entities.OrderStatusOpen)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("marketplace_repo_list_open_failed", err, "property_id", propertyID)
	}
	return toEntities(rows), nil
}

func (r *Repository) ListExpiredOpenOrders(ctx context.Context, height uint64) ([]entities.Order, error) {
	var rows []orderModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.OrderStatusOpen)).
		Where("expiration_height <= ?", height).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("marketplace_repo_list_expired_failed", err, "height", height)
	}
	return toEntities(rows), nil
}

func (r *Repository) GetStats(ctx context.Context, propertyID uint64) (entities.MarketStats, error) {
	var row statsModel
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.MarketStats{PropertyID: propertyID}, nil
		}
		return entities.MarketStats{}, r.logError("marketplace_repo_get_stats_failed", err, "property_id", propertyID)
	}
	return entities.MarketStats{
		PropertyID:     row.PropertyID,
		LastTradePrice: row.LastTradePrice,
		TradingVolume:  row.TradingVolume,
	}, nil
}

func (r *Repository) SaveStats(ctx context.Context, stats entities.MarketStats) error {
	row := statsModel{
		PropertyID:     stats.PropertyID,
		LastTradePrice: stats.LastTradePrice,
		TradingVolume:  stats.TradingVolume,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_trade_price": row.LastTradePrice,
			"trading_volume":   row.TradingVolume,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("marketplace_repo_save_stats_failed", err, "property_id", stats.PropertyID)
	}
	return nil
}

func (r *Repository) GetFeeBps(ctx context.Context) (uint64, error) {
	var row feeModel
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("marketplace_repo_get_fee_failed", err)
	}
	return row.FeeBps, nil
}

func (r *Repository) SetFeeBps(ctx context.Context, bps uint64) error {
	row := feeModel{ID: 1, FeeBps: bps}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{"fee_bps": bps}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("marketplace_repo_set_fee_failed", err, "fee_bps", bps)
	}
	return nil
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
		return r.logError("marketplace_repo_append_outbox_failed", err, "event_id", event.EventID)
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
		return nil, r.logError("marketplace_repo_list_outbox_failed", err)
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
		return r.logError("marketplace_repo_mark_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "trading-core/marketplace-service",
		"layer", "adapter_postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("marketplace repository failure", fields...)
	return err
}

func (m orderModel) toEntity() entities.Order {
	return entities.Order{
		ID:               m.ID,
		PropertyID:       m.PropertyID,
		Trader:           m.Trader,
		Type:             entities.OrderType(m.OrderType),
		Quantity:         m.Quantity,
		PricePerShare:    m.PricePerShare,
		TotalPrice:       m.TotalPrice,
		ExpirationHeight: m.ExpirationHeight,
		Status:           entities.OrderStatus(m.Status),
		CreatedHeight:    m.CreatedHeight,
	}
}

func orderModelFromEntity(order entities.Order) orderModel {
	return orderModel{
		ID:               order.ID,
		PropertyID:       order.PropertyID,
		Trader:           order.Trader,
		OrderType:        string(order.Type),
		Quantity:         order.Quantity,
		PricePerShare:    order.PricePerShare,
		TotalPrice:       order.TotalPrice,
		ExpirationHeight: order.ExpirationHeight,
		Status:           string(order.Status),
		CreatedHeight:    order.CreatedHeight,
	}
}

func toEntities(rows []orderModel) []entities.Order {
	items := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}
