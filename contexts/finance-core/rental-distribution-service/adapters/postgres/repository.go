package postgresadapter

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propshare/contexts/finance-core/rental-distribution-service/domain/entities"
)

type Repository struct {
	db          *gorm.DB
	defaultFees entities.FeeStructure
	logger      *slog.Logger
}

// NewRepository wires the gorm-backed store. defaultFees applies until an
// admin persists an explicit fee structure.
func NewRepository(db *gorm.DB, defaultFees entities.FeeStructure, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, defaultFees: defaultFees, logger: logger}
}

type depositModel struct {
	PropertyID         uint64 `gorm:"column:property_id;primaryKey"`
	Year               uint32 `gorm:"column:year;primaryKey"`
	Month              uint32 `gorm:"column:month;primaryKey"`
	GrossIncome        uint64 `gorm:"column:gross_income"`
	ManagementFee      uint64 `gorm:"column:management_fee"`
	PlatformFee        uint64 `gorm:"column:platform_fee"`
	MaintenanceReserve uint64 `gorm:"column:maintenance_reserve"`
	NetDistributable   uint64 `gorm:"column:net_distributable"`
	DepositedBy        string `gorm:"column:deposited_by"`
	DepositHeight      uint64 `gorm:"column:deposit_height"`
	TotalClaimed       uint64 `gorm:"column:total_claimed"`
	FeesWithdrawn      bool   `gorm:"column:fees_withdrawn"`
}

func (depositModel) TableName() string { return "rental_deposits" }

type claimModel struct {
	PropertyID    uint64 `gorm:"column:property_id;primaryKey"`
	Year          uint32 `gorm:"column:year;primaryKey"`
	Month         uint32 `gorm:"column:month;primaryKey"`
	Investor      string `gorm:"column:investor;primaryKey"`
	AmountClaimed uint64 `gorm:"column:amount_claimed"`
	ClaimHeight   uint64 `gorm:"column:claim_height"`
}

func (claimModel) TableName() string { return "rental_claims" }

type feeStructureModel struct {
	ID                    int    `gorm:"column:id;primaryKey"`
	ManagementFeeBps      uint64 `gorm:"column:management_fee_bps"`
	PlatformFeeBps        uint64 `gorm:"column:platform_fee_bps"`
	MaintenanceReserveBps uint64 `gorm:"column:maintenance_reserve_bps"`
}

func (feeStructureModel) TableName() string { return "rental_fee_structure" }

func (r *Repository) GetDeposit(ctx context.Context, propertyID uint64, year uint32, month uint32) (entities.RentalDeposit, bool, error) {
	var row depositModel
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND year = ? AND month = ?", propertyID, year, month).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RentalDeposit{}, false, nil
		}
		return entities.RentalDeposit{}, false, r.logError("rental_repo_get_deposit_failed", err, "property_id", propertyID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveDeposit(ctx context.Context, deposit entities.RentalDeposit) error {
	row := depositModelFromEntity(deposit)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_claimed":  row.TotalClaimed,
			"fees_withdrawn": row.FeesWithdrawn,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("rental_repo_save_deposit_failed", err, "property_id", deposit.PropertyID)
	}
	return nil
}

func (r *Repository) ListDeposits(ctx context.Context, propertyID uint64) ([]entities.RentalDeposit, error) {
	var rows []depositModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("year ASC, month ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("rental_repo_list_deposits_failed", err, "property_id", propertyID)
	}
	items := make([]entities.RentalDeposit, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetClaim(ctx context.Context, propertyID uint64, year uint32, month uint32, investor string) (entities.Claim, bool, error) {
	var row claimModel
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND year = ? AND month = ? AND investor = ?", propertyID, year, month, investor).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Claim{}, false, nil
		}
		return entities.Claim{}, false, r.logError("rental_repo_get_claim_failed", err, "property_id", propertyID, "investor", investor)
	}
	return entities.Claim{
		PropertyID:    row.PropertyID,
		Year:          row.Year,
		Month:         row.Month,
		Investor:      row.Investor,
		AmountClaimed: row.AmountClaimed,
		ClaimHeight:   row.ClaimHeight,
	}, true, nil
}

func (r *Repository) SaveClaim(ctx context.Context, claim entities.Claim) error {
	row := claimModel{
		PropertyID:    claim.PropertyID,
		Year:          claim.Year,
		Month:         claim.Month,
		Investor:      claim.Investor,
		AmountClaimed: claim.AmountClaimed,
		ClaimHeight:   claim.ClaimHeight,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}, {Name: "year"}, {Name: "month"}, {Name: "investor"}},
		DoUpdates: clause.Assignments(map[string]any{
			"amount_claimed": row.AmountClaimed,
			"claim_height":   row.ClaimHeight,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("rental_repo_save_claim_failed", err, "property_id", claim.PropertyID, "investor", claim.Investor)
	}
	return nil
}

func (r *Repository) GetFeeStructure(ctx context.Context) (entities.FeeStructure, error) {
	var row feeStructureModel
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.defaultFees, nil
		}
		return entities.FeeStructure{}, r.logError("rental_repo_get_fees_failed", err)
	}
	return entities.FeeStructure{
		ManagementFeeBps:      row.ManagementFeeBps,
		PlatformFeeBps:        row.PlatformFeeBps,
		MaintenanceReserveBps: row.MaintenanceReserveBps,
	}, nil
}

func (r *Repository) SaveFeeStructure(ctx context.Context, fees entities.FeeStructure) error {
	row := feeStructureModel{
		ID:                    1,
		ManagementFeeBps:      fees.ManagementFeeBps,
		PlatformFeeBps:        fees.PlatformFeeBps,
		MaintenanceReserveBps: fees.MaintenanceReserveBps,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"management_fee_bps":      row.ManagementFeeBps,
			"platform_fee_bps":        row.PlatformFeeBps,
			"maintenance_reserve_bps": row.MaintenanceReserveBps,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("rental_repo_save_fees_failed", err)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "finance-core/rental-distribution-service",
		"layer", "adapter_postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("rental distribution repository failure", fields...)
	return err
}

func (m depositModel) toEntity() entities.RentalDeposit {
	return entities.RentalDeposit{
		PropertyID:         m.PropertyID,
		Year:               m.Year,
		Month:              m.Month,
		GrossIncome:        m.GrossIncome,
		ManagementFee:      m.ManagementFee,
		PlatformFee:        m.PlatformFee,
		MaintenanceReserve: m.MaintenanceReserve,
		NetDistributable:   m.NetDistributable,
		DepositedBy:        m.DepositedBy,
		DepositHeight:      m.DepositHeight,
		TotalClaimed:       m.TotalClaimed,
		FeesWithdrawn:      m.FeesWithdrawn,
	}
}

func depositModelFromEntity(deposit entities.RentalDeposit) depositModel {
	return depositModel{
		PropertyID:         deposit.PropertyID,
		Year:               deposit.Year,
		Month:              deposit.Month,
		GrossIncome:        deposit.GrossIncome,
		ManagementFee:      deposit.ManagementFee,
		PlatformFee:        deposit.PlatformFee,
		MaintenanceReserve: deposit.MaintenanceReserve,
		NetDistributable:   deposit.NetDistributable,
		DepositedBy:        deposit.DepositedBy,
		DepositHeight:      deposit.DepositHeight,
		TotalClaimed:       deposit.TotalClaimed,
		FeesWithdrawn:      deposit.FeesWithdrawn,
	}
}
