package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"propshare/contexts/identity-access/access-control-service/domain/entities"
	domainerrors "propshare/contexts/identity-access/access-control-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
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

type roleGrantModel struct {
	Principal     string    `gorm:"column:principal;primaryKey"`
	Role          string    `gorm:"column:role;primaryKey"`
	GrantedBy     string    `gorm:"column:granted_by"`
	GrantedHeight uint64    `gorm:"column:granted_height"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (roleGrantModel) TableName() string { return "access_role_grants" }

type ownerModel struct {
	ID        int       `gorm:"column:id;primaryKey"`
	Principal string    `gorm:"column:principal"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ownerModel) TableName() string { return "access_owner" }

func (r *Repository) HasGrant(ctx context.Context, principal string, role entities.Role) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&roleGrantModel{}).
		Where("principal = ?", strings.TrimSpace(principal)).
		Where("role = ?", string(role)).
		Count(&count).Error
	if err != nil {
		return false, r.logError("access_repo_has_grant_failed", err,
			"principal", strings.TrimSpace(principal),
			"role", string(role),
		)
	}
	return count > 0, nil
}

func (r *Repository) SaveGrant(ctx context.Context, grant entities.RoleGrant) error {
	row := roleGrantModel{
		Principal:     strings.TrimSpace(grant.Principal),
		Role:          string(grant.Role),
		GrantedBy:     strings.TrimSpace(grant.GrantedBy),
		GrantedHeight: grant.GrantedHeight,
		CreatedAt:     time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "principal"}, {Name: "role"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrAlreadyHasRole
		}
		return r.logError("access_repo_save_grant_failed", create.Error,
			"principal", row.Principal,
			"role", row.Role,
		)
	}
	return nil
}

func (r *Repository) DeleteGrant(ctx context.Context, principal string, role entities.Role) error {
	if err := r.db.WithContext(ctx).
		Where("principal = ?", strings.TrimSpace(principal)).
		Where("role = ?", string(role)).
		Delete(&roleGrantModel{}).Error; err != nil {
		return r.logError("access_repo_delete_grant_failed", err,
			"principal", strings.TrimSpace(principal),
			"role", string(role),
		)
	}
	return nil
}

func (r *Repository) ListGrants(ctx context.Context, principal string) ([]entities.RoleGrant, error) {
	var rows []roleGrantModel
	if err := r.db.WithContext(ctx).
		Where("principal = ?", strings.TrimSpace(principal)).
		Order("role ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("access_repo_list_grants_failed", err,
			"principal", strings.TrimSpace(principal),
		)
	}
	items := make([]entities.RoleGrant, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.RoleGrant{
			Principal:     row.Principal,
			Role:          entities.Role(row.Role),
			GrantedBy:     row.GrantedBy,
			GrantedHeight: row.GrantedHeight,
		})
	}
	return items, nil
}

func (r *Repository) Owner(ctx context.Context) (string, error) {
	var row ownerModel
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", r.logError("access_repo_owner_failed", err)
	}
	return row.Principal, nil
}

func (r *Repository) SetOwner(ctx context.Context, principal string) error {
	row := ownerModel{ID: 1, Principal: strings.TrimSpace(principal), UpdatedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{"principal": row.Principal, "updated_at": row.UpdatedAt}),
	}).Create(&row).Error; err != nil {
		return r.logError("access_repo_set_owner_failed", err, "principal", row.Principal)
	}
	return nil
}

// EnsureOwner seeds the owner pointer and its admin grant on first boot.
func (r *Repository) EnsureOwner(ctx context.Context, principal string) error {
	current, err := r.Owner(ctx)
	if err != nil {
		return err
	}
	if current != "" {
		return nil
	}
	if err := r.SetOwner(ctx, principal); err != nil {
		return err
	}
	err = r.SaveGrant(ctx, entities.RoleGrant{
		Principal: strings.TrimSpace(principal),
		Role:      entities.RoleAdmin,
		GrantedBy: strings.TrimSpace(principal),
	})
	if errors.Is(err, domainerrors.ErrAlreadyHasRole) {
		return nil
	}
	return err
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/access-control-service",
		"layer", "adapter_postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("access control repository failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
