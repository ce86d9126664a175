package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propshare/contexts/governance-core/governance-service/domain/entities"
	domainerrors "propshare/contexts/governance-core/governance-service/domain/errors"
	"propshare/contexts/governance-core/governance-service/ports"
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

type proposalModel struct {
	ID               uint64 `gorm:"column:id;primaryKey"`
	PropertyID       uint64 `gorm:"column:property_id;index"`
	Proposer         string `gorm:"column:proposer"`
	Title            string `gorm:"column:title"`
	Description      string `gorm:"column:description"`
	StartHeight      uint64 `gorm:"column:start_height"`
	EndHeight        uint64 `gorm:"column:end_height"`
	Status           string `gorm:"column:status;index"`
	YesVotes         uint64 `gorm:"column:yes_votes"`
	NoVotes          uint64 `gorm:"column:no_votes"`
	AbstainVotes     uint64 `gorm:"column:abstain_votes"`
	TotalVotes       uint64 `gorm:"column:total_votes"`
	ExecutionPayload string `gorm:"column:execution_payload"`
	SharesReleased   bool   `gorm:"column:shares_released"`
}

func (proposalModel) TableName() string { return "governance_proposals" }

type voteModel struct {
	ProposalID  uint64 `gorm:"column:proposal_id;primaryKey"`
	Voter       string `gorm:"column:voter;primaryKey"`
	Choice      string `gorm:"column:choice"`
	VotingPower uint64 `gorm:"column:voting_power"`
	VoteHeight  uint64 `gorm:"column:vote_height"`
}

func (voteModel) TableName() string { return "governance_votes" }

type delegationModel struct {
	Delegator       string `gorm:"column:delegator;primaryKey"`
	PropertyID      uint64 `gorm:"column:property_id;primaryKey"`
	Delegate        string `gorm:"column:delegate"`
	DelegatedHeight uint64 `gorm:"column:delegated_height"`
}

func (delegationModel) TableName() string { return "governance_delegations" }

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "governance_outbox" }

func (r *Repository) NextProposalID(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := struct {
			ID     int    `gorm:"column:id;primaryKey"`
			NextID uint64 `gorm:"column:next_id"`
		}{}
		if err := tx.Table("governance_sequence").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", 1).
			First(&row).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row.ID = 1
			row.NextID = 1
			if err := tx.Table("governance_sequence").Create(&row).Error; err != nil {
				return err
			}
		}
		next = row.NextID
		return tx.Table("governance_sequence").
			Where("id = ?", 1).
			Update("next_id", row.NextID+1).Error
	})
	if err != nil {
		return 0, r.logError("governance_repo_next_id_failed", err)
	}
	return next, nil
}

func (r *Repository) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	row := proposalModelFromEntity(proposal)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":          row.Status,
			"yes_votes":       row.YesVotes,
			"no_votes":        row.NoVotes,
			"abstain_votes":   row.AbstainVotes,
			"total_votes":     row.TotalVotes,
			"shares_released": row.SharesReleased,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_save_proposal_failed", err, "proposal_id", proposal.ID)
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).Where("id = ?", proposalID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("governance_repo_get_proposal_failed", err, "proposal_id", proposalID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProposalsByProperty(ctx context.Context, propertyID uint64) ([]entities.Proposal, error) {
	var rows []proposalModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("governance_repo_list_proposals_failed", err, "property_id", propertyID)
	}
	return toProposalEntities(rows), nil
}

func (r *Repository) ListActivePastEnd(ctx context.Context, height uint64) ([]entities.Proposal, error) {
	var rows []proposalModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.ProposalStatusActive)).
		Where("end_height <= ?", height).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("governance_repo_list_ended_failed", err, "height", height)
	}
	return toProposalEntities(rows), nil
}

func (r *Repository) GetVote(ctx context.Context, proposalID uint64, voter string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Where("voter = ?", strings.TrimSpace(voter)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("governance_repo_get_vote_failed", err, "proposal_id", proposalID)
	}
	return row.toEntity(), true, nil
}

// SaveVote inserts only; the composite primary key turns a re-vote into a
// unique violation mapped to the domain sentinel.
func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModel{
		ProposalID:  vote.ProposalID,
		Voter:       strings.TrimSpace(vote.Voter),
		Choice:      string(vote.Choice),
		VotingPower: vote.VotingPower,
		VoteHeight:  vote.VoteHeight,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("governance_repo_save_vote_failed", err, "proposal_id", vote.ProposalID)
	}
	return nil
}

func (r *Repository) ListVotesByProposal(ctx context.Context, proposalID uint64) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("voter ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("governance_repo_list_votes_failed", err, "proposal_id", proposalID)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetDelegation(ctx context.Context, delegator string, propertyID uint64) (entities.Delegation, bool, error) {
	var row delegationModel
	err := r.db.WithContext(ctx).
		Where("delegator = ?", strings.TrimSpace(delegator)).
		Where("property_id = ?", propertyID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Delegation{}, false, nil
		}
		return entities.Delegation{}, false, r.logError("governance_repo_get_delegation_failed", err)
	}
	return entities.Delegation{
		Delegator:       row.Delegator,
		PropertyID:      row.PropertyID,
		Delegate:        row.Delegate,
		DelegatedHeight: row.DelegatedHeight,
	}, true, nil
}

func (r *Repository) SaveDelegation(ctx context.Context, delegation entities.Delegation) error {
	row := delegationModel{
		Delegator:       strings.TrimSpace(delegation.Delegator),
		PropertyID:      delegation.PropertyID,
		Delegate:        strings.TrimSpace(delegation.Delegate),
		DelegatedHeight: delegation.DelegatedHeight,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "delegator"}, {Name: "property_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"delegate":         row.Delegate,
			"delegated_height": row.DelegatedHeight,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_save_delegation_failed", err)
	}
	return nil
}

func (r *Repository) DeleteDelegation(ctx context.Context, delegator string, propertyID uint64) error {
	err := r.db.WithContext(ctx).
		Where("delegator = ?", strings.TrimSpace(delegator)).
		Where("property_id = ?", propertyID).
		Delete(&delegationModel{}).Error
	if err != nil {
		return r.logError("governance_repo_delete_delegation_failed", err)
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
		return r.logError("governance_repo_append_outbox_failed", err, "event_id", event.EventID)
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
		return nil, r.logError("governance_repo_list_outbox_failed", err)
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
		return r.logError("governance_repo_mark_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "governance-core/governance-service",
		"layer", "adapter_postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("governance repository failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ID:               m.ID,
		PropertyID:       m.PropertyID,
		Proposer:         m.Proposer,
		Title:            m.Title,
		Description:      m.Description,
		StartHeight:      m.StartHeight,
		EndHeight:        m.EndHeight,
		Status:           entities.ProposalStatus(m.Status),
		YesVotes:         m.YesVotes,
		NoVotes:          m.NoVotes,
		AbstainVotes:     m.AbstainVotes,
		TotalVotes:       m.TotalVotes,
		ExecutionPayload: m.ExecutionPayload,
		SharesReleased:   m.SharesReleased,
	}
}

func proposalModelFromEntity(proposal entities.Proposal) proposalModel {
	return proposalModel{
		ID:               proposal.ID,
		PropertyID:       proposal.PropertyID,
		Proposer:         proposal.Proposer,
		Title:            proposal.Title,
		Description:      proposal.Description,
		StartHeight:      proposal.StartHeight,
		EndHeight:        proposal.EndHeight,
		Status:           string(proposal.Status),
		YesVotes:         proposal.YesVotes,
		NoVotes:          proposal.NoVotes,
		AbstainVotes:     proposal.AbstainVotes,
		TotalVotes:       proposal.TotalVotes,
		ExecutionPayload: proposal.ExecutionPayload,
		SharesReleased:   proposal.SharesReleased,
	}
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		ProposalID:  m.ProposalID,
		Voter:       m.Voter,
		Choice:      entities.VoteChoice(m.Choice),
		VotingPower: m.VotingPower,
		VoteHeight:  m.VoteHeight,
	}
}

func toProposalEntities(rows []proposalModel) []entities.Proposal {
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}
