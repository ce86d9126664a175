package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"propshare/contexts/trading-core/escrow-service/domain/entities"
	domainerrors "propshare/contexts/trading-core/escrow-service/domain/errors"
	"propshare/contexts/trading-core/escrow-service/ports"
	"propshare/internal/shared/events"
)

// Service owns the escrow state machine. Buyer funds enter custody atomically
// with record creation and leave only on a terminal transition.
type Service struct {
	Repo    ports.Repository
	Ledger  ports.ShareLedger
	Funds   ports.Funds
	Access  ports.AccessControl
	Heights ports.Heights
	Outbox  ports.OutboxWriter
	IDGen   ports.IDGenerator

	// CustodyAccount holds deposited funds and funded shares.
	CustodyAccount string
	// PlatformAccount receives the retained payment of completed share
	// purchases.
	PlatformAccount string

	Logger *slog.Logger
}

type SharePurchaseInput struct {
	PropertyID       uint64
	ShareQuantity    uint64
	PricePerShare    uint64
	ExpirationHeight uint64
}

// InitiateSharePurchase opens a share-purchase escrow and deposits the full
// purchase price from the buyer into custody.
func (s Service) InitiateSharePurchase(ctx context.Context, caller string, input SharePurchaseInput) (entities.Escrow, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Escrow{}, domainerrors.ErrNotAuthorized
	}
	if input.ShareQuantity == 0 || input.PricePerShare == 0 {
		return entities.Escrow{}, domainerrors.ErrInvalidEscrowInput
	}
	amount := input.ShareQuantity * input.PricePerShare
	escrow, err := s.openEscrow(ctx, caller, entities.Escrow{
		Type:             entities.EscrowTypeSharePurchase,
		PropertyID:       input.PropertyID,
		Buyer:            caller,
		Amount:           amount,
		ShareQuantity:    input.ShareQuantity,
		ExpirationHeight: input.ExpirationHeight,
	})
	if err != nil {
		return entities.Escrow{}, err
	}
	s.appendEscrowEvent(ctx, "escrow.initiated", escrow)
	s.logTransition("share purchase escrow initiated", "escrow_initiated", escrow)
	return escrow, nil
}

type PropertySaleInput struct {
	PropertyID       uint64
	Seller           string
	Amount           uint64
	ExpirationHeight uint64
}

// InitiatePropertySale opens a property-sale escrow: the buyer deposits the
// full price, which is released to the named seller on completion.
func (s Service) InitiatePropertySale(ctx context.Context, caller string, input PropertySaleInput) (entities.Escrow, error) {
	caller = strings.TrimSpace(caller)
	seller := strings.TrimSpace(input.Seller)
	if caller == "" {
		return entities.Escrow{}, domainerrors.ErrNotAuthorized
	}
	if seller == "" || input.Amount == 0 {
		return entities.Escrow{}, domainerrors.ErrInvalidEscrowInput
	}
	escrow, err := s.openEscrow(ctx, caller, entities.Escrow{
		Type:             entities.EscrowTypePropertySale,
		PropertyID:       input.PropertyID,
		Buyer:            caller,
		Seller:           seller,
		Amount:           input.Amount,
		ExpirationHeight: input.ExpirationHeight,
	})
	if err != nil {
		return entities.Escrow{}, err
	}
	s.appendEscrowEvent(ctx, "escrow.initiated", escrow)
	s.logTransition("property sale escrow initiated", "escrow_initiated", escrow)
	return escrow, nil
}

// FundEscrowShares places the share leg of a share purchase into custody.
// Release fails until this has happened, so the depositor is recorded for
// refund.
func (s Service) FundEscrowShares(ctx context.Context, caller string, escrowID uint64) error {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return domainerrors.ErrNotAuthorized
	}
	escrow, err := s.Repo.GetEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if escrow.Type != entities.EscrowTypeSharePurchase {
		return domainerrors.ErrWrongEscrowType
	}
	if escrow.Terminal() {
		return domainerrors.ErrInvalidTransition
	}
	if escrow.SharesFunded {
		return domainerrors.ErrSharesAlreadyFunded
	}
	if err := s.requireNotExpired(ctx, escrow); err != nil {
		return err
	}

	if err := s.Ledger.EscrowTransfer(ctx, escrow.PropertyID, caller, s.CustodyAccount, escrow.ShareQuantity); err != nil {
		return err
	}
	escrow.SharesFunded = true
	escrow.SharesDepositor = caller
	if err := s.Repo.SaveEscrow(ctx, escrow); err != nil {
		return err
	}
	s.logTransition("escrow shares funded", "escrow_shares_funded", escrow)
	return nil
}

// VerifyEscrow moves Pending to Verified. Open to KYC verifiers and admins.
func (s Service) VerifyEscrow(ctx context.Context, caller string, escrowID uint64) (entities.Escrow, error) {
	caller = strings.TrimSpace(caller)
	if err := s.requireVerifier(ctx, caller); err != nil {
		return entities.Escrow{}, err
	}
	escrow, err := s.Repo.GetEscrow(ctx, escrowID)
	if err != nil {
		return entities.Escrow{}, err
	}
	if escrow.Status != entities.EscrowStatusPending {
		return entities.Escrow{}, domainerrors.ErrInvalidTransition
	}
	if err := s.requireNotExpired(ctx, escrow); err != nil {
		return entities.Escrow{}, err
	}
	escrow.Status = entities.EscrowStatusVerified
	if err := s.Repo.SaveEscrow(ctx, escrow); err != nil {
		return entities.Escrow{}, err
	}
	s.logTransition("escrow verified", "escrow_verified", escrow)
	return escrow, nil
}

// ReleaseFunds completes a verified escrow. Share purchases deliver the funded
// shares to the buyer and retain the payment for the platform; property sales
// pay the recorded seller.
func (s Service) ReleaseFunds(ctx context.Context, caller string, escrowID uint64) (entities.Escrow, error) {
	caller = strings.TrimSpace(caller)
	if err := s.requireAdminOrArbiter(ctx, caller); err != nil {
		return entities.Escrow{}, err
	}
	escrow, err := s.Repo.GetEscrow(ctx, escrowID)
	if err != nil {
		return entities.Escrow{}, err
	}
	if escrow.Status != entities.EscrowStatusVerified {
		return entities.Escrow{}, domainerrors.ErrInvalidTransition
	}

	switch escrow.Type {
	case entities.EscrowTypeSharePurchase:
		if !escrow.SharesFunded {
			return entities.Escrow{}, domainerrors.ErrSharesNotFunded
		}
		if err := s.Ledger.EscrowTransfer(ctx, escrow.PropertyID, s.CustodyAccount, escrow.Buyer, escrow.ShareQuantity); err != nil {
			return entities.Escrow{}, err
		}
		if err := s.Funds.Transfer(ctx, s.CustodyAccount, s.PlatformAccount, escrow.Amount); err != nil {
			return entities.Escrow{}, err
		}
	case entities.EscrowTypePropertySale:
		if escrow.Seller == "" {
			return entities.Escrow{}, domainerrors.ErrNoSellerRecorded
		}
		if err := s.Funds.Transfer(ctx, s.CustodyAccount, escrow.Seller, escrow.Amount); err != nil {
			return entities.Escrow{}, err
		}
	default:
		return entities.Escrow{}, domainerrors.ErrWrongEscrowType
	}

	escrow.Status = entities.EscrowStatusCompleted
	if err := s.Repo.SaveEscrow(ctx, escrow); err != nil {
		return entities.Escrow{}, err
	}
	s.appendEscrowEvent(ctx, "escrow.released", escrow)
	s.logTransition("escrow funds released", "escrow_released", escrow)
	return escrow, nil
}

// RefundBuyer returns the deposit (and any funded shares) from any
// non-terminal state. Open to admins and arbiters.
func (s Service) RefundBuyer(ctx context.Context, caller string, escrowID uint64) (entities.Escrow, error) {
	caller = strings.TrimSpace(caller)
	if err := s.requireAdminOrArbiter(ctx, caller); err != nil {
		return entities.Escrow{}, err
	}
	escrow, err := s.Repo.GetEscrow(ctx, escrowID)
	if err != nil {
		return entities.Escrow{}, err
	}
	if escrow.Terminal() {
		return entities.Escrow{}, domainerrors.ErrInvalidTransition
	}
	return s.refund(ctx, escrow, "escrow_refunded")
}

// DisputeEscrow assigns an arbiter and freezes the escrow in Disputed. Only
// the buyer or the recorded seller may raise a dispute, and the assigned
// principal must hold the arbiter role.
func (s Service) DisputeEscrow(ctx context.Context, caller string, escrowID uint64, arbiter string) (entities.Escrow, error) {
	caller = strings.TrimSpace(caller)
	arbiter = strings.TrimSpace(arbiter)
	if caller == "" || arbiter == "" {
		return entities.Escrow{}, domainerrors.ErrInvalidEscrowInput
	}
	escrow, err := s.Repo.GetEscrow(ctx, escrowID)
	if err != nil {
		return entities.Escrow{}, err
	}
	if caller != escrow.Buyer && (escrow.Seller == "" || caller != escrow.Seller) {
		return entities.Escrow{}, domainerrors.ErrNotAuthorized
	}
	if escrow.Terminal() {
		return entities.Escrow{}, domainerrors.ErrInvalidTransition
	}
	isArbiter, err := s.Access.IsArbiter(ctx, arbiter)
	if err != nil {
		return entities.Escrow{}, err
	}
	if !isArbiter {
		return entities.Escrow{}, domainerrors.ErrNotArbiter
	}

	escrow.Arbiter = arbiter
	escrow.Status = entities.EscrowStatusDisputed
	if err := s.Repo.SaveEscrow(ctx, escrow); err != nil {
		return entities.Escrow{}, err
	}
	s.appendEscrowEvent(ctx, "escrow.disputed", escrow)
	s.logTransition("escrow disputed", "escrow_disputed", escrow)
	return escrow, nil
}

// ResolveDispute is restricted to the assigned arbiter. Releasing to the
// buyer refunds the deposit; releasing to the seller requires one to be
// recorded.
func (s Service) ResolveDispute(ctx context.Context, caller string, escrowID uint64, releaseToBuyer bool) (entities.Escrow, error) {
	caller = strings.TrimSpace(caller)
	escrow, err := s.Repo.GetEscrow(ctx, escrowID)
	if err != nil {
		return entities.Escrow{}, err
	}
	if escrow.Status != entities.EscrowStatusDisputed {
		return entities.Escrow{}, domainerrors.ErrInvalidTransition
	}
	if caller == "" || caller != escrow.Arbiter {
		return entities.Escrow{}, domainerrors.ErrNotAuthorized
	}

	if releaseToBuyer {
		return s.refund(ctx, escrow, "escrow_dispute_refunded")
	}
	if escrow.Seller == "" {
		return entities.Escrow{}, domainerrors.ErrNoSellerRecorded
	}
	if err := s.Funds.Transfer(ctx, s.CustodyAccount, escrow.Seller, escrow.Amount); err != nil {
		return entities.Escrow{}, err
	}
	if escrow.SharesFunded {
		if err := s.Ledger.EscrowTransfer(ctx, escrow.PropertyID, s.CustodyAccount, escrow.SharesDepositor, escrow.ShareQuantity); err != nil {
			return entities.Escrow{}, err
		}
	}
	escrow.Status = entities.EscrowStatusCompleted
	if err := s.Repo.SaveEscrow(ctx, escrow); err != nil {
		return entities.Escrow{}, err
	}
	s.appendEscrowEvent(ctx, "escrow.released", escrow)
	s.logTransition("escrow dispute resolved for seller", "escrow_dispute_released", escrow)
	return escrow, nil
}

// CancelExpiredEscrow refunds an expired, non-terminal escrow. Anyone may
// trigger it once the expiration height is reached.
func (s Service) CancelExpiredEscrow(ctx context.Context, escrowID uint64) (entities.Escrow, error) {
	escrow, err := s.Repo.GetEscrow(ctx, escrowID)
	if err != nil {
		return entities.Escrow{}, err
	}
	if escrow.Terminal() {
		return entities.Escrow{}, domainerrors.ErrInvalidTransition
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Escrow{}, err
	}
	if height < escrow.ExpirationHeight {
		return entities.Escrow{}, domainerrors.ErrEscrowNotExpired
	}
	return s.refund(ctx, escrow, "escrow_expired_refunded")
}

// ExpireEscrows refunds every expired, non-terminal escrow. Workers call this
// on a schedule.
func (s Service) ExpireEscrows(ctx context.Context) (int, error) {
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}
	expired, err := s.Repo.ListExpiredActive(ctx, height)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, escrow := range expired {
		if _, err := s.refund(ctx, escrow, "escrow_expired_refunded"); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s Service) GetEscrow(ctx context.Context, escrowID uint64) (entities.Escrow, error) {
	return s.Repo.GetEscrow(ctx, escrowID)
}

func (s Service) EscrowsByProperty(ctx context.Context, propertyID uint64) ([]entities.Escrow, error) {
	return s.Repo.ListByProperty(ctx, propertyID)
}

func (s Service) openEscrow(ctx context.Context, buyer string, escrow entities.Escrow) (entities.Escrow, error) {
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Escrow{}, err
	}
	if escrow.ExpirationHeight <= height {
		return entities.Escrow{}, domainerrors.ErrInvalidExpiration
	}
	balance, err := s.Funds.Balance(ctx, buyer)
	if err != nil {
		return entities.Escrow{}, err
	}
	if balance < escrow.Amount {
		return entities.Escrow{}, domainerrors.ErrInsufficientFunds
	}
	id, err := s.Repo.NextEscrowID(ctx)
	if err != nil {
		return entities.Escrow{}, err
	}

	if err := s.Funds.Transfer(ctx, buyer, s.CustodyAccount, escrow.Amount); err != nil {
		return entities.Escrow{}, err
	}
	escrow.ID = id
	escrow.Status = entities.EscrowStatusPending
	escrow.CreatedHeight = height
	if err := s.Repo.SaveEscrow(ctx, escrow); err != nil {
		return entities.Escrow{}, err
	}
	return escrow, nil
}

func (s Service) refund(ctx context.Context, escrow entities.Escrow, event string) (entities.Escrow, error) {
	if err := s.Funds.Transfer(ctx, s.CustodyAccount, escrow.Buyer, escrow.Amount); err != nil {
		return entities.Escrow{}, err
	}
	if escrow.SharesFunded {
		if err := s.Ledger.EscrowTransfer(ctx, escrow.PropertyID, s.CustodyAccount, escrow.SharesDepositor, escrow.ShareQuantity); err != nil {
			return entities.Escrow{}, err
		}
	}
	escrow.Status = entities.EscrowStatusRefunded
	if err := s.Repo.SaveEscrow(ctx, escrow); err != nil {
		return entities.Escrow{}, err
	}
	s.appendEscrowEvent(ctx, "escrow.refunded", escrow)
	s.logTransition("escrow refunded", event, escrow)
	return escrow, nil
}

func (s Service) requireNotExpired(ctx context.Context, escrow entities.Escrow) error {
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return err
	}
	if height >= escrow.ExpirationHeight {
		return domainerrors.ErrEscrowExpired
	}
	return nil
}

func (s Service) requireVerifier(ctx context.Context, caller string) error {
	if caller == "" {
		return domainerrors.ErrNotAuthorized
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if isAdmin {
		return nil
	}
	isVerifier, err := s.Access.IsKycVerifier(ctx, caller)
	if err != nil {
		return err
	}
	if !isVerifier {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

func (s Service) requireAdminOrArbiter(ctx context.Context, caller string) error {
	if caller == "" {
		return domainerrors.ErrNotAuthorized
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if isAdmin {
		return nil
	}
	isArbiter, err := s.Access.IsArbiter(ctx, caller)
	if err != nil {
		return err
	}
	if !isArbiter {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

type escrowEventPayload struct {
	EscrowID      uint64 `json:"escrow_id"`
	EscrowType    string `json:"escrow_type"`
	PropertyID    uint64 `json:"property_id"`
	Buyer         string `json:"buyer"`
	Seller        string `json:"seller,omitempty"`
	Amount        uint64 `json:"amount"`
	ShareQuantity uint64 `json:"share_quantity,omitempty"`
	Status        string `json:"status"`
}

func (s Service) appendEscrowEvent(ctx context.Context, eventType string, escrow entities.Escrow) {
	if s.Outbox == nil || s.IDGen == nil {
		return
	}
	logger := ResolveLogger(s.Logger)
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("outbox event id generation failed",
			"event", "outbox_append_failed",
			"module", "trading-core/escrow-service",
			"layer", "application",
			"error", err,
		)
		return
	}
	envelope, err := events.New(eventID, eventType, "escrow", strconv.FormatUint(escrow.ID, 10), time.Now(), escrowEventPayload{
		EscrowID:      escrow.ID,
		EscrowType:    string(escrow.Type),
		PropertyID:    escrow.PropertyID,
		Buyer:         escrow.Buyer,
		Seller:        escrow.Seller,
		Amount:        escrow.Amount,
		ShareQuantity: escrow.ShareQuantity,
		Status:        string(escrow.Status),
	})
	if err != nil {
		logger.Error("outbox payload marshal failed",
			"event", "outbox_append_failed",
			"module", "trading-core/escrow-service",
			"layer", "application",
			"error", err,
		)
		return
	}
	envelope.SourceService = "escrow-service"
	envelope.PartitionKey = strconv.FormatUint(escrow.PropertyID, 10)
	if err := s.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Error("outbox append failed",
			"event", "outbox_append_failed",
			"module", "trading-core/escrow-service",
			"layer", "application",
			"escrow_id", escrow.ID,
			"error", err,
		)
	}
}

func (s Service) logTransition(msg string, event string, escrow entities.Escrow) {
	ResolveLogger(s.Logger).Info(msg,
		"event", event,
		"module", "trading-core/escrow-service",
		"layer", "application",
		"escrow_id", escrow.ID,
		"escrow_type", escrow.Type,
		"property_id", escrow.PropertyID,
		"buyer", escrow.Buyer,
		"amount", escrow.Amount,
		"status", escrow.Status,
	)
}
