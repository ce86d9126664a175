package application

import (
	"context"
	"log/slog"
	"strings"

	"propshare/contexts/property-core/share-ledger-service/domain/entities"
	domainerrors "propshare/contexts/property-core/share-ledger-service/domain/errors"
	"propshare/contexts/property-core/share-ledger-service/ports"
)

// Service owns every mutation of property share ledgers. All guards run
// before the first write, so a failed operation leaves no partial state.
type Service struct {
	Repo    ports.Repository
	Access  ports.AccessControl
	Heights ports.Heights

	// LockAuthority is the single principal permitted to lock and unlock
	// shares. Bootstrap wires the governance module account here.
	LockAuthority string

	// Decimals applies to every ledger this service initializes.
	Decimals uint8

	Logger *slog.Logger
}

type InitializeInput struct {
	PropertyID    uint64
	Name          string
	Symbol        string
	TotalShares   uint64
	MinInvestment uint64
	MetadataURI   string
}

// Initialize creates the ledger for a property and mints the entire supply to
// the initializing admin, who acts as platform treasury and is auto-whitelisted.
func (s Service) Initialize(ctx context.Context, caller string, input InitializeInput) (entities.Ledger, error) {
	logger := ResolveLogger(s.Logger)
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Ledger{}, domainerrors.ErrInvalidPrincipal
	}
	if input.TotalShares == 0 {
		return entities.Ledger{}, domainerrors.ErrInvalidAmount
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return entities.Ledger{}, err
	}
	if !isAdmin {
		return entities.Ledger{}, domainerrors.ErrNotAuthorized
	}

	if _, exists, err := s.Repo.GetLedger(ctx, input.PropertyID); err != nil {
		return entities.Ledger{}, err
	} else if exists {
		return entities.Ledger{}, domainerrors.ErrAlreadyInitialized
	}

	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Ledger{}, err
	}

	supply := input.TotalShares * pow10(s.Decimals)
	ledger := entities.Ledger{
		PropertyID:    input.PropertyID,
		Name:          strings.TrimSpace(input.Name),
		Symbol:        strings.TrimSpace(input.Symbol),
		Decimals:      s.Decimals,
		TotalSupply:   supply,
		MinInvestment: input.MinInvestment,
		Treasury:      caller,
		MetadataURI:   strings.TrimSpace(input.MetadataURI),
		CreatedHeight: height,
		Initialized:   true,
	}
	if err := s.Repo.SaveLedger(ctx, ledger); err != nil {
		return entities.Ledger{}, err
	}
	if err := s.Repo.SaveHoldings(ctx, entities.Holding{
		PropertyID:  input.PropertyID,
		Principal:   caller,
		Balance:     supply,
		Whitelisted: true,
	}); err != nil {
		return entities.Ledger{}, err
	}

	logger.Info("share ledger initialized",
		"event", "ledger_initialized",
		"module", "property-core/share-ledger-service",
		"layer", "application",
		"property_id", input.PropertyID,
		"symbol", ledger.Symbol,
		"total_supply", supply,
		"treasury", caller,
	)
	return ledger, nil
}

// Transfer moves shares between investors under the full rule set: the caller
// must be the sender, the recipient must be whitelisted, the amount must meet
// the minimum investment, and locked shares never move.
func (s Service) Transfer(ctx context.Context, caller string, propertyID uint64, sender string, recipient string, amount uint64, memo string) error {
	logger := ResolveLogger(s.Logger)
	caller = strings.TrimSpace(caller)
	sender = strings.TrimSpace(sender)
	recipient = strings.TrimSpace(recipient)
	if caller == "" || sender == "" || recipient == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	if caller != sender {
		return domainerrors.ErrNotAuthorized
	}
	// A self-transfer would load the same holding twice and save the
	// credited copy over the debited one, minting shares.
	if sender == recipient {
		return domainerrors.ErrSelfTransfer
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}

	ledger, exists, err := s.Repo.GetLedger(ctx, propertyID)
	if err != nil {
		return err
	}
	if !exists {
		return domainerrors.ErrLedgerNotFound
	}
	if amount < ledger.MinInvestment {
		return domainerrors.ErrBelowMinimum
	}

	from, _, err := s.Repo.GetHolding(ctx, propertyID, sender)
	if err != nil {
		return err
	}
	to, _, err := s.Repo.GetHolding(ctx, propertyID, recipient)
	if err != nil {
		return err
	}
	if !to.Whitelisted {
		return domainerrors.ErrNotWhitelisted
	}
	if from.Available() < amount {
		return domainerrors.ErrSharesLocked
	}

	from.Balance -= amount
	to.PropertyID = propertyID
	to.Principal = recipient
	to.Balance += amount
	if err := s.Repo.SaveHoldings(ctx, from, to); err != nil {
		return err
	}

	logger.Info("shares transferred",
		"event", "ledger_shares_transferred",
		"module", "property-core/share-ledger-service",
		"layer", "application",
		"property_id", propertyID,
		"sender", sender,
		"recipient", recipient,
		"amount", amount,
		"memo", strings.TrimSpace(memo),
	)
	return nil
}

// EscrowTransfer moves shares for custody legs of marketplace and escrow
// settlement. It enforces available balance only; whitelist and minimum
// investment were checked when the order or escrow was created.
func (s Service) EscrowTransfer(ctx context.Context, propertyID uint64, from string, to string, amount uint64) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	if from == to {
		return domainerrors.ErrSelfTransfer
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}
	if _, exists, err := s.Repo.GetLedger(ctx, propertyID); err != nil {
		return err
	} else if !exists {
		return domainerrors.ErrLedgerNotFound
	}

	source, _, err := s.Repo.GetHolding(ctx, propertyID, from)
	if err != nil {
		return err
	}
	if source.Available() < amount {
		return domainerrors.ErrSharesLocked
	}
	dest, _, err := s.Repo.GetHolding(ctx, propertyID, to)
	if err != nil {
		return err
	}

	source.Balance -= amount
	dest.PropertyID = propertyID
	dest.Principal = to
	dest.Balance += amount
	return s.Repo.SaveHoldings(ctx, source, dest)
}

// LockShares reserves shares against double-use during an active vote.
func (s Service) LockShares(ctx context.Context, caller string, propertyID uint64, principal string, amount uint64) error {
	if err := s.requireLockAuthority(caller); err != nil {
		return err
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}
	holding, found, err := s.Repo.GetHolding(ctx, propertyID, strings.TrimSpace(principal))
	if err != nil {
		return err
	}
	if !found || holding.Available() < amount {
		return domainerrors.ErrSharesLocked
	}
	holding.Locked += amount
	return s.Repo.SaveHoldings(ctx, holding)
}

func (s Service) UnlockShares(ctx context.Context, caller string, propertyID uint64, principal string, amount uint64) error {
	if err := s.requireLockAuthority(caller); err != nil {
		return err
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}
	holding, found, err := s.Repo.GetHolding(ctx, propertyID, strings.TrimSpace(principal))
	if err != nil {
		return err
	}
	if !found || holding.Locked < amount {
		return domainerrors.ErrInsufficientLocked
	}
	holding.Locked -= amount
	return s.Repo.SaveHoldings(ctx, holding)
}

// AddToWhitelist is open to admins and KYC verifiers.
func (s Service) AddToWhitelist(ctx context.Context, caller string, propertyID uint64, principal string) error {
	caller = strings.TrimSpace(caller)
	principal = strings.TrimSpace(principal)
	if caller == "" || principal == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		isVerifier, err := s.Access.IsKycVerifier(ctx, caller)
		if err != nil {
			return err
		}
		if !isVerifier {
			return domainerrors.ErrNotAuthorized
		}
	}
	if _, exists, err := s.Repo.GetLedger(ctx, propertyID); err != nil {
		return err
	} else if !exists {
		return domainerrors.ErrLedgerNotFound
	}

	holding, _, err := s.Repo.GetHolding(ctx, propertyID, principal)
	if err != nil {
		return err
	}
	holding.PropertyID = propertyID
	holding.Principal = principal
	holding.Whitelisted = true
	if err := s.Repo.SaveHoldings(ctx, holding); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("principal whitelisted",
		"event", "ledger_whitelist_added",
		"module", "property-core/share-ledger-service",
		"layer", "application",
		"property_id", propertyID,
		"principal", principal,
		"verified_by", caller,
	)
	return nil
}

// RemoveFromWhitelist is admin-only.
func (s Service) RemoveFromWhitelist(ctx context.Context, caller string, propertyID uint64, principal string) error {
	caller = strings.TrimSpace(caller)
	principal = strings.TrimSpace(principal)
	if caller == "" || principal == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrNotAuthorized
	}
	holding, found, err := s.Repo.GetHolding(ctx, propertyID, principal)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrLedgerNotFound
	}
	holding.Whitelisted = false
	return s.Repo.SaveHoldings(ctx, holding)
}

// Burn destroys shares from the caller's own available balance and shrinks
// total supply by the same amount, preserving conservation.
func (s Service) Burn(ctx context.Context, caller string, propertyID uint64, amount uint64) error {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrNotAuthorized
	}

	ledger, exists, err := s.Repo.GetLedger(ctx, propertyID)
	if err != nil {
		return err
	}
	if !exists {
		return domainerrors.ErrLedgerNotFound
	}
	holding, _, err := s.Repo.GetHolding(ctx, propertyID, caller)
	if err != nil {
		return err
	}
	if holding.Available() < amount {
		return domainerrors.ErrSharesLocked
	}

	holding.Balance -= amount
	ledger.TotalSupply -= amount
	if err := s.Repo.SaveHoldings(ctx, holding); err != nil {
		return err
	}
	if err := s.Repo.SaveLedger(ctx, ledger); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("shares burned",
		"event", "ledger_shares_burned",
		"module", "property-core/share-ledger-service",
		"layer", "application",
		"property_id", propertyID,
		"principal", caller,
		"amount", amount,
		"total_supply", ledger.TotalSupply,
	)
	return nil
}

// SetMinInvestment is admin-only.
func (s Service) SetMinInvestment(ctx context.Context, caller string, propertyID uint64, amount uint64) error {
	isAdmin, err := s.Access.IsAdmin(ctx, strings.TrimSpace(caller))
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrNotAuthorized
	}
	ledger, exists, err := s.Repo.GetLedger(ctx, propertyID)
	if err != nil {
		return err
	}
	if !exists {
		return domainerrors.ErrLedgerNotFound
	}
	ledger.MinInvestment = amount
	return s.Repo.SaveLedger(ctx, ledger)
}

func (s Service) GetLedger(ctx context.Context, propertyID uint64) (entities.Ledger, error) {
	ledger, exists, err := s.Repo.GetLedger(ctx, propertyID)
	if err != nil {
		return entities.Ledger{}, err
	}
	if !exists {
		return entities.Ledger{}, domainerrors.ErrLedgerNotFound
	}
	return ledger, nil
}

func (s Service) BalanceOf(ctx context.Context, propertyID uint64, principal string) (uint64, error) {
	holding, _, err := s.Repo.GetHolding(ctx, propertyID, strings.TrimSpace(principal))
	if err != nil {
		return 0, err
	}
	return holding.Balance, nil
}

func (s Service) AvailableOf(ctx context.Context, propertyID uint64, principal string) (uint64, error) {
	holding, _, err := s.Repo.GetHolding(ctx, propertyID, strings.TrimSpace(principal))
	if err != nil {
		return 0, err
	}
	return holding.Available(), nil
}

func (s Service) LockedOf(ctx context.Context, propertyID uint64, principal string) (uint64, error) {
	holding, _, err := s.Repo.GetHolding(ctx, propertyID, strings.TrimSpace(principal))
	if err != nil {
		return 0, err
	}
	return holding.Locked, nil
}

func (s Service) TotalSupply(ctx context.Context, propertyID uint64) (uint64, error) {
	ledger, exists, err := s.Repo.GetLedger(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, domainerrors.ErrLedgerNotFound
	}
	return ledger.TotalSupply, nil
}

func (s Service) IsWhitelisted(ctx context.Context, propertyID uint64, principal string) (bool, error) {
	holding, _, err := s.Repo.GetHolding(ctx, propertyID, strings.TrimSpace(principal))
	if err != nil {
		return false, err
	}
	return holding.Whitelisted, nil
}

func (s Service) Holders(ctx context.Context, propertyID uint64) ([]entities.Holding, error) {
	return s.Repo.ListHoldings(ctx, propertyID)
}

func (s Service) requireLockAuthority(caller string) error {
	if strings.TrimSpace(caller) == "" || strings.TrimSpace(caller) != strings.TrimSpace(s.LockAuthority) {
		return domainerrors.ErrNotLockAuthority
	}
	return nil
}

func pow10(exp uint8) uint64 {
	result := uint64(1)
	for i := uint8(0); i < exp; i++ {
		result *= 10
	}
	return result
}
