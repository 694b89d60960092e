package core

import (
	"context"
	"errors"
	"fmt"

	"stampflow-backend-go/internal/db"
	"stampflow-backend-go/internal/models"
)

// TokenPackage is one purchasable bundle of tokens.
type TokenPackage struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Tokens int    `json:"tokens"`
	// PriceCents is what the mock checkout session would charge.
	PriceCents int `json:"priceCents"`
}

// TokenPackages is the built-in catalog of purchasable bundles.
var TokenPackages = map[string]*TokenPackage{
	"starter":  {ID: "starter", Label: "Starter", Tokens: 40, PriceCents: 500},
	"standard": {ID: "standard", Label: "Standard", Tokens: 100, PriceCents: 1000},
	"studio":   {ID: "studio", Label: "Studio", Tokens: 280, PriceCents: 2500},
}

// tokenService implements the TokenService interface.
type tokenService struct {
	userRepo db.UserRepository
	txRepo   db.TokenTransactionRepository
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(userRepo db.UserRepository, txRepo db.TokenTransactionRepository) TokenService {
	return &tokenService{
		userRepo: userRepo,
		txRepo:   txRepo,
	}
}

// Consume debits amount tokens from the user and appends the consume ledger
// entry in the same transaction. The stored ledger amount is negative.
func (s *tokenService) Consume(ctx context.Context, userID, stampID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("consume amount must be positive, got %d", amount)
	}

	entry := &models.TokenTransaction{
		Type:    models.TokenTransactionConsume,
		Amount:  -amount,
		StampID: stampID,
	}
	balance, err := s.userRepo.AdjustBalance(ctx, userID, -amount, entry)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return 0, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		case errors.Is(err, db.ErrInsufficientBalance):
			return 0, fmt.Errorf("%w: needed %d", ErrInsufficientBalance, amount)
		default:
			return 0, fmt.Errorf("failed to consume %d tokens for user '%s': %w", amount, userID, err)
		}
	}
	return balance, nil
}

// Credit adds purchased tokens and appends the purchase ledger entry, keyed
// by the external payment session ID.
//
// Known gap, kept deliberately: a replayed stripeSessionID is not
// deduplicated and would credit twice.
func (s *tokenService) Credit(ctx context.Context, userID string, amount int, packageID, stripeSessionID string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	entry := &models.TokenTransaction{
		Type:            models.TokenTransactionPurchase,
		Amount:          amount,
		PackageID:       packageID,
		StripeSessionID: stripeSessionID,
	}
	balance, err := s.userRepo.AdjustBalance(ctx, userID, amount, entry)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return 0, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		}
		return 0, fmt.Errorf("failed to credit %d tokens for user '%s': %w", amount, userID, err)
	}
	return balance, nil
}

// Balance returns the user's current token balance.
func (s *tokenService) Balance(ctx context.Context, userID string) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return 0, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		}
		return 0, fmt.Errorf("failed to get balance for user '%s': %w", userID, err)
	}
	return user.TokenBalance, nil
}

// History returns the user's most recent ledger entries, newest first. The
// repository applies a default page size when limit is not positive.
func (s *tokenService) History(ctx context.Context, userID string, limit int) ([]*models.TokenTransaction, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	entries, err := s.txRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list token transactions for user '%s': %w", userID, err)
	}
	return entries, nil
}
