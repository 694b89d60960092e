package models

import "time"

// TokenTransactionType classifies ledger entries.
type TokenTransactionType string

const (
	TokenTransactionPurchase TokenTransactionType = "purchase"
	TokenTransactionConsume  TokenTransactionType = "consume"
)

// TokenTransaction is an append-only audit entry for a token balance change.
// It is written in the same Firestore transaction as the balance mutation it
// records, and is never updated or deleted.
type TokenTransaction struct {
	ID              string               `json:"id" firestore:"-"` // Document ID, auto-generated
	UserID          string               `json:"userId" firestore:"userId"`
	Type            TokenTransactionType `json:"type" firestore:"type"`
	Amount          int                  `json:"amount" firestore:"amount"` // positive for purchase, negative for consume
	PackageID       string               `json:"packageId,omitempty" firestore:"packageId,omitempty"`
	StampID         string               `json:"stampId,omitempty" firestore:"stampId,omitempty"`
	StripeSessionID string               `json:"stripeSessionId,omitempty" firestore:"stripeSessionId,omitempty"`
	CreatedAt       time.Time            `json:"createdAt" firestore:"createdAt"`
}
