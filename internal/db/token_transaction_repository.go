package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"stampflow-backend-go/internal/models"
)

// firestoreTokenTransactionRepository implements TokenTransactionRepository
// using Firestore. The collection is append-only; writes happen inside
// UserRepository.AdjustBalance transactions.
type firestoreTokenTransactionRepository struct {
	client *firestore.Client
}

// NewFirestoreTokenTransactionRepository creates a new instance of
// firestoreTokenTransactionRepository.
func NewFirestoreTokenTransactionRepository(client *firestore.Client) TokenTransactionRepository {
	return &firestoreTokenTransactionRepository{client: client}
}

// ListByUser returns the most recent ledger entries for a user, newest first.
func (r *firestoreTokenTransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.TokenTransaction, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}
	if limit <= 0 {
		limit = 50
	}

	iter := r.client.Collection(tokenTransactionsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var entries []*models.TokenTransaction
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list token transactions for user '%s': %w", userID, err)
		}
		var entry models.TokenTransaction
		if err := snap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode token transaction '%s': %w", snap.Ref.ID, err)
		}
		entry.ID = snap.Ref.ID
		entries = append(entries, &entry)
	}
	return entries, nil
}
