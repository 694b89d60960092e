package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"stampflow-backend-go/internal/models"
)

const stampsCollection = "stamps"

// firestoreStampRepository implements the StampRepository interface using Firestore.
type firestoreStampRepository struct {
	client *firestore.Client
}

// NewFirestoreStampRepository creates a new instance of firestoreStampRepository.
func NewFirestoreStampRepository(client *firestore.Client) StampRepository {
	return &firestoreStampRepository{client: client}
}

// Create adds a new stamp document with an auto-generated ID and returns it.
func (r *firestoreStampRepository) Create(ctx context.Context, stamp *models.Stamp) (string, error) {
	if stamp.UserID == "" {
		return "", errors.New("stamp owner cannot be empty for Create operation")
	}
	now := time.Now().UTC()
	stamp.CreatedAt = now
	stamp.UpdatedAt = now

	docRef := r.client.Collection(stampsCollection).NewDoc()
	if _, err := docRef.Create(ctx, stamp); err != nil {
		return "", fmt.Errorf("failed to create stamp for user '%s': %w", stamp.UserID, err)
	}
	stamp.ID = docRef.ID
	return docRef.ID, nil
}

// GetByID retrieves a stamp document from Firestore by its ID.
func (r *firestoreStampRepository) GetByID(ctx context.Context, stampID string) (*models.Stamp, error) {
	if stampID == "" {
		return nil, errors.New("stampID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(stampsCollection).Doc(stampID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("stamp with ID '%s' not found: %w", stampID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get stamp with ID '%s': %w", stampID, err)
	}

	var stamp models.Stamp
	if err := docSnap.DataTo(&stamp); err != nil {
		return nil, fmt.Errorf("failed to decode stamp data for ID '%s': %w", stampID, err)
	}
	stamp.ID = docSnap.Ref.ID
	return &stamp, nil
}

// Mutate loads the stamp, applies fn to it and writes it back, all inside one
// Firestore transaction. fn returning an error aborts the transaction with
// that error and nothing is written. UpdatedAt is refreshed on every
// successful mutation.
func (r *firestoreStampRepository) Mutate(ctx context.Context, stampID string, fn func(*models.Stamp) error) (*models.Stamp, error) {
	if stampID == "" {
		return nil, errors.New("stampID cannot be empty for Mutate operation")
	}

	docRef := r.client.Collection(stampsCollection).Doc(stampID)
	var result models.Stamp

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("stamp with ID '%s' not found: %w", stampID, ErrNotFound)
			}
			return fmt.Errorf("failed to read stamp '%s': %w", stampID, err)
		}

		var stamp models.Stamp
		if err := snap.DataTo(&stamp); err != nil {
			return fmt.Errorf("failed to decode stamp data for ID '%s': %w", stampID, err)
		}
		stamp.ID = snap.Ref.ID

		if err := fn(&stamp); err != nil {
			return err
		}

		stamp.UpdatedAt = time.Now().UTC()
		result = stamp
		return tx.Set(docRef, &stamp)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
