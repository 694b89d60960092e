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

const (
	usersCollection             = "users"
	tokenTransactionsCollection = "token_transactions"
)

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document to Firestore. The user.ID (Firebase Auth
// UID) is used as the Firestore document ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, err)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document from Firestore by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// Update overwrites the stored profile fields of an existing user document.
// The token balance is not touched here; balance changes go through
// AdjustBalance only.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Update(ctx, []firestore.Update{
		{Path: "email", Value: user.Email},
		{Path: "displayName", Value: user.DisplayName},
		{Path: "photoURL", Value: user.PhotoURL},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", user.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// AdjustBalance moves the user's token balance by delta and appends the
// paired ledger entry in the same Firestore transaction. The read, the
// balance check and both writes are atomic; concurrent adjustments retry
// under Firestore's optimistic concurrency.
func (r *firestoreUserRepository) AdjustBalance(ctx context.Context, userID string, delta int, entry *models.TokenTransaction) (int, error) {
	if userID == "" {
		return 0, errors.New("userID cannot be empty for AdjustBalance operation")
	}

	userRef := r.client.Collection(usersCollection).Doc(userID)
	var newBalance int

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(userRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
			}
			return fmt.Errorf("failed to read user '%s': %w", userID, err)
		}

		var user models.User
		if err := snap.DataTo(&user); err != nil {
			return fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
		}

		newBalance = user.TokenBalance + delta
		if newBalance < 0 {
			return fmt.Errorf("balance %d cannot cover %d: %w", user.TokenBalance, -delta, ErrInsufficientBalance)
		}

		if err := tx.Update(userRef, []firestore.Update{
			{Path: "tokenBalance", Value: newBalance},
			{Path: "updatedAt", Value: time.Now().UTC()},
		}); err != nil {
			return fmt.Errorf("failed to update balance for user '%s': %w", userID, err)
		}

		if entry != nil {
			entry.UserID = userID
			entry.CreatedAt = time.Now().UTC()
			entryRef := r.client.Collection(tokenTransactionsCollection).NewDoc()
			entry.ID = entryRef.ID
			if err := tx.Create(entryRef, entry); err != nil {
				return fmt.Errorf("failed to append token transaction for user '%s': %w", userID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}
