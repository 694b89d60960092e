package db

import (
	"context"

	"stampflow-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// AdjustBalance applies delta to the user's token balance and appends the
	// paired ledger entry, both inside one transaction. A debit that would
	// leave the balance negative fails with ErrInsufficientBalance and
	// mutates nothing. Returns the new balance.
	AdjustBalance(ctx context.Context, userID string, delta int, entry *models.TokenTransaction) (int, error)
}

// StampRepository defines the interface for stamp data storage operations.
type StampRepository interface {
	Create(ctx context.Context, stamp *models.Stamp) (string, error) // Returns new stamp ID
	GetByID(ctx context.Context, stampID string) (*models.Stamp, error)
	// Mutate runs fn over the stamp inside one transaction and writes the
	// mutated document back with a refreshed UpdatedAt. An error from fn
	// aborts the transaction and is returned unchanged, so callers can use
	// fn for precondition checks (ownership, status) with no intermediate
	// state ever observable.
	Mutate(ctx context.Context, stampID string, fn func(*models.Stamp) error) (*models.Stamp, error)
}

// ImageRepository defines the interface for image data storage operations.
type ImageRepository interface {
	CreateBatch(ctx context.Context, images []*models.Image) ([]string, error) // Returns new image IDs
	ListByStamp(ctx context.Context, stampID string, imageType models.ImageType) ([]*models.Image, error)
	// ReplaceProcessed deletes every existing processed image for the stamp
	// and creates the given set, inside one transaction, so regeneration is
	// idempotent.
	ReplaceProcessed(ctx context.Context, stampID string, images []*models.Image) ([]string, error)
}

// PresetRepository defines the interface for preset data storage operations.
type PresetRepository interface {
	GetByID(ctx context.Context, presetID string) (*models.Preset, error)
	List(ctx context.Context) ([]*models.Preset, error)
	CreateBatch(ctx context.Context, presets []*models.Preset) error
}

// TokenTransactionRepository defines read access to the append-only token
// ledger. Writes happen through UserRepository.AdjustBalance so the balance
// change and the audit entry share a transaction.
type TokenTransactionRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.TokenTransaction, error)
}

// ObjectStore abstracts the image object storage (Firebase Storage in
// production).
type ObjectStore interface {
	// Save writes data under objectName and returns the public URL.
	Save(ctx context.Context, objectName string, contentType string, data []byte) (string, error)
}
