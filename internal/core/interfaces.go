package core

import (
	"context"

	"stampflow-backend-go/internal/models"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID. If the user doesn't exist it is
	// created; if it exists, profile fields are refreshed from the token
	// claims when they changed. Returns the user and whether it was created.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
}

// UploadedImage carries one file from a multipart upload into the service layer.
type UploadedImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StampPreview aggregates the images shown on the preview screen.
type StampPreview struct {
	Stamp           *models.Stamp
	ProcessedImages []*models.Image
	MainImage       *models.Image
}

// StampService drives the stamp lifecycle. Every method that touches an
// existing stamp checks, in order: the stamp exists, the caller owns it, and
// the current status is in the trigger's allowed set — inside the same
// transaction that performs the transition.
type StampService interface {
	// CreateFromUpload stores the originals, creates the stamp in
	// "generating" and starts background generation. Returns the stamp and
	// the created image document IDs.
	CreateFromUpload(ctx context.Context, userID string, uploads []UploadedImage) (*models.Stamp, []string, error)
	// SetPreset snapshots the preset config onto the stamp, moves it to
	// "generating" and restarts background generation.
	SetPreset(ctx context.Context, userID, stampID, presetID string) (*models.Stamp, error)
	// Generate begins generation for a stamp still in pending_upload or
	// pending_generate.
	Generate(ctx context.Context, userID, stampID string) (*models.Stamp, error)
	// Submit begins marketplace submission for a generated stamp.
	Submit(ctx context.Context, userID, stampID string) (*models.Stamp, error)
	// Retry re-submits a failed stamp and increments its retry count.
	Retry(ctx context.Context, userID, stampID string) (*models.Stamp, error)
	// GetOwned returns the stamp after the ownership check.
	GetOwned(ctx context.Context, userID, stampID string) (*models.Stamp, error)
	// Preview returns the processed images ordered by sequence plus the main
	// image, if one exists.
	Preview(ctx context.Context, userID, stampID string) (*StampPreview, error)
}

// TokenService manages the per-user token balance and its audit ledger.
type TokenService interface {
	// Consume debits amount tokens against a stamp. Fails with
	// ErrInsufficientBalance (balance untouched) when the balance cannot
	// cover it. Returns the new balance.
	Consume(ctx context.Context, userID, stampID string, amount int) (int, error)
	// Credit adds purchased tokens, keyed by the external payment session ID.
	// Returns the new balance.
	Credit(ctx context.Context, userID string, amount int, packageID, stripeSessionID string) (int, error)
	Balance(ctx context.Context, userID string) (int, error)
	// History returns the user's most recent ledger entries, newest first.
	History(ctx context.Context, userID string, limit int) ([]*models.TokenTransaction, error)
}

// PresetService exposes the preset catalog, seeding defaults on first read.
type PresetService interface {
	List(ctx context.Context) ([]*models.Preset, error)
	GetByID(ctx context.Context, presetID string) (*models.Preset, error)
}

// GeneratedImage is one output of a generation run.
type GeneratedImage struct {
	URL      string
	Filename string
}

// Generator produces the processed images for a stamp. The production
// implementation is a placeholder with artificial delays standing in for a
// real image-generation API.
type Generator interface {
	Generate(ctx context.Context, stampID string, originalURLs []string) ([]GeneratedImage, error)
}

// Submitter pushes a generated stamp to the external marketplace. The
// production implementation is a placeholder standing in for a
// browser-automation pipeline. A failed marketplace session check is
// reported as ErrSessionExpired; any other error is a generic failure.
type Submitter interface {
	Submit(ctx context.Context, stampID string) error
}

// CheckoutSession is the mock of a Stripe Checkout session.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WebhookEvent is the decoded payload of a verified payment webhook.
type WebhookEvent struct {
	Type      string // e.g. "checkout.session.completed"
	SessionID string
	UserID    string
	PackageID string
	Tokens    int
}

// PaymentProvider models the Stripe Checkout integration. The checkout side
// is mocked; webhook signature verification is real.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, userID string, pkg *TokenPackage) (*CheckoutSession, error)
	// VerifyWebhook checks the Stripe-Signature header against the payload
	// and decodes the event. Fails with ErrInvalidSignature before any state
	// is touched.
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
