package api

import (
	"time"

	"stampflow-backend-go/internal/models"
)

// ErrorResponse is the error envelope for every failed request. Error holds
// the taxonomy category; Message carries the human-readable detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadResponse is returned by POST /images/upload.
type UploadResponse struct {
	StampID       string   `json:"stampId"`
	UploadedCount int      `json:"uploadedCount"`
	ImageIDs      []string `json:"imageIds"`
}

// SetPresetResponse is returned by POST /stamps/set-preset.
type SetPresetResponse struct {
	StampID  string             `json:"stampId"`
	PresetID string             `json:"presetId"`
	Status   models.StampStatus `json:"status"`
}

// StampActionResponse is returned by the generate and submit endpoints.
type StampActionResponse struct {
	StampID string             `json:"stampId"`
	Status  models.StampStatus `json:"status"`
}

// RetryResponse is returned by POST /stamps/retry.
type RetryResponse struct {
	StampID    string             `json:"stampId"`
	Status     models.StampStatus `json:"status"`
	RetryCount int                `json:"retryCount"`
}

// StampStatusResponse is returned by GET /stamps/:id/status; it is the shape
// clients poll while background work runs.
type StampStatusResponse struct {
	StampID    string             `json:"stampId"`
	Status     models.StampStatus `json:"status"`
	RetryCount int                `json:"retryCount"`
	PresetID   string             `json:"presetId,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// PreviewResponse is returned by GET /stamps/:id/preview.
type PreviewResponse struct {
	StampID         string             `json:"stampId"`
	Status          models.StampStatus `json:"status"`
	ProcessedImages []*models.Image    `json:"processedImages"`
	MainImage       *models.Image      `json:"mainImage,omitempty"`
}

// PresetListResponse is returned by GET /presets/list.
type PresetListResponse struct {
	Presets []*models.Preset `json:"presets"`
}

// BalanceResponse is returned by GET /tokens/balance and POST /tokens/consume.
type BalanceResponse struct {
	Balance int `json:"balance"`
}

// TokenHistoryResponse is returned by GET /tokens/history.
type TokenHistoryResponse struct {
	Transactions []*models.TokenTransaction `json:"transactions"`
}

// CheckoutSessionResponse is returned by POST /tokens/checkout-session.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// WebhookAckResponse acknowledges a processed webhook delivery.
type WebhookAckResponse struct {
	Received bool `json:"received"`
}
