package models

import "time"

// StampStatus is the lifecycle state of a stamp job.
type StampStatus string

const (
	StatusPendingUpload   StampStatus = "pending_upload"
	StatusPendingGenerate StampStatus = "pending_generate"
	StatusGenerating      StampStatus = "generating"
	StatusGenerated       StampStatus = "generated"
	StatusSubmitting      StampStatus = "submitting"
	StatusSubmitted       StampStatus = "submitted"
	StatusFailed          StampStatus = "failed"
	StatusSessionExpired  StampStatus = "session_expired"
)

// Stamp represents a single image generation and marketplace submission job.
type Stamp struct {
	ID           string                 `json:"id" firestore:"-"` // Document ID, auto-generated
	UserID       string                 `json:"userId" firestore:"userId"` // owner, immutable after creation
	Status       StampStatus            `json:"status" firestore:"status"`
	RetryCount   int                    `json:"retryCount" firestore:"retryCount"` // only ever incremented, only on retry
	PresetID     string                 `json:"presetId,omitempty" firestore:"presetId,omitempty"`
	PresetConfig map[string]interface{} `json:"presetConfig,omitempty" firestore:"presetConfig,omitempty"` // snapshot, not a live reference
	CreatedAt    time.Time              `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt" firestore:"updatedAt"`
}
