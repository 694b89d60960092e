package models

import "time"

// Preset is a named bundle of visual style parameters applied to a stamp
// before generation. Presets are read-only from the application's
// perspective; the collection is seeded with defaults on first empty read.
type Preset struct {
	ID           string                 `json:"id" firestore:"-"` // Document ID
	Label        string                 `json:"label" firestore:"label"`
	Description  string                 `json:"description,omitempty" firestore:"description,omitempty"`
	ThumbnailURL string                 `json:"thumbnailUrl,omitempty" firestore:"thumbnailUrl,omitempty"`
	Config       map[string]interface{} `json:"config,omitempty" firestore:"config,omitempty"`
	CreatedAt    time.Time              `json:"createdAt" firestore:"createdAt"`
}
