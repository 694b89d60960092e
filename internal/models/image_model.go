package models

import "time"

// ImageType distinguishes the files attached to a stamp.
type ImageType string

const (
	ImageTypeOriginal  ImageType = "original"  // uploaded by the user
	ImageTypeProcessed ImageType = "processed" // produced by generation
	ImageTypeMain      ImageType = "main"      // the designated primary image, if any
)

// ProcessedImageCount is the number of processed images a completed
// generation produces for a stamp.
const ProcessedImageCount = 8

// Image represents one file associated with a stamp.
type Image struct {
	ID        string    `json:"id" firestore:"-"` // Document ID, auto-generated
	StampID   string    `json:"stampId" firestore:"stampId"`
	Type      ImageType `json:"type" firestore:"type"`
	URL       string    `json:"url" firestore:"url"`
	Sequence  int       `json:"sequence" firestore:"sequence"` // display order within a type
	Filename  string    `json:"filename,omitempty" firestore:"filename,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
