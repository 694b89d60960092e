package core

import (
	"context"
	"fmt"
	"time"

	"stampflow-backend-go/internal/models"
)

// mockGenerator is a placeholder implementation of the Generator interface.
// It stands in for a real image-generation API: it waits a fixed artificial
// delay per image and returns placeholder URLs instead of rendered files.
type mockGenerator struct {
	delayPerImage time.Duration
}

// NewMockGenerator creates a Generator that simulates generation with the
// given per-image delay.
func NewMockGenerator(delayPerImage time.Duration) Generator {
	return &mockGenerator{delayPerImage: delayPerImage}
}

// Generate produces exactly ProcessedImageCount placeholder images for the
// stamp. The context cancels the simulated work between images.
func (g *mockGenerator) Generate(ctx context.Context, stampID string, originalURLs []string) ([]GeneratedImage, error) {
	if len(originalURLs) == 0 {
		return nil, fmt.Errorf("generation for stamp '%s' has no original images", stampID)
	}

	results := make([]GeneratedImage, 0, models.ProcessedImageCount)
	for i := 0; i < models.ProcessedImageCount; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.delayPerImage):
		}
		filename := fmt.Sprintf("processed_%d.png", i)
		results = append(results, GeneratedImage{
			URL:      fmt.Sprintf("https://placeholder.stampflow.dev/%s/%s", stampID, filename),
			Filename: filename,
		})
	}
	return results, nil
}
