package core

import (
	"context"
	"errors"
	"fmt"

	"stampflow-backend-go/internal/db"
	"stampflow-backend-go/internal/models"
)

// defaultPresets seeds the catalog on the first empty read. IDs are stable so
// clients can hardcode references.
func defaultPresets() []*models.Preset {
	return []*models.Preset{
		{
			ID:          "classic",
			Label:       "Classic",
			Description: "Clean outlines with a flat postal frame",
			Config: map[string]interface{}{
				"style":  "classic",
				"border": "perforated",
				"tone":   "neutral",
			},
		},
		{
			ID:          "vintage",
			Label:       "Vintage",
			Description: "Faded colors and a weathered paper texture",
			Config: map[string]interface{}{
				"style":  "vintage",
				"border": "deckled",
				"tone":   "sepia",
			},
		},
		{
			ID:          "pop",
			Label:       "Pop",
			Description: "Saturated colors with bold halftone shading",
			Config: map[string]interface{}{
				"style":  "pop",
				"border": "solid",
				"tone":   "vivid",
			},
		},
		{
			ID:          "mono",
			Label:       "Monochrome",
			Description: "High-contrast single-ink engraving look",
			Config: map[string]interface{}{
				"style":  "mono",
				"border": "perforated",
				"tone":   "ink",
			},
		},
	}
}

// presetService implements the PresetService interface.
type presetService struct {
	presetRepo db.PresetRepository
}

// NewPresetService creates a new PresetService instance.
func NewPresetService(presetRepo db.PresetRepository) PresetService {
	return &presetService{
		presetRepo: presetRepo,
	}
}

// List returns the preset catalog, seeding the defaults when the collection
// is empty.
func (s *presetService) List(ctx context.Context) ([]*models.Preset, error) {
	presets, err := s.presetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	if len(presets) > 0 {
		return presets, nil
	}

	seeded := defaultPresets()
	if err := s.presetRepo.CreateBatch(ctx, seeded); err != nil {
		return nil, fmt.Errorf("failed to seed default presets: %w", err)
	}
	return seeded, nil
}

// GetByID retrieves a preset by its ID.
func (s *presetService) GetByID(ctx context.Context, presetID string) (*models.Preset, error) {
	preset, err := s.presetRepo.GetByID(ctx, presetID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrPresetNotFound, presetID)
		}
		return nil, fmt.Errorf("failed to get preset '%s': %w", presetID, err)
	}
	return preset, nil
}
