package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"stampflow-backend-go/internal/models"
)

const presetsCollection = "presets"

// firestorePresetRepository implements the PresetRepository interface using Firestore.
type firestorePresetRepository struct {
	client *firestore.Client
}

// NewFirestorePresetRepository creates a new instance of firestorePresetRepository.
func NewFirestorePresetRepository(client *firestore.Client) PresetRepository {
	return &firestorePresetRepository{client: client}
}

// GetByID retrieves a preset document by its ID.
func (r *firestorePresetRepository) GetByID(ctx context.Context, presetID string) (*models.Preset, error) {
	if presetID == "" {
		return nil, errors.New("presetID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(presetsCollection).Doc(presetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("preset with ID '%s' not found: %w", presetID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get preset with ID '%s': %w", presetID, err)
	}

	var preset models.Preset
	if err := docSnap.DataTo(&preset); err != nil {
		return nil, fmt.Errorf("failed to decode preset data for ID '%s': %w", presetID, err)
	}
	preset.ID = docSnap.Ref.ID
	return &preset, nil
}

// List returns all presets ordered by label.
func (r *firestorePresetRepository) List(ctx context.Context) ([]*models.Preset, error) {
	iter := r.client.Collection(presetsCollection).OrderBy("label", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var presets []*models.Preset
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list presets: %w", err)
		}
		var preset models.Preset
		if err := snap.DataTo(&preset); err != nil {
			return nil, fmt.Errorf("failed to decode preset data for ID '%s': %w", snap.Ref.ID, err)
		}
		preset.ID = snap.Ref.ID
		presets = append(presets, &preset)
	}
	return presets, nil
}

// CreateBatch writes the given presets, keeping any pre-assigned IDs so the
// seeded defaults have stable, human-readable document IDs.
func (r *firestorePresetRepository) CreateBatch(ctx context.Context, presets []*models.Preset) error {
	if len(presets) == 0 {
		return nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(presets))
	now := time.Now().UTC()
	for _, preset := range presets {
		preset.CreatedAt = now
		var docRef *firestore.DocumentRef
		if preset.ID != "" {
			docRef = r.client.Collection(presetsCollection).Doc(preset.ID)
		} else {
			docRef = r.client.Collection(presetsCollection).NewDoc()
			preset.ID = docRef.ID
		}
		job, err := bw.Create(docRef, preset)
		if err != nil {
			return fmt.Errorf("failed to enqueue preset create '%s': %w", preset.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	// End only flushes; per-write failures surface through the job results.
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("failed to create preset '%s': %w", presets[i].ID, err)
		}
	}
	return nil
}
