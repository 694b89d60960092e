package core

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stampflow-backend-go/internal/db"
	"stampflow-backend-go/internal/models"
)

// stampService implements the StampService interface. Transitions run inside
// StampRepository.Mutate transactions; the generation and submission side
// effects run after commit in fire-and-forget goroutines with no durable
// linkage back to the triggering request. A crash between commit and
// completion leaves the stamp parked in generating/submitting until the user
// acts again; clients discover completion by polling the status endpoint.
type stampService struct {
	stampRepo     db.StampRepository
	imageRepo     db.ImageRepository
	presetService PresetService
	objectStore   db.ObjectStore
	generator     Generator
	submitter     Submitter
	logger        *zap.Logger
}

// NewStampService creates a new StampService instance.
func NewStampService(
	stampRepo db.StampRepository,
	imageRepo db.ImageRepository,
	presetService PresetService,
	objectStore db.ObjectStore,
	generator Generator,
	submitter Submitter,
	logger *zap.Logger,
) StampService {
	return &stampService{
		stampRepo:     stampRepo,
		imageRepo:     imageRepo,
		presetService: presetService,
		objectStore:   objectStore,
		generator:     generator,
		submitter:     submitter,
		logger:        logger,
	}
}

// requireOwner enforces that only the owning user may read or transition a stamp.
func requireOwner(stamp *models.Stamp, userID string) error {
	if stamp.UserID != userID {
		return fmt.Errorf("%w: stamp '%s'", ErrForbidden, stamp.ID)
	}
	return nil
}

// requireStatus enforces the transition table's precondition set.
func requireStatus(stamp *models.Stamp, allowed ...models.StampStatus) error {
	for _, status := range allowed {
		if stamp.Status == status {
			return nil
		}
	}
	return &InvalidStatusError{Current: stamp.Status, Allowed: allowed}
}

// wrapStampErr translates repository not-found into the service sentinel.
func wrapStampErr(stampID string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: id '%s'", ErrStampNotFound, stampID)
	}
	return err
}

// CreateFromUpload stores the originals, creates the stamp and starts
// background generation. The stamp is created directly in "generating":
// once images exist there is nothing left to wait for in "pending_upload".
func (s *stampService) CreateFromUpload(ctx context.Context, userID string, uploads []UploadedImage) (*models.Stamp, []string, error) {
	if len(uploads) == 0 {
		return nil, nil, errors.New("at least one image is required")
	}

	stamp := &models.Stamp{
		UserID: userID,
		Status: models.StatusGenerating,
	}
	stampID, err := s.stampRepo.Create(ctx, stamp)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stamp for user '%s': %w", userID, err)
	}

	images := make([]*models.Image, 0, len(uploads))
	originalURLs := make([]string, 0, len(uploads))
	for i, upload := range uploads {
		objectName := fmt.Sprintf("stamps/%s/original_%d_%s%s", stampID, i, uuid.NewString(), path.Ext(upload.Filename))
		url, saveErr := s.objectStore.Save(ctx, objectName, upload.ContentType, upload.Data)
		if saveErr != nil {
			return nil, nil, fmt.Errorf("failed to store original image '%s': %w", upload.Filename, saveErr)
		}
		images = append(images, &models.Image{
			StampID:  stampID,
			Type:     models.ImageTypeOriginal,
			URL:      url,
			Sequence: i,
			Filename: upload.Filename,
		})
		originalURLs = append(originalURLs, url)
	}

	imageIDs, err := s.imageRepo.CreateBatch(ctx, images)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record original images for stamp '%s': %w", stampID, err)
	}

	s.startGeneration(stampID, originalURLs)
	return stamp, imageIDs, nil
}

// SetPreset snapshots the preset config onto the stamp, moves it to
// "generating" from any status and restarts generation with the new look.
func (s *stampService) SetPreset(ctx context.Context, userID, stampID, presetID string) (*models.Stamp, error) {
	preset, err := s.presetService.GetByID(ctx, presetID)
	if err != nil {
		return nil, err
	}

	stamp, err := s.stampRepo.Mutate(ctx, stampID, func(st *models.Stamp) error {
		if err := requireOwner(st, userID); err != nil {
			return err
		}
		st.PresetID = preset.ID
		// Denormalized copy, not a live reference: later preset edits must
		// not affect stamps that already snapshotted it.
		cfg := make(map[string]interface{}, len(preset.Config))
		for k, v := range preset.Config {
			cfg[k] = v
		}
		st.PresetConfig = cfg
		st.Status = models.StatusGenerating
		return nil
	})
	if err != nil {
		return nil, wrapStampErr(stampID, err)
	}

	s.regenerate(stamp.ID)
	return stamp, nil
}

// Generate begins generation for a stamp that has not started yet.
func (s *stampService) Generate(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	stamp, err := s.stampRepo.Mutate(ctx, stampID, func(st *models.Stamp) error {
		if err := requireOwner(st, userID); err != nil {
			return err
		}
		if err := requireStatus(st, models.StatusPendingUpload, models.StatusPendingGenerate); err != nil {
			return err
		}
		st.Status = models.StatusGenerating
		return nil
	})
	if err != nil {
		return nil, wrapStampErr(stampID, err)
	}

	s.regenerate(stamp.ID)
	return stamp, nil
}

// Submit begins marketplace submission for a generated stamp.
func (s *stampService) Submit(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	stamp, err := s.stampRepo.Mutate(ctx, stampID, func(st *models.Stamp) error {
		if err := requireOwner(st, userID); err != nil {
			return err
		}
		if err := requireStatus(st, models.StatusGenerated); err != nil {
			return err
		}
		st.Status = models.StatusSubmitting
		return nil
	})
	if err != nil {
		return nil, wrapStampErr(stampID, err)
	}

	s.startSubmission(stamp.ID)
	return stamp, nil
}

// Retry re-submits a failed stamp. The retry count is incremented here and
// nowhere else, so it only ever grows.
func (s *stampService) Retry(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	stamp, err := s.stampRepo.Mutate(ctx, stampID, func(st *models.Stamp) error {
		if err := requireOwner(st, userID); err != nil {
			return err
		}
		if err := requireStatus(st, models.StatusFailed); err != nil {
			return err
		}
		st.Status = models.StatusSubmitting
		st.RetryCount++
		return nil
	})
	if err != nil {
		return nil, wrapStampErr(stampID, err)
	}

	s.startSubmission(stamp.ID)
	return stamp, nil
}

// GetOwned returns the stamp after the ownership check.
func (s *stampService) GetOwned(ctx context.Context, userID, stampID string) (*models.Stamp, error) {
	stamp, err := s.stampRepo.GetByID(ctx, stampID)
	if err != nil {
		return nil, wrapStampErr(stampID, err)
	}
	if err := requireOwner(stamp, userID); err != nil {
		return nil, err
	}
	return stamp, nil
}

// Preview returns the processed images ordered by sequence plus the main
// image, if one exists.
func (s *stampService) Preview(ctx context.Context, userID, stampID string) (*StampPreview, error) {
	stamp, err := s.GetOwned(ctx, userID, stampID)
	if err != nil {
		return nil, err
	}

	processed, err := s.imageRepo.ListByStamp(ctx, stampID, models.ImageTypeProcessed)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed images for stamp '%s': %w", stampID, err)
	}
	mains, err := s.imageRepo.ListByStamp(ctx, stampID, models.ImageTypeMain)
	if err != nil {
		return nil, fmt.Errorf("failed to list main image for stamp '%s': %w", stampID, err)
	}

	preview := &StampPreview{
		Stamp:           stamp,
		ProcessedImages: processed,
	}
	if len(mains) > 0 {
		preview.MainImage = mains[0]
	}
	return preview, nil
}

// regenerate re-reads the original image URLs and starts a generation run.
func (s *stampService) regenerate(stampID string) {
	go func() {
		ctx := context.Background()
		originals, err := s.imageRepo.ListByStamp(ctx, stampID, models.ImageTypeOriginal)
		if err != nil {
			s.logger.Error("generation aborted: could not load originals",
				zap.String("stampId", stampID), zap.Error(err))
			s.finishGeneration(ctx, stampID, nil, err)
			return
		}
		urls := make([]string, len(originals))
		for i, img := range originals {
			urls[i] = img.URL
		}
		s.runGeneration(ctx, stampID, urls)
	}()
}

// startGeneration runs a generation for already-known original URLs.
func (s *stampService) startGeneration(stampID string, originalURLs []string) {
	go func() {
		s.runGeneration(context.Background(), stampID, originalURLs)
	}()
}

func (s *stampService) runGeneration(ctx context.Context, stampID string, originalURLs []string) {
	results, err := s.generator.Generate(ctx, stampID, originalURLs)
	s.finishGeneration(ctx, stampID, results, err)
}

// finishGeneration applies the generation outcome: on success the processed
// image set is replaced (idempotent regeneration) before the status flips to
// generated; on error the stamp fails. Either transition is only valid from
// "generating" — a stale run that lost a race to a newer trigger is dropped
// before it touches the processed set, and the guarded status flip below
// rejects whatever slips through that first check.
func (s *stampService) finishGeneration(ctx context.Context, stampID string, results []GeneratedImage, genErr error) {
	stamp, err := s.stampRepo.GetByID(ctx, stampID)
	if err != nil {
		s.logger.Error("failed to load stamp for generation outcome",
			zap.String("stampId", stampID), zap.Error(err))
		return
	}
	if stamp.Status != models.StatusGenerating {
		s.logger.Warn("dropping stale generation result",
			zap.String("stampId", stampID), zap.String("currentStatus", string(stamp.Status)))
		return
	}

	if genErr == nil {
		images := make([]*models.Image, len(results))
		for i, res := range results {
			images[i] = &models.Image{
				StampID:  stampID,
				Type:     models.ImageTypeProcessed,
				URL:      res.URL,
				Sequence: i,
				Filename: res.Filename,
			}
		}
		if _, err := s.imageRepo.ReplaceProcessed(ctx, stampID, images); err != nil {
			s.logger.Error("failed to store processed images",
				zap.String("stampId", stampID), zap.Error(err))
			genErr = err
		}
	}

	target := models.StatusGenerated
	if genErr != nil {
		target = models.StatusFailed
	}
	_, err = s.stampRepo.Mutate(ctx, stampID, func(st *models.Stamp) error {
		if err := requireStatus(st, models.StatusGenerating); err != nil {
			return err
		}
		st.Status = target
		return nil
	})
	if err != nil {
		var statusErr *InvalidStatusError
		if errors.As(err, &statusErr) {
			s.logger.Warn("dropping stale generation result",
				zap.String("stampId", stampID), zap.String("currentStatus", string(statusErr.Current)))
			return
		}
		s.logger.Error("failed to record generation outcome",
			zap.String("stampId", stampID), zap.Error(err))
		return
	}
	if genErr != nil {
		s.logger.Warn("generation failed", zap.String("stampId", stampID), zap.Error(genErr))
	}
}

// startSubmission runs the mock marketplace submission and applies its
// outcome. A session check failure parks the stamp in session_expired; any
// other error fails it.
func (s *stampService) startSubmission(stampID string) {
	go func() {
		ctx := context.Background()
		submitErr := s.submitter.Submit(ctx, stampID)

		target := models.StatusSubmitted
		switch {
		case errors.Is(submitErr, ErrSessionExpired):
			target = models.StatusSessionExpired
		case submitErr != nil:
			target = models.StatusFailed
		}

		_, err := s.stampRepo.Mutate(ctx, stampID, func(st *models.Stamp) error {
			if err := requireStatus(st, models.StatusSubmitting); err != nil {
				return err
			}
			st.Status = target
			return nil
		})
		if err != nil {
			s.logger.Error("failed to record submission outcome",
				zap.String("stampId", stampID), zap.Error(err))
			return
		}
		if submitErr != nil {
			s.logger.Warn("submission failed",
				zap.String("stampId", stampID), zap.String("status", string(target)), zap.Error(submitErr))
		}
	}()
}
