package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"stampflow-backend-go/internal/models"
)

const imagesCollection = "images"

// firestoreImageRepository implements the ImageRepository interface using Firestore.
type firestoreImageRepository struct {
	client *firestore.Client
}

// NewFirestoreImageRepository creates a new instance of firestoreImageRepository.
func NewFirestoreImageRepository(client *firestore.Client) ImageRepository {
	return &firestoreImageRepository{client: client}
}

// CreateBatch writes the given image documents in a single batched write and
// returns the generated document IDs in input order.
func (r *firestoreImageRepository) CreateBatch(ctx context.Context, images []*models.Image) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	bw := r.client.BulkWriter(ctx)
	ids := make([]string, 0, len(images))
	jobs := make([]*firestore.BulkWriterJob, 0, len(images))
	now := time.Now().UTC()
	for _, img := range images {
		if img.StampID == "" {
			return nil, errors.New("image stampId cannot be empty for CreateBatch operation")
		}
		img.CreatedAt = now
		docRef := r.client.Collection(imagesCollection).NewDoc()
		img.ID = docRef.ID
		job, err := bw.Create(docRef, img)
		if err != nil {
			return nil, fmt.Errorf("failed to enqueue image create for stamp '%s': %w", img.StampID, err)
		}
		jobs = append(jobs, job)
		ids = append(ids, docRef.ID)
	}
	bw.End()

	// End only flushes; per-write failures surface through the job results.
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return nil, fmt.Errorf("failed to create image '%s' for stamp '%s': %w", ids[i], images[i].StampID, err)
		}
	}
	return ids, nil
}

// ListByStamp returns the images of the given type for a stamp, ordered by
// sequence. An empty imageType returns all images for the stamp.
func (r *firestoreImageRepository) ListByStamp(ctx context.Context, stampID string, imageType models.ImageType) ([]*models.Image, error) {
	if stampID == "" {
		return nil, errors.New("stampID cannot be empty for ListByStamp operation")
	}

	query := r.client.Collection(imagesCollection).Where("stampId", "==", stampID)
	if imageType != "" {
		query = query.Where("type", "==", string(imageType))
	}
	iter := query.OrderBy("sequence", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var images []*models.Image
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list images for stamp '%s': %w", stampID, err)
		}
		var img models.Image
		if err := snap.DataTo(&img); err != nil {
			return nil, fmt.Errorf("failed to decode image data for stamp '%s': %w", stampID, err)
		}
		img.ID = snap.Ref.ID
		images = append(images, &img)
	}
	return images, nil
}

// ReplaceProcessed swaps the stamp's processed image set in one transaction:
// every existing processed document is deleted and the new set created, so a
// regeneration never leaves a mix of old and new outputs behind.
func (r *firestoreImageRepository) ReplaceProcessed(ctx context.Context, stampID string, images []*models.Image) ([]string, error) {
	if stampID == "" {
		return nil, errors.New("stampID cannot be empty for ReplaceProcessed operation")
	}

	var ids []string
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing := tx.Documents(r.client.Collection(imagesCollection).
			Where("stampId", "==", stampID).
			Where("type", "==", string(models.ImageTypeProcessed)))
		var staleRefs []*firestore.DocumentRef
		for {
			snap, err := existing.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to query processed images for stamp '%s': %w", stampID, err)
			}
			staleRefs = append(staleRefs, snap.Ref)
		}

		for _, ref := range staleRefs {
			if err := tx.Delete(ref); err != nil {
				return fmt.Errorf("failed to delete stale processed image '%s': %w", ref.ID, err)
			}
		}

		ids = ids[:0]
		now := time.Now().UTC()
		for _, img := range images {
			img.StampID = stampID
			img.Type = models.ImageTypeProcessed
			img.CreatedAt = now
			docRef := r.client.Collection(imagesCollection).NewDoc()
			img.ID = docRef.ID
			if err := tx.Create(docRef, img); err != nil {
				return fmt.Errorf("failed to create processed image for stamp '%s': %w", stampID, err)
			}
			ids = append(ids, docRef.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
