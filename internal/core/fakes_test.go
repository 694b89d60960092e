package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stampflow-backend-go/internal/db"
	"stampflow-backend-go/internal/models"
)

// In-memory fakes for the db interfaces. All fakes are safe for concurrent
// use because the service under test runs background goroutines.

type fakeStampRepo struct {
	mu     sync.Mutex
	stamps map[string]*models.Stamp
	nextID int
}

func newFakeStampRepo() *fakeStampRepo {
	return &fakeStampRepo{stamps: make(map[string]*models.Stamp)}
}

func (r *fakeStampRepo) Create(ctx context.Context, stamp *models.Stamp) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("stamp-%d", r.nextID)
	now := time.Now().UTC()
	stamp.ID = id
	stamp.CreatedAt = now
	stamp.UpdatedAt = now
	clone := *stamp
	r.stamps[id] = &clone
	return id, nil
}

func (r *fakeStampRepo) GetByID(ctx context.Context, stampID string) (*models.Stamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp, ok := r.stamps[stampID]
	if !ok {
		return nil, fmt.Errorf("stamp '%s': %w", stampID, db.ErrNotFound)
	}
	clone := *stamp
	return &clone, nil
}

func (r *fakeStampRepo) Mutate(ctx context.Context, stampID string, fn func(*models.Stamp) error) (*models.Stamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp, ok := r.stamps[stampID]
	if !ok {
		return nil, fmt.Errorf("stamp '%s': %w", stampID, db.ErrNotFound)
	}
	working := *stamp
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now().UTC()
	r.stamps[stampID] = &working
	clone := working
	return &clone, nil
}

// seed inserts a stamp directly, bypassing the service.
func (r *fakeStampRepo) seed(stamp *models.Stamp) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *stamp
	r.stamps[stamp.ID] = &clone
}

type fakeImageRepo struct {
	mu     sync.Mutex
	images map[string]*models.Image
	nextID int
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[string]*models.Image)}
}

func (r *fakeImageRepo) CreateBatch(ctx context.Context, images []*models.Image) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(images))
	for _, img := range images {
		r.nextID++
		img.ID = fmt.Sprintf("image-%d", r.nextID)
		img.CreatedAt = time.Now().UTC()
		clone := *img
		r.images[img.ID] = &clone
		ids = append(ids, img.ID)
	}
	return ids, nil
}

func (r *fakeImageRepo) ListByStamp(ctx context.Context, stampID string, imageType models.ImageType) ([]*models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Image
	for _, img := range r.images {
		if img.StampID != stampID {
			continue
		}
		if imageType != "" && img.Type != imageType {
			continue
		}
		clone := *img
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Sequence < result[j].Sequence })
	return result, nil
}

func (r *fakeImageRepo) ReplaceProcessed(ctx context.Context, stampID string, images []*models.Image) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, img := range r.images {
		if img.StampID == stampID && img.Type == models.ImageTypeProcessed {
			delete(r.images, id)
		}
	}
	ids := make([]string, 0, len(images))
	for _, img := range images {
		r.nextID++
		img.ID = fmt.Sprintf("image-%d", r.nextID)
		img.StampID = stampID
		img.Type = models.ImageTypeProcessed
		img.CreatedAt = time.Now().UTC()
		clone := *img
		r.images[img.ID] = &clone
		ids = append(ids, img.ID)
	}
	return ids, nil
}

type fakeUserRepo struct {
	mu          sync.Mutex
	users       map[string]*models.User
	ledger      []*models.TokenTransaction
	updateCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user '%s': %w", userID, db.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user '%s' already exists", user.ID)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user '%s': %w", user.ID, db.ErrNotFound)
	}
	stored.Email = user.Email
	stored.DisplayName = user.DisplayName
	stored.PhotoURL = user.PhotoURL
	stored.UpdatedAt = time.Now().UTC()
	r.updateCalls++
	return nil
}

func (r *fakeUserRepo) AdjustBalance(ctx context.Context, userID string, delta int, entry *models.TokenTransaction) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return 0, fmt.Errorf("user '%s': %w", userID, db.ErrNotFound)
	}
	newBalance := user.TokenBalance + delta
	if newBalance < 0 {
		return 0, fmt.Errorf("balance %d cannot cover %d: %w", user.TokenBalance, -delta, db.ErrInsufficientBalance)
	}
	user.TokenBalance = newBalance
	user.UpdatedAt = time.Now().UTC()
	if entry != nil {
		entry.UserID = userID
		entry.CreatedAt = time.Now().UTC()
		entry.ID = fmt.Sprintf("txn-%d", len(r.ledger)+1)
		clone := *entry
		r.ledger = append(r.ledger, &clone)
	}
	return newBalance, nil
}

// ListByUser makes the fake double as the ledger read side, newest first.
func (r *fakeUserRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.TokenTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var entries []*models.TokenTransaction
	for i := len(r.ledger) - 1; i >= 0 && len(entries) < limit; i-- {
		if r.ledger[i].UserID == userID {
			clone := *r.ledger[i]
			entries = append(entries, &clone)
		}
	}
	return entries, nil
}

func (r *fakeUserRepo) ledgerEntries() []*models.TokenTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.TokenTransaction(nil), r.ledger...)
}

type fakePresetRepo struct {
	mu          sync.Mutex
	presets     map[string]*models.Preset
	createCalls int
}

func newFakePresetRepo() *fakePresetRepo {
	return &fakePresetRepo{presets: make(map[string]*models.Preset)}
}

func (r *fakePresetRepo) GetByID(ctx context.Context, presetID string) (*models.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	preset, ok := r.presets[presetID]
	if !ok {
		return nil, fmt.Errorf("preset '%s': %w", presetID, db.ErrNotFound)
	}
	clone := *preset
	return &clone, nil
}

func (r *fakePresetRepo) List(ctx context.Context) ([]*models.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Preset
	for _, preset := range r.presets {
		clone := *preset
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result, nil
}

func (r *fakePresetRepo) CreateBatch(ctx context.Context, presets []*models.Preset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	for _, preset := range presets {
		if preset.ID == "" {
			preset.ID = fmt.Sprintf("preset-%d", len(r.presets)+1)
		}
		preset.CreatedAt = time.Now().UTC()
		clone := *preset
		r.presets[preset.ID] = &clone
	}
	return nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Save(ctx context.Context, objectName string, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = append([]byte(nil), data...)
	return "mem://" + objectName, nil
}

// fakeGenerator returns a fixed number of images, or fails.
type fakeGenerator struct {
	count int
	err   error
}

func (g *fakeGenerator) Generate(ctx context.Context, stampID string, originalURLs []string) ([]GeneratedImage, error) {
	if g.err != nil {
		return nil, g.err
	}
	count := g.count
	if count == 0 {
		count = models.ProcessedImageCount
	}
	results := make([]GeneratedImage, count)
	for i := range results {
		results[i] = GeneratedImage{
			URL:      fmt.Sprintf("mem://%s/processed_%d.png", stampID, i),
			Filename: fmt.Sprintf("processed_%d.png", i),
		}
	}
	return results, nil
}

// fakeSubmitter fails with err when set, otherwise succeeds.
type fakeSubmitter struct {
	err error
}

func (s *fakeSubmitter) Submit(ctx context.Context, stampID string) error {
	return s.err
}
