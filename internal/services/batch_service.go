package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"sideline-backend/internal/gallery"
	"sideline-backend/internal/models"
	"sideline-backend/internal/storage"
)

// BatchStore is the subset of the batch repository the service needs.
type BatchStore interface {
	Create(ctx context.Context, batch *models.Batch) error
	ListAll(ctx context.Context) ([]models.Batch, error)
	GetByID(ctx context.Context, id string) (*models.Batch, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher receives gallery change notifications.
type EventPublisher interface {
	BatchCreated(batch *models.Batch)
	BatchDeleted(id string)
}

// UploadFile is one file of an upload selection, in selection order.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// BatchService implements the upload, listing and deletion flows over the
// batch store and object storage.
type BatchService struct {
	store   BatchStore
	objects storage.ObjectStorage
	events  EventPublisher
	now     func() time.Time
}

func NewBatchService(store BatchStore, objects storage.ObjectStorage, events EventPublisher) *BatchService {
	return &BatchService{
		store:   store,
		objects: objects,
		events:  events,
		now:     time.Now,
	}
}

// Upload stores every file of a non-empty selection sequentially, in
// selection order, then inserts exactly one batch record. Any upload
// failure aborts before the insert, so a partial record is never created.
// Objects already written before the failing upload are not rolled back.
func (s *BatchService) Upload(ctx context.Context, ownerID, title string, files []UploadFile) (*models.Batch, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files selected")
	}

	// Every file must be classifiable before anything is written.
	mediaTypes := make([]models.MediaType, len(files))
	for i, f := range files {
		mt, err := models.ClassifyContentType(f.ContentType)
		if err != nil {
			return nil, fmt.Errorf("file %d (%s): %w", i+1, f.Filename, err)
		}
		mediaTypes[i] = mt
	}

	millis := s.now().UnixMilli()
	batchFiles := make([]models.BatchFile, 0, len(files))

	for i, f := range files {
		key := fmt.Sprintf("%d_%d%s", millis, i, filepath.Ext(f.Filename))
		if err := s.objects.Upload(ctx, key, f.Reader, f.Size, f.ContentType); err != nil {
			return nil, fmt.Errorf("upload file %d (%s): %w", i+1, f.Filename, err)
		}
		batchFiles = append(batchFiles, models.BatchFile{
			URL:       s.objects.PublicURL(key),
			Filename:  f.Filename,
			MediaType: mediaTypes[i],
		})
	}

	batch := &models.Batch{
		DateUploaded: s.now().Format(models.DateFormat),
		Files:        batchFiles,
		ThumbnailURL: batchFiles[0].URL,
		OwnerID:      ownerID,
	}
	if title != "" {
		batch.Title = &title
	}

	if err := s.store.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("save batch record: %w", err)
	}

	if s.events != nil {
		s.events.BatchCreated(batch)
	}
	return batch, nil
}

// List returns all batches newest-first, optionally filtered to one exact
// upload date.
func (s *BatchService) List(ctx context.Context, date string) ([]models.Batch, error) {
	batches, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return gallery.FilterByDate(batches, date), nil
}

// Get returns one batch by id.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	return s.store.GetByID(ctx, id)
}

// Dates returns the distinct upload dates, newest first.
func (s *BatchService) Dates(ctx context.Context) ([]string, error) {
	batches, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return gallery.UniqueDates(batches), nil
}

// OpenFile returns a reader over one of a batch's files, addressed by
// index into the ordered file list. Out-of-range indexes are clamped the
// same way the lightbox clamps navigation.
func (s *BatchService) OpenFile(ctx context.Context, id string, index int) (io.ReadCloser, int64, models.BatchFile, error) {
	batch, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, 0, models.BatchFile{}, err
	}
	if len(batch.Files) == 0 {
		return nil, 0, models.BatchFile{}, fmt.Errorf("batch %s has no files", id)
	}

	file := batch.Files[gallery.ClampIndex(index, len(batch.Files))]
	reader, size, err := s.objects.Download(ctx, storage.KeyFromURL(file.URL))
	if err != nil {
		return nil, 0, models.BatchFile{}, fmt.Errorf("download %s: %w", file.Filename, err)
	}
	return reader, size, file, nil
}

// Delete removes a batch's stored objects (best effort) and then its
// record. Object removal failures are logged and do not block the row
// delete.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	batch, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(batch.Files))
	for _, f := range batch.Files {
		keys = append(keys, storage.KeyFromURL(f.URL))
	}
	if err := s.objects.Remove(ctx, keys); err != nil {
		log.Printf("Failed to remove objects for batch %s: %v", id, err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.events != nil {
		s.events.BatchDeleted(id)
	}
	return nil
}

// BulkDelete deletes the given batches sequentially and reports one result
// for the whole operation: the number deleted and the last failure, if any.
func (s *BatchService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	var lastErr error
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			log.Printf("Bulk delete: batch %s failed: %v", id, err)
			lastErr = err
			continue
		}
		deleted++
	}
	if lastErr != nil {
		return deleted, fmt.Errorf("deleted %d of %d batches, last error: %w", deleted, len(ids), lastErr)
	}
	return deleted, nil
}
