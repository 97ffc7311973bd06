package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sideline-backend/internal/models"
)

// ErrNotFound is returned when a batch id does not exist.
var ErrNotFound = fmt.Errorf("batch not found")

type BatchRepository struct {
	pool *pgxpool.Pool
}

func NewBatchRepository(pool *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{pool: pool}
}

// Create inserts a new batch record, assigning its id and creation time.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	filesJSON, err := json.Marshal(batch.Files)
	if err != nil {
		return fmt.Errorf("encode files: %w", err)
	}

	batch.ID = uuid.NewString()

	query := `
		INSERT INTO sideline_batches (
			id, title, date_uploaded, files, thumbnail_url, optimized, owner_id
		) VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
		RETURNING created_at
	`

	err = r.pool.QueryRow(ctx, query,
		batch.ID,
		batch.Title,
		batch.DateUploaded,
		string(filesJSON),
		batch.ThumbnailURL,
		batch.Optimized,
		batch.OwnerID,
	).Scan(&batch.CreatedAt)

	return err
}

// ListAll retrieves every batch, newest first.
func (r *BatchRepository) ListAll(ctx context.Context) ([]models.Batch, error) {
	query := `
		SELECT id, title, date_uploaded, files, thumbnail_url, optimized, owner_id, created_at
		FROM sideline_batches
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []models.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *batch)
	}
	return batches, rows.Err()
}

// GetByID retrieves one batch.
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*models.Batch, error) {
	query := `
		SELECT id, title, date_uploaded, files, thumbnail_url, optimized, owner_id, created_at
		FROM sideline_batches
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	batch, err := scanBatch(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return batch, err
}

// Delete removes one batch row.
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sideline_batches WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBatch(row pgx.Row) (*models.Batch, error) {
	var batch models.Batch
	var dateUploaded time.Time
	var filesJSON []byte

	err := row.Scan(
		&batch.ID,
		&batch.Title,
		&dateUploaded,
		&filesJSON,
		&batch.ThumbnailURL,
		&batch.Optimized,
		&batch.OwnerID,
		&batch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	batch.DateUploaded = dateUploaded.Format(models.DateFormat)
	if err := json.Unmarshal(filesJSON, &batch.Files); err != nil {
		return nil, fmt.Errorf("decode files for batch %s: %w", batch.ID, err)
	}
	return &batch, nil
}
