package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/daytrack-server/internal/model"
)

var _ model.RecordStore = (*RecordRepository)(nil)

// RecordRepository stores records. Every statement filters by owner_id and
// skips soft-deleted rows.
type RecordRepository struct {
	db DBTX
}

func NewRecordRepository(db DBTX) *RecordRepository {
	return &RecordRepository{
		db: db,
	}
}

const recordColumns = `id, owner_id, type, title, year, genre, image_url, summary, completion_date,
		author, director, actors, console, season, volume, created_at, updated_at, deleted_at`

func scanRecord(row pgx.Row) (model.Record, error) {
	var record model.Record
	err := row.Scan(
		&record.ID, &record.OwnerID, &record.Type, &record.Title, &record.Year,
		&record.Genre, &record.ImageURL, &record.Summary, &record.CompletionDate,
		&record.Author, &record.Director, &record.Actors, &record.Console,
		&record.Season, &record.Volume,
		&record.CreatedAt, &record.UpdatedAt, &record.DeletedAt,
	)
	return record, err
}

func (r *RecordRepository) Create(ctx context.Context, record model.Record) (model.Record, error) {
	query := `
		INSERT INTO records (id, owner_id, type, title, year, genre, image_url, summary, completion_date,
		                     author, director, actors, console, season, volume, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + recordColumns

	saved, err := scanRecord(r.db.QueryRow(ctx, query,
		record.ID, record.OwnerID, string(record.Type), record.Title, record.Year,
		record.Genre, record.ImageURL, record.Summary, record.CompletionDate,
		record.Author, record.Director, record.Actors, record.Console,
		record.Season, record.Volume, record.CreatedAt, record.UpdatedAt,
	))
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to create record: %w", err)
	}

	return saved, nil
}

func (r *RecordRepository) GetByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

	return r.getOne(ctx, query, id, ownerID)
}

// GetByIDAndOwnerForUpdate locks the matched row until the surrounding
// transaction ends.
func (r *RecordRepository) GetByIDAndOwnerForUpdate(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
		FOR UPDATE`

	return r.getOne(ctx, query, id, ownerID)
}

func (r *RecordRepository) getOne(ctx context.Context, query string, id, ownerID uuid.UUID) (model.Record, error) {
	record, err := scanRecord(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Record{}, model.ErrNotFound
		}
		return model.Record{}, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

func (r *RecordRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter model.RecordFilter) ([]model.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE owner_id = $1 AND deleted_at IS NULL AND ($2::text = '' OR type = $2::text)
		ORDER BY completion_date DESC NULLS LAST, created_at DESC, id
		LIMIT NULLIF($3::bigint, 0) OFFSET $4::bigint`

	rows, err := r.db.Query(ctx, query, ownerID, string(filter.Type), filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

func (r *RecordRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter model.RecordFilter) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM records
		WHERE owner_id = $1 AND deleted_at IS NULL AND ($2::text = '' OR type = $2::text)`

	var count int
	if err := r.db.QueryRow(ctx, query, ownerID, string(filter.Type)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	return count, nil
}

func (r *RecordRepository) Update(ctx context.Context, record model.Record) (model.Record, error) {
	query := `
		UPDATE records
		SET type = $3, title = $4, year = $5, genre = $6, image_url = $7, summary = $8,
		    completion_date = $9, author = $10, director = $11, actors = $12, console = $13,
		    season = $14, volume = $15, updated_at = $16
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
		RETURNING ` + recordColumns

	saved, err := scanRecord(r.db.QueryRow(ctx, query,
		record.ID, record.OwnerID, string(record.Type), record.Title, record.Year,
		record.Genre, record.ImageURL, record.Summary, record.CompletionDate,
		record.Author, record.Director, record.Actors, record.Console,
		record.Season, record.Volume, record.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Record{}, model.ErrNotFound
		}
		return model.Record{}, fmt.Errorf("failed to update record: %w", err)
	}

	return saved, nil
}

func (r *RecordRepository) SoftDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	query := `
		UPDATE records SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
		RETURNING ` + recordColumns

	record, err := scanRecord(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Record{}, model.ErrNotFound
		}
		return model.Record{}, fmt.Errorf("failed to delete record: %w", err)
	}

	return record, nil
}
