package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/model"
)

var _ model.RecordStore = (*RecordRepository)(nil)

// RecordRepository reads and writes records. Inside a transaction staged
// holds the uncommitted writes and shadows the shared map.
type RecordRepository struct {
	store  *Store
	staged map[uuid.UUID]model.Record
}

func NewRecordRepository(store *Store) *RecordRepository {
	return &RecordRepository{store: store}
}

func (r *RecordRepository) lookup(id uuid.UUID) (model.Record, bool) {
	if r.staged != nil {
		if rec, ok := r.staged[id]; ok {
			return rec, true
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.records[id]
	return rec, ok
}

func (r *RecordRepository) write(rec model.Record) {
	rec = cloneRecord(rec)
	if r.staged != nil {
		r.staged[rec.ID] = rec
		return
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.records[rec.ID] = rec
}

func (r *RecordRepository) Create(ctx context.Context, record model.Record) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}

	if _, ok := r.lookup(record.ID); ok {
		return model.Record{}, fmt.Errorf("failed to create record: id %s already exists", record.ID)
	}

	record.DeletedAt = nil
	r.write(record)

	return cloneRecord(record), nil
}

func (r *RecordRepository) GetByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}

	rec, ok := r.lookup(id)
	if !ok || rec.OwnerID != ownerID || rec.DeletedAt != nil {
		return model.Record{}, model.ErrNotFound
	}

	return cloneRecord(rec), nil
}

// GetByIDAndOwnerForUpdate needs no row lock: transactions are serialized.
func (r *RecordRepository) GetByIDAndOwnerForUpdate(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

func (r *RecordRepository) owned(ownerID uuid.UUID, recordType model.RecordType) []model.Record {
	merged := make(map[uuid.UUID]model.Record)

	r.store.mu.RLock()
	for id, rec := range r.store.records {
		merged[id] = rec
	}
	r.store.mu.RUnlock()

	for id, rec := range r.staged {
		merged[id] = rec
	}

	out := make([]model.Record, 0)
	for _, rec := range merged {
		if rec.OwnerID != ownerID || rec.DeletedAt != nil {
			continue
		}
		if recordType != "" && rec.Type != recordType {
			continue
		}
		out = append(out, cloneRecord(rec))
	}

	return out
}

func (r *RecordRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter model.RecordFilter) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := r.owned(ownerID, filter.Type)
	sort.Slice(records, func(i, j int) bool {
		return less(records[i], records[j])
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return []model.Record{}, nil
		}
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	return records, nil
}

// less orders by completion date descending with undated records last, then
// by creation time descending, then by id.
func less(a, b model.Record) bool {
	switch {
	case a.CompletionDate != nil && b.CompletionDate == nil:
		return true
	case a.CompletionDate == nil && b.CompletionDate != nil:
		return false
	case a.CompletionDate != nil && !a.CompletionDate.Equal(*b.CompletionDate):
		return a.CompletionDate.After(*b.CompletionDate)
	}

	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}

	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func (r *RecordRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter model.RecordFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return len(r.owned(ownerID, filter.Type)), nil
}

func (r *RecordRepository) Update(ctx context.Context, record model.Record) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}

	current, ok := r.lookup(record.ID)
	if !ok || current.OwnerID != record.OwnerID || current.DeletedAt != nil {
		return model.Record{}, model.ErrNotFound
	}

	record.CreatedAt = current.CreatedAt
	record.DeletedAt = nil
	r.write(record)

	return cloneRecord(record), nil
}

func (r *RecordRepository) SoftDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}

	current, ok := r.lookup(id)
	if !ok || current.OwnerID != ownerID || current.DeletedAt != nil {
		return model.Record{}, model.ErrNotFound
	}

	now := time.Now().UTC()
	current.DeletedAt = &now
	current.UpdatedAt = now
	r.write(current)

	return cloneRecord(current), nil
}
