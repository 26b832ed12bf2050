// Package memory keeps users and records in process memory. It backs the
// "memory" database driver and the service tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/model"
)

// Store holds the shared maps. Transactions are serialized by txMu and
// publish their staged writes under mu on commit.
type Store struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	users   map[uuid.UUID]model.User
	records map[uuid.UUID]model.Record
}

func NewStore() *Store {
	return &Store{
		users:   make(map[uuid.UUID]model.User),
		records: make(map[uuid.UUID]model.Record),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

var _ model.Transactor = (*Transactor)(nil)

type Transactor struct {
	store *Store
}

func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// WithinTx gives fn a RecordStore whose writes stay private until fn
// returns nil.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, records model.RecordStore) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	repo := &RecordRepository{
		store:  t.store,
		staged: make(map[uuid.UUID]model.Record),
	}

	if err := fn(ctx, repo); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, record := range repo.staged {
		t.store.records[id] = record
	}

	return nil
}

func cloneRecord(r model.Record) model.Record {
	r.Actors = slices.Clone(r.Actors)
	if r.Year != nil {
		v := *r.Year
		r.Year = &v
	}
	if r.Season != nil {
		v := *r.Season
		r.Season = &v
	}
	if r.Volume != nil {
		v := *r.Volume
		r.Volume = &v
	}
	if r.CompletionDate != nil {
		v := *r.CompletionDate
		r.CompletionDate = &v
	}
	if r.DeletedAt != nil {
		v := *r.DeletedAt
		r.DeletedAt = &v
	}
	return r
}
