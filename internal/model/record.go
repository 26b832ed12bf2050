package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordStore defines owner-scoped persistence operations for records.
// Every lookup takes the owner id; a record owned by someone else is
// reported as ErrNotFound.
type RecordStore interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (Record, error)
	GetByIDAndOwnerForUpdate(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (Record, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter RecordFilter) ([]Record, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID, filter RecordFilter) (int, error)
	Update(ctx context.Context, record Record) (Record, error)
	SoftDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (Record, error)
}

// Transactor runs fn inside a single storage transaction. The RecordStore
// passed to fn is bound to that transaction. If fn returns an error every
// write made through it is rolled back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, records RecordStore) error) error
}

// RecordType enumerates record kinds.
type RecordType string

const (
	RecordTypeBook   RecordType = "Book"
	RecordTypeComic  RecordType = "Comic"
	RecordTypeMovie  RecordType = "Movie"
	RecordTypeSeries RecordType = "Series"
	RecordTypeGame   RecordType = "Game"
)

// Valid reports whether t is one of the known record kinds.
func (t RecordType) Valid() bool {
	switch t {
	case RecordTypeBook, RecordTypeComic, RecordTypeMovie, RecordTypeSeries, RecordTypeGame:
		return true
	}
	return false
}

// RecordFields holds the mutable, user-supplied part of a record.
type RecordFields struct {
	Type           RecordType
	Title          string
	Year           *int
	Genre          string
	ImageURL       string
	Summary        string
	CompletionDate *time.Time
	Author         string
	Director       string
	Actors         []string
	Console        string
	Season         *int
	Volume         *int
}

// Normalize clears the fields that do not apply to the declared type and
// trims the title.
func (f RecordFields) Normalize() RecordFields {
	f.Title = strings.TrimSpace(f.Title)

	switch f.Type {
	case RecordTypeBook, RecordTypeComic:
		f.Director, f.Actors, f.Console, f.Season = "", nil, "", nil
	case RecordTypeMovie:
		f.Author, f.Console, f.Season, f.Volume = "", "", nil, nil
	case RecordTypeSeries:
		f.Author, f.Console, f.Volume = "", "", nil
	case RecordTypeGame:
		f.Author, f.Director, f.Actors, f.Season, f.Volume = "", "", nil, nil, nil
	}

	return f
}

// Record represents a stored record entity.
type Record struct {
	RecordFields
	ID        uuid.UUID
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// RecordFilter narrows and pages a record listing.
type RecordFilter struct {
	Type   RecordType
	Limit  int
	Offset int
}

// Candidate is one entry of a bulk import. A nil ID means "always create".
type Candidate struct {
	ID     *uuid.UUID
	Fields RecordFields
}
