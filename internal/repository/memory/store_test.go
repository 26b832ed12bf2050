package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/daytrack-server/internal/model"
)

func newRecord(owner uuid.UUID, title string, createdAt time.Time) model.Record {
	return model.Record{
		RecordFields: model.RecordFields{Type: model.RecordTypeBook, Title: title},
		ID:           uuid.New(),
		OwnerID:      owner,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(NewStore())

	alice := model.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: []byte("h")}
	_, err := users.Create(ctx, alice)
	require.NoError(t, err)

	_, err = users.Create(ctx, model.User{ID: uuid.New(), Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)

	_, err = users.GetByEmail(ctx, "ALICE@example.com")
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	require.NoError(t, users.SoftDelete(ctx, alice.ID))
	assert.ErrorIs(t, users.SoftDelete(ctx, alice.ID), model.ErrNotFound)

	_, err = users.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = users.Create(ctx, model.User{ID: uuid.New(), Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestRecordRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	records := NewRecordRepository(NewStore())
	alice, bob := uuid.New(), uuid.New()

	rec := newRecord(alice, "Dune", time.Now())
	_, err := records.Create(ctx, rec)
	require.NoError(t, err)

	_, err = records.GetByIDAndOwner(ctx, rec.ID, bob)
	assert.ErrorIs(t, err, model.ErrNotFound)

	foreign := rec
	foreign.OwnerID = bob
	foreign.Title = "stolen"
	_, err = records.Update(ctx, foreign)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = records.SoftDelete(ctx, rec.ID, bob)
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := records.GetByIDAndOwner(ctx, rec.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	deleted, err := records.SoftDelete(ctx, rec.ID, alice)
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)

	_, err = records.GetByIDAndOwner(ctx, rec.ID, alice)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRecordRepository_ListOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	records := NewRecordRepository(NewStore())
	owner := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := base.AddDate(-1, 0, 0)
	newer := base

	undated := newRecord(owner, "undated", base.Add(time.Hour))
	first := newRecord(owner, "newer", base)
	first.CompletionDate = &newer
	second := newRecord(owner, "older", base.Add(2*time.Hour))
	second.CompletionDate = &older
	game := newRecord(owner, "game", base)
	game.Type = model.RecordTypeGame

	for _, r := range []model.Record{undated, first, second, game} {
		_, err := records.Create(ctx, r)
		require.NoError(t, err)
	}
	_, err := records.Create(ctx, newRecord(uuid.New(), "foreign", base))
	require.NoError(t, err)

	list, err := records.ListByOwner(ctx, owner, model.RecordFilter{Type: model.RecordTypeBook})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"newer", "older", "undated"}, []string{list[0].Title, list[1].Title, list[2].Title})

	page, err := records.ListByOwner(ctx, owner, model.RecordFilter{Type: model.RecordTypeBook, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "undated", page[0].Title)

	empty, err := records.ListByOwner(ctx, owner, model.RecordFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	count, err := records.CountByOwner(ctx, owner, model.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestTransactor_StagesUntilCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	records := NewRecordRepository(store)
	owner := uuid.New()

	boom := errors.New("boom")
	err := NewTransactor(store).WithinTx(ctx, func(ctx context.Context, tx model.RecordStore) error {
		_, err := tx.Create(ctx, newRecord(owner, "staged", time.Now()))
		require.NoError(t, err)

		count, err := tx.CountByOwner(ctx, owner, model.RecordFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		outside, err := records.CountByOwner(ctx, owner, model.RecordFilter{})
		require.NoError(t, err)
		assert.Zero(t, outside)

		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := records.CountByOwner(ctx, owner, model.RecordFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)

	err = NewTransactor(store).WithinTx(ctx, func(ctx context.Context, tx model.RecordStore) error {
		_, err := tx.Create(ctx, newRecord(owner, "kept", time.Now()))
		return err
	})
	require.NoError(t, err)

	count, err = records.CountByOwner(ctx, owner, model.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTransactor_CancelledContextDiscardsWrites(t *testing.T) {
	store := NewStore()
	owner := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())

	err := NewTransactor(store).WithinTx(ctx, func(ctx context.Context, tx model.RecordStore) error {
		_, err := tx.Create(ctx, newRecord(owner, "lost", time.Now()))
		require.NoError(t, err)
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	count, err := NewRecordRepository(store).CountByOwner(context.Background(), owner, model.RecordFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	records := NewRecordRepository(NewStore())
	owner := uuid.New()

	rec := newRecord(owner, "Heat", time.Now())
	rec.Type = model.RecordTypeMovie
	rec.Actors = []string{"Al Pacino"}
	_, err := records.Create(ctx, rec)
	require.NoError(t, err)

	rec.Actors[0] = "changed"

	got, err := records.GetByIDAndOwner(ctx, rec.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"Al Pacino"}, got.Actors)
}
