package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/model"
)

// candidateError ties a failure to the position of the candidate that caused it.
type candidateError struct {
	index int
	err   error
}

func (e *candidateError) Error() string {
	return fmt.Sprintf("candidate %d: %v", e.index, e.err)
}

func (e *candidateError) Unwrap() error {
	return e.err
}

// ImportRecords reconciles candidates against the caller's collection in a
// single transaction. A candidate whose id names a live record of the caller
// overwrites it; any other candidate becomes a new record. The result is
// positionally aligned with candidates. On failure nothing is written.
//
// payload is the raw request body; it is archived before the transaction
// when storage is configured.
func (s *Record) ImportRecords(ctx context.Context, userID uuid.UUID, candidates []model.Candidate, payload []byte) ([]model.Record, error) {
	if len(candidates) == 0 {
		return []model.Record{}, nil
	}
	if len(candidates) > s.limits.MaxBulkSize {
		return nil, apierrors.NewErrValidation("too many records in one import: %d, at most %d are allowed",
			len(candidates), s.limits.MaxBulkSize)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	archiveKey, err := s.archive(ctx, userID, now, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Record service: importing records",
		"user_id", userID,
		"count", len(candidates))

	results := make([]model.Record, len(candidates))
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, records model.RecordStore) error {
		for i, candidate := range candidates {
			record, err := reconcile(ctx, records, userID, candidate, now)
			if err != nil {
				return &candidateError{index: i, err: err}
			}
			results[i] = record
		}
		return nil
	})
	if err != nil {
		s.discardArchive(ctx, archiveKey)

		s.logger.Error("Record service: import rolled back",
			"user_id", userID,
			"error", err.Error())

		var ce *candidateError
		if errors.As(err, &ce) {
			return nil, apierrors.NewErrImportAborted(ce.index, ce.err)
		}
		return nil, apierrors.NewErrImportFailed(err)
	}

	s.logger.Info("Record service: records imported",
		"user_id", userID,
		"count", len(results))

	return results, nil
}

func reconcile(ctx context.Context, records model.RecordStore, userID uuid.UUID, candidate model.Candidate, now time.Time) (model.Record, error) {
	if err := validateFields(candidate.Fields); err != nil {
		return model.Record{}, err
	}
	fields := candidate.Fields.Normalize()

	if candidate.ID != nil {
		existing, err := records.GetByIDAndOwnerForUpdate(ctx, *candidate.ID, userID)
		switch {
		case err == nil:
			existing.RecordFields = fields
			existing.UpdatedAt = now
			updated, err := records.Update(ctx, existing)
			if err != nil {
				return model.Record{}, fmt.Errorf("failed to update record: %w", err)
			}
			return updated, nil
		case !errors.Is(err, model.ErrNotFound):
			return model.Record{}, fmt.Errorf("failed to look up record: %w", err)
		}
	}

	created, err := records.Create(ctx, model.Record{
		RecordFields: fields,
		ID:           uuid.New(),
		OwnerID:      userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to create record: %w", err)
	}

	return created, nil
}

func importKey(userID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("imports/%s/%s-%s.json", userID, at.Format("20060102T150405Z"), uuid.New())
}

// archive returns the stored key, or "" when archiving is off.
func (s *Record) archive(ctx context.Context, userID uuid.UUID, now time.Time, payload []byte) (string, error) {
	if s.storage == nil || len(payload) == 0 {
		return "", nil
	}

	key := importKey(userID, now)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload))); err != nil {
		s.logger.Error("Record service: failed to archive import",
			"user_id", userID,
			"key", key,
			"error", err.Error())
		return "", apierrors.NewErrInternalServerError(fmt.Errorf("failed to archive import: %w", err))
	}

	return key, nil
}

func (s *Record) discardArchive(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Error("Record service: failed to delete import archive",
			"key", key,
			"error", err.Error())
	}
}
