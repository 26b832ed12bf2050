package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
)

// RecordLimits bounds listing and bulk import sizes.
type RecordLimits struct {
	MaxPageSize int
	MaxBulkSize int
}

// ListParams selects a page of the caller's records. PageSize 0 returns the
// whole collection.
type ListParams struct {
	Type      model.RecordType
	PageIndex int
	PageSize  int
}

// RecordPage is one page of records plus the size of the whole filtered set.
type RecordPage struct {
	Records []model.Record
	Total   int
}

// Record serves owner-scoped record operations. Every method takes the
// authenticated user id and never touches records owned by someone else.
type Record struct {
	recordStore model.RecordStore
	userStore   model.UserStore
	transactor  model.Transactor
	storage     model.Storage
	limits      RecordLimits
	logger      *logger.Logger
	now         func() time.Time
}

// NewRecord creates the record service. storage may be nil, in which case
// bulk imports are not archived.
func NewRecord(
	recordStore model.RecordStore,
	userStore model.UserStore,
	transactor model.Transactor,
	storage model.Storage,
	limits RecordLimits,
	logger *logger.Logger,
) *Record {
	return &Record{
		recordStore: recordStore,
		userStore:   userStore,
		transactor:  transactor,
		storage:     storage,
		limits:      limits,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Record) ListRecords(ctx context.Context, userID uuid.UUID, params ListParams) (RecordPage, error) {
	if params.Type != "" && !params.Type.Valid() {
		return RecordPage{}, apierrors.NewErrValidation("unknown record type %q", params.Type)
	}
	if params.PageIndex < 0 || params.PageSize < 0 {
		return RecordPage{}, apierrors.NewErrValidation("page index and page size must not be negative")
	}

	filter := model.RecordFilter{Type: params.Type}
	if params.PageSize > 0 {
		pageSize := min(params.PageSize, s.limits.MaxPageSize)
		if params.PageIndex > math.MaxInt/pageSize {
			return RecordPage{}, apierrors.NewErrValidation("page index %d is out of range", params.PageIndex)
		}
		filter.Limit = pageSize
		filter.Offset = params.PageIndex * pageSize
	}

	records, err := s.recordStore.ListByOwner(ctx, userID, filter)
	if err != nil {
		s.logger.Error("Record service: failed to list records",
			"user_id", userID,
			"error", err.Error())
		return RecordPage{}, fmt.Errorf("failed to list records: %w", err)
	}

	total, err := s.recordStore.CountByOwner(ctx, userID, filter)
	if err != nil {
		return RecordPage{}, fmt.Errorf("failed to count records: %w", err)
	}

	return RecordPage{Records: records, Total: total}, nil
}

func (s *Record) GetRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) (model.Record, error) {
	record, err := s.recordStore.GetByIDAndOwner(ctx, recordID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Record{}, apierrors.NewErrRecordNotFound(recordID)
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

func (s *Record) CreateRecord(ctx context.Context, userID uuid.UUID, fields model.RecordFields) (model.Record, error) {
	if err := validateFields(fields); err != nil {
		return model.Record{}, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return model.Record{}, err
	}

	now := s.now().UTC()
	record, err := s.recordStore.Create(ctx, model.Record{
		RecordFields: fields.Normalize(),
		ID:           uuid.New(),
		OwnerID:      userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.logger.Error("Record service: failed to create record",
			"user_id", userID,
			"error", err.Error())
		return model.Record{}, fmt.Errorf("failed to create record: %w", err)
	}

	s.logger.Debug("Record service: record created",
		"user_id", userID,
		"record_id", record.ID)

	return record, nil
}

// UpdateRecord replaces every mutable field of the record.
func (s *Record) UpdateRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID, fields model.RecordFields) (model.Record, error) {
	if err := validateFields(fields); err != nil {
		return model.Record{}, err
	}

	record, err := s.recordStore.Update(ctx, model.Record{
		RecordFields: fields.Normalize(),
		ID:           recordID,
		OwnerID:      userID,
		UpdatedAt:    s.now().UTC(),
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.Record{}, apierrors.NewErrRecordNotFound(recordID)
	}
	if err != nil {
		s.logger.Error("Record service: failed to update record",
			"user_id", userID,
			"record_id", recordID,
			"error", err.Error())
		return model.Record{}, fmt.Errorf("failed to update record: %w", err)
	}

	return record, nil
}

func (s *Record) DeleteRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) (model.Record, error) {
	record, err := s.recordStore.SoftDelete(ctx, recordID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Record{}, apierrors.NewErrRecordNotFound(recordID)
	}
	if err != nil {
		s.logger.Error("Record service: failed to delete record",
			"user_id", userID,
			"record_id", recordID,
			"error", err.Error())
		return model.Record{}, fmt.Errorf("failed to soft delete record: %w", err)
	}

	s.logger.Debug("Record service: record deleted",
		"user_id", userID,
		"record_id", recordID)

	return record, nil
}

func (s *Record) ensureUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrUserNotFound(userID)
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	return nil
}

func validateFields(fields model.RecordFields) error {
	if fields.Type == "" {
		return apierrors.NewErrValidation("record type is required")
	}
	if !fields.Type.Valid() {
		return apierrors.NewErrValidation("unknown record type %q", fields.Type)
	}
	if strings.TrimSpace(fields.Title) == "" {
		return apierrors.NewErrValidation("record title is required")
	}
	for name, v := range map[string]*int{"year": fields.Year, "season": fields.Season, "volume": fields.Volume} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return apierrors.NewErrValidation("%s must not be negative", name)
		}
		if *v > math.MaxInt32 {
			return apierrors.NewErrValidation("%s must not exceed %d", name, math.MaxInt32)
		}
	}
	return nil
}
