package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/api/http/response"
	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
	"github.com/dtroode/daytrack-server/internal/service"
)

const (
	maxRecordBody = 1 << 20
	maxImportBody = 16 << 20
)

// RecordService defines business operations for record management.
type RecordService interface {
	ListRecords(ctx context.Context, userID uuid.UUID, params service.ListParams) (service.RecordPage, error)
	GetRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) (model.Record, error)
	CreateRecord(ctx context.Context, userID uuid.UUID, fields model.RecordFields) (model.Record, error)
	UpdateRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID, fields model.RecordFields) (model.Record, error)
	DeleteRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) (model.Record, error)
	ImportRecords(ctx context.Context, userID uuid.UUID, candidates []model.Candidate, payload []byte) ([]model.Record, error)
}

// Record handles HTTP endpoints for records.
type Record struct {
	recordService  RecordService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewRecord creates a new Record handler.
func NewRecord(recordService RecordService, contextManager model.ContextManager, logger *logger.Logger) *Record {
	return &Record{
		recordService:  recordService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List handles GET /records?pageIndex=&pageSize=&type=.
func (h *Record) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	params := service.ListParams{Type: model.RecordType(query.Get("type"))}

	var err error
	if params.PageIndex, err = intParam(query.Get("pageIndex")); err != nil {
		response.Error(w, r, h.logger, apierrors.NewErrValidation("pageIndex must be an integer"))
		return
	}
	if params.PageSize, err = intParam(query.Get("pageSize")); err != nil {
		response.Error(w, r, h.logger, apierrors.NewErrValidation("pageSize must be an integer"))
		return
	}

	page, err := h.recordService.ListRecords(r.Context(), userID, params)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, recordsResponse{
		Records: toRecordDTOs(page.Records),
		Total:   page.Total,
	})
}

// Get handles GET /records/{id}.
func (h *Record) Get(w http.ResponseWriter, r *http.Request) {
	userID, recordID, ok := h.userAndRecordID(w, r)
	if !ok {
		return
	}

	record, err := h.recordService.GetRecord(r.Context(), userID, recordID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, recordResponse{Record: toRecordDTO(record)})
}

// Create handles POST /records.
func (h *Record) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req recordFieldsDTO
	if err := decodeJSON(w, r, maxRecordBody, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	record, err := h.recordService.CreateRecord(r.Context(), userID, req.toModel())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, recordResponse{Record: toRecordDTO(record)})
}

// Update handles PUT /records/{id}.
func (h *Record) Update(w http.ResponseWriter, r *http.Request) {
	userID, recordID, ok := h.userAndRecordID(w, r)
	if !ok {
		return
	}

	var req recordFieldsDTO
	if err := decodeJSON(w, r, maxRecordBody, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	record, err := h.recordService.UpdateRecord(r.Context(), userID, recordID, req.toModel())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, recordResponse{Record: toRecordDTO(record)})
}

// Delete handles DELETE /records/{id}.
func (h *Record) Delete(w http.ResponseWriter, r *http.Request) {
	userID, recordID, ok := h.userAndRecordID(w, r)
	if !ok {
		return
	}

	record, err := h.recordService.DeleteRecord(r.Context(), userID, recordID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, recordResponse{Record: toRecordDTO(record)})
}

// Import handles PUT /records: a bulk snapshot reconciled atomically.
func (h *Record) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, r, h.logger, apierrors.NewErrValidation("import body exceeds %d bytes", tooLarge.Limit))
			return
		}
		response.Error(w, r, h.logger, apierrors.NewErrValidation("failed to read request body"))
		return
	}

	var req importRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		response.Error(w, r, h.logger, apierrors.NewErrValidation("request body must be a JSON object with a records array"))
		return
	}

	candidates, err := req.toCandidates()
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.logger.Debug("Record handler: processing import",
		"user_id", userID,
		"count", len(candidates))

	records, err := h.recordService.ImportRecords(r.Context(), userID, candidates, payload)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, importResponse{Records: toRecordDTOs(records)})
}

func (h *Record) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.logger, apierrors.NewErrUnauthorized(model.ErrInvalidToken))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Record) userAndRecordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := h.userID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	raw := chi.URLParam(r, "id")
	recordID, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, r, h.logger, apierrors.NewErrInvalidRecordID(raw))
		return uuid.Nil, uuid.Nil, false
	}

	return userID, recordID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v); err != nil {
		return apierrors.NewErrValidation("request body is not valid JSON: %v", err)
	}
	return nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
