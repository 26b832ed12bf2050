package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dtroode/daytrack-server/internal/api/http/response"
	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
)

const maxCredentialsBody = 64 << 10

// AuthService defines account and session operations.
type AuthService interface {
	CreateUser(ctx context.Context, email, password string) (model.User, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	DeleteUser(ctx context.Context, email, password string) (model.User, error)
}

// Auth handles HTTP endpoints for accounts and sessions.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, logger: logger}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCredentialsBody)).Decode(&req); err != nil {
		return credentialsRequest{}, apierrors.NewErrValidation("request body must be a JSON object with email and password")
	}
	return req, nil
}

// Signup handles POST /accounts.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	user, err := h.authService.CreateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, userResponse{User: toUserDTO(user)})
}

// Login handles POST /sessions.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, sessionResponse{
		Token:       session.Token,
		ExpiresInMs: session.ExpiresInMs,
		User:        toUserDTO(session.User),
	})
}

// DeleteAccount handles DELETE /accounts. The password must be confirmed.
func (h *Auth) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	user, err := h.authService.DeleteUser(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, userResponse{User: toUserDTO(user)})
}
