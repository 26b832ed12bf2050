package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
)

// TokenService issues session tokens on login and resolves them back to a
// user id on every authenticated request. There is no server-side session
// state: a token stays valid until its exp claim passes.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) Issue(user model.User) (model.Session, error) {
	token, claim, err := s.manager.Issue(user.ID, user.Email)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue token: %w", err)
	}

	return model.Session{
		Token:       token,
		ExpiresInMs: claim.ExpiresAt.Sub(claim.IssuedAt).Milliseconds(),
		User:        user,
	}, nil
}

// GetUserID verifies token and returns its owner. Every failure is reported
// as the same authentication error.
func (s *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, apierrors.NewErrUnauthorized(model.ErrInvalidToken)
	}

	claim, err := s.manager.Verify(token)
	if err != nil {
		s.logger.Debug("Token service: token rejected", "error", err.Error())
		return uuid.Nil, apierrors.NewErrUnauthorized(err)
	}
	if claim.UserID == uuid.Nil {
		return uuid.Nil, apierrors.NewErrUnauthorized(model.ErrInvalidToken)
	}

	return claim.UserID, nil
}
