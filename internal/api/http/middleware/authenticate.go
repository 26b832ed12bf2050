package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/api/http/response"
	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid session token with 401 and passes
// the rest on with the user ID in their context.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticateUser(r.Context(), extractToken(r.Header.Get("Authorization")))
		if err != nil {
			m.logger.Debug("Authenticate: request rejected",
				"path", r.URL.Path,
				"error", err.Error())
			response.Error(w, r, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserIDToContext(r.Context(), userID)))
	})
}

// extractToken accepts both "Bearer <token>" and a bare token.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return header
}

func (m *Authenticate) authenticateUser(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, apierrors.NewErrUnauthorized(model.ErrInvalidToken)
	}

	userID, err := m.tokenService.GetUserID(ctx, tokenString)
	if err != nil {
		return uuid.Nil, apierrors.NewErrUnauthorized(err)
	}

	if userID == uuid.Nil {
		return uuid.Nil, apierrors.NewErrUnauthorized(model.ErrInvalidToken)
	}

	return userID, nil
}
