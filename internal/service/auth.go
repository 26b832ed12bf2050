package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/logger"
	"github.com/dtroode/daytrack-server/internal/model"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// dummyPassword is hashed once so that a login for an unknown email still
// pays for one bcrypt comparison.
const dummyPassword = "daytrack-timing-equalizer"

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
	dummyHash    []byte
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		logger.Warn("Auth service: failed to prepare dummy password hash", "error", err.Error())
	}

	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
		dummyHash:    dummyHash,
		now:          time.Now,
	}
}

func validateCredentials(email, password string) error {
	if email == "" {
		return apierrors.NewErrValidation("email is required")
	}
	if password == "" {
		return apierrors.NewErrValidation("password is required")
	}
	if len(password) > maxPasswordBytes {
		return apierrors.NewErrValidation("password must not exceed %d bytes", maxPasswordBytes)
	}
	if !strings.Contains(email, "@") {
		return apierrors.NewErrValidation("email %q is not valid", email)
	}
	return nil
}

// CreateUser registers a new account.
func (a *Auth) CreateUser(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	a.logger.Debug("Auth service: creating user", "email", email)

	if err := validateCredentials(email, password); err != nil {
		return model.User{}, err
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return model.User{}, apierrors.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		a.logger.Info("Auth service: email taken case-insensitively", "email", email)
		return model.User{}, apierrors.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user created", "user_id", user.ID)

	return user, nil
}

// VerifyCredentials returns the live user matching email and password.
// Unknown email and wrong password produce the same error for the caller;
// the cause (model.ErrNoSuchUser or model.ErrInvalidPassword) stays in the
// chain.
func (a *Auth) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, apierrors.NewErrValidation("email and password are required")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		_ = a.hasher.Compare(a.dummyHash, password)
		a.logger.Info("Auth service: login for unknown email", "email", email)
		return model.User{}, apierrors.NewErrInvalidCredentials(model.ErrNoSuchUser)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	err = a.hasher.Compare(user.PasswordHash, password)
	if errors.Is(err, model.ErrInvalidPassword) {
		a.logger.Info("Auth service: wrong password", "user_id", user.ID)
		return model.User{}, apierrors.NewErrInvalidCredentials(model.ErrInvalidPassword)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and opens a session.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	user, err := a.VerifyCredentials(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}

	session, err := a.tokenService.Issue(user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return session, nil
}

// DeleteUser re-verifies the credentials and soft-deletes the account. The
// user's records are kept.
func (a *Auth) DeleteUser(ctx context.Context, email, password string) (model.User, error) {
	user, err := a.VerifyCredentials(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}

	err = a.userStore.SoftDelete(ctx, user.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrInvalidCredentials(model.ErrNoSuchUser)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to delete user",
			"user_id", user.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to delete user: %w", err)
	}

	deletedAt := a.now().UTC()
	user.DeletedAt = &deletedAt

	a.logger.Info("Auth service: user deleted", "user_id", user.ID)

	return user, nil
}
