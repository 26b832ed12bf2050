package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/daytrack-server/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Create(ctx context.Context, record model.Record) (model.Record, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordStore) GetByIDAndOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordStore) GetByIDAndOwnerForUpdate(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter model.RecordFilter) ([]model.Record, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordStore) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter model.RecordFilter) (int, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordStore) Update(ctx context.Context, record model.Record) (model.Record, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordStore) SoftDelete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (model.Record, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(model.Record), args.Error(1)
}

// MockTransactor hands its RecordStore to fn and returns fn's error unless
// an error was configured for the call.
type MockTransactor struct {
	mock.Mock
	Store model.RecordStore
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, records model.RecordStore) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Store)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64) error {
	args := m.Called(ctx, key, reader, size)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Issue(userID uuid.UUID, email string) (string, model.SessionClaim, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Get(1).(model.SessionClaim), args.Error(2)
}

func (m *MockTokenManager) Verify(token string) (model.SessionClaim, error) {
	args := m.Called(token)
	return args.Get(0).(model.SessionClaim), args.Error(1)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) ([]byte, error) {
	args := m.Called(password)
	var hash []byte
	if v := args.Get(0); v != nil {
		hash = v.([]byte)
	}
	return hash, args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash []byte, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}
