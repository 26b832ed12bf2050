package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/daytrack-server/internal/model"
	"github.com/dtroode/daytrack-server/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) CreateUser(ctx context.Context, email, password string) (model.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (model.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *MockAuthService) DeleteUser(ctx context.Context, email, password string) (model.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Error(1)
}

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) ListRecords(ctx context.Context, userID uuid.UUID, params service.ListParams) (service.RecordPage, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).(service.RecordPage), args.Error(1)
}

func (m *MockRecordService) GetRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) (model.Record, error) {
	args := m.Called(ctx, userID, recordID)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordService) CreateRecord(ctx context.Context, userID uuid.UUID, fields model.RecordFields) (model.Record, error) {
	args := m.Called(ctx, userID, fields)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordService) UpdateRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID, fields model.RecordFields) (model.Record, error) {
	args := m.Called(ctx, userID, recordID, fields)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordService) DeleteRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) (model.Record, error) {
	args := m.Called(ctx, userID, recordID)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordService) ImportRecords(ctx context.Context, userID uuid.UUID, candidates []model.Candidate, payload []byte) ([]model.Record, error) {
	args := m.Called(ctx, userID, candidates, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}
