package services_test

import (
	"context"
	"io"

	"pawrate_go_backend/internal/models"
	"pawrate_go_backend/internal/services"
	"pawrate_go_backend/internal/utils/planparser"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockGenerativeModel struct {
	mock.Mock
}

func (m *MockGenerativeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

type MockIngredientAnalyzer struct {
	mock.Mock
}

func (m *MockIngredientAnalyzer) AnalyzeIngredients(ctx context.Context, image []byte, format string) (*services.AnalysisResult, error) {
	args := m.Called(ctx, image, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalysisResult), args.Error(1)
}

type MockImageNormalizer struct {
	mock.Mock
}

func (m *MockImageNormalizer) Normalize(data []byte) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockUsageServiceDB struct {
	mock.Mock
}

func (m *MockUsageServiceDB) GetUsageDB(userID uuid.UUID) (*models.UsageRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageRecord), args.Error(1)
}

func (m *MockUsageServiceDB) RecordScanDB(userID uuid.UUID) (*models.UsageRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageRecord), args.Error(1)
}

func (m *MockUsageServiceDB) AddPurchasedScansDB(userID uuid.UUID, scans int) (*models.UsageRecord, error) {
	args := m.Called(userID, scans)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageRecord), args.Error(1)
}

type MockScanHistoryDB struct {
	mock.Mock
}

func (m *MockScanHistoryDB) SaveScanRecordDB(record *models.ScanRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockScanHistoryDB) GetScansByUserIDFromDB(userID uuid.UUID, limit int) ([]models.ScanRecord, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScanRecord), args.Error(1)
}

type MockCloudStorageManager struct {
	mock.Mock
}

func (m *MockCloudStorageManager) UploadPublic(ctx context.Context, objectName, contentType string, content io.Reader) (string, error) {
	args := m.Called(ctx, objectName, contentType, content)
	return args.String(0), args.Error(1)
}

func (m *MockCloudStorageManager) Download(ctx context.Context, objectName string) ([]byte, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCloudStorageManager) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type MockCatServiceDB struct {
	mock.Mock
}

func (m *MockCatServiceDB) CreateCatDB(cat *models.Cat) error {
	args := m.Called(cat)
	return args.Error(0)
}

func (m *MockCatServiceDB) GetCatsByUserIDFromDB(userID uuid.UUID) ([]models.Cat, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cat), args.Error(1)
}

func (m *MockCatServiceDB) GetCatByIDFromDB(catID, userID uuid.UUID) (*models.Cat, error) {
	args := m.Called(catID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cat), args.Error(1)
}

func (m *MockCatServiceDB) UpdateCatDB(cat *models.Cat) error {
	args := m.Called(cat)
	return args.Error(0)
}

func (m *MockCatServiceDB) UpdateCatImageURLDB(catID, userID uuid.UUID, imageURL string) error {
	args := m.Called(catID, userID, imageURL)
	return args.Error(0)
}

func (m *MockCatServiceDB) DeleteCatDB(catID, userID uuid.UUID) error {
	args := m.Called(catID, userID)
	return args.Error(0)
}

func (m *MockCatServiceDB) ReplaceDietPlanDB(catID uuid.UUID, sections []planparser.Section) error {
	args := m.Called(catID, sections)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(topic string, msg interface{}) {
	m.Called(topic, msg)
}
