package services_test

import (
	"context"
	"testing"
	"time"

	"pawrate_go_backend/internal/metrics"
	"pawrate_go_backend/internal/models"
	"pawrate_go_backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestUser(tier models.SubscriptionTier) *models.User {
	return &models.User{
		ID:               uuid.New(),
		Auth0ID:          "auth0|test",
		Email:            "test@example.com",
		SubscriptionTier: tier,
	}
}

func newScanService(
	analyzer services.IngredientAnalyzer,
	normalizer services.ImageNormalizer,
	usage services.UsageServiceDB,
	history services.ScanHistoryDB,
	storage services.CloudStorageManager,
	events services.EventPublisher,
) *services.ScanService {
	return services.NewScanService(
		analyzer, normalizer, usage, history, storage, events,
		metrics.NewCollector(), 5*1024*1024, 30*time.Minute,
	)
}

func passthroughNormalizer() *MockImageNormalizer {
	normalizer := new(MockImageNormalizer)
	normalizer.On("Normalize", mock.Anything).Return([]byte("normalized"), nil)
	return normalizer
}

func quietEvents() *MockEventPublisher {
	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return()
	return events
}

func TestAttachImageRejectsNonImage(t *testing.T) {
	normalizer := new(MockImageNormalizer)
	svc := newScanService(new(MockIngredientAnalyzer), normalizer, new(MockUsageServiceDB), new(MockScanHistoryDB), nil, quietEvents())

	_, err := svc.AttachImage(uuid.New(), []byte("not an image"), "application/pdf")

	assert.ErrorIs(t, err, services.ErrInvalidImage)
	normalizer.AssertNotCalled(t, "Normalize", mock.Anything)
}

func TestAttachImageRejectsOversizedImage(t *testing.T) {
	normalizer := new(MockImageNormalizer)
	svc := newScanService(new(MockIngredientAnalyzer), normalizer, new(MockUsageServiceDB), new(MockScanHistoryDB), nil, quietEvents())

	oversized := make([]byte, 5*1024*1024+1)
	_, err := svc.AttachImage(uuid.New(), oversized, "image/jpeg")

	assert.ErrorIs(t, err, services.ErrImageTooLarge)
	normalizer.AssertNotCalled(t, "Normalize", mock.Anything)
}

func TestRequestScanQuotaExhausted(t *testing.T) {
	user := newTestUser(models.TierFree)
	analyzer := new(MockIngredientAnalyzer)
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(&models.UsageRecord{UserID: user.ID, ScansThisMonth: 2}, nil)

	svc := newScanService(analyzer, passthroughNormalizer(), usage, new(MockScanHistoryDB), nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	_, err = svc.RequestScan(context.Background(), info.SessionID, user)

	assert.ErrorIs(t, err, services.ErrQuotaExceeded)
	analyzer.AssertNotCalled(t, "AnalyzeIngredients", mock.Anything, mock.Anything, mock.Anything)
	usage.AssertNotCalled(t, "RecordScanDB", mock.Anything)
}

func TestRequestScanPurchasedScansExtendAllowance(t *testing.T) {
	user := newTestUser(models.TierFree)
	analyzer := new(MockIngredientAnalyzer)
	analyzer.On("AnalyzeIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(&services.AnalysisResult{Score: 4, Explanation: "Good quality with beneficial ingredients."}, nil)
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(&models.UsageRecord{UserID: user.ID, ScansThisMonth: 2, PurchasedScans: 1}, nil)
	usage.On("RecordScanDB", user.ID).Return(&models.UsageRecord{UserID: user.ID, ScansThisMonth: 3, PurchasedScans: 1}, nil)
	history := new(MockScanHistoryDB)
	history.On("SaveScanRecordDB", mock.Anything).Return(nil)

	svc := newScanService(analyzer, passthroughNormalizer(), usage, history, nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	outcome, err := svc.RequestScan(context.Background(), info.SessionID, user)

	assert.NoError(t, err)
	assert.Equal(t, 4, outcome.Result.Score)
	usage.AssertCalled(t, "RecordScanDB", user.ID)
}

func TestRequestScanSuccess(t *testing.T) {
	user := newTestUser(models.TierPro)
	analyzer := new(MockIngredientAnalyzer)
	analyzer.On("AnalyzeIngredients", mock.Anything, []byte("normalized"), "jpeg").
		Return(&services.AnalysisResult{Score: 5, Explanation: "Excellent quality with optimal nutritional content."}, nil)
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(&models.UsageRecord{UserID: user.ID, ScansThisMonth: 3}, nil)
	usage.On("RecordScanDB", user.ID).Return(&models.UsageRecord{UserID: user.ID, ScansThisMonth: 4}, nil)
	history := new(MockScanHistoryDB)
	history.On("SaveScanRecordDB", mock.MatchedBy(func(r *models.ScanRecord) bool {
		return r.UserID == user.ID && r.Score == 5
	})).Return(nil)
	events := new(MockEventPublisher)
	events.On("Publish", "scan_result_"+user.ID.String(), mock.Anything).Return()
	events.On("Publish", "usage_update_"+user.ID.String(), mock.Anything).Return()

	svc := newScanService(analyzer, passthroughNormalizer(), usage, history, nil, events)
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	outcome, err := svc.RequestScan(context.Background(), info.SessionID, user)

	assert.NoError(t, err)
	assert.Equal(t, 5, outcome.Result.Score)
	assert.Nil(t, outcome.LedgerErr)
	assert.Equal(t, 4, outcome.Usage.ScansThisMonth)
	usage.AssertNumberOfCalls(t, "RecordScanDB", 1)
	history.AssertExpectations(t)
	events.AssertExpectations(t)

	status, err := svc.Status(info.SessionID, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, services.ScanStateResolved, status.State)
	assert.Equal(t, 5, status.Result.Score)
}

func TestRequestScanLedgerReadFailureIsNotAvailability(t *testing.T) {
	user := newTestUser(models.TierFree)
	analyzer := new(MockIngredientAnalyzer)
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(nil, services.ErrLedgerUnavailable)

	svc := newScanService(analyzer, passthroughNormalizer(), usage, new(MockScanHistoryDB), nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	_, err = svc.RequestScan(context.Background(), info.SessionID, user)

	assert.ErrorIs(t, err, services.ErrLedgerUnavailable)
	analyzer.AssertNotCalled(t, "AnalyzeIngredients", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestScanAnalysisFailureChargesNothing(t *testing.T) {
	user := newTestUser(models.TierBasic)
	analyzer := new(MockIngredientAnalyzer)
	analyzer.On("AnalyzeIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ErrRemoteUnavailable)
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(&models.UsageRecord{UserID: user.ID}, nil)
	history := new(MockScanHistoryDB)

	svc := newScanService(analyzer, passthroughNormalizer(), usage, history, nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	_, err = svc.RequestScan(context.Background(), info.SessionID, user)

	assert.ErrorIs(t, err, services.ErrRemoteUnavailable)
	usage.AssertNotCalled(t, "RecordScanDB", mock.Anything)
	history.AssertNotCalled(t, "SaveScanRecordDB", mock.Anything)

	status, err := svc.Status(info.SessionID, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, services.ScanStateFailed, status.State)
}

func TestResetDuringScanDiscardsLateResult(t *testing.T) {
	user := newTestUser(models.TierPro)
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(&models.UsageRecord{UserID: user.ID}, nil)

	var svc *services.ScanService
	var info *services.ScanSessionInfo

	// The reset fires while the analysis call is still in flight.
	analyzer := new(MockIngredientAnalyzer)
	analyzer.On("AnalyzeIngredients", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			svc.Reset(info.SessionID, user.ID)
		}).
		Return(&services.AnalysisResult{Score: 3, Explanation: "Average quality with balanced nutrition."}, nil)

	svc = newScanService(analyzer, passthroughNormalizer(), usage, new(MockScanHistoryDB), nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	_, err = svc.RequestScan(context.Background(), info.SessionID, user)

	assert.ErrorIs(t, err, services.ErrScanSuperseded)
	usage.AssertNotCalled(t, "RecordScanDB", mock.Anything)

	// Reset removed the session; the next capture starts fresh.
	_, err = svc.Status(info.SessionID, user.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestResetRemovesSession(t *testing.T) {
	user := newTestUser(models.TierFree)

	svc := newScanService(new(MockIngredientAnalyzer), passthroughNormalizer(), new(MockUsageServiceDB), new(MockScanHistoryDB), nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	svc.Reset(info.SessionID, user.ID)

	_, err = svc.Status(info.SessionID, user.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestRequestScanLedgerChargeFailureKeepsResult(t *testing.T) {
	user := newTestUser(models.TierBasic)
	analyzer := new(MockIngredientAnalyzer)
	analyzer.On("AnalyzeIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(&services.AnalysisResult{Score: 2, Explanation: "Below average nutritional value with some concerns."}, nil)
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(&models.UsageRecord{UserID: user.ID}, nil)
	usage.On("RecordScanDB", user.ID).Return(nil, services.ErrLedgerUnavailable)
	history := new(MockScanHistoryDB)
	history.On("SaveScanRecordDB", mock.Anything).Return(nil)

	svc := newScanService(analyzer, passthroughNormalizer(), usage, history, nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	outcome, err := svc.RequestScan(context.Background(), info.SessionID, user)

	assert.NoError(t, err)
	assert.Equal(t, 2, outcome.Result.Score)
	assert.ErrorIs(t, outcome.LedgerErr, services.ErrLedgerUnavailable)
	assert.Nil(t, outcome.Usage)
}

func TestRequestScanRejectsSecondAttempt(t *testing.T) {
	user := newTestUser(models.TierUnlimited)
	analyzer := new(MockIngredientAnalyzer)
	analyzer.On("AnalyzeIngredients", mock.Anything, mock.Anything, mock.Anything).
		Return(&services.AnalysisResult{Score: 1, Explanation: "Poor nutritional quality with concerning ingredients."}, nil).Once()
	usage := new(MockUsageServiceDB)
	usage.On("GetUsageDB", user.ID).Return(&models.UsageRecord{UserID: user.ID, ScansThisMonth: 999}, nil)
	usage.On("RecordScanDB", user.ID).Return(&models.UsageRecord{UserID: user.ID, ScansThisMonth: 1000}, nil)
	history := new(MockScanHistoryDB)
	history.On("SaveScanRecordDB", mock.Anything).Return(nil)

	svc := newScanService(analyzer, passthroughNormalizer(), usage, history, nil, quietEvents())
	info, err := svc.AttachImage(user.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	_, err = svc.RequestScan(context.Background(), info.SessionID, user)
	assert.NoError(t, err)

	_, err = svc.RequestScan(context.Background(), info.SessionID, user)
	assert.ErrorIs(t, err, services.ErrWorkflowState)
	usage.AssertNumberOfCalls(t, "RecordScanDB", 1)
}

func TestRequestScanRejectsForeignSession(t *testing.T) {
	owner := newTestUser(models.TierFree)
	intruder := newTestUser(models.TierFree)

	svc := newScanService(new(MockIngredientAnalyzer), passthroughNormalizer(), new(MockUsageServiceDB), new(MockScanHistoryDB), nil, quietEvents())
	info, err := svc.AttachImage(owner.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	_, err = svc.RequestScan(context.Background(), info.SessionID, intruder)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestStatusAndResetRejectForeignSession(t *testing.T) {
	owner := newTestUser(models.TierFree)
	intruder := newTestUser(models.TierFree)

	svc := newScanService(new(MockIngredientAnalyzer), passthroughNormalizer(), new(MockUsageServiceDB), new(MockScanHistoryDB), nil, quietEvents())
	info, err := svc.AttachImage(owner.ID, []byte("label"), "image/jpeg")
	assert.NoError(t, err)

	_, err = svc.Status(info.SessionID, intruder.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	// A foreign reset is a no-op: the owner's session survives intact.
	svc.Reset(info.SessionID, intruder.ID)

	status, err := svc.Status(info.SessionID, owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, services.ScanStateImageReady, status.State)
}
