package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"pawrate_go_backend/internal/metrics"
	"pawrate_go_backend/internal/models"

	"github.com/google/uuid"
)

// ScanState is the user-facing state of one scan workflow instance.
type ScanState string

const (
	ScanStateIdle       ScanState = "idle"
	ScanStateImageReady ScanState = "image_ready"
	ScanStateScanning   ScanState = "scanning"
	ScanStateResolved   ScanState = "resolved"
	ScanStateFailed     ScanState = "failed"
)

// scanSession holds the per-instance workflow state. The generation
// counter increments on every Reset so a result arriving for an
// earlier generation is recognized as stale and discarded.
type scanSession struct {
	mu           sync.Mutex
	userID       uuid.UUID
	state        ScanState
	image        []byte
	format       string
	result       *AnalysisResult
	lastErr      error
	generation   uint64
	lastAccessed time.Time
}

// ScanSessionInfo is a snapshot of a workflow instance for the client.
type ScanSessionInfo struct {
	SessionID string          `json:"session_id"`
	State     ScanState       `json:"state"`
	Result    *AnalysisResult `json:"result,omitempty"`
}

// ScanOutcome is what a completed scan request returns. LedgerErr is
// set when the analysis succeeded but charging the scan failed; the
// result is still delivered in that case.
type ScanOutcome struct {
	Result    *AnalysisResult
	Usage     *models.UsageRecord
	LedgerErr error
}

// ScanService orchestrates the scan workflow: image attach and
// validation, the entitlement/quota guard, the remote analysis and the
// usage ledger charge. One outstanding remote call per instance; steps
// are strictly sequential.
type ScanService struct {
	sessions       sync.Map
	analyzer       IngredientAnalyzer
	normalizer     ImageNormalizer
	usageService   UsageServiceDB
	historyService ScanHistoryDB
	cloudStorage   CloudStorageManager
	events         EventPublisher
	recorder       metrics.Recorder
	maxImageBytes  int64
	sessionTimeout time.Duration
}

func NewScanService(
	analyzer IngredientAnalyzer,
	normalizer ImageNormalizer,
	usageService UsageServiceDB,
	historyService ScanHistoryDB,
	cloudStorage CloudStorageManager,
	events EventPublisher,
	recorder metrics.Recorder,
	maxImageBytes int64,
	sessionTimeout time.Duration,
) *ScanService {
	ss := &ScanService{
		analyzer:       analyzer,
		normalizer:     normalizer,
		usageService:   usageService,
		historyService: historyService,
		cloudStorage:   cloudStorage,
		events:         events,
		recorder:       recorder,
		maxImageBytes:  maxImageBytes,
		sessionTimeout: sessionTimeout,
	}
	go ss.periodicCleanup()
	return ss
}

// AttachImage validates and normalizes a captured or uploaded image
// and opens a new workflow instance in the image_ready state. The
// type/size checks are local; no remote call happens here.
func (ss *ScanService) AttachImage(userID uuid.UUID, data []byte, contentType string) (*ScanSessionInfo, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImage, contentType)
	}
	if int64(len(data)) > ss.maxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}

	normalized, err := ss.normalizer.Normalize(data)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	session := &scanSession{
		userID:       userID,
		state:        ScanStateImageReady,
		image:        normalized,
		format:       "jpeg",
		lastAccessed: time.Now(),
	}
	ss.sessions.Store(sessionID, session)

	return &ScanSessionInfo{SessionID: sessionID, State: ScanStateImageReady}, nil
}

// RequestScan runs the guarded image_ready -> scanning -> resolved
// transition. The quota guard rejects before any remote call; the
// ledger is charged exactly once, and only after a successful
// analysis. A ledger failure after success is returned in the outcome
// instead of hiding the result.
func (ss *ScanService) RequestScan(ctx context.Context, sessionID string, user *models.User) (*ScanOutcome, error) {
	session, err := ss.session(sessionID)
	if err != nil {
		return nil, err
	}
	if session.userID != user.ID {
		return nil, ErrSessionNotFound
	}

	session.mu.Lock()
	if session.state != ScanStateImageReady {
		session.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrWorkflowState, session.state)
	}
	generation := session.generation
	image := session.image
	format := session.format
	session.mu.Unlock()

	// Quota guard. A ledger failure here must not pass as "available".
	usage, err := ss.usageService.GetUsageDB(user.ID)
	if err != nil {
		return nil, err
	}
	allowance := AllowanceForTier(user.SubscriptionTier)
	if allowance != UnlimitedScans && usage.ScansThisMonth >= allowance+usage.PurchasedScans {
		return nil, ErrQuotaExceeded
	}

	session.mu.Lock()
	if session.generation != generation || session.state != ScanStateImageReady {
		session.mu.Unlock()
		return nil, ErrScanSuperseded
	}
	session.state = ScanStateScanning
	session.lastAccessed = time.Now()
	session.mu.Unlock()

	started := time.Now()
	result, err := ss.analyzer.AnalyzeIngredients(ctx, image, format)
	ss.recorder.RecordScanLatency(time.Since(started))

	session.mu.Lock()
	if session.generation != generation {
		// Reset happened mid-flight; the instance was discarded and
		// this result no longer belongs to anyone. Nothing is charged.
		session.mu.Unlock()
		return nil, ErrScanSuperseded
	}
	if err != nil {
		session.state = ScanStateFailed
		session.lastErr = err
		session.lastAccessed = time.Now()
		session.mu.Unlock()
		ss.recorder.RecordScanFailure(failureReason(err))
		return nil, err
	}
	session.state = ScanStateResolved
	session.result = result
	session.image = nil
	session.lastAccessed = time.Now()
	session.mu.Unlock()

	ss.recorder.RecordScanSuccess(result.Score)

	outcome := &ScanOutcome{Result: result}
	updated, ledgerErr := ss.usageService.RecordScanDB(user.ID)
	if ledgerErr != nil {
		// The user keeps the result; the missed charge is reported and
		// logged separately.
		log.Printf("Failed to record scan for user %s: %v", user.ID, ledgerErr)
		ss.recorder.RecordLedgerFailure()
		outcome.LedgerErr = ledgerErr
	} else {
		outcome.Usage = updated
	}

	ss.finishScan(sessionID, user, image, result, outcome.Usage)

	return outcome, nil
}

// finishScan handles the best-effort follow-ups of a resolved scan:
// history row, image archive, realtime push. None of them can fail the
// scan itself.
func (ss *ScanService) finishScan(sessionID string, user *models.User, image []byte, result *AnalysisResult, usage *models.UsageRecord) {
	record := &models.ScanRecord{
		UserID:      user.ID,
		Score:       result.Score,
		Explanation: result.Explanation,
	}

	if ss.cloudStorage != nil {
		objectName := fmt.Sprintf("scans/%s.jpg", sessionID)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := ss.cloudStorage.UploadPublic(ctx, objectName, "image/jpeg", bytes.NewReader(image)); err != nil {
			log.Printf("Failed to archive scan image %s: %v", objectName, err)
		} else {
			record.ImageObject = objectName
		}
		cancel()
	}

	if err := ss.historyService.SaveScanRecordDB(record); err != nil {
		log.Printf("Failed to save scan history for user %s: %v", user.ID, err)
	}

	ss.events.Publish("scan_result_"+user.ID.String(), result)
	if usage != nil {
		ss.events.Publish("usage_update_"+user.ID.String(), usage)
	}
}

// Reset discards the instance entirely: image and result are dropped
// and the session is removed, so the next capture opens a fresh one.
// Always permitted for the owner, never fails. Bumping the generation
// first makes an in-flight analysis response stale.
func (ss *ScanService) Reset(sessionID string, userID uuid.UUID) {
	session, err := ss.session(sessionID)
	if err != nil || session.userID != userID {
		return
	}
	session.mu.Lock()
	session.generation++
	session.state = ScanStateIdle
	session.image = nil
	session.result = nil
	session.lastErr = nil
	session.mu.Unlock()
	ss.sessions.Delete(sessionID)
}

// Status returns a snapshot of the workflow instance. Sessions of
// other accounts are indistinguishable from missing ones.
func (ss *ScanService) Status(sessionID string, userID uuid.UUID) (*ScanSessionInfo, error) {
	session, err := ss.session(sessionID)
	if err != nil {
		return nil, err
	}
	if session.userID != userID {
		return nil, ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return &ScanSessionInfo{
		SessionID: sessionID,
		State:     session.state,
		Result:    session.result,
	}, nil
}

func (ss *ScanService) session(sessionID string) (*scanSession, error) {
	value, ok := ss.sessions.Load(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return value.(*scanSession), nil
}

func (ss *ScanService) periodicCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-ss.sessionTimeout)
		ss.sessions.Range(func(key, value interface{}) bool {
			session := value.(*scanSession)
			session.mu.Lock()
			expired := session.lastAccessed.Before(cutoff)
			session.mu.Unlock()
			if expired {
				ss.sessions.Delete(key)
			}
			return true
		})
	}
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrScoreParse):
		return "score_parse"
	case errors.Is(err, ErrRemoteUnavailable):
		return "remote_unavailable"
	default:
		return "other"
	}
}
