package services

import "errors"

// Sentinel errors for the scan and diet pipelines. Callers branch with
// errors.Is; the API layer maps them onto user-facing responses.
var (
	// ErrInvalidImage: the attached file is not a supported image type.
	ErrInvalidImage = errors.New("unsupported image type")
	// ErrImageTooLarge: the attached file exceeds the size ceiling.
	ErrImageTooLarge = errors.New("image exceeds size limit")
	// ErrImageDecode: the input bytes could not be decoded as an image.
	ErrImageDecode = errors.New("image could not be decoded")
	// ErrQuotaExceeded: the cycle's scan allowance is used up. No
	// remote call was made.
	ErrQuotaExceeded = errors.New("scan limit reached")
	// ErrRemoteUnavailable: network failure or non-success from the
	// remote model. Single attempt, the caller decides on retry.
	ErrRemoteUnavailable = errors.New("remote analysis unavailable")
	// ErrScoreParse: the remote response carried no integer in [1,5].
	ErrScoreParse = errors.New("no valid score in analysis response")
	// ErrEmptyPlan: generation returned text with zero parseable sections.
	ErrEmptyPlan = errors.New("generated plan contains no sections")
	// ErrLedgerUnavailable: usage persistence failed. Never to be
	// treated as "quota available".
	ErrLedgerUnavailable = errors.New("usage ledger unavailable")
	// ErrWorkflowState: the requested transition is not legal from the
	// workflow's current state.
	ErrWorkflowState = errors.New("operation not allowed in current scan state")
	// ErrScanSuperseded: the workflow was reset while the analysis was
	// in flight; the late result was discarded and nothing was charged.
	ErrScanSuperseded = errors.New("scan superseded by reset")
	// ErrSessionNotFound: unknown or expired workflow instance.
	ErrSessionNotFound = errors.New("scan session not found")
)
