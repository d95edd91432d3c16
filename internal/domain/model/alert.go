package model

import "time"

// AlertSeverity is the tier derived from the distress score.
type AlertSeverity string

const (
	AlertSeverityCritical AlertSeverity = "CRITICAL"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeverityElevated AlertSeverity = "ELEVATED"
)

// String returns the string representation of the alert severity.
func (s AlertSeverity) String() string {
	return string(s)
}

// Valid returns true if the alert severity is one of the supported tiers.
func (s AlertSeverity) Valid() bool {
	switch s {
	case AlertSeverityCritical, AlertSeverityHigh, AlertSeverityElevated:
		return true
	default:
		return false
	}
}

// Severity thresholds for the distress score.
const (
	criticalScoreThreshold = 90
	highScoreThreshold     = 80
)

// ClassifySeverity maps a distress score to a severity tier. Classification
// is total over all real numbers: out-of-range and negative scores fall to
// ELEVATED rather than producing an error tier.
func ClassifySeverity(score float64) AlertSeverity {
	switch {
	case score >= criticalScoreThreshold:
		return AlertSeverityCritical
	case score >= highScoreThreshold:
		return AlertSeverityHigh
	default:
		return AlertSeverityElevated
	}
}

// RenderedAlert is a fully built notification ready for the transport.
// Constructed fresh per dispatch and never persisted.
type RenderedAlert struct {
	Subject   string
	HTMLBody  string
	PlainBody string
	Severity  AlertSeverity
	Timestamp time.Time
}

// DispatchStatus is the terminal state of one dispatch attempt.
type DispatchStatus string

const (
	// DispatchStatusRecorded means the transport confirmed delivery and the
	// attempt was counted against the subject's quota.
	DispatchStatusRecorded DispatchStatus = "recorded"
	// DispatchStatusSkipped means the dispatch ended before the transport was
	// invoked (rate limited, nothing to send, or alerts disabled).
	DispatchStatusSkipped DispatchStatus = "skipped"
	// DispatchStatusFailed means the transport was invoked and reported a
	// failure; the attempt did not consume quota.
	DispatchStatusFailed DispatchStatus = "failed"
)

// Valid returns true when the status is one of the supported values.
func (s DispatchStatus) Valid() bool {
	switch s {
	case DispatchStatusRecorded, DispatchStatusSkipped, DispatchStatusFailed:
		return true
	default:
		return false
	}
}

// DispatchResult is the structured outcome returned to the caller for every
// dispatch attempt. The dispatcher always returns a definite outcome; partial
// sends are never reported as success.
type DispatchResult struct {
	Status           DispatchStatus
	Reason           string
	Severity         AlertSeverity
	ContactsNotified int
}

// Delivered reports whether the alert reached the transport successfully.
func (r DispatchResult) Delivered() bool {
	return r.Status == DispatchStatusRecorded
}

// SendAlertRequest carries the inputs for one dispatch attempt.
type SendAlertRequest struct {
	SubjectID string
	// Score is the emotional distress score that crossed the alert threshold.
	Score float64
	// Message is the triggering message, quoted verbatim in the alert body.
	Message string
	// Relationships optionally narrows which contact categories are notified.
	// Empty means the configured defaults.
	Relationships []string
}

// DispatchRecord is the audit-trail entry persisted after an attempt. It is a
// best-effort operational record, not rate-limit state.
type DispatchRecord struct {
	ID               string
	SubjectID        string
	Severity         AlertSeverity
	Score            float64
	Status           DispatchStatus
	Reason           string
	ContactsNotified int
	CreatedAt        time.Time
}
