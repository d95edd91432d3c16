package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/brightside-platform/alert-service/internal/core"
	"github.com/brightside-platform/alert-service/internal/data"
	"github.com/brightside-platform/alert-service/internal/domain/model"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
	"github.com/brightside-platform/alert-service/internal/observability/metrics"
)

// Skip and failure reasons reported in DispatchResult.Reason.
const (
	ReasonRateLimited          = string(apperrors.ErrCodeRateLimited)
	ReasonNoEligibleContacts   = string(apperrors.ErrCodeNoEligibleContacts)
	ReasonFeatureDisabled      = string(apperrors.ErrCodeFeatureDisabled)
	ReasonInvalidConfiguration = string(apperrors.ErrCodeInvalidConfiguration)
	ReasonTransportUnknown     = string(apperrors.ErrCodeTransportUnknown)
)

// AlertDispatcherOptions configures the alert dispatcher.
type AlertDispatcherOptions struct {
	Limiter   *RateLimiter
	Selector  *ContactSelector
	Transport core.MessageTransport
	// Recorder persists the audit trail; optional, failures are logged only.
	Recorder core.DispatchRecorder
	// Metrics emits dispatch outcome counters; optional.
	Metrics *metrics.DispatchMetrics
	Logger  *slog.Logger
	// TimeProvider supplies the alert timestamp; defaults to real time.
	TimeProvider data.TimeProvider

	// Enabled is the emergency-alert feature switch.
	Enabled bool
	// FromAddress is the sender address handed to the transport.
	FromAddress string
	// DeliveryTimeout bounds a single transport attempt; zero means the
	// caller's context is the only bound.
	DeliveryTimeout time.Duration
	// ConfigErr carries a configuration validation failure detected at
	// wiring time (for example missing SMTP credentials). When set, every
	// dispatch short-circuits before the rate-limit check.
	ConfigErr error
}

// AlertDispatcher orchestrates one dispatch attempt: rate-limit gate, contact
// selection, severity classification, rendering, and the atomic transport
// send, recording quota only after confirmed delivery.
type AlertDispatcher struct {
	limiter         *RateLimiter
	selector        *ContactSelector
	transport       core.MessageTransport
	recorder        core.DispatchRecorder
	metrics         *metrics.DispatchMetrics
	logger          *slog.Logger
	clock           data.TimeProvider
	enabled         bool
	fromAddress     string
	deliveryTimeout time.Duration
	configErr       error
}

// AlertRequest carries the inputs for one dispatch attempt. The subject is
// the result of a directory lookup performed by the caller and is treated as
// immutable for the duration of the dispatch.
type AlertRequest struct {
	Subject *model.Subject
	// Score is the emotional distress score that crossed the alert threshold.
	Score float64
	// Message is the triggering message, quoted verbatim in the alert body.
	Message string
	// Relationships optionally narrows which contact categories are
	// notified. Absent or empty means the configured defaults.
	Relationships []string
}

// NewAlertDispatcher creates a new alert dispatcher.
func NewAlertDispatcher(opts AlertDispatcherOptions) *AlertDispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.TimeProvider
	if clock == nil {
		clock = &data.RealTimeProvider{}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(RateLimiterOptions{
			Window:       DefaultRateWindow,
			MaxPerWindow: DefaultMaxPerWindow,
			TimeProvider: clock,
		})
	}
	selector := opts.Selector
	if selector == nil {
		selector = NewContactSelector(nil)
	}

	configErr := opts.ConfigErr
	if configErr == nil && opts.Transport == nil {
		configErr = apperrors.InvalidConfiguration("message transport is not configured")
	}
	if configErr == nil && strings.TrimSpace(opts.FromAddress) == "" {
		configErr = apperrors.InvalidConfiguration("sender address is not configured")
	}

	return &AlertDispatcher{
		limiter:         limiter,
		selector:        selector,
		transport:       opts.Transport,
		recorder:        opts.Recorder,
		metrics:         opts.Metrics,
		logger:          logger,
		clock:           clock,
		enabled:         opts.Enabled,
		fromAddress:     strings.TrimSpace(opts.FromAddress),
		deliveryTimeout: opts.DeliveryTimeout,
		configErr:       configErr,
	}
}

// SendAlert runs one dispatch attempt and always returns a definite outcome.
// Configuration problems and the feature switch short-circuit before the
// rate-limit check; a failed transport attempt never consumes quota.
func (d *AlertDispatcher) SendAlert(ctx context.Context, req AlertRequest) model.DispatchResult {
	started := d.clock.Now()
	res := d.dispatch(ctx, req)
	d.finish(ctx, req, res, d.clock.Now().Sub(started))
	return res
}

func (d *AlertDispatcher) dispatch(ctx context.Context, req AlertRequest) model.DispatchResult {
	if d.configErr != nil {
		d.logger.ErrorContext(ctx, "alert dispatch blocked by configuration", "error", d.configErr)
		return model.DispatchResult{
			Status: model.DispatchStatusSkipped,
			Reason: ReasonInvalidConfiguration,
		}
	}

	if !d.enabled {
		d.logger.InfoContext(ctx, "emergency alerts are disabled, skipping dispatch")
		return model.DispatchResult{
			Status: model.DispatchStatusSkipped,
			Reason: ReasonFeatureDisabled,
		}
	}

	if req.Subject == nil || strings.TrimSpace(req.Subject.ID) == "" {
		return model.DispatchResult{
			Status: model.DispatchStatusSkipped,
			Reason: string(apperrors.ErrCodeValidation),
		}
	}
	subject := req.Subject

	// Checking: the gate purges and counts but never appends.
	if !d.limiter.Check(subject.ID) {
		d.logger.WarnContext(ctx, "rate limit exceeded, skipping alert",
			"subject_id", subject.ID)
		return model.DispatchResult{
			Status: model.DispatchStatusSkipped,
			Reason: ReasonRateLimited,
		}
	}

	// Selecting.
	eligible := d.selector.Filter(subject.Contacts, req.Relationships)
	if len(eligible) == 0 {
		d.logger.WarnContext(ctx, "no eligible contacts for alert",
			"subject_id", subject.ID,
			"relationships", req.Relationships)
		return model.DispatchResult{
			Status: model.DispatchStatusSkipped,
			Reason: ReasonNoEligibleContacts,
		}
	}

	// Rendering.
	severity := model.ClassifySeverity(req.Score)
	rendered := RenderAlert(RenderAlertParams{
		SubjectName:       subject.Name,
		Severity:          severity,
		Score:             req.Score,
		Message:           req.Message,
		Timestamp:         d.clock.Now(),
		RelationshipLabel: eligible[0].Relationship,
	})

	recipients := make([]string, 0, len(eligible))
	for _, c := range eligible {
		recipients = append(recipients, c.Email)
	}

	// Delivering: one atomic send to all recipients, outside any lock.
	sendCtx := ctx
	if d.deliveryTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.deliveryTimeout)
		defer cancel()
	}

	err := d.transport.Send(sendCtx, core.SendMessageRequest{
		From:      d.fromAddress,
		To:        recipients,
		Subject:   rendered.Subject,
		HTMLBody:  rendered.HTMLBody,
		PlainBody: rendered.PlainBody,
	})
	if err != nil {
		reason := string(apperrors.GetCode(err))
		if reason == "" {
			reason = ReasonTransportUnknown
		}
		d.logger.ErrorContext(ctx, "alert delivery failed",
			"subject_id", subject.ID,
			"severity", severity,
			"reason", reason,
			"error", err)
		return model.DispatchResult{
			Status:   model.DispatchStatusFailed,
			Reason:   reason,
			Severity: severity,
		}
	}

	// Recorded: consume quota only after the transport confirmed delivery.
	d.limiter.Record(subject.ID)

	d.logger.InfoContext(ctx, "emergency alert delivered",
		"subject_id", subject.ID,
		"severity", severity,
		"recipients", len(recipients))

	return model.DispatchResult{
		Status:           model.DispatchStatusRecorded,
		Severity:         severity,
		ContactsNotified: len(recipients),
	}
}

// finish emits the audit record and metrics for a terminal outcome. Both are
// best-effort and never change the result.
func (d *AlertDispatcher) finish(
	ctx context.Context,
	req AlertRequest,
	res model.DispatchResult,
	elapsed time.Duration,
) {
	d.metrics.ObserveDispatch(res, elapsed)

	if d.recorder == nil || req.Subject == nil {
		return
	}

	rec := &model.DispatchRecord{
		SubjectID:        req.Subject.ID,
		Severity:         res.Severity,
		Score:            req.Score,
		Status:           res.Status,
		Reason:           res.Reason,
		ContactsNotified: res.ContactsNotified,
		CreatedAt:        d.clock.Now(),
	}
	if err := d.recorder.RecordDispatch(ctx, rec); err != nil {
		d.logger.ErrorContext(ctx, "failed to record dispatch audit entry",
			"subject_id", req.Subject.ID,
			"error", err)
	}
}
