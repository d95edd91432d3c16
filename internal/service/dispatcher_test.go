package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brightside-platform/alert-service/internal/core"
	"github.com/brightside-platform/alert-service/internal/data"
	"github.com/brightside-platform/alert-service/internal/domain/model"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
	"github.com/brightside-platform/alert-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTransport struct {
	sendFunc func(ctx context.Context, req core.SendMessageRequest) error
	calls    []core.SendMessageRequest
}

func (m *mockTransport) Send(ctx context.Context, req core.SendMessageRequest) error {
	m.calls = append(m.calls, req)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, req)
	}
	return nil
}

type mockRecorder struct {
	recordFunc func(ctx context.Context, rec *model.DispatchRecord) error
	records    []*model.DispatchRecord
}

func (m *mockRecorder) RecordDispatch(ctx context.Context, rec *model.DispatchRecord) error {
	m.records = append(m.records, rec)
	if m.recordFunc != nil {
		return m.recordFunc(ctx, rec)
	}
	return nil
}

type dispatcherFixture struct {
	dispatcher *AlertDispatcher
	transport  *mockTransport
	recorder   *mockRecorder
	limiter    *RateLimiter
	clock      *data.FixedTimeProvider
}

func newDispatcherFixture(t *testing.T, mutate func(*AlertDispatcherOptions)) *dispatcherFixture {
	t.Helper()

	clock := data.NewFixedTimeProvider(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	limiter := NewRateLimiter(RateLimiterOptions{
		Window:       time.Hour,
		MaxPerWindow: 5,
		TimeProvider: clock,
	})
	transport := &mockTransport{}
	recorder := &mockRecorder{}

	opts := AlertDispatcherOptions{
		Limiter:      limiter,
		Selector:     NewContactSelector(nil),
		Transport:    transport,
		Recorder:     recorder,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		TimeProvider: clock,
		Enabled:      true,
		FromAddress:  "alerts@brightside.example",
	}
	if mutate != nil {
		mutate(&opts)
	}

	return &dispatcherFixture{
		dispatcher: NewAlertDispatcher(opts),
		transport:  transport,
		recorder:   recorder,
		limiter:    limiter,
		clock:      clock,
	}
}

func twoContactSubject() *model.Subject {
	return testutil.NewSubject().
		WithID("u-1").
		WithName("Alex Doe").
		WithContacts(
			testutil.Contact("Pat", "pat@example.com", "parent"),
			testutil.Contact("Sam", "sam@example.com", "counselor"),
			testutil.Contact("Jo", "", "friend"),
		).
		Build()
}

func TestAlertDispatcher_SendAlert_Success(t *testing.T) {
	f := newDispatcherFixture(t, nil)

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject: twoContactSubject(),
		Score:   95,
		Message: "I feel hopeless",
	})

	assert.Equal(t, model.DispatchStatusRecorded, res.Status)
	assert.Equal(t, model.AlertSeverityCritical, res.Severity)
	assert.Equal(t, 2, res.ContactsNotified)
	assert.True(t, res.Delivered())

	require.Len(t, f.transport.calls, 1, "one atomic send, not one per recipient")
	sent := f.transport.calls[0]
	assert.Equal(t, "alerts@brightside.example", sent.From)
	assert.Equal(t, []string{"pat@example.com", "sam@example.com"}, sent.To)
	assert.Contains(t, sent.Subject, "CRITICAL ALERT")
	assert.Contains(t, sent.Subject, "Alex Doe")
	assert.Equal(t, DerivePlainText(sent.HTMLBody), sent.PlainBody)

	assert.Equal(t, 1, f.limiter.PendingCount("u-1"), "success records exactly one ledger entry")
}

func TestAlertDispatcher_SendAlert_RateLimited(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	subject := twoContactSubject()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res := f.dispatcher.SendAlert(ctx, AlertRequest{Subject: subject, Score: 95, Message: "m"})
		require.Equal(t, model.DispatchStatusRecorded, res.Status)
	}

	res := f.dispatcher.SendAlert(ctx, AlertRequest{Subject: subject, Score: 95, Message: "m"})

	assert.Equal(t, model.DispatchStatusSkipped, res.Status)
	assert.Equal(t, ReasonRateLimited, res.Reason)
	assert.Len(t, f.transport.calls, 5, "rate-limited dispatch must not invoke the transport")
}

func TestAlertDispatcher_SendAlert_NoEligibleContacts(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	subject := twoContactSubject()

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject:       subject,
		Score:         85,
		Message:       "m",
		Relationships: []string{"teacher"},
	})

	assert.Equal(t, model.DispatchStatusSkipped, res.Status)
	assert.Equal(t, ReasonNoEligibleContacts, res.Reason)
	assert.Empty(t, f.transport.calls)
	assert.Equal(t, 0, f.limiter.PendingCount("u-1"))
}

func TestAlertDispatcher_SendAlert_TransportFailurePreservesQuota(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	f.transport.sendFunc = func(ctx context.Context, req core.SendMessageRequest) error {
		return apperrors.Wrap(errors.New("535 bad credentials"),
			apperrors.ErrCodeTransportAuth, "smtp authentication failed")
	}
	subject := twoContactSubject()

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject: subject, Score: 92, Message: "m",
	})

	assert.Equal(t, model.DispatchStatusFailed, res.Status)
	assert.Equal(t, string(apperrors.ErrCodeTransportAuth), res.Reason)
	assert.Equal(t, model.AlertSeverityCritical, res.Severity)
	assert.Equal(t, 0, f.limiter.PendingCount("u-1"), "failed attempts never consume quota")
	assert.True(t, f.limiter.Check("u-1"))
}

func TestAlertDispatcher_SendAlert_UnclassifiedTransportError(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	f.transport.sendFunc = func(ctx context.Context, req core.SendMessageRequest) error {
		return errors.New("something odd")
	}

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject: twoContactSubject(), Score: 92, Message: "m",
	})

	assert.Equal(t, model.DispatchStatusFailed, res.Status)
	assert.Equal(t, ReasonTransportUnknown, res.Reason)
}

func TestAlertDispatcher_SendAlert_FeatureDisabled(t *testing.T) {
	f := newDispatcherFixture(t, func(opts *AlertDispatcherOptions) {
		opts.Enabled = false
	})
	subject := twoContactSubject()

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject: subject, Score: 95, Message: "m",
	})

	assert.Equal(t, model.DispatchStatusSkipped, res.Status)
	assert.Equal(t, ReasonFeatureDisabled, res.Reason)
	assert.Empty(t, f.transport.calls)
	assert.Equal(t, 0, f.limiter.PendingCount("u-1"), "short-circuit happens before the rate check")
}

func TestAlertDispatcher_SendAlert_InvalidConfiguration(t *testing.T) {
	t.Run("missing transport", func(t *testing.T) {
		f := newDispatcherFixture(t, func(opts *AlertDispatcherOptions) {
			opts.Transport = nil
		})

		res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
			Subject: twoContactSubject(), Score: 95, Message: "m",
		})

		assert.Equal(t, model.DispatchStatusSkipped, res.Status)
		assert.Equal(t, ReasonInvalidConfiguration, res.Reason)
	})

	t.Run("missing sender address", func(t *testing.T) {
		f := newDispatcherFixture(t, func(opts *AlertDispatcherOptions) {
			opts.FromAddress = "  "
		})

		res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
			Subject: twoContactSubject(), Score: 95, Message: "m",
		})

		assert.Equal(t, ReasonInvalidConfiguration, res.Reason)
	})

	t.Run("wiring-time config error", func(t *testing.T) {
		f := newDispatcherFixture(t, func(opts *AlertDispatcherOptions) {
			opts.ConfigErr = apperrors.InvalidConfiguration("SMTP username and password must be set")
		})

		res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
			Subject: twoContactSubject(), Score: 95, Message: "m",
		})

		assert.Equal(t, ReasonInvalidConfiguration, res.Reason)
		assert.Empty(t, f.transport.calls)
	})
}

func TestAlertDispatcher_SendAlert_AuditTrail(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	subject := twoContactSubject()

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject: subject, Score: 83.5, Message: "m",
	})
	require.Equal(t, model.DispatchStatusRecorded, res.Status)

	require.Len(t, f.recorder.records, 1)
	rec := f.recorder.records[0]
	assert.Equal(t, "u-1", rec.SubjectID)
	assert.Equal(t, model.AlertSeverityHigh, rec.Severity)
	assert.Equal(t, 83.5, rec.Score)
	assert.Equal(t, model.DispatchStatusRecorded, rec.Status)
	assert.Equal(t, 2, rec.ContactsNotified)
}

func TestAlertDispatcher_SendAlert_RecorderFailureDoesNotChangeResult(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	f.recorder.recordFunc = func(ctx context.Context, rec *model.DispatchRecord) error {
		return errors.New("database unavailable")
	}

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject: twoContactSubject(), Score: 95, Message: "m",
	})

	assert.Equal(t, model.DispatchStatusRecorded, res.Status)
	assert.Equal(t, 2, res.ContactsNotified)
}

func TestAlertDispatcher_SendAlert_MissingSubject(t *testing.T) {
	f := newDispatcherFixture(t, nil)

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{Score: 95, Message: "m"})

	assert.Equal(t, model.DispatchStatusSkipped, res.Status)
	assert.Equal(t, string(apperrors.ErrCodeValidation), res.Reason)
	assert.Empty(t, f.transport.calls)
}

func TestAlertDispatcher_SendAlert_DeliveryTimeout(t *testing.T) {
	f := newDispatcherFixture(t, func(opts *AlertDispatcherOptions) {
		opts.DeliveryTimeout = 10 * time.Millisecond
	})
	f.transport.sendFunc = func(ctx context.Context, req core.SendMessageRequest) error {
		_, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline, "delivery context must carry the configured timeout")
		return apperrors.Wrap(context.DeadlineExceeded,
			apperrors.ErrCodeTransportConnection, "smtp dial timed out")
	}

	res := f.dispatcher.SendAlert(context.Background(), AlertRequest{
		Subject: twoContactSubject(), Score: 95, Message: "m",
	})

	assert.Equal(t, model.DispatchStatusFailed, res.Status)
	assert.Equal(t, string(apperrors.ErrCodeTransportConnection), res.Reason)
	assert.Equal(t, 0, f.limiter.PendingCount("u-1"))
}
