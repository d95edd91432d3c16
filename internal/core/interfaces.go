package core

import (
	"context"

	"github.com/brightside-platform/alert-service/internal/domain/model"
)

// This file contains the dispatch pipeline's port definitions (hexagonal
// architecture). The service layer depends on these interfaces, not on the
// SMTP, Redis, or Postgres adapters behind them.

// ContactDirectory resolves a subject identifier to the subject's display
// name and ordered contact list. Implementations must tolerate missing
// optional fields (they become empty strings) and only fail when the subject
// itself cannot be resolved.
type ContactDirectory interface {
	Lookup(ctx context.Context, subjectID string) (*model.Subject, error)
}

// SendMessageRequest groups the transport inputs for one atomic send: a
// single message addressed to every recipient, never one send per recipient.
type SendMessageRequest struct {
	From      string
	To        []string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// MessageTransport delivers a rendered alert. Implementations return an
// AppError carrying one of the transport failure codes (auth, recipients
// refused, connection, unknown) so the dispatcher can report a failure kind.
// The transport is protocol-agnostic; email, webhook, and SMS gateways are
// all substitutable behind this contract.
type MessageTransport interface {
	Send(ctx context.Context, req SendMessageRequest) error
}

// DispatchRecorder persists the audit trail of dispatch outcomes. Recording
// is best-effort: a recorder failure never changes a dispatch result.
type DispatchRecorder interface {
	RecordDispatch(ctx context.Context, rec *model.DispatchRecord) error
}
