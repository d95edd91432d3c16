package data

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/brightside-platform/alert-service/internal/domain/model"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
)

// DispatchAuditRepo persists the audit trail of dispatch outcomes in
// PostgreSQL. The trail is operational history only: it is never read back
// to gate dispatches, so rate limiting stays in memory as designed.
type DispatchAuditRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDispatchAuditRepo creates a new DispatchAuditRepo instance with the given database connection.
func NewDispatchAuditRepo(db *sql.DB) *DispatchAuditRepo {
	return &DispatchAuditRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// dispatchAuditColumns defines the column list for SELECT queries to ensure consistent field mapping.
const dispatchAuditColumns = `id, subject_id, severity, score, status, reason, contacts_notified, created_at`

const createDispatchAuditTable = `
CREATE TABLE IF NOT EXISTS dispatch_audit (
	id UUID PRIMARY KEY,
	subject_id TEXT NOT NULL,
	severity TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	contacts_notified INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dispatch_audit_subject_created
	ON dispatch_audit (subject_id, created_at DESC);
`

// EnsureSchema creates the audit table when it does not exist yet.
func (r *DispatchAuditRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createDispatchAuditTable); err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// RecordDispatch implements core.DispatchRecorder.
func (r *DispatchAuditRepo) RecordDispatch(ctx context.Context, rec *model.DispatchRecord) error {
	if rec == nil {
		return apperrors.Validation("dispatch record is required")
	}
	if strings.TrimSpace(rec.SubjectID) == "" {
		return apperrors.ValidationField("subject_id", "subject id is required")
	}
	if !rec.Status.Valid() {
		return apperrors.ValidationField("status", "invalid dispatch status")
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.timeProvider.Now()
	}

	const query = `
		INSERT INTO dispatch_audit (` + dispatchAuditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.SubjectID,
		rec.Severity.String(),
		rec.Score,
		string(rec.Status),
		rec.Reason,
		rec.ContactsNotified,
		rec.CreatedAt,
	)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// ListBySubject returns the most recent audit entries for a subject, newest first.
func (r *DispatchAuditRepo) ListBySubject(
	ctx context.Context,
	subjectID string,
	limit int,
) ([]*model.DispatchRecord, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, apperrors.ValidationField("subject_id", "subject id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT ` + dispatchAuditColumns + `
		FROM dispatch_audit
		WHERE subject_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, subjectID, limit)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	defer func() { _ = rows.Close() }()

	var records []*model.DispatchRecord
	for rows.Next() {
		var rec model.DispatchRecord
		var severity, status string
		if scanErr := rows.Scan(
			&rec.ID,
			&rec.SubjectID,
			&severity,
			&rec.Score,
			&status,
			&rec.Reason,
			&rec.ContactsNotified,
			&rec.CreatedAt,
		); scanErr != nil {
			return nil, apperrors.MapDBError(scanErr)
		}
		rec.Severity = model.AlertSeverity(severity)
		rec.Status = model.DispatchStatus(status)
		records = append(records, &rec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperrors.MapDBError(rowsErr)
	}

	return records, nil
}
