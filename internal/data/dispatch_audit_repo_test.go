package data

import (
	"context"
	"testing"

	"github.com/brightside-platform/alert-service/internal/domain/model"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation branches run without a database; insert/list paths are covered
// by the integration environment.

func TestDispatchAuditRepo_RecordDispatch_Validation(t *testing.T) {
	repo := NewDispatchAuditRepo(nil)
	ctx := context.Background()

	t.Run("nil record", func(t *testing.T) {
		err := repo.RecordDispatch(ctx, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("missing subject id", func(t *testing.T) {
		err := repo.RecordDispatch(ctx, &model.DispatchRecord{
			Status: model.DispatchStatusRecorded,
		})
		require.Error(t, err)
		assert.Equal(t, "subject_id", apperrors.GetField(err))
	})

	t.Run("invalid status", func(t *testing.T) {
		err := repo.RecordDispatch(ctx, &model.DispatchRecord{
			SubjectID: "u-1",
			Status:    model.DispatchStatus("bogus"),
		})
		require.Error(t, err)
		assert.Equal(t, "status", apperrors.GetField(err))
	})
}

func TestDispatchAuditRepo_ListBySubject_Validation(t *testing.T) {
	repo := NewDispatchAuditRepo(nil)

	_, err := repo.ListBySubject(context.Background(), "  ", 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
