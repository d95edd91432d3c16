package data

import (
	"context"
	"testing"

	"github.com/brightside-platform/alert-service/internal/domain/model"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
	"github.com/brightside-platform/alert-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDirectory_SaveAndLookup(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	dir := NewRedisDirectory(client)
	ctx := context.Background()

	subject := testutil.NewSubject().
		WithID("redis-subject-1").
		WithName("Alex Doe").
		WithContact(testutil.Contact("Pat", "pat@example.com", "parent")).
		Build()

	require.NoError(t, dir.SaveSubject(ctx, subject))
	t.Cleanup(func() {
		client.Del(ctx, "alerts:subject:redis-subject-1")
	})

	got, err := dir.Lookup(ctx, "redis-subject-1")
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe", got.Name)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, "pat@example.com", got.Contacts[0].Email)
}

func TestRedisDirectory_Lookup_NotFound(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	dir := NewRedisDirectory(client)

	_, err := dir.Lookup(context.Background(), "no-such-subject")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRedisDirectory_Lookup_EmptyID(t *testing.T) {
	dir := NewRedisDirectory(nil)

	_, err := dir.Lookup(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRedisDirectory_SaveSubject_Validation(t *testing.T) {
	dir := NewRedisDirectory(nil)
	ctx := context.Background()

	require.Error(t, dir.SaveSubject(ctx, nil))
	require.Error(t, dir.SaveSubject(ctx, &model.Subject{ID: "  "}))
}
