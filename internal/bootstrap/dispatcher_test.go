package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightside-platform/alert-service/config"
	"github.com/brightside-platform/alert-service/internal/domain/model"
	"github.com/brightside-platform/alert-service/internal/service"
	"github.com/brightside-platform/alert-service/internal/testutil"
)

func baseConfig() config.AppConfig {
	cfg := config.AppConfig{}
	cfg.Alerts.Enabled = true
	cfg.Alerts.MaxPerWindow = 5
	cfg.SMTP.Host = "smtp.gmail.com"
	cfg.SMTP.Port = 587
	cfg.SMTP.Username = "alerts@brightside.example"
	cfg.SMTP.Password = "app-password"
	cfg.Sanitize()
	return cfg
}

func TestBuildDispatcher_MissingCredentials(t *testing.T) {
	cfg := baseConfig()
	cfg.SMTP.Username = ""
	cfg.SMTP.Password = ""

	dispatcher, err := BuildDispatcher(DispatcherOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	subject := testutil.NewSubject().
		WithContact(testutil.Contact("Pat", "pat@example.com", "parent")).
		Build()

	res := dispatcher.SendAlert(context.Background(), service.AlertRequest{
		Subject: subject,
		Score:   95,
		Message: "please check in",
	})
	assert.Equal(t, model.DispatchStatusSkipped, res.Status)
	assert.Equal(t, service.ReasonInvalidConfiguration, res.Reason)
}

func TestBuildDispatcher_SenderFallsBackToUsername(t *testing.T) {
	cfg := baseConfig()

	dispatcher, err := BuildDispatcher(DispatcherOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	require.NotNil(t, dispatcher)
}

func TestBuildRecorder_DisabledReturnsNil(t *testing.T) {
	repo, db, err := BuildRecorder(context.Background(), config.DBConfig{Enabled: false}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Nil(t, repo)
	assert.Nil(t, db)
}

func TestBuildDirectory_DisabledReturnsNil(t *testing.T) {
	dir, closeFn, err := BuildDirectory(config.RedisConfig{Enabled: false}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Nil(t, dir)
	assert.Nil(t, closeFn)
}
