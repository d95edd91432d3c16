package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brightside-platform/alert-service/internal/bootstrap"
	"github.com/brightside-platform/alert-service/internal/data"
	"github.com/brightside-platform/alert-service/internal/domain/model"
	"github.com/brightside-platform/alert-service/internal/service"
)

type sendOptions struct {
	Subject       string
	SubjectID     string
	Score         float64
	Message       string
	Relationships string
	Timeout       time.Duration
}

func parseSendFlags(args []string) (sendOptions, error) {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts sendOptions
	fs.StringVar(&opts.Subject, "subject", "", "Subject profile: path to a JSON file or inline JSON")
	fs.StringVar(&opts.SubjectID, "subject-id", "", "Subject ID to look up in the Redis contact directory")
	fs.Float64Var(&opts.Score, "score", 0, "Emotional distress score (0-100)")
	fs.StringVar(&opts.Message, "message", "", "Triggering message, quoted verbatim in the alert")
	fs.StringVar(&opts.Relationships, "relationships", "", "Comma-separated contact categories to notify (default: configured defaults)")
	fs.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "Overall command timeout")

	if err := fs.Parse(args); err != nil {
		return sendOptions{}, err
	}

	if opts.Subject == "" && opts.SubjectID == "" {
		return sendOptions{}, errors.New("either --subject or --subject-id is required")
	}
	if opts.Subject != "" && opts.SubjectID != "" {
		return sendOptions{}, errors.New("--subject and --subject-id are mutually exclusive")
	}

	return opts, nil
}

func runSend(cmdCtx *commandContext, args []string) error {
	opts, err := parseSendFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	subject, cleanup, err := resolveSubject(ctx, cmdCtx, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	recorder, db, err := bootstrap.BuildRecorder(ctx, cmdCtx.Config.Postgres, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect audit database: %w", err)
	}
	if db != nil {
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				cmdCtx.Logger.Warn("db close failed", "error", closeErr)
			}
		}()
	}

	_, dispatchMetrics := bootstrap.StartMetricsServer(cmdCtx.Config.Observability, cmdCtx.Logger)

	dispatcherOpts := bootstrap.DispatcherOptions{
		Config:  cmdCtx.Config,
		Logger:  cmdCtx.Logger,
		Metrics: dispatchMetrics,
	}
	if recorder != nil {
		dispatcherOpts.Recorder = recorder
	}

	dispatcher, err := bootstrap.BuildDispatcher(dispatcherOpts)
	if err != nil {
		return fmt.Errorf("build dispatcher: %w", err)
	}

	res := dispatcher.SendAlert(ctx, service.AlertRequest{
		Subject:       subject,
		Score:         opts.Score,
		Message:       opts.Message,
		Relationships: splitRelationships(opts.Relationships),
	})

	if err := printDispatchResult(subject, res); err != nil {
		return err
	}

	if res.Status == model.DispatchStatusFailed {
		return fmt.Errorf("dispatch failed: %s", res.Reason)
	}
	return nil
}

// resolveSubject loads the subject profile either from the Redis contact
// directory or from the JSON argument on the command line.
func resolveSubject(ctx context.Context, cmdCtx *commandContext, opts sendOptions) (*model.Subject, func(), error) {
	noop := func() {}

	if opts.SubjectID != "" {
		if !cmdCtx.Config.Redis.Enabled {
			return nil, noop, errors.New("--subject-id requires REDIS_DIRECTORY_ENABLED=true")
		}
		directory, closeFn, err := bootstrap.BuildDirectory(cmdCtx.Config.Redis, cmdCtx.Logger)
		if err != nil {
			return nil, noop, fmt.Errorf("connect contact directory: %w", err)
		}
		cleanup := func() {
			if closeErr := closeFn(); closeErr != nil {
				cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
			}
		}
		subject, err := directory.Lookup(ctx, opts.SubjectID)
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("look up subject %q: %w", opts.SubjectID, err)
		}
		return subject, cleanup, nil
	}

	subject, err := data.NewJSONDirectory().LoadSubjectArg(opts.Subject)
	if err != nil {
		return nil, noop, fmt.Errorf("load subject profile: %w", err)
	}
	return subject, noop, nil
}

func splitRelationships(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func printDispatchResult(subject *model.Subject, res model.DispatchResult) error {
	if err := writef(os.Stdout, "Subject:  %s (%s)\n", subject.Name, subject.ID); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Status:   %s\n", res.Status); err != nil {
		return err
	}
	if res.Reason != "" {
		if err := writef(os.Stdout, "Reason:   %s\n", res.Reason); err != nil {
			return err
		}
	}
	if res.Delivered() {
		if err := writef(os.Stdout, "Severity: %s\n", res.Severity); err != nil {
			return err
		}
		if err := writef(os.Stdout, "Notified: %d contact(s)\n", res.ContactsNotified); err != nil {
			return err
		}
	}
	return nil
}
