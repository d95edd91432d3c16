package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brightside-platform/alert-service/internal/bootstrap"
	"github.com/brightside-platform/alert-service/internal/data"
)

type saveSubjectOptions struct {
	Subject string
}

func parseSaveSubjectFlags(args []string) (saveSubjectOptions, error) {
	fs := flag.NewFlagSet("save-subject", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts saveSubjectOptions
	fs.StringVar(&opts.Subject, "subject", "", "Subject profile: path to a JSON file or inline JSON (required)")

	if err := fs.Parse(args); err != nil {
		return saveSubjectOptions{}, err
	}

	if opts.Subject == "" {
		return saveSubjectOptions{}, errors.New("--subject is required")
	}

	return opts, nil
}

func runSaveSubject(cmdCtx *commandContext, args []string) error {
	opts, err := parseSaveSubjectFlags(args)
	if err != nil {
		return err
	}

	if !cmdCtx.Config.Redis.Enabled {
		return errors.New("save-subject requires REDIS_DIRECTORY_ENABLED=true")
	}

	subject, err := data.NewJSONDirectory().LoadSubjectArg(opts.Subject)
	if err != nil {
		return fmt.Errorf("load subject profile: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	client, err := bootstrap.ConnectRedis(cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	if err := data.NewRedisDirectory(client).SaveSubject(ctx, subject); err != nil {
		return fmt.Errorf("save subject: %w", err)
	}

	cmdCtx.Logger.Info("subject saved", "subject_id", subject.ID, "contacts", len(subject.Contacts))
	return nil
}
