package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/brightside-platform/alert-service/internal/bootstrap"
	"github.com/brightside-platform/alert-service/internal/data"
	"github.com/brightside-platform/alert-service/internal/domain/model"
)

type auditOptions struct {
	SubjectID string
	Limit     int
}

func parseAuditFlags(args []string) (auditOptions, error) {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts auditOptions
	fs.StringVar(&opts.SubjectID, "subject-id", "", "Subject ID to list audit entries for (required)")
	fs.IntVar(&opts.Limit, "limit", 20, "Maximum entries to display")

	if err := fs.Parse(args); err != nil {
		return auditOptions{}, err
	}

	if opts.SubjectID == "" {
		return auditOptions{}, errors.New("--subject-id is required")
	}

	return opts, nil
}

func runAudit(cmdCtx *commandContext, args []string) error {
	opts, err := parseAuditFlags(args)
	if err != nil {
		return err
	}

	if !cmdCtx.Config.Postgres.Enabled {
		return errors.New("audit command requires DB_AUDIT_ENABLED=true")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	db, err := bootstrap.ConnectDB(cmdCtx.Config.Postgres, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	records, err := data.NewDispatchAuditRepo(db).ListBySubject(ctx, opts.SubjectID, opts.Limit)
	if err != nil {
		return fmt.Errorf("list audit entries: %w", err)
	}

	return printAuditRecords(records)
}

func printAuditRecords(records []*model.DispatchRecord) error {
	if len(records) == 0 {
		return writef(os.Stdout, "No audit entries found.\n")
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "CREATED\tSTATUS\tREASON\tSEVERITY\tSCORE\tNOTIFIED\n"); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%.1f\t%d\n",
			rec.CreatedAt.Format(time.RFC3339),
			rec.Status,
			rec.Reason,
			rec.Severity,
			rec.Score,
			rec.ContactsNotified,
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}
