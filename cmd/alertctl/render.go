package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/brightside-platform/alert-service/internal/domain/model"
	"github.com/brightside-platform/alert-service/internal/service"
)

type renderOptions struct {
	Name         string
	Score        float64
	Message      string
	Relationship string
	HTML         bool
}

func parseRenderFlags(args []string) (renderOptions, error) {
	fs := flag.NewFlagSet("render-preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts renderOptions
	fs.StringVar(&opts.Name, "name", "", "Subject name (required)")
	fs.Float64Var(&opts.Score, "score", 0, "Emotional distress score (0-100)")
	fs.StringVar(&opts.Message, "message", "", "Triggering message")
	fs.StringVar(&opts.Relationship, "relationship", "counselor", "Relationship label shown in the detail block")
	fs.BoolVar(&opts.HTML, "html", false, "Print the HTML body instead of the plain-text fallback")

	if err := fs.Parse(args); err != nil {
		return renderOptions{}, err
	}

	if opts.Name == "" {
		return renderOptions{}, errors.New("--name is required")
	}

	return opts, nil
}

func runRenderPreview(_ *commandContext, args []string) error {
	opts, err := parseRenderFlags(args)
	if err != nil {
		return err
	}

	rendered := service.RenderAlert(service.RenderAlertParams{
		SubjectName:       opts.Name,
		Severity:          model.ClassifySeverity(opts.Score),
		Score:             opts.Score,
		Message:           opts.Message,
		Timestamp:         time.Now(),
		RelationshipLabel: opts.Relationship,
	})

	if err := writef(os.Stdout, "Subject: %s\n\n", rendered.Subject); err != nil {
		return err
	}

	body := rendered.PlainBody
	if opts.HTML {
		body = rendered.HTMLBody
	}
	return writef(os.Stdout, "%s\n", body)
}
