package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/brightside-platform/alert-service/internal/domain/model"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
)

// JSONDirectory is a ContactDirectory backed by subject documents decoded
// from JSON. It serves the CLI path where the caller hands us the subject
// inline or as a file, and doubles as an in-memory directory for tests.
//
// Decoding is tolerant: missing optional fields become empty strings and
// unknown fields are ignored. Only an unresolvable subject is an error.
type JSONDirectory struct {
	subjects map[string]*model.Subject
}

// NewJSONDirectory creates an empty JSONDirectory.
func NewJSONDirectory() *JSONDirectory {
	return &JSONDirectory{subjects: make(map[string]*model.Subject)}
}

// AddSubject registers a subject in the directory. The subject is normalized
// on the way in so lookups and filtering never see untrimmed identity fields.
func (d *JSONDirectory) AddSubject(s *model.Subject) {
	if s == nil {
		return
	}
	s.Normalize()
	d.subjects[s.ID] = s
}

// LoadSubjectJSON decodes a subject document from raw JSON and registers it.
// It returns the decoded subject so CLI callers can dispatch for it directly.
func (d *JSONDirectory) LoadSubjectJSON(raw []byte) (*model.Subject, error) {
	var s model.Subject
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "subject data must be valid JSON")
	}
	d.AddSubject(&s)
	return &s, nil
}

// LoadSubjectArg resolves a CLI subject argument: a path to a JSON file or an
// inline JSON document.
func (d *JSONDirectory) LoadSubjectArg(arg string) (*model.Subject, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, apperrors.Validation("subject data is required")
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		raw, readErr := os.ReadFile(arg)
		if readErr != nil {
			return nil, fmt.Errorf("read subject file: %w", readErr)
		}
		return d.LoadSubjectJSON(raw)
	}

	return d.LoadSubjectJSON([]byte(arg))
}

// Lookup implements core.ContactDirectory.
func (d *JSONDirectory) Lookup(_ context.Context, subjectID string) (*model.Subject, error) {
	s, ok := d.subjects[strings.TrimSpace(subjectID)]
	if !ok {
		return nil, apperrors.NotFoundf("subject %q not found in directory", subjectID)
	}
	return s, nil
}
