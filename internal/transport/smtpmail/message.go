package smtpmail

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/brightside-platform/alert-service/internal/core"
)

// BuildMessage assembles the multipart/alternative submission: one plain part
// and one HTML part, plain first so clients prefer the rich body. Exactly one
// of each; the HTML part is never attached twice.
func BuildMessage(req core.SendMessageRequest) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []struct {
		name  string
		value string
	}{
		{"From", req.From},
		{"To", strings.Join(req.To, ", ")},
		{"Subject", mime.QEncoding.Encode("utf-8", req.Subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary())},
	}
	for _, h := range headers {
		if _, err := fmt.Fprintf(&buf, "%s: %s\r\n", h.name, h.value); err != nil {
			return nil, fmt.Errorf("write header %s: %w", h.name, err)
		}
	}
	if _, err := buf.WriteString("\r\n"); err != nil {
		return nil, fmt.Errorf("write header separator: %w", err)
	}

	if err := writePart(mw, "text/plain; charset=utf-8", req.PlainBody); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=utf-8", req.HTMLBody); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	return nil
}
