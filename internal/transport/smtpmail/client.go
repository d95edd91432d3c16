// Package smtpmail delivers rendered alerts over SMTP with STARTTLS.
// It is one MessageTransport implementation; the dispatch pipeline only sees
// the core.MessageTransport contract.
package smtpmail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/brightside-platform/alert-service/internal/core"
	apperrors "github.com/brightside-platform/alert-service/internal/errors"
)

// Config captures the subset of SMTP behaviour we need.
type Config struct {
	// Addr is the host:port of the SMTP submission endpoint.
	Addr     string
	Username string
	Password string
	// Timeout bounds the TCP dial; the caller's context bounds the rest.
	Timeout time.Duration
	// DisableStartTLS skips the STARTTLS upgrade. Only for local test servers.
	DisableStartTLS bool
}

// Client sends alerts through an SMTP submission endpoint.
type Client struct {
	addr            string
	serverName      string
	username        string
	password        string
	timeout         time.Duration
	disableStartTLS bool
}

// NewClient builds an SMTP transport client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("smtp address is required")
	}

	serverName := addr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		serverName = host
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		addr:            addr,
		serverName:      serverName,
		username:        cfg.Username,
		password:        cfg.Password,
		timeout:         timeout,
		disableStartTLS: cfg.DisableStartTLS,
	}, nil
}

// Send implements core.MessageTransport. The message goes out as one
// multipart/alternative submission addressed to every recipient; any refusal
// aborts the whole send so a partial delivery is never reported as success.
func (c *Client) Send(ctx context.Context, req core.SendMessageRequest) error {
	if len(req.To) == 0 {
		return apperrors.Validation("at least one recipient is required")
	}
	if strings.TrimSpace(req.From) == "" {
		return apperrors.Validation("sender address is required")
	}

	msg, err := BuildMessage(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTransportUnknown, "assemble mime message")
	}

	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeTransportConnection,
			"connect to smtp server %s", c.addr)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	var client *smtp.Client
	if !c.disableStartTLS {
		client, err = smtp.NewClientStartTLS(conn, &tls.Config{ServerName: c.serverName})
		if err != nil {
			_ = conn.Close()
			return classify(err, apperrors.ErrCodeTransportConnection, "starttls negotiation failed")
		}
	} else {
		client = smtp.NewClient(conn)
	}
	defer func() { _ = client.Close() }()

	if c.username != "" {
		if err := client.Auth(sasl.NewPlainClient("", c.username, c.password)); err != nil {
			return classify(err, apperrors.ErrCodeTransportAuth, "smtp authentication failed")
		}
	}

	if err := client.Mail(req.From, nil); err != nil {
		return classify(err, apperrors.ErrCodeTransportUnknown, "smtp mail from rejected")
	}
	for _, rcpt := range req.To {
		if err := client.Rcpt(rcpt, nil); err != nil {
			return classify(err, apperrors.ErrCodeTransportRecipientsRefused,
				fmt.Sprintf("recipient %s refused", rcpt))
		}
	}

	w, err := client.Data()
	if err != nil {
		return classify(err, apperrors.ErrCodeTransportUnknown, "smtp data command failed")
	}
	if _, err := w.Write(msg); err != nil {
		return classify(err, apperrors.ErrCodeTransportConnection, "write message body")
	}
	if err := w.Close(); err != nil {
		return classify(err, apperrors.ErrCodeTransportUnknown, "smtp message not accepted")
	}

	if err := client.Quit(); err != nil {
		// The server accepted the message; a noisy QUIT is not a failure.
		return nil
	}
	return nil
}

// classify maps an SMTP-level or network error to a transport failure kind.
func classify(err error, fallback apperrors.ErrorCode, message string) error {
	code := fallback

	var smtpErr *smtp.SMTPError
	var netErr net.Error
	switch {
	case errors.As(err, &smtpErr):
		switch {
		case smtpErr.Code == 530 || smtpErr.Code == 534 || smtpErr.Code == 535:
			code = apperrors.ErrCodeTransportAuth
		case smtpErr.Code >= 550 && smtpErr.Code <= 553:
			code = apperrors.ErrCodeTransportRecipientsRefused
		case smtpErr.Code == 421:
			code = apperrors.ErrCodeTransportConnection
		}
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		code = apperrors.ErrCodeTransportConnection
	}

	return apperrors.Wrap(err, code, message)
}
