package mailer

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers the run summary with the CSV report attached.
// Delivery is best effort: the orchestrator logs failures and keeps the
// file on disk.
type Mailer interface {
	Send(ctx context.Context, summary, attachmentPath string, now time.Time) error
}

// Config holds SMTP submission settings. Password is supplied through
// the environment, never from a file.
type Config struct {
	Host      string
	Port      int
	From      string
	Recipient string
	Username  string
	Password  string
}

// SMTP sends the report over an authenticated STARTTLS submission
// session (gomail negotiates STARTTLS on port 587).
type SMTP struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTP {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTP{cfg: cfg}
}

func (s *SMTP) Send(ctx context.Context, summary, attachmentPath string, now time.Time) error {
	// gomail has no context-aware dial; at least refuse to start a
	// submission session once the run is canceled.
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.Recipient)
	m.SetHeader("Subject", fmt.Sprintf("Malaysian Stock Report - %s", now.Format("2006-01-02 15:04")))
	m.SetBody("text/plain", Body(summary, now))
	m.Attach(attachmentPath)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}
	return nil
}

// Body renders the plain-text email body around the summary block.
func Body(summary string, now time.Time) string {
	return fmt.Sprintf(`Hello,

Your Malaysian stock market report is ready!

STOCK SUMMARY (%s):

%s

Detailed data is attached as a CSV file.

Top Gainers and Losers will be highlighted in the attachment.

Best regards,
Malaysian Stock Tracker Bot

---
This is an automated message. Data is for informational purposes only.
`, now.Format("2006-01-02 15:04:05"), summary)
}
