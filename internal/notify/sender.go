// internal/notify/sender.go

// Package notify delivers composed lineup and availability text to players.
// Delivery is always best-effort: results are reported per recipient and the
// store state that triggered a send is never rolled back on failure.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// SMSSender provides a testable abstraction over Twilio delivery.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailSender provides a testable abstraction over SES delivery.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Message is one outbound SMS.
type Message struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Result reports per-recipient delivery status.
type Result struct {
	To     string `json:"to"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SendBatch delivers every message, never stopping on individual failures.
// Recipients without a destination are skipped silently, matching how
// captains handle players with no cell on file.
func SendBatch(ctx context.Context, sender SMSSender, messages []Message) []Result {
	results := make([]Result, 0, len(messages))
	for _, msg := range messages {
		if msg.To == "" {
			continue
		}

		if err := sender.SendSMS(ctx, msg.To, msg.Body); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("to", msg.To).Msg("SMS delivery failed")
			results = append(results, Result{To: msg.To, Status: StatusFailed, Error: err.Error()})
			continue
		}
		results = append(results, Result{To: msg.To, Status: StatusSent})
	}
	return results
}
