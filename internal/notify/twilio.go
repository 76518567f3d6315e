// internal/notify/twilio.go
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioClient wraps Twilio message delivery.
type TwilioClient struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioClient initializes a Twilio client using account credentials and
// the sending number.
func NewTwilioClient(accountSID, authToken, fromNumber string) (*TwilioClient, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("twilio credentials are required")
	}
	if fromNumber == "" {
		return nil, fmt.Errorf("twilio from number is required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioClient{client: client, from: fromNumber}, nil
}

// SendSMS delivers a single text message. The Twilio SDK does not thread a
// context through; ctx is used for logging only.
func (c *TwilioClient) SendSMS(ctx context.Context, to, body string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("twilio client is not initialized")
	}
	if to == "" {
		return fmt.Errorf("recipient is required")
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("to", to).Msg("Failed to send Twilio message")
		return fmt.Errorf("send twilio message: %w", err)
	}

	if resp.Sid != nil {
		log.Ctx(ctx).Debug().Str("to", to).Str("sid", *resp.Sid).Msg("Twilio message queued")
	}
	return nil
}
