package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// ProviderPostmark is the Receipt.Provider value of PostmarkClient.
const ProviderPostmark = "postmark"

// PostmarkAPI is the subset of *postmark.Client used for sending.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkOption configures a PostmarkClient.
type PostmarkOption func(*PostmarkClient)

// WithPostmarkAPI replaces the Postmark HTTP client, mostly for tests.
func WithPostmarkAPI(api PostmarkAPI) PostmarkOption {
	return func(c *PostmarkClient) {
		if api != nil {
			c.api = api
		}
	}
}

// PostmarkClient sends through Postmark's transactional API.
type PostmarkClient struct {
	api PostmarkAPI
}

// NewPostmarkClient creates a Postmark-backed email sender.
// The server token is required; the sender identity comes with each message.
func NewPostmarkClient(cfg PostmarkConfig, opts ...PostmarkOption) (*PostmarkClient, error) {
	if strings.TrimSpace(cfg.ServerToken) == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}

	c := &PostmarkClient{
		api: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendEmail implements EmailSender. Open tracking is enabled and link
// tracking is limited to the HTML part. Postmark accepts a single tag, so the
// first tag is used and the full list travels in the X-Tags header.
func (c *PostmarkClient) SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error) {
	if err := params.Validate(); err != nil {
		return Receipt{}, err
	}

	msg := postmark.Email{
		From:       params.From.String(),
		To:         joinAddresses(params.SendTo),
		Cc:         joinAddresses(params.Cc),
		Subject:    params.Subject,
		HTMLBody:   params.BodyHTML,
		TextBody:   params.BodyText,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	}
	if !params.ReplyTo.IsZero() {
		msg.ReplyTo = params.ReplyTo.String()
	}
	if len(params.Tags) > 0 {
		msg.Tag = params.Tags[0]
		msg.Headers = []postmark.Header{{Name: "X-Tags", Value: strings.Join(params.Tags, ",")}}
	}

	resp, err := c.api.SendEmail(ctx, msg)
	if err != nil {
		return Receipt{}, errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return Receipt{}, errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}

	return Receipt{
		MessageID: resp.MessageID,
		Provider:  ProviderPostmark,
		Details: map[string]any{
			"to":           resp.To,
			"submitted_at": resp.SubmittedAt,
			"message":      resp.Message,
		},
	}, nil
}

// Ping reports whether the client is usable. Postmark has no cheap
// credential check without side effects, so this only checks construction.
func (c *PostmarkClient) Ping(ctx context.Context) error {
	if c == nil || c.api == nil {
		return fmt.Errorf("%w: postmark client not initialized", ErrInvalidConfig)
	}
	return ctx.Err()
}
