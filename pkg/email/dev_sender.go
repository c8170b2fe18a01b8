package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProviderDev is the Receipt.Provider value of DevSender.
const ProviderDev = "dev"

// DevSender implements EmailSender for local development.
// It saves emails as HTML, text and JSON files to a directory
// instead of sending them through an email service.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a development email sender that saves emails to dir.
// The directory is created on the first SendEmail or Ping, not here.
func NewDevSender(dir string) (*DevSender, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: dev email directory is required", ErrInvalidConfig)
	}
	return &DevSender{dir: dir, now: time.Now}, nil
}

// devMetadata is the JSON sidecar written next to every message.
type devMetadata struct {
	MessageID string   `json:"message_id"`
	Timestamp string   `json:"timestamp"`
	From      string   `json:"from"`
	SendTo    string   `json:"send_to"`
	Cc        string   `json:"cc,omitempty"`
	ReplyTo   string   `json:"reply_to,omitempty"`
	Subject   string   `json:"subject"`
	Tags      []string `json:"tags,omitempty"`
}

// SendEmail saves the message to the configured directory.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error) {
	if err := params.Validate(); err != nil {
		return Receipt{}, err
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, errors.Join(ErrFailedToSendEmail, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Receipt{}, fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	id := uuid.NewString()

	identifier := params.Subject
	if len(params.Tags) > 0 {
		identifier = params.Tags[0]
	}
	base := filepath.Join(d.dir, fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier), id[:8]))

	if params.BodyHTML != "" {
		if err := os.WriteFile(base+".html", []byte(params.BodyHTML), 0o644); err != nil {
			return Receipt{}, fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
		}
	}
	if params.BodyText != "" {
		if err := os.WriteFile(base+".txt", []byte(params.BodyText), 0o644); err != nil {
			return Receipt{}, fmt.Errorf("%w: failed to write text file: %v", ErrFailedToSendEmail, err)
		}
	}

	meta := devMetadata{
		MessageID: id,
		Timestamp: now.Format(time.RFC3339),
		From:      params.From.String(),
		SendTo:    joinAddresses(params.SendTo),
		Cc:        joinAddresses(params.Cc),
		Subject:   params.Subject,
		Tags:      params.Tags,
	}
	if !params.ReplyTo.IsZero() {
		meta.ReplyTo = params.ReplyTo.String()
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(base+".json", data, 0o644); err != nil {
		return Receipt{}, fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
	}

	return Receipt{
		MessageID: id,
		Provider:  ProviderDev,
		Details:   map[string]any{"path": base + ".json"},
	}, nil
}

// Ping makes sure the output directory exists.
func (d *DevSender) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(d.dir, 0o755)
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts a string into a safe lowercase filename.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
