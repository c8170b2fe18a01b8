package booking

import (
	"context"
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/holafishing/charters/pkg/email/templates"
)

// DefaultBusinessName is shown in email headers when none is configured.
const DefaultBusinessName = "Hola Fishing Charters PR"

const (
	longDateLayout  = "Monday, January 2, 2006"
	timestampLayout = "1/2/2006, 3:04:05 PM"
	subjectPrefix   = "New Booking - "
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/booking.html.tmpl"))
	textTemplate = texttemplate.Must(texttemplate.New("booking.txt.tmpl").
			Funcs(texttemplate.FuncMap{"upper": strings.ToUpper}).
			ParseFS(templateFS, "templates/booking.txt.tmpl"))
)

// emailView is the formatted data shared by both renderings.
type emailView struct {
	Subject         string
	BusinessName    string
	FullName        string
	Phone           string
	Email           string
	PackageName     string
	PreferredDate   string
	NumberOfPeople  int
	SpecialRequests string
	SubmittedAt     string
}

// TemplateOption customizes GenerateEmail.
type TemplateOption func(*emailView)

// WithBusinessName sets the name shown in the email header.
func WithBusinessName(name string) TemplateOption {
	return func(v *emailView) {
		if strings.TrimSpace(name) != "" {
			v.BusinessName = name
		}
	}
}

// GenerateEmail renders the booking notification. Dates are formatted in loc.
// The output depends only on its inputs.
func GenerateEmail(ctx context.Context, data EmailData, loc *time.Location, opts ...TemplateOption) (EmailTemplate, error) {
	if loc == nil {
		loc = time.UTC
	}
	view := emailView{
		Subject:         subjectPrefix + data.Reservation.PackageName,
		BusinessName:    DefaultBusinessName,
		FullName:        data.Customer.FullName,
		Phone:           data.Customer.Phone,
		Email:           data.Customer.Email,
		PackageName:     data.Reservation.PackageName,
		PreferredDate:   FormatLongDate(data.Reservation.PreferredDate, loc),
		NumberOfPeople:  data.Reservation.NumberOfPeople,
		SpecialRequests: strings.TrimSpace(data.Reservation.SpecialRequests),
		SubmittedAt:     FormatTimestamp(data.SubmissionDate, loc),
	}
	for _, opt := range opts {
		opt(&view)
	}

	html, err := templates.RenderHTML(ctx, htmlTemplate, view)
	if err != nil {
		return EmailTemplate{}, err
	}

	var text strings.Builder
	if err := textTemplate.Execute(&text, view); err != nil {
		return EmailTemplate{}, err
	}

	return EmailTemplate{
		Subject:     view.Subject,
		HTMLContent: html,
		TextContent: text.String(),
	}, nil
}

// FormatLongDate renders a calendar date as "Monday, January 2, 2006".
// Unparseable input is returned unchanged.
func FormatLongDate(s string, loc *time.Location) string {
	d, err := ParseDate(s, loc)
	if err != nil {
		return s
	}
	return d.Format(longDateLayout)
}

// FormatTimestamp renders an RFC 3339 timestamp in loc as "1/2/2006, 3:04:05 PM".
// Unparseable input is returned unchanged.
func FormatTimestamp(s string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return s
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(timestampLayout)
}
