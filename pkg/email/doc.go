// Package email sends transactional email through interchangeable providers.
//
// Every provider implements EmailSender:
//   - PostmarkClient: Postmark's HTTP transactional API (github.com/mrz1836/postmark)
//   - SMTPClient: any authenticated SMTP account, e.g. Gmail with an app
//     password (gopkg.in/gomail.v2)
//   - DevSender: writes HTML and JSON metadata to a local directory
//
// Parameters are validated before any network work. Failures wrap the
// sentinel errors in errors.go so callers can use errors.Is:
//
//	receipt, err := sender.SendEmail(ctx, email.SendEmailParams{
//	    From:     email.Address{Name: "Hola Fishing Charters", Email: "info@example.com"},
//	    SendTo:   []email.Address{{Email: "owner@example.com"}},
//	    Cc:       []email.Address{{Name: "Ana", Email: "ana@example.com"}},
//	    ReplyTo:  email.Address{Name: "Ana", Email: "ana@example.com"},
//	    Subject:  "New Booking - Reef Snorkeling Tour",
//	    BodyHTML: html,
//	    BodyText: text,
//	    Tags:     []string{"booking"},
//	})
//
// HTML bodies can be produced with templates.Render.
package email
