package booking

import (
	"github.com/holafishing/charters/pkg/sanitizer"
)

// MaxSpecialRequestsLength caps the free-text notes forwarded to the business.
const MaxSpecialRequestsLength = 2000

var (
	cleanLine = sanitizer.Compose(
		sanitizer.RemoveControlSequences,
		sanitizer.SingleLine,
	)
	cleanNotes = sanitizer.Compose(
		sanitizer.RemoveControlSequences,
		sanitizer.NormalizeNewlines,
		sanitizer.Trim,
		sanitizer.LimitLength(MaxSpecialRequestsLength),
	)
)

// Draft is an in-progress booking request as captured by the form.
// Empty strings mean absent.
type Draft struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	SelectedPackage string `json:"selectedPackage"`
	PackageID       string `json:"packageId,omitempty"`
	PreferredDate   string `json:"preferredDate"`
	NumberOfPeople  int    `json:"numberOfPeople"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Submission is the wire payload of POST /api/booking.
type Submission struct {
	Draft
	SubmittedAt string `json:"submittedAt"`
}

// Customer is the contact block of a booking email.
type Customer struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// Reservation is the trip block of a booking email.
type Reservation struct {
	PackageName     string `json:"packageName"`
	PreferredDate   string `json:"preferredDate"`
	NumberOfPeople  int    `json:"numberOfPeople"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// EmailData is the server-side projection of a validated submission.
type EmailData struct {
	Customer       Customer    `json:"customerInfo"`
	Reservation    Reservation `json:"reservationDetails"`
	SubmissionDate string      `json:"submissionDate"`
}

// NewEmailData projects s into the data rendered by GenerateEmail.
// Values that reach mail headers are folded to a single line; special
// requests keep their line breaks and are capped.
func NewEmailData(s Submission) EmailData {
	return EmailData{
		Customer: Customer{
			FullName: cleanLine(s.FullName),
			Phone:    cleanLine(s.Phone),
			Email:    cleanLine(s.Email),
		},
		Reservation: Reservation{
			PackageName:     cleanLine(s.SelectedPackage),
			PreferredDate:   cleanLine(s.PreferredDate),
			NumberOfPeople:  s.NumberOfPeople,
			SpecialRequests: cleanNotes(s.SpecialRequests),
		},
		SubmissionDate: s.SubmittedAt,
	}
}

// SendResult is the outcome of a single delivery attempt.
// OutcomeUnknown is set when the attempt was abandoned after the message
// reached the provider; it may still be delivered.
type SendResult struct {
	Success        bool   `json:"success"`
	OutcomeUnknown bool   `json:"outcomeUnknown,omitempty"`
	MessageID      string `json:"messageId,omitempty"`
	Error          string `json:"error,omitempty"`
	Details        any    `json:"details,omitempty"`
}

// EmailTemplate is a rendered booking notification.
type EmailTemplate struct {
	Subject     string
	HTMLContent string
	TextContent string
}

// PackageInfo pre-fills the form when a package card is clicked.
type PackageInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}
