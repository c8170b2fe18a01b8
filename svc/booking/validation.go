package booking

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/holafishing/charters/pkg/validator"
)

// Field names as they appear on the wire and in FieldErrors.
const (
	FieldFullName        = "fullName"
	FieldPhone           = "phone"
	FieldEmail           = "email"
	FieldSelectedPackage = "selectedPackage"
	FieldPreferredDate   = "preferredDate"
	FieldNumberOfPeople  = "numberOfPeople"
	FieldSpecialRequests = "specialRequests"
	FieldPackageID       = "packageId"
)

const (
	MinNameLength = 2
	MinPeople     = 1
	MaxPeople     = 12
)

// Validation messages.
const (
	MsgNameRequired    = "Full name is required"
	MsgNameTooShort    = "Full name must be at least 2 characters long"
	MsgPhoneRequired   = "Phone number is required"
	MsgPhoneInvalid    = "Invalid phone number format"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Invalid email format"
	MsgDateRequired    = "Date is required"
	MsgDateInvalid     = "Invalid date format"
	MsgDateInPast      = "Date must be in the future"
	MsgTooFewPeople    = "Must be at least 1 person"
	MsgTooManyPeople   = "Maximum 12 people per booking"
	MsgPackageRequired = "Package selection is required"
)

// ErrInvalidDate is returned by ParseDate for unrecognized date strings.
var ErrInvalidDate = errors.New("booking: invalid date")

var (
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneStripper = regexp.MustCompile(`[\s\-()]`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors maps field names to a human-readable message. Empty means valid.
type FieldErrors map[string]string

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// NormalizePhone strips spaces, hyphens and parentheses.
func NormalizePhone(s string) string {
	return phoneStripper.ReplaceAllString(s, "")
}

// IsValidPhone reports whether s is an optional "+" followed by 1-16 digits
// not starting with zero, once formatting characters are removed.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(NormalizePhone(s))
}

// ParseDate reads a calendar date ("2006-01-02", or an RFC 3339 timestamp
// whose own calendar day is used) and returns midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, ErrInvalidDate
}

// StartOfDay returns midnight of now's calendar day in now's location.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Validate checks every field of d and reports all failures at once.
// The date rule compares calendar days in now's location.
func Validate(d Draft, now time.Time) FieldErrors {
	loc := now.Location()
	date, dateErr := ParseDate(d.PreferredDate, loc)
	hasDate := strings.TrimSpace(d.PreferredDate) != ""

	err := validator.Apply(
		validator.RequiredString(FieldFullName, d.FullName).WithMessage(MsgNameRequired),
		validator.MinLenString(FieldFullName, d.FullName, MinNameLength).
			WithMessage(MsgNameTooShort).When(strings.TrimSpace(d.FullName) != ""),

		validator.RequiredString(FieldPhone, d.Phone).WithMessage(MsgPhoneRequired),
		validator.MatchesPattern(FieldPhone, NormalizePhone(d.Phone), phoneRegex, "phone").
			WithMessage(MsgPhoneInvalid).When(strings.TrimSpace(d.Phone) != ""),

		validator.RequiredString(FieldEmail, d.Email).WithMessage(MsgEmailRequired),
		validator.MatchesPattern(FieldEmail, d.Email, emailRegex, "email").
			WithMessage(MsgEmailInvalid).When(strings.TrimSpace(d.Email) != ""),

		validator.RequiredString(FieldPreferredDate, d.PreferredDate).WithMessage(MsgDateRequired),
		dateFormatRule(dateErr).When(hasDate),
		validator.DateNotBefore(FieldPreferredDate, date, StartOfDay(now)).
			WithMessage(MsgDateInPast).When(hasDate && dateErr == nil),

		validator.MinNum(FieldNumberOfPeople, d.NumberOfPeople, MinPeople).WithMessage(MsgTooFewPeople),
		validator.MaxNum(FieldNumberOfPeople, d.NumberOfPeople, MaxPeople).WithMessage(MsgTooManyPeople),

		validator.RequiredString(FieldSelectedPackage, d.SelectedPackage).WithMessage(MsgPackageRequired),
	)
	if err == nil {
		return FieldErrors{}
	}
	return FieldErrors(validator.ExtractValidationErrors(err).First())
}

func dateFormatRule(parseErr error) validator.Rule {
	return validator.Rule{
		Check: func() bool { return parseErr == nil },
		Error: validator.ValidationError{
			Field:          FieldPreferredDate,
			Message:        MsgDateInvalid,
			TranslationKey: "validation.date_format",
		},
	}
}

// requiredFields lists the fields the server requires, in wire order.
var requiredFields = []string{
	FieldFullName,
	FieldPhone,
	FieldEmail,
	FieldSelectedPackage,
	FieldPreferredDate,
	FieldNumberOfPeople,
}

// MissingFields returns the required fields that are absent from s: blank
// strings and a zero party size. Order follows the wire order.
func MissingFields(s Submission) []string {
	present := map[string]bool{
		FieldFullName:        strings.TrimSpace(s.FullName) != "",
		FieldPhone:           strings.TrimSpace(s.Phone) != "",
		FieldEmail:           strings.TrimSpace(s.Email) != "",
		FieldSelectedPackage: strings.TrimSpace(s.SelectedPackage) != "",
		FieldPreferredDate:   strings.TrimSpace(s.PreferredDate) != "",
		FieldNumberOfPeople:  s.NumberOfPeople != 0,
	}
	var missing []string
	for _, f := range requiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// CanSubmit mirrors the core required-field checks so a submit control can
// be disabled early. It is not a substitute for Validate.
func CanSubmit(d Draft) bool {
	return len([]rune(strings.TrimSpace(d.FullName))) >= MinNameLength &&
		strings.TrimSpace(d.Email) != "" &&
		IsValidEmail(d.Email) &&
		strings.TrimSpace(d.Phone) != "" &&
		strings.TrimSpace(d.SelectedPackage) != "" &&
		strings.TrimSpace(d.PreferredDate) != ""
}
