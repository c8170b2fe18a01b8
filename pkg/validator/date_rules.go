package validator

import "time"

// DateNotBefore validates that value is equal to or after min.
func DateNotBefore(field string, value, min time.Time) Rule {
	return Rule{
		Check: func() bool {
			return !value.Before(min)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "date must not be before " + min.Format(time.DateOnly),
			TranslationKey: "validation.date_not_before",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min.Format(time.DateOnly),
			},
		},
	}
}
