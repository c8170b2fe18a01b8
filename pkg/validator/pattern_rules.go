package validator

import (
	"fmt"
	"regexp"
)

// MatchesPattern validates value against a precompiled pattern.
// Empty values fail; pair with RequiredString for a distinct message.
func MatchesPattern(field, value string, re *regexp.Regexp, description string) Rule {
	return Rule{
		Check: func() bool {
			return value != "" && re.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must match %s pattern", description),
			TranslationKey: "validation.regex_pattern",
			TranslationValues: map[string]any{
				"field":       field,
				"pattern":     re.String(),
				"description": description,
			},
		},
	}
}
