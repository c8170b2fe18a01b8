// Package sanitizer cleans free-text user input and masks personal data
// before it is logged.
//
// Transforms are plain func(string) string values and can be chained:
//
//	clean := sanitizer.Compose(
//	    sanitizer.RemoveControlSequences,
//	    sanitizer.SingleLine,
//	)
//	name := clean("Ana\r\nBcc: victim@example.com") // "Ana Bcc: victim@example.com"
package sanitizer
