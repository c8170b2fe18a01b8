// Package validator provides small, composable validation rules.
//
// Each rule is a Rule value pairing a Check func with translation-friendly
// error metadata. Apply evaluates every rule (no short-circuiting) and returns
// a ValidationErrors slice that implements error, so all field problems of a
// form are reported at once.
//
//	err := validator.Apply(
//	    validator.RequiredString("email", email),
//	    validator.MatchesPattern("email", email, emailRe, "email"),
//	    validator.RangeNum("numberOfPeople", people, 1, 12),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    msgs := verrs.First() // field -> first message
//	}
//
// Rules are pure and goroutine-safe; there is no package state.
package validator
