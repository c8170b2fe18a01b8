// Package booking implements the charter booking pipeline: draft validation,
// notification email rendering, provider-agnostic delivery and the
// POST /api/booking endpoint.
//
// Validation is shared by the server and the client controller in
// svc/booking/client. The server treats it as authoritative:
//
//	errs := booking.Validate(draft, time.Now().In(loc))
//	if len(errs) > 0 {
//		// field -> message
//	}
//
// Delivery goes through the Mailer interface. DefaultMailer builds the
// configured provider once per process from the environment (EMAIL_PROVIDER
// selects smtp, postmark or dev). SetMailer installs a substitute and
// ResetMailer clears the cached instance.
//
// Router mounts the endpoint together with the read-only package catalog:
//
//	r := chi.NewRouter()
//	r.Mount("/", booking.Router(booking.NewHandler(
//		booking.WithLocation(loc),
//		booking.WithLogger(log),
//	)))
package booking
