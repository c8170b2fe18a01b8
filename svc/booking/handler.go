package booking

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/holafishing/charters/handler"
	"github.com/holafishing/charters/pkg/binder"
	"github.com/holafishing/charters/pkg/environment"
	"github.com/holafishing/charters/pkg/logger"
	"github.com/holafishing/charters/pkg/sanitizer"
)

// Endpoint messages. MsgDeliveryUnconfirmed asks the customer not to
// resubmit: the booking may already have reached the business.
const (
	MsgBookingSent         = "Booking sent successfully! We will contact you soon."
	MsgInvalidBody         = "Invalid request body"
	MsgInvalidEmail        = "Invalid email format"
	MsgDateNotFuture       = "Selected date must be in the future"
	MsgInvalidDetails      = "Please correct the booking details"
	MsgServiceUnavailable  = "Email service temporarily unavailable. Please contact directly."
	MsgSendFailed          = "Error sending booking. Please try again or contact directly."
	MsgDeliveryUnconfirmed = "We could not confirm your booking was sent. Please contact us directly before trying again."
	MsgInternalError       = "Error interno del servidor. Por favor intenta de nuevo."
	MsgMethodNotAllowed    = "Método no permitido"
	MsgPackageNotFound     = "Package not found"
)

// Response is the JSON body of every booking endpoint reply.
type Response struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	Data          *ResponseData `json:"data,omitempty"`
	Details       any           `json:"details,omitempty"`
	Errors        FieldErrors   `json:"errors,omitempty"`
	MissingFields []string      `json:"missingFields,omitempty"`
	Contact       *Contact      `json:"contact,omitempty"`
}

// ResponseData describes an accepted booking.
type ResponseData struct {
	MessageID   string `json:"messageId"`
	SubmittedAt string `json:"submittedAt"`
	Customer    string `json:"customer"`
	Package     string `json:"package"`
}

// Handler serves the booking endpoint.
type Handler struct {
	mailer  func() Mailer
	catalog *Catalog
	loc     *time.Location
	now     func() time.Time
	contact *Contact
	log     *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMailer resolves the mailer per request. Defaults to DefaultMailer.
func WithMailer(f func() Mailer) HandlerOption {
	return func(h *Handler) {
		if f != nil {
			h.mailer = f
		}
	}
}

// WithLocation sets the timezone whose calendar day bounds the date check.
func WithLocation(loc *time.Location) HandlerOption {
	return func(h *Handler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithCatalog replaces the embedded catalog.
func WithCatalog(c *Catalog) HandlerOption {
	return func(h *Handler) {
		if c != nil {
			h.catalog = c
		}
	}
}

// WithContact attaches direct-contact details to 503 and unconfirmed-delivery responses.
func WithContact(c Contact) HandlerOption {
	return func(h *Handler) {
		if c.Phone != "" || c.Email != "" {
			h.contact = &c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHandler creates a booking Handler.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{
		mailer:  DefaultMailer,
		catalog: DefaultCatalog(),
		loc:     time.UTC,
		now:     time.Now,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router mounts the booking API:
//
//	POST /api/booking
//	GET  /api/packages
//	GET  /api/packages/{id}
//
// Any other method on these routes answers 405.
func Router(h *Handler) chi.Router {
	errHandler := handler.NewErrorHandler(h.log, handler.ErrorHandlerConfig{
		BadRequestMessage: MsgInvalidBody,
		ValidationMessage: MsgInvalidDetails,
		InternalMessage:   MsgInternalError,
	})

	r := chi.NewRouter()
	r.MethodNotAllowed(methodNotAllowed)
	r.Post("/api/booking", handler.Wrap(h.Submit,
		handler.WithBinder[handler.Context, Submission](binder.JSON()),
		handler.WithErrorHandler[handler.Context, Submission](errHandler),
		handler.WithDecorators(handler.Recover[handler.Context, Submission]()),
	))
	r.Get("/api/packages", handler.Wrap(h.ListPackages,
		handler.WithErrorHandler[handler.Context, struct{}](errHandler),
	))
	r.Get("/api/packages/{id}", handler.Wrap(h.GetPackage,
		handler.WithErrorHandler[handler.Context, struct{}](errHandler),
	))
	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = handler.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": MsgMethodNotAllowed})
}

func badRequest(msg string) Response {
	return Response{Message: msg}
}

// Submit handles POST /api/booking.
func (h *Handler) Submit(ctx handler.Context, req Submission) handler.Response {
	log := h.log.With(logger.Component("booking_endpoint"))

	if missing := MissingFields(req); len(missing) > 0 {
		resp := badRequest("Missing required fields: " + strings.Join(missing, ", "))
		resp.MissingFields = missing
		return handler.JSON(http.StatusBadRequest, resp)
	}

	now := h.now().In(h.loc)
	if errs := Validate(req.Draft, now); len(errs) > 0 {
		log.InfoContext(ctx, "booking rejected", slog.Any("fields", fieldNames(errs)))
		switch {
		case errs[FieldEmail] != "":
			return handler.JSON(http.StatusBadRequest, badRequest(MsgInvalidEmail))
		case errs[FieldPreferredDate] == MsgDateInPast:
			return handler.JSON(http.StatusBadRequest, badRequest(MsgDateNotFuture))
		case errs[FieldPreferredDate] == MsgDateInvalid:
			return handler.JSON(http.StatusBadRequest, badRequest(MsgDateInvalid))
		default:
			resp := badRequest(MsgInvalidDetails)
			resp.Errors = errs
			return handler.JSON(http.StatusBadRequest, resp)
		}
	}

	if strings.TrimSpace(req.SubmittedAt) == "" {
		req.SubmittedAt = now.UTC().Format(time.RFC3339)
	}

	mailer := h.mailer()
	if mailer == nil || !mailer.IsConfigured() {
		log.ErrorContext(ctx, "booking email service not configured")
		return handler.JSON(http.StatusServiceUnavailable, Response{
			Message: MsgServiceUnavailable,
			Contact: h.contact,
		})
	}

	result := mailer.SendBookingEmail(ctx, NewEmailData(req))
	if !result.Success {
		log.ErrorContext(ctx, "failed to send booking email",
			slog.String("error", result.Error),
			slog.Bool("outcome_unknown", result.OutcomeUnknown),
		)
		resp := Response{Message: MsgSendFailed}
		if result.OutcomeUnknown {
			resp.Message = MsgDeliveryUnconfirmed
			resp.Contact = h.contact
		}
		// Provider diagnostics stay in the logs in production.
		if !environment.IsProduction(ctx) {
			resp.Details = result.Error
		}
		return handler.JSON(http.StatusInternalServerError, resp)
	}

	log.InfoContext(ctx, "booking submitted",
		logger.MessageID(result.MessageID),
		slog.String("customer_email", sanitizer.MaskEmail(req.Email)),
		slog.String("customer_phone", sanitizer.MaskPhone(req.Phone)),
		slog.String("package", req.SelectedPackage),
		slog.String("preferred_date", req.PreferredDate),
		slog.Int("people", req.NumberOfPeople),
	)
	return handler.JSON(http.StatusOK, Response{
		Success: true,
		Message: MsgBookingSent,
		Data: &ResponseData{
			MessageID:   result.MessageID,
			SubmittedAt: req.SubmittedAt,
			Customer:    strings.TrimSpace(req.FullName),
			Package:     strings.TrimSpace(req.SelectedPackage),
		},
	})
}

// ListPackages handles GET /api/packages.
func (h *Handler) ListPackages(ctx handler.Context, _ struct{}) handler.Response {
	return handler.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    h.catalog.All(),
	})
}

// GetPackage handles GET /api/packages/{id}.
func (h *Handler) GetPackage(ctx handler.Context, _ struct{}) handler.Response {
	p, ok := h.catalog.ByID(chi.URLParam(ctx.Request(), "id"))
	if !ok {
		return handler.Fail(handler.NewHTTPError(http.StatusNotFound, MsgPackageNotFound))
	}
	return handler.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    p,
	})
}

func fieldNames(errs FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for _, f := range requiredFields {
		if _, ok := errs[f]; ok {
			names = append(names, f)
		}
	}
	return names
}
