package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/holafishing/charters/pkg/logger"
	"github.com/holafishing/charters/pkg/statemachine"
	"github.com/holafishing/charters/svc/booking"
)

// Status is the submission state of the booking dialog.
type Status = statemachine.StringState

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	eventSubmit  = statemachine.StringEvent("submit")
	eventSucceed = statemachine.StringEvent("succeed")
	eventFail    = statemachine.StringEvent("fail")
	eventReset   = statemachine.StringEvent("reset")
)

// Notification texts.
const (
	MsgCorrectErrors = "Please correct the errors in the form"
	MsgSendFailed    = "Error sending booking. Please try again."
)

const (
	DefaultCloseDelay = 5 * time.Second
	DefaultResetDelay = 300 * time.Millisecond
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func())

func afterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Controller is the state of one booking dialog. It is safe for concurrent use.
type Controller struct {
	api        API
	notify     Notifier
	schedule   Scheduler
	now        func() time.Time
	loc        *time.Location
	closeDelay time.Duration
	resetDelay time.Duration
	log        *slog.Logger

	fsm statemachine.StateMachine

	mu      sync.Mutex
	open    bool
	draft   booking.Draft
	errors  booking.FieldErrors
	message string
	// gen invalidates delayed callbacks scheduled before the dialog was
	// reopened or closed again.
	gen uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where success and error messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notify = n
		}
	}
}

// WithScheduler replaces time.AfterFunc for the delayed close and reset.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.schedule = s
		}
	}
}

// WithClock replaces time.Now for validation and submittedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the timezone of the day boundary used to reject past
// dates. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithDelays overrides how long a successful dialog stays open and how long
// after closing the draft is wiped.
func WithDelays(closeAfter, resetAfter time.Duration) Option {
	return func(c *Controller) {
		c.closeDelay = closeAfter
		c.resetDelay = resetAfter
	}
}

// WithLogger sets the logger. Status transitions are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController creates a closed, idle booking dialog backed by api.
func NewController(api API, opts ...Option) *Controller {
	c := &Controller{
		api:        api,
		notify:     nopNotifier{},
		schedule:   afterFunc,
		now:        time.Now,
		loc:        time.Local,
		closeDelay: DefaultCloseDelay,
		resetDelay: DefaultResetDelay,
		log:        logger.Nop(),
		errors:     booking.FieldErrors{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.fsm = statemachine.MustNew(StatusIdle,
		statemachine.WithTransitions([]statemachine.TransitionDef{
			{From: StatusIdle, To: StatusLoading, Event: eventSubmit, Guards: []statemachine.Guard{dialogOpen}},
			{From: StatusError, To: StatusLoading, Event: eventSubmit, Guards: []statemachine.Guard{dialogOpen}},
			{From: StatusLoading, To: StatusSuccess, Event: eventSucceed},
			{From: StatusLoading, To: StatusError, Event: eventFail},
			{From: StatusSuccess, To: StatusIdle, Event: eventReset},
			{From: StatusError, To: StatusIdle, Event: eventReset},
		}),
		statemachine.WithHook(func(from, to statemachine.State, ev statemachine.Event) {
			c.log.Debug("booking status changed",
				logger.Component("booking_controller"),
				slog.String("from", from.Name()),
				slog.String("to", to.Name()),
				logger.Event(ev.Name()),
			)
		}),
	)
	return c
}

// dialogOpen gates submission on the open flag, passed as the event data.
// A closed dialog can never move to loading.
func dialogOpen(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	open, _ := data.(bool)
	return open
}

// OpenModal opens the dialog, clears previous errors and resets the status
// to idle. When pkg is given the package fields are pre-filled. It does
// nothing while a submission is in flight.
func (c *Controller) OpenModal(pkg *booking.PackageInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fsm.Is(StatusLoading) {
		return
	}
	c.gen++
	c.open = true
	c.errors = booking.FieldErrors{}
	c.message = ""
	if pkg != nil {
		c.draft.SelectedPackage = pkg.Name
		c.draft.PackageID = pkg.ID
	}
	c.resetStatus()
}

// CloseModal closes the dialog and wipes the draft after the reset delay.
// It reports false, and leaves the dialog open, while a submission is in
// flight.
func (c *Controller) CloseModal() bool {
	c.mu.Lock()
	if c.fsm.Is(StatusLoading) {
		c.mu.Unlock()
		return false
	}
	c.gen++
	c.open = false
	gen := c.gen
	c.mu.Unlock()

	c.schedule(c.resetDelay, func() { c.resetIfCurrent(gen) })
	return true
}

func (c *Controller) resetIfCurrent(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.open {
		return
	}
	c.draft = booking.Draft{}
	c.errors = booking.FieldErrors{}
	c.message = ""
	c.resetStatus()
}

func (c *Controller) closeIfCurrent(gen uint64) {
	c.mu.Lock()
	current := c.gen == gen && c.open
	c.mu.Unlock()

	if current {
		c.CloseModal()
	}
}

// resetStatus moves success or error back to idle; idle has no reset edge.
// Callers hold c.mu.
func (c *Controller) resetStatus() {
	err := c.fsm.Fire(context.Background(), eventReset, nil)
	if err != nil && !statemachine.IsNoTransitionAvailableError(err) {
		c.log.Error("booking status reset failed",
			logger.Component("booking_controller"),
			logger.Error(err),
		)
	}
}

// UpdateField sets one draft field by its wire name and clears that field's
// error. numberOfPeople values that are not integers are stored as 0.
func (c *Controller) UpdateField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case booking.FieldFullName:
		c.draft.FullName = value
	case booking.FieldPhone:
		c.draft.Phone = value
	case booking.FieldEmail:
		c.draft.Email = value
	case booking.FieldSelectedPackage:
		c.draft.SelectedPackage = value
	case booking.FieldPackageID:
		c.draft.PackageID = value
	case booking.FieldPreferredDate:
		c.draft.PreferredDate = value
	case booking.FieldNumberOfPeople:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			n = 0
		}
		c.draft.NumberOfPeople = n
	case booking.FieldSpecialRequests:
		c.draft.SpecialRequests = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	delete(c.errors, name)
	return nil
}

// Submit validates the draft and, when it is valid, posts it with a fresh
// submittedAt. Invalid drafts never reach the network. A second Submit while
// one is in flight returns ErrSubmitInProgress; one after a success returns
// ErrAlreadySubmitted until the dialog is reopened.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !c.fsm.CanFire(ctx, eventSubmit, c.open) {
		err := c.submitBlocked()
		c.mu.Unlock()
		return err
	}

	now := c.now().In(c.loc)
	if errs := booking.Validate(c.draft, now); len(errs) > 0 {
		c.errors = errs
		c.mu.Unlock()
		c.notify.Error(MsgCorrectErrors)
		return fmt.Errorf("%w: %s", ErrInvalidDraft, strings.Join(fieldNames(errs), ", "))
	}

	if err := c.fsm.Fire(ctx, eventSubmit, c.open); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("client: start submission: %w", err)
	}
	c.message = ""
	gen := c.gen
	submission := booking.Submission{Draft: c.draft, SubmittedAt: now.UTC().Format(time.RFC3339)}
	c.mu.Unlock()

	resp, err := c.api.SubmitBooking(ctx, submission)

	c.mu.Lock()
	if err != nil {
		msg := MsgSendFailed
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		c.message = msg
		_ = c.fsm.Fire(context.Background(), eventFail, nil)
		c.mu.Unlock()

		c.log.WarnContext(ctx, "booking submission failed",
			logger.Component("booking_controller"),
			logger.Error(err),
		)
		c.notify.Error(msg)
		return err
	}

	msg := resp.Message
	if msg == "" {
		msg = booking.MsgBookingSent
	}
	c.message = msg
	_ = c.fsm.Fire(context.Background(), eventSucceed, nil)
	c.mu.Unlock()

	c.notify.Success(msg)
	c.schedule(c.closeDelay, func() { c.closeIfCurrent(gen) })
	return nil
}

// submitBlocked explains why the submit edge is unavailable. Callers hold c.mu.
func (c *Controller) submitBlocked() error {
	switch {
	case !c.open:
		return ErrModalClosed
	case c.fsm.Is(StatusLoading):
		return ErrSubmitInProgress
	default:
		return ErrAlreadySubmitted
	}
}

// CanSubmit reports whether the submit control should be enabled: the
// submit edge is open and the required fields are filled. Submit still
// validates the full draft.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fsm.CanFire(context.Background(), eventSubmit, c.open) &&
		booking.CanSubmit(c.draft)
}

// Status returns the current submission status.
func (c *Controller) Status() Status {
	return Status(c.fsm.Current().Name())
}

// IsOpen reports whether the dialog is open.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() booking.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Errors returns a copy of the current field errors.
func (c *Controller) Errors() booking.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(booking.FieldErrors, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Message returns the last success or failure message shown to the user.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

var fieldOrder = []string{
	booking.FieldFullName,
	booking.FieldPhone,
	booking.FieldEmail,
	booking.FieldSelectedPackage,
	booking.FieldPreferredDate,
	booking.FieldNumberOfPeople,
}

func fieldNames(errs booking.FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for _, f := range fieldOrder {
		if _, ok := errs[f]; ok {
			names = append(names, f)
		}
	}
	return names
}
