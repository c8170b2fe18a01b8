// Command bookctl submits bookings and checks a booking deployment from the
// command line.
//
//	bookctl submit --url http://localhost:8080 --package nearshore-reef-fishing \
//	    --name "Ana Rivera" --phone "787-555-0123" --email ana@example.com \
//	    --date 2025-06-20 --people 4
//	bookctl packages --url http://localhost:8080
//	bookctl ping --url http://localhost:8080
//	bookctl mailer-ping
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"github.com/holafishing/charters/pkg/config"
	"github.com/holafishing/charters/pkg/logger"
	"github.com/holafishing/charters/svc/booking"
	"github.com/holafishing/charters/svc/booking/client"
)

const usage = `usage: bookctl <command> [flags]

commands:
  submit       validate and submit a booking
  packages     list the package catalog
  ping         check that the booking API is up
  mailer-ping  test the email provider configured in the environment
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "submit":
		return runSubmit(ctx, rest, stdout, stderr)
	case "packages":
		return runPackages(ctx, rest, stdout)
	case "ping":
		return runPing(ctx, rest, stdout)
	case "mailer-ping":
		return runMailerPing(ctx, rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newFlagSet(name string, url *string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(url, "url", envOr("BOOKING_API_URL", "http://localhost:8080"), "booking API base URL")
	return fs
}

// printNotifier writes controller notifications to the terminal.
type printNotifier struct {
	out, err io.Writer
}

func (n printNotifier) Success(msg string) { fmt.Fprintln(n.out, msg) }
func (n printNotifier) Error(msg string)   { fmt.Fprintln(n.err, msg) }

func runSubmit(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		url, pkgID, tz string
		fields         = map[string]*string{}
	)
	fs := newFlagSet("submit", &url)
	fs.StringVar(&pkgID, "package", "", "package id from the catalog, or a free-text package name")
	fs.StringVar(&tz, "timezone", "", "timezone for the past-date check (default: local)")
	for flag, field := range map[string]string{
		"name":     booking.FieldFullName,
		"phone":    booking.FieldPhone,
		"email":    booking.FieldEmail,
		"date":     booking.FieldPreferredDate,
		"people":   booking.FieldNumberOfPeople,
		"requests": booking.FieldSpecialRequests,
	} {
		fields[field] = fs.String(flag, "", "booking "+field)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []client.Option{
		client.WithNotifier(printNotifier{out: stdout, err: stderr}),
		client.WithScheduler(func(time.Duration, func()) {}),
	}
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
		opts = append(opts, client.WithLocation(loc))
	}
	ctrl := client.NewController(client.NewHTTPClient(url), opts...)

	var info *booking.PackageInfo
	if p, ok := booking.DefaultCatalog().ByID(pkgID); ok {
		pi := p.Info()
		info = &pi
	}
	ctrl.OpenModal(info)
	if info == nil && pkgID != "" {
		if err := ctrl.UpdateField(booking.FieldSelectedPackage, pkgID); err != nil {
			return err
		}
	}
	for field, value := range fields {
		if *value == "" {
			continue
		}
		if err := ctrl.UpdateField(field, *value); err != nil {
			return err
		}
	}

	err := ctrl.Submit(ctx)
	if errors.Is(err, client.ErrInvalidDraft) {
		for field, msg := range ctrl.Errors() {
			fmt.Fprintf(stderr, "  %s: %s\n", field, msg)
		}
	}
	return err
}

func runPackages(ctx context.Context, args []string, stdout io.Writer) error {
	var url string
	fs := newFlagSet("packages", &url)
	if err := fs.Parse(args); err != nil {
		return err
	}

	pkgs, err := client.NewHTTPClient(url).Packages(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tDURATION")
	for _, p := range pkgs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.PriceLabel(), p.DurationLabel())
	}
	return tw.Flush()
}

func runPing(ctx context.Context, args []string, stdout io.Writer) error {
	var url string
	fs := newFlagSet("ping", &url)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := client.NewHTTPClient(url).Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}

func runMailerPing(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		timeout time.Duration
		verbose bool
	)
	fs := pflag.NewFlagSet("mailer-ping", pflag.ContinueOnError)
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "connection test timeout")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log provider diagnostics")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_ = config.LoadEnv()
	var cfg booking.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.Nop()
	if verbose {
		log = logger.New(logger.WithFormat(logger.FormatText), logger.WithOutput(stdout))
	}
	m, err := booking.NewMailer(cfg, log)
	if err != nil {
		return err
	}
	if !m.IsConfigured() {
		return fmt.Errorf("%w: missing %v", booking.ErrMailerNotConfigured, m.Missing())
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := m.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", m.Provider(), err)
	}
	fmt.Fprintf(stdout, "%s: ok\n", m.Provider())
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
