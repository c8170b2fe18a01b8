package email

// PostmarkConfig holds Postmark credentials. Only the server token is needed
// to send; the account token is kept for administrative calls.
type PostmarkConfig struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
}

// SMTPConfig holds credentials for an authenticated SMTP account.
// GMAIL_EMAIL and GMAIL_APP_PASSWORD are accepted as fallbacks so a plain
// Gmail setup needs no SMTP_* variables at all. From is the envelope sender
// for relays whose username is not an address (SendGrid's "apikey", SES).
type SMTPConfig struct {
	Host          string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port          int    `env:"SMTP_PORT" envDefault:"587"`
	Username      string `env:"SMTP_USERNAME"`
	Password      string `env:"SMTP_PASSWORD"`
	From          string `env:"SMTP_FROM"`
	GmailEmail    string `env:"GMAIL_EMAIL"`
	GmailPassword string `env:"GMAIL_APP_PASSWORD"`
}

// Credentials returns the effective username and password.
func (c SMTPConfig) Credentials() (username, password string) {
	username, password = c.Username, c.Password
	if username == "" {
		username = c.GmailEmail
	}
	if password == "" {
		password = c.GmailPassword
	}
	return username, password
}
