// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, log level); AppConfig is
// everything specific to TourHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // connection string; may contain a <PASSWORD> placeholder
	MongoPassword    string // substituted into the URI placeholder, kept out of config files
	MongoDatabase    string // database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// JWT session configuration
	JWTSecret    string        // HMAC signing secret (must be strong in production)
	JWTExpiresIn time.Duration // token lifetime (default 90 days)

	// Password reset configuration
	ResetTokenExpiry time.Duration // reset link lifetime (default 10m)

	// Email/SMTP configuration
	MailSMTPHost string // e.g. localhost for Mailpit, an SES endpoint in production
	MailSMTPPort int
	MailSMTPUser string // empty for unauthenticated relays
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL used to build password reset links
	BaseURL string // e.g. "https://tourhub.example" or "http://localhost:3000"

	// SiteName appears in outbound email copy
	SiteName string
}
