// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TourHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: TOURHUB_MONGO_URI, TOURHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI; may contain a <PASSWORD> placeholder"},
	{Name: "mongo_password", Default: "", Desc: "Password substituted into the <PASSWORD> placeholder"},
	{Name: "mongo_database", Default: "tourhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// JWT sessions
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "jwt_expires_in", Default: "2160h", Desc: "JWT lifetime (e.g., 90d is 2160h)"},

	// Password reset
	{Name: "reset_token_expiry", Default: "10m", Desc: "Password reset link expiry (e.g., 10m, 1h)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@tourhub.example", Desc: "From email address"},
	{Name: "mail_from_name", Default: "TourHub", Desc: "From display name"},

	// Base URL for password reset links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},
	{Name: "site_name", Default: "TourHub", Desc: "Site name used in email copy"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TOURHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TOURHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoPassword:    appValues.String("mongo_password"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		JWTExpiresIn: appValues.Duration("jwt_expires_in", 90*24*time.Hour),

		ResetTokenExpiry: appValues.Duration("reset_token_expiry", 10*time.Minute),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL:  strings.TrimRight(appValues.String("base_url"), "/"),
		SiteName: appValues.String("site_name"),
	}

	// The URI in config files carries a placeholder so the real password
	// only ever lives in the environment.
	if appCfg.MongoPassword != "" {
		appCfg.MongoURI = strings.ReplaceAll(appCfg.MongoURI, "<PASSWORD>", appCfg.MongoPassword)
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// TourHub validates the MongoDB URI format to catch configuration
// errors early, and refuses to start in production with the development
// JWT secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if strings.Contains(appCfg.MongoURI, "<PASSWORD>") {
		return fmt.Errorf("mongo_uri contains a <PASSWORD> placeholder but mongo_password is not set")
	}

	if coreCfg.Env != "dev" && strings.HasPrefix(appCfg.JWTSecret, "dev-only-") {
		return fmt.Errorf("jwt_secret must be set outside dev mode")
	}

	if appCfg.JWTExpiresIn <= 0 {
		return fmt.Errorf("jwt_expires_in must be positive")
	}

	return nil
}
