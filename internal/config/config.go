package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

// DefaultAuthSecret signs tokens when AUTH_HMAC_SECRET is unset. It is public
// and refused in prod.
const DefaultAuthSecret = "dev-secret-change-me"

type Config struct {
	Mode     Mode
	HTTPAddr string
	SiteID   string // tags event_log rows

	DBDriver string // sqlite|postgres|mongo|memory
	DBDSN    string
	MongoDB  string

	VariantsDir  string // optional override of the built-in tables
	StrictShapes bool

	SlackWebhookURL string
	NotifyTimeout   time.Duration

	AdminUser      string
	AdminPassHash  string // bcrypt
	StaffUser      string
	StaffPassHash  string // bcrypt; empty disables the staff login
	AuthHMACSecret string
	TokenTTL       time.Duration

	CORSOrigins []string
}

func FromEnv() Config {
	mode := Mode(envOr("MODE", string(ModeDev)))
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		SiteID:   envOr("SITE_ID", "local"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    os.Getenv("DB_DSN"),
		MongoDB:  envOr("MONGO_DB", "rmleveltest"),

		VariantsDir:  os.Getenv("VARIANTS_DIR"),
		StrictShapes: envBool("STRICT_SHAPES", false),

		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		NotifyTimeout:   envDuration("NOTIFY_TIMEOUT", 10*time.Second),

		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  os.Getenv("ADMIN_PASS_HASH"),
		StaffUser:      envOr("STAFF_USER", "staff"),
		StaffPassHash:  os.Getenv("STAFF_PASS_HASH"),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", DefaultAuthSecret),
		TokenTTL:       envDuration("TOKEN_TTL", 8*time.Hour),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

// Validate enforces the prod requirements: a private signing secret and an
// admin password hash. Dev mode accepts the defaults.
func (c Config) Validate() error {
	if c.Mode != ModeProd {
		return nil
	}
	var errs []error
	if c.AuthHMACSecret == "" || c.AuthHMACSecret == DefaultAuthSecret {
		errs = append(errs, errors.New("AUTH_HMAC_SECRET must be set to a private value in prod"))
	}
	if c.AdminPassHash == "" {
		errs = append(errs, errors.New("ADMIN_PASS_HASH is required in prod"))
	}
	return errors.Join(errs...)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

// envDuration accepts Go duration syntax ("5s", "1m30s").
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
