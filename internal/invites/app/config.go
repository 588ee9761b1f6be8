package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
)

// Notifier backends.
const (
	NotifierLog  = "log"
	NotifierSMTP = "smtp"
)

type Config struct {
	DatabaseFile   string                `env:"INVITES_DATABASE_FILE" envDefault:"invites.db"`
	JWTSecret      string                `env:"INVITES_JWT_SECRET,required,notEmpty"`
	JWTIssuer      string                `env:"INVITES_JWT_ISSUER"`
	PropertyPolicy domain.PropertyPolicy `env:"INVITES_PROPERTY_POLICY" envDefault:"strict"`
	InvitationTTL  time.Duration         `env:"INVITES_TTL" envDefault:"720h"`
	SweepInterval  time.Duration         `env:"INVITES_SWEEP_INTERVAL" envDefault:"1h"`
	Notifier       string                `env:"INVITES_NOTIFIER" envDefault:"log"`
	PasswordPepper string                `env:"INVITES_PASSWORD_PEPPER"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`

	AppURL string `env:"APP_URL" envDefault:"http://localhost:3000"`

	Env                 string        `env:"ENV" envDefault:"dev"`                 // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`          // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`         // json, text
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	RateLimits RateLimitsConfig `envPrefix:"RATELIMIT_"`
}

type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// RateLimitsConfig holds optional overrides. A zero field keeps the
// built-in profile value.
type RateLimitsConfig struct {
	Strict   RateLimitOverride `envPrefix:"STRICT_"`
	Moderate RateLimitOverride `envPrefix:"MODERATE_"`
	Lenient  RateLimitOverride `envPrefix:"LENIENT_"`
}

type RateLimitOverride struct {
	Requests  int `env:"REQUESTS"`
	WindowSec int `env:"WINDOW_SEC"`
	Burst     int `env:"BURST"`
}

func (o RateLimitOverride) apply(base httpx.RateLimitConfig) httpx.RateLimitConfig {
	if o.Requests > 0 {
		base.RequestsPerWindow = o.Requests
	}
	if o.WindowSec > 0 {
		base.Window = time.Duration(o.WindowSec) * time.Second
	}
	if o.Burst > 0 {
		base.Burst = o.Burst
	}
	return base
}

// Limits merges the overrides into the default profiles.
func (c Config) Limits() httpx.RateLimits {
	limits := httpx.DefaultRateLimits()
	limits.Strict = c.RateLimits.Strict.apply(limits.Strict)
	limits.Moderate = c.RateLimits.Moderate.apply(limits.Moderate)
	limits.Lenient = c.RateLimits.Lenient.apply(limits.Lenient)
	return limits
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings env tags cannot express.
func (c Config) Validate() error {
	switch c.Notifier {
	case NotifierLog:
	case NotifierSMTP:
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			return errors.New("config: INVITES_NOTIFIER=smtp needs SMTP_HOST and SMTP_FROM")
		}
	default:
		return fmt.Errorf("config: unknown INVITES_NOTIFIER %q", c.Notifier)
	}
	if c.InvitationTTL <= 0 {
		return errors.New("config: INVITES_TTL must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("config: INVITES_SWEEP_INTERVAL must be positive")
	}
	return nil
}
