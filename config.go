package store

import (
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
)

// Config carries every externally supplied setting. It is constructed
// once at process start and passed by reference; nothing reads the
// environment after NewConfigFromEnv returns.
type Config struct {
	databaseURL            string
	signingKey             string
	signingMethod          string
	tokenExpirationMinutes int
	issuer                 string
	allowedOrigins         []string
	listenAddr             string
	strictFields           bool
}

// ConfigDefaults mirror the original deployment's fallbacks; the signing
// key default exists only so local development works out of the box.
const (
	defaultSigningKey    = "change-me-in-production"
	defaultSigningMethod = "HS256"
	defaultTokenMinutes  = 30
	defaultListenAddr    = ":8001"
	defaultIssuer        = "store-api"
	defaultDatabaseURL   = "file::memory:?cache=shared"
)

// NewConfigFromEnv builds an immutable Config from the environment.
func NewConfigFromEnv() (*Config, error) {
	cfg := &Config{
		databaseURL:            envOr("DATABASE_URL", defaultDatabaseURL),
		signingKey:             envOr("SECRET_KEY", defaultSigningKey),
		signingMethod:          envOr("ALGORITHM", defaultSigningMethod),
		tokenExpirationMinutes: defaultTokenMinutes,
		issuer:                 envOr("TOKEN_ISSUER", defaultIssuer),
		listenAddr:             envOr("LISTEN_ADDR", defaultListenAddr),
	}

	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return nil, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer", errors.CategoryValidation)
		}
		cfg.tokenExpirationMinutes = minutes
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.allowedOrigins = append(cfg.allowedOrigins, origin)
			}
		}
	}

	if v := os.Getenv("STRICT_FIELDS"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("STRICT_FIELDS must be a boolean", errors.CategoryValidation)
		}
		cfg.strictFields = strict
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the token service cannot honor.
func (c *Config) Validate() error {
	if c.signingKey == "" {
		return errors.New("signing key must not be empty", errors.CategoryValidation)
	}
	// HS256 is the only supported algorithm; the validator pins the
	// signing method family, so accepting others here would be a lie.
	if c.signingMethod != "HS256" {
		return errors.New("unsupported signing algorithm: "+c.signingMethod, errors.CategoryValidation)
	}
	return nil
}

func (c *Config) GetDatabaseURL() string         { return c.databaseURL }
func (c *Config) GetSigningKey() string          { return c.signingKey }
func (c *Config) GetSigningMethod() string       { return c.signingMethod }
func (c *Config) GetTokenExpirationMinutes() int { return c.tokenExpirationMinutes }
func (c *Config) GetIssuer() string              { return c.issuer }
func (c *Config) GetListenAddr() string          { return c.listenAddr }
func (c *Config) GetStrictFields() bool          { return c.strictFields }

// GetAllowedOrigins returns a copy so callers cannot mutate shared state.
func (c *Config) GetAllowedOrigins() []string {
	out := make([]string, len(c.allowedOrigins))
	copy(out, c.allowedOrigins)
	return out
}

// IsPostgres reports whether the configured DSN targets Postgres; any
// other DSN is handed to the sqlite shim.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.databaseURL, "postgres://") ||
		strings.HasPrefix(c.databaseURL, "postgresql://")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
