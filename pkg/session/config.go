package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/snkrs-app/snkrs/pkg/cookie"
	"github.com/snkrs-app/snkrs/pkg/environment"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendCookie   Backend = "cookie"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// UnmarshalText validates SESSION_BACKEND values.
func (b *Backend) UnmarshalText(text []byte) error {
	v := Backend(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case "":
		*b = BackendAuto
	case BackendAuto, BackendCookie, BackendRedis, BackendPostgres, BackendMemory:
		*b = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, string(text))
	}
	return nil
}

func (b Backend) String() string { return string(b) }

// Config holds session configuration loaded from the environment.
type Config struct {
	CookieName      string        `env:"SESSION_COOKIE_NAME" envDefault:"__session"`
	Secrets         []string      `env:"SESSION_SECRETS" envSeparator:","`
	Backend         Backend       `env:"SESSION_BACKEND" envDefault:"auto"`
	KeyPrefix       string        `env:"SESSION_KEY_PREFIX" envDefault:"snkrs:"`
	Encrypt         bool          `env:"SESSION_ENCRYPT" envDefault:"false"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}

// DefaultConfig returns the configuration used when nothing is set, minus secrets.
func DefaultConfig() Config {
	return Config{
		CookieName:      "__session",
		Backend:         BackendAuto,
		KeyPrefix:       DefaultKeyPrefix,
		CleanupInterval: 10 * time.Minute,
	}
}

// ResolveBackend picks the concrete backend. auto means redis in production
// and the cookie store everywhere else.
func (c Config) ResolveBackend(env environment.Environment) (Backend, error) {
	switch c.Backend {
	case "", BackendAuto:
		if env.IsProduction() {
			return BackendRedis, nil
		}
		return BackendCookie, nil
	case BackendCookie, BackendRedis, BackendPostgres, BackendMemory:
		return c.Backend, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, string(c.Backend))
	}
}

// NewCodec builds the session cookie codec. The Secure attribute is set only
// in production.
func (c Config) NewCodec(env environment.Environment) (*cookie.Codec, error) {
	return cookie.New(c.CookieName, c.Secrets,
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithMaxAge(int(DefaultLifetime/time.Second)),
		cookie.WithSecure(env.IsProduction()),
		cookie.WithEncryption(c.Encrypt),
	)
}
