package account

import "time"

type Config struct {
	// Users is a comma-separated list of username:bcrypt-hash pairs.
	Users           []string      `env:"ACCOUNT_USERS" envSeparator:","`
	ShortSessionTTL time.Duration `env:"ACCOUNT_SHORT_SESSION_TTL" envDefault:"24h"`
}
