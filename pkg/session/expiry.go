package session

import "time"

// DefaultLifetime is how long a session lives when no explicit expiry is given.
const DefaultLifetime = 14 * 24 * time.Hour

// ResolveExpiry returns the absolute expiry and the time left until it.
// An explicit expiry is used as is, even when already in the past; the
// returned duration is then negative and stores treat it as "expire now".
func ResolveExpiry(now time.Time, explicit *time.Time) (time.Time, time.Duration) {
	if explicit != nil {
		return *explicit, explicit.Sub(now)
	}
	return now.Add(DefaultLifetime), DefaultLifetime
}
