package session

import (
	"encoding/json"
	"maps"
	"time"
)

// Session is the per-request handle on a session payload. It is not safe for
// concurrent use; each request gets its own.
type Session struct {
	value   string
	payload Payload
}

// NewSession returns an empty, not yet persisted session.
func NewSession() *Session {
	return &Session{payload: Payload{Version: PayloadVersion}}
}

func loadedSession(value string, p Payload) *Session {
	return &Session{value: value, payload: p}
}

// IsNew reports whether the session has never been committed.
func (s *Session) IsNew() bool {
	return s == nil || s.value == ""
}

// ID returns the value the store assigned on the last commit: an opaque id for
// keyed stores, the serialized payload for the cookie store. Empty for new sessions.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.value
}

// Payload returns a copy of the session data.
func (s *Session) Payload() Payload {
	if s == nil {
		return Payload{}
	}
	return s.payload.Clone()
}

// UserID returns the authenticated user id, empty for anonymous sessions.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.payload.UserID
}

// SetUserID marks the session as authenticated by id. An empty id logs out
// without destroying the session.
func (s *Session) SetUserID(id string) {
	if s == nil {
		return
	}
	s.payload.UserID = id
}

// IsAuthenticated returns true if the session has a user ID
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.payload.UserID != ""
}

// SetExpires sets an explicit expiry used instead of DefaultLifetime. It is
// stored with the payload, so later commits keep it.
func (s *Session) SetExpires(t time.Time) {
	if s == nil {
		return
	}
	s.payload.ExpiresAt = &t
}

// ClearExpires drops the explicit expiry; the next commit uses DefaultLifetime.
func (s *Session) ClearExpires() {
	if s == nil {
		return
	}
	s.payload.ExpiresAt = nil
}

// Expires returns the explicit expiry, if one was set.
func (s *Session) Expires() (time.Time, bool) {
	if s == nil || s.payload.ExpiresAt == nil {
		return time.Time{}, false
	}
	return *s.payload.ExpiresAt, true
}

// Has reports whether key is set.
func (s *Session) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Get retrieves a value from session data
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.payload.Values == nil {
		return nil, false
	}
	val, ok := s.payload.Values[key]
	return val, ok
}

// GetString retrieves a string value from session data
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value. Numbers decoded from JSON are float64 and
// are converted.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value. Reserved keys ("__v", "user_id", "__flash", "__exp") are
// ignored; use SetUserID and Flash for those.
func (s *Session) Set(key string, value any) {
	if s == nil || isReserved(key) {
		return
	}
	if s.payload.Values == nil {
		s.payload.Values = make(map[string]any)
	}
	s.payload.Values[key] = value
}

// Delete removes a value from session data
func (s *Session) Delete(key string) {
	if s == nil || s.payload.Values == nil {
		return
	}
	delete(s.payload.Values, key)
}

// Clear removes all values and flash messages. The user id is kept.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.payload.Values = nil
	s.payload.Flash = nil
}

// Flash stores a value that is returned by exactly one GetFlash call.
func (s *Session) Flash(key string, value any) {
	if s == nil {
		return
	}
	if s.payload.Flash == nil {
		s.payload.Flash = make(map[string]any)
	}
	s.payload.Flash[key] = value
}

// GetFlash returns and removes a flash value. The removal is persisted by the
// next commit.
func (s *Session) GetFlash(key string) (any, bool) {
	if s == nil || s.payload.Flash == nil {
		return nil, false
	}
	val, ok := s.payload.Flash[key]
	if ok {
		delete(s.payload.Flash, key)
		if len(s.payload.Flash) == 0 {
			s.payload.Flash = nil
		}
	}
	return val, ok
}

// Flashes returns and removes all flash values.
func (s *Session) Flashes() map[string]any {
	if s == nil || len(s.payload.Flash) == 0 {
		return nil
	}
	out := maps.Clone(s.payload.Flash)
	s.payload.Flash = nil
	return out
}

// reset drops all state so the handle behaves like a new session.
func (s *Session) reset() {
	s.value = ""
	s.payload = Payload{Version: PayloadVersion}
}
