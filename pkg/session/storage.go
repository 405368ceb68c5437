package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/snkrs-app/snkrs/pkg/cookie"
	"github.com/snkrs-app/snkrs/pkg/logger"
)

// Storage is the entry point request handlers use to load, commit and
// destroy sessions. It is safe for concurrent use.
type Storage struct {
	store   Store
	codec   *cookie.Codec
	log     *slog.Logger
	now     func() time.Time
	backend string
}

// NewStorage combines a record store with the codec that signs its cookie.
func NewStorage(store Store, codec *cookie.Codec, opts ...Option) (*Storage, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if codec == nil {
		return nil, ErrNoCodec
	}

	s := &Storage{
		store: store,
		codec: codec,
		log:   logger.Discard(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.With(logger.Component("session"))
	if s.backend != "" {
		s.log = s.log.With(logger.Backend(s.backend))
	}

	return s, nil
}

// CookieName returns the name of the session cookie.
func (s *Storage) CookieName() string {
	return s.codec.Name()
}

// Load resolves the session referenced by a Cookie request header. A missing,
// tampered or expired cookie yields an empty session and a nil error; only
// store failures are returned.
func (s *Storage) Load(ctx context.Context, cookieHeader string) (*Session, error) {
	value, ok := s.codec.Decode(cookieHeader)
	return s.load(ctx, value, ok)
}

// LoadRequest is Load over the request's cookies.
func (s *Storage) LoadRequest(r *http.Request) (*Session, error) {
	value, ok := s.codec.DecodeRequest(r)
	return s.load(r.Context(), value, ok)
}

func (s *Storage) load(ctx context.Context, value string, ok bool) (*Session, error) {
	if !ok || value == "" {
		return NewSession(), nil
	}

	start := s.now()
	p, err := s.store.ReadData(ctx, value)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to read session",
			logger.Operation("read"),
			logger.Duration(s.now().Sub(start)),
			logger.Error(err),
		)
		return nil, err
	}
	if p == nil {
		s.log.DebugContext(ctx, "session not found, starting a new one")
		return NewSession(), nil
	}

	return loadedSession(value, *p), nil
}

// Commit persists sess and returns the Set-Cookie header for the response.
// New sessions are created, loaded ones overwritten; either way the expiry is
// refreshed.
func (s *Storage) Commit(ctx context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", ErrNilSession
	}

	var (
		value string
		err   error
		op    = "update"
		start = s.now()
	)
	if sess.IsNew() {
		op = "create"
		value, err = s.store.CreateData(ctx, sess.payload, sess.payload.ExpiresAt)
	} else {
		value, err = s.store.UpdateData(ctx, sess.value, sess.payload, sess.payload.ExpiresAt)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "failed to commit session",
			logger.Operation(op),
			logger.Duration(s.now().Sub(start)),
			logger.Error(err),
		)
		return "", err
	}

	sess.value = value
	return s.codec.Encode(value, s.expiryOptions(sess.payload.ExpiresAt)...)
}

// Destroy deletes the stored record and returns a header that clears the
// cookie. Destroying a session that was never committed only clears.
func (s *Storage) Destroy(ctx context.Context, sess *Session) (string, error) {
	if sess != nil && !sess.IsNew() {
		if err := s.store.DeleteData(ctx, sess.value); err != nil {
			s.log.ErrorContext(ctx, "failed to destroy session",
				logger.Operation("delete"),
				logger.Error(err),
			)
			return "", err
		}
	}
	if sess != nil {
		sess.reset()
	}
	return s.codec.Clear(), nil
}

// Regenerate deletes the record behind sess and detaches the handle from it.
// The payload is kept and the next commit stores it under a new id. Call it
// before changing the user id so a cookie planted ahead of login stays
// anonymous.
func (s *Storage) Regenerate(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrNilSession
	}
	if sess.IsNew() {
		return nil
	}

	if err := s.store.DeleteData(ctx, sess.value); err != nil {
		s.log.ErrorContext(ctx, "failed to regenerate session",
			logger.Operation("delete"),
			logger.Error(err),
		)
		return err
	}
	sess.value = ""
	return nil
}

// Save commits sess and adds the resulting Set-Cookie header to w.
func (s *Storage) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	header, err := s.Commit(ctx, sess)
	if err != nil {
		return err
	}
	w.Header().Add("Set-Cookie", header)
	return nil
}

// Clear destroys sess and adds the clearing Set-Cookie header to w.
func (s *Storage) Clear(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	header, err := s.Destroy(ctx, sess)
	if err != nil {
		return err
	}
	w.Header().Add("Set-Cookie", header)
	return nil
}

// expiryOptions pins Expires and Max-Age to an explicit expiry. Without one
// the codec defaults (two weeks) apply.
func (s *Storage) expiryOptions(expires *time.Time) []cookie.Option {
	if expires == nil {
		return nil
	}
	maxAge := int(expires.Sub(s.now()) / time.Second)
	if maxAge <= 0 {
		maxAge = -1
	}
	return []cookie.Option{
		cookie.WithExpires(*expires),
		cookie.WithMaxAge(maxAge),
	}
}
