// Package session persists per-user session state for the snkrs web app.
//
// Request handlers talk to a Storage and nothing else:
//
//	sess, err := storage.LoadRequest(r)     // never fails on a missing/bad cookie
//	err = storage.Regenerate(r.Context(), sess) // new id on login
//	sess.SetUserID(user.ID)
//	sess.Flash("notice", "Welcome back")
//	err = storage.Save(r.Context(), w, sess) // Set-Cookie
//	...
//	err = storage.Clear(r.Context(), w, sess) // logout
//
// Storage combines a cookie.Codec, which signs whatever goes into the cookie,
// with a Store, which decides what that is:
//
//	┌─────────┐  Cookie   ┌────────────┐  value  ┌───────────────────────────┐
//	│ Request │ ────────► │ cookie     │ ──────► │ Store                     │
//	└─────────┘           │ Codec      │         │  RedisStore    (id → JSON)│
//	                      └────────────┘         │  PostgresStore (id → JSON)│
//	                                             │  MemoryStore   (id → JSON)│
//	                                             │  CookieStore   (value=JSON│
//	                                             └───────────────────────────┘
//
// Keyed stores put an opaque NewID in the cookie and keep the payload
// server-side with a TTL; the store is the only authority on expiry. The
// CookieStore puts the whole payload, with its expiry, into the cookie.
// Which one runs is decided once at start-up (see Config.Backend).
//
// # Expiry
//
// ResolveExpiry turns an optional explicit expiry into an absolute instant and
// a TTL. Without one, sessions live DefaultLifetime (two weeks). A TTL that is
// zero or negative means "expire now": keyed stores delete the record instead
// of writing it.
//
// # Errors
//
// A missing, expired or tampered session is not an error; Load returns an
// empty session. Backend failures are wrapped with ErrStoreUnavailable and
// corrupt stored data with ErrMalformedPayload; both are returned to the
// caller unchanged. There is no locking: concurrent commits of the same
// session are last-write-wins.
package session
