// Package account mounts the sign-in, sign-out and "who am I" endpoints, the
// only part of snkrs that writes to the session directly.
//
//	r.Mount("/account", account.Router(storage, authn, cfg, log))
//
// POST /login accepts a form or JSON body with username, password and an
// optional remember flag. Without remember the session gets an explicit,
// shorter expiry instead of the two-week default.
package account
