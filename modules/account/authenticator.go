package account

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator verifies credentials and returns the user id to store in the
// session.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// StaticAuthenticator checks credentials against a fixed set of bcrypt
// hashes. The user id is the username.
type StaticAuthenticator struct {
	hashes map[string][]byte
	// dummy is compared against for unknown users. It uses the highest cost
	// among the configured hashes so both paths take as long.
	dummy []byte
}

// NewStaticAuthenticator parses "username:hash" entries.
func NewStaticAuthenticator(entries []string) (*StaticAuthenticator, error) {
	a := &StaticAuthenticator{hashes: make(map[string][]byte, len(entries))}
	cost := 0
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		name, hash, ok := strings.Cut(e, ":")
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUserEntry, name)
		}
		c, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidUserEntry, name, err)
		}
		cost = max(cost, c)
		a.hashes[strings.ToLower(name)] = []byte(hash)
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("snkrs-dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	a.dummy = dummy
	return a, nil
}

// Authenticate returns ErrInvalidCredentials for unknown users and wrong
// passwords alike.
func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, ok := a.hashes[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(a.dummy, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return username, nil
}
