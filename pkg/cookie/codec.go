package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 32
	keyInfo         = "snkrs-cookie-v1"
)

var b64 = base64.RawURLEncoding

// Codec signs, optionally encrypts, and serializes one named cookie.
type Codec struct {
	name     string
	secrets  []string
	keys     [][]byte // AES keys derived from secrets, same order
	defaults Options
}

// New creates a Codec for the cookie called name. secrets are ordered newest
// first; blank entries are dropped and at least one secret of 32+ characters
// must remain.
func New(name string, secrets []string, opts ...Option) (*Codec, error) {
	if name == "" || (&http.Cookie{Name: name, Value: "x"}).String() == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return strings.TrimSpace(s) == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([][]byte, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		key, err := deriveKey(s)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Codec{
		name:     name,
		secrets:  secrets,
		keys:     keys,
		defaults: defaults,
	}, nil
}

// Name returns the cookie name.
func (c *Codec) Name() string { return c.name }

// Defaults returns the attributes applied when no per-call options are given.
func (c *Codec) Defaults() Options { return c.defaults }

// Cookie builds the *http.Cookie carrying value.
func (c *Codec) Cookie(value string, opts ...Option) (*http.Cookie, error) {
	options := applyOptions(c.defaults, opts)

	payload := []byte(value)
	if options.Encrypt {
		sealed, err := c.encrypt(payload)
		if err != nil {
			return nil, err
		}
		payload = sealed
	}

	return c.cookie(c.sign(payload), options), nil
}

// Encode returns the Set-Cookie header value carrying value.
func (c *Codec) Encode(value string, opts ...Option) (string, error) {
	ck, err := c.Cookie(value, opts...)
	if err != nil {
		return "", err
	}
	return ck.String(), nil
}

// Decode extracts and verifies the cookie from a Cookie request header.
func (c *Codec) Decode(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	r := http.Request{Header: http.Header{"Cookie": {header}}}
	ck, err := r.Cookie(c.name)
	if err != nil {
		return "", false
	}
	return c.DecodeValue(ck.Value)
}

// DecodeRequest is Decode over the request's Cookie headers.
func (c *Codec) DecodeRequest(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.name)
	if err != nil {
		return "", false
	}
	return c.DecodeValue(ck.Value)
}

// DecodeValue verifies a raw cookie value (without the name).
func (c *Codec) DecodeValue(raw string) (string, bool) {
	payload, idx, err := c.verify(raw)
	if err != nil {
		return "", false
	}
	if c.defaults.Encrypt {
		plain, err := c.decrypt(payload, idx)
		if err != nil {
			return "", false
		}
		payload = plain
	}
	return string(payload), true
}

// Clear returns a Set-Cookie header value that removes the cookie.
func (c *Codec) Clear(opts ...Option) string {
	options := applyOptions(c.defaults, opts)
	options.MaxAge = -1
	options.Expires = time.Unix(0, 0)
	return c.cookie("", options).String()
}

// Sign returns value signed with the newest secret.
func (c *Codec) Sign(value string) string {
	return c.sign([]byte(value))
}

// Verify checks a signed value against every secret, newest first.
func (c *Codec) Verify(signed string) (string, error) {
	payload, _, err := c.verify(signed)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (c *Codec) cookie(value string, o Options) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Expires:  o.Expires,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
}

func (c *Codec) mac(secret string, payload []byte) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(c.name))
	m.Write([]byte{'='})
	m.Write(payload)
	return m.Sum(nil)
}

func (c *Codec) sign(payload []byte) string {
	return b64.EncodeToString(payload) + "." + b64.EncodeToString(c.mac(c.secrets[0], payload))
}

// verify returns the payload and the index of the secret that signed it.
func (c *Codec) verify(signed string) ([]byte, int, error) {
	encodedValue, encodedSig, ok := strings.Cut(signed, ".")
	if !ok {
		return nil, -1, ErrInvalidFormat
	}

	payload, err := b64.DecodeString(encodedValue)
	if err != nil {
		return nil, -1, ErrInvalidFormat
	}
	sig, err := b64.DecodeString(encodedSig)
	if err != nil {
		return nil, -1, ErrInvalidFormat
	}

	for i, secret := range c.secrets {
		if subtle.ConstantTimeCompare(sig, c.mac(secret, payload)) == 1 {
			return payload, i, nil
		}
	}
	return nil, -1, ErrInvalidSignature
}

func (c *Codec) encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM(c.keys[0])
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return gcm.Seal(nonce, nonce, plain, []byte(c.name)), nil
}

func (c *Codec) decrypt(sealed []byte, idx int) ([]byte, error) {
	gcm, err := newGCM(c.keys[idx])
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, ErrDecryptionFailed
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, []byte(c.name))
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plain, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func deriveKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return key, nil
}
