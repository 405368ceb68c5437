// Package cookie encodes and decodes a single named, signed and optionally
// encrypted HTTP cookie.
//
// A Codec is built once per cookie with an ordered list of secrets. The first
// secret signs (and encrypts) everything the Codec writes; every secret is
// tried when reading, so a new secret can be prepended without logging anyone
// out, and an old secret stops being accepted once it is removed from the list.
//
// # Wire format
//
//	<base64url(value)>.<base64url(HMAC-SHA256(name "=" value))>
//
// With WithEncryption(true) the value is first sealed with AES-256-GCM under a
// key derived from the signing secret with HKDF-SHA256, so the cookie reveals
// nothing without the secret.
//
// # Usage
//
//	codec, err := cookie.New("__session", secrets,
//	    cookie.WithSecure(env.IsProduction()),
//	    cookie.WithSameSite(http.SameSiteStrictMode),
//	    cookie.WithMaxAge(14*24*60*60),
//	)
//
//	header, err := codec.Encode(sessionID) // Set-Cookie value
//	id, ok := codec.Decode(r.Header.Get("Cookie"))
//
// Decode never returns an error: a missing, malformed, tampered or expired-key
// cookie is simply absent.
package cookie
