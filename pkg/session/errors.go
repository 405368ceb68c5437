package session

import "errors"

var (
	// ErrStoreUnavailable wraps failures talking to the backing store.
	ErrStoreUnavailable = errors.New("session.store_unavailable")

	// ErrMalformedPayload indicates stored session data that cannot be decoded.
	ErrMalformedPayload = errors.New("session.malformed_payload")

	// ErrPayloadTooLarge is returned by the cookie store when the payload does not fit in a cookie.
	ErrPayloadTooLarge = errors.New("session.payload_too_large")

	// ErrInvalidID is returned when a keyed store is asked to update a malformed id.
	ErrInvalidID = errors.New("session.invalid_id")

	// ErrNilSession is returned when a nil session is committed.
	ErrNilSession = errors.New("session.nil_session")

	// ErrNoStore indicates no store is configured
	ErrNoStore = errors.New("session.no_store")

	// ErrNoCodec indicates no cookie codec is configured
	ErrNoCodec = errors.New("session.no_codec")

	// ErrUnknownBackend indicates an unsupported SESSION_BACKEND value.
	ErrUnknownBackend = errors.New("session.unknown_backend")
)
