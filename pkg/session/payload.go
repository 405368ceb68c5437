package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"time"
)

// PayloadVersion is written into every serialized payload.
const PayloadVersion = 1

const (
	keyVersion = "__v"
	keyUserID  = "user_id"
	keyFlash   = "__flash"
	keyExpires = "__exp"
)

func isReserved(key string) bool {
	return key == keyVersion || key == keyUserID || key == keyFlash || key == keyExpires
}

// Payload is the data persisted for a session.
//
// It serializes to a single flat JSON object: the typed fields use reserved
// keys and every entry of Values becomes a top-level key. Objects written by
// older code (plain maps, no version) still decode, and unknown keys are kept
// in Values so they survive a read-modify-write.
type Payload struct {
	// Version is the schema version the payload was written with; 0 for legacy data.
	Version int
	// UserID is the authenticated user, empty for anonymous sessions.
	UserID string
	// Flash holds values that are removed once read.
	Flash map[string]any
	// ExpiresAt is the explicit expiry the session was committed with, kept at
	// millisecond precision as "__exp". Nil when the default lifetime applies.
	ExpiresAt *time.Time
	// Values holds arbitrary JSON-serializable data.
	Values map[string]any
}

// Clone returns a copy whose maps can be mutated independently.
func (p Payload) Clone() Payload {
	p.Flash = maps.Clone(p.Flash)
	p.Values = maps.Clone(p.Values)
	if p.ExpiresAt != nil {
		at := *p.ExpiresAt
		p.ExpiresAt = &at
	}
	return p
}

func (p Payload) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Values)+4)
	for k, v := range p.Values {
		if !isReserved(k) {
			m[k] = v
		}
	}
	m[keyVersion] = PayloadVersion
	if p.UserID != "" {
		m[keyUserID] = p.UserID
	}
	if len(p.Flash) > 0 {
		m[keyFlash] = p.Flash
	}
	if p.ExpiresAt != nil {
		m[keyExpires] = p.ExpiresAt.UnixMilli()
	}
	return json.Marshal(m)
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	out := Payload{}
	for k, v := range m {
		switch k {
		case keyVersion:
			n, ok := v.(float64)
			if !ok {
				return fmt.Errorf("session payload: %s must be a number, got %T", keyVersion, v)
			}
			out.Version = int(n)
		case keyUserID:
			switch id := v.(type) {
			case string:
				out.UserID = id
			case float64:
				out.UserID = strconv.FormatFloat(id, 'f', -1, 64)
			case nil:
			default:
				return fmt.Errorf("session payload: %s must be a string, got %T", keyUserID, v)
			}
		case keyFlash:
			switch f := v.(type) {
			case map[string]any:
				if len(f) > 0 {
					out.Flash = f
				}
			case nil:
			default:
				return fmt.Errorf("session payload: %s must be an object, got %T", keyFlash, v)
			}
		case keyExpires:
			switch ms := v.(type) {
			case float64:
				at := time.UnixMilli(int64(ms)).UTC()
				out.ExpiresAt = &at
			case nil:
			default:
				return fmt.Errorf("session payload: %s must be a number, got %T", keyExpires, v)
			}
		default:
			if out.Values == nil {
				out.Values = make(map[string]any)
			}
			out.Values[k] = v
		}
	}

	*p = out
	return nil
}

func encodePayload(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

func decodePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}
	return &p, nil
}
