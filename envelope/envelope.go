// Package envelope defines the two-level instruction envelope exchanged
// between the core and a plugin, and the newline-delimited JSON framing
// used to put it on the wire.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CoreKind is the discriminator for an envelope travelling plugin -> core.
type CoreKind string

const (
	KindInit                 CoreKind = "Init"
	KindKeepaliveResponse     CoreKind = "KeepaliveResponse"
	KindAuthAccountResponse   CoreKind = "AuthAccountResponse"
)

// PluginKind is the discriminator for an envelope travelling core -> plugin.
type PluginKind string

const (
	KindKeepalive   PluginKind = "Keepalive"
	KindAuthAccount PluginKind = "AuthAccount"
)

// CoreEnvelope is an instruction sent from a plugin to the core.
//
// Payload is kept as a deferred (opaque) JSON value: the envelope itself
// decodes eagerly, but the payload bytes are retained verbatim until the
// dispatch layer binds them to a kind-specific schema. This lets the
// transport accept unrecognized-but-well-formed kinds without recompiling
// the inner schemas.
type CoreEnvelope struct {
	Kind    CoreKind        `json:"instruction_type"`
	Payload json.RawMessage `json:"payload"`
}

// PluginEnvelope is an instruction sent from the core to a plugin.
type PluginEnvelope struct {
	Kind    PluginKind      `json:"instruction_type"`
	Payload json.RawMessage `json:"payload"`
}

// Equal reports whether two envelopes carry the same kind and
// byte-equal canonical JSON payloads.
func (e CoreEnvelope) Equal(other CoreEnvelope) bool {
	return e.Kind == other.Kind && canonicalEqual(e.Payload, other.Payload)
}

// Equal reports whether two envelopes carry the same kind and
// byte-equal canonical JSON payloads.
func (e PluginEnvelope) Equal(other PluginEnvelope) bool {
	return e.Kind == other.Kind && canonicalEqual(e.Payload, other.Payload)
}

func canonicalEqual(a, b json.RawMessage) bool {
	ca, err := canonicalize(a)
	if err != nil {
		return false
	}
	cb, err := canonicalize(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

func canonicalize(raw json.RawMessage) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// NewCoreEnvelope encodes payload and wraps it in a CoreEnvelope.
func NewCoreEnvelope(kind CoreKind, payload any) (CoreEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return CoreEnvelope{}, fmt.Errorf("encode payload for %s: %w", kind, err)
	}
	return CoreEnvelope{Kind: kind, Payload: raw}, nil
}

// NewPluginEnvelope encodes payload and wraps it in a PluginEnvelope.
func NewPluginEnvelope(kind PluginKind, payload any) (PluginEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return PluginEnvelope{}, fmt.Errorf("encode payload for %s: %w", kind, err)
	}
	return PluginEnvelope{Kind: kind, Payload: raw}, nil
}
