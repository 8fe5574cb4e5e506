// Package dispatch decodes a received CoreEnvelope's deferred payload
// into its concrete schema type and invokes the matching CoreHandler
// callback.
package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/polychat-dev/polychat-core/envelope"
)

// CoreHandler receives fully-decoded core-bound instructions. Each method
// corresponds to one envelope.CoreKind.
type CoreHandler interface {
	OnInit(envelope.InitData) error
	OnKeepaliveResponse(envelope.KeepaliveResponse) error
	OnAuthAccountResponse(envelope.AuthAccountResponse) error
}

// Dispatch decodes env's payload according to its Kind and invokes the
// matching method on h. An unrecognized Kind, or a payload that does not
// decode into the shape its Kind implies, is returned as an error without
// calling h.
func Dispatch(env envelope.CoreEnvelope, h CoreHandler) error {
	switch env.Kind {
	case envelope.KindInit:
		var data envelope.InitData
		if err := json.Unmarshal(env.Payload, &data); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}
		return h.OnInit(data)
	case envelope.KindKeepaliveResponse:
		var data envelope.KeepaliveResponse
		if err := json.Unmarshal(env.Payload, &data); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}
		return h.OnKeepaliveResponse(data)
	case envelope.KindAuthAccountResponse:
		var data envelope.AuthAccountResponse
		if err := json.Unmarshal(env.Payload, &data); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}
		return h.OnAuthAccountResponse(data)
	default:
		return fmt.Errorf("unrecognized instruction kind %q", env.Kind)
	}
}
