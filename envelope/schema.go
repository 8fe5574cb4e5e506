package envelope

import "github.com/google/uuid"

// Version identifies a semantic-ish version for either the wire API or a
// plugin binary.
type Version struct {
	Major int32 `json:"major"`
	Minor int32 `json:"minor"`
	Patch int32 `json:"patch"`
}

// ProtocolData describes the external chat service a plugin speaks for.
type ProtocolData struct {
	ProtocolServiceName string       `json:"protocol_service_name"`
	AuthMethods         []AuthMethod `json:"auth_methods"`
}

// InitData is the payload of an Init instruction: the first thing a
// plugin must send once connected. Until it arrives, the plugin is
// considered to be loading.
type InitData struct {
	APIVersion    Version      `json:"api_version"`
	PluginVersion Version      `json:"plugin_version"`
	ProtocolData  ProtocolData `json:"protocol_data"`
}

// FieldType constrains how a Field's value should be validated/rendered.
type FieldType string

const (
	FieldInteger FieldType = "Integer"
	FieldString  FieldType = "String"
	FieldURL     FieldType = "Url"
)

// Field is one input a user may or must supply for an AuthMethod.
type Field struct {
	Name      string    `json:"name"`
	FieldType FieldType `json:"field_type"`
	Value     *string   `json:"value,omitempty"`
	Required  bool      `json:"required"`
	Sensitive bool      `json:"sensitive"`
}

// AuthMethod is one way a user may authenticate with the wrapped service.
type AuthMethod struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// AuthAccount is sent core -> plugin to request that the plugin
// authenticate an account using the given method.
//
// AccountID resolves Open Question 2 (see SPEC_FULL.md §3/§9): the host
// mints a fresh identifier for every AuthAccount it sends so that the
// matching AuthAccountResponse can be correlated even when multiple auth
// attempts for the same plugin are in flight concurrently.
type AuthAccount struct {
	AccountID      string     `json:"account_id"`
	UsedAuthMethod AuthMethod `json:"used_authmethod"`
}

// NewAuthAccount mints a fresh AccountID and wraps method in an
// AuthAccount, so that the matching AuthAccountResponse can be
// correlated even when multiple auth attempts for the same plugin are in
// flight concurrently.
func NewAuthAccount(method AuthMethod) AuthAccount {
	return AuthAccount{
		AccountID:      uuid.NewString(),
		UsedAuthMethod: method,
	}
}

// AuthResult is the outcome of an authentication attempt.
type AuthResult string

const (
	AuthSuccess             AuthResult = "Success"
	AuthFailRejected        AuthResult = "FailRejected"
	AuthFailConnectionError AuthResult = "FailConnectionError"
	AuthConnecting          AuthResult = "Connecting"
)

// AuthAccountResponse is sent plugin -> core in reply to an AuthAccount
// instruction.
type AuthAccountResponse struct {
	AccountID string     `json:"account_id"`
	Result    AuthResult `json:"result"`
	Details   string     `json:"details"`
}

// Keepalive is sent core -> plugin as a liveness probe.
type Keepalive struct {
	ID uint64 `json:"id"`
}

// KeepaliveResponse is sent plugin -> core in reply to a Keepalive.
type KeepaliveResponse struct {
	ID uint64 `json:"id"`
}
