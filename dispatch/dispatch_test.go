package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polychat-dev/polychat-core/envelope"
)

type recordingHandler struct {
	inits              []envelope.InitData
	keepaliveResponses []envelope.KeepaliveResponse
	authResponses      []envelope.AuthAccountResponse
}

func (r *recordingHandler) OnInit(d envelope.InitData) error {
	r.inits = append(r.inits, d)
	return nil
}
func (r *recordingHandler) OnKeepaliveResponse(d envelope.KeepaliveResponse) error {
	r.keepaliveResponses = append(r.keepaliveResponses, d)
	return nil
}
func (r *recordingHandler) OnAuthAccountResponse(d envelope.AuthAccountResponse) error {
	r.authResponses = append(r.authResponses, d)
	return nil
}

func TestDispatchInit(t *testing.T) {
	payload := envelope.InitData{
		APIVersion:    envelope.Version{Major: 0, Minor: 1, Patch: 0},
		PluginVersion: envelope.Version{Major: 1, Minor: 0, Patch: 0},
		ProtocolData: envelope.ProtocolData{
			ProtocolServiceName: "example",
			AuthMethods:         []envelope.AuthMethod{},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	h := &recordingHandler{}
	require.NoError(t, Dispatch(envelope.CoreEnvelope{Kind: envelope.KindInit, Payload: raw}, h))
	require.Len(t, h.inits, 1)
	assert.Equal(t, payload, h.inits[0])
}

func TestDispatchKeepaliveResponse(t *testing.T) {
	raw, err := json.Marshal(envelope.KeepaliveResponse{ID: 5})
	require.NoError(t, err)

	h := &recordingHandler{}
	require.NoError(t, Dispatch(envelope.CoreEnvelope{Kind: envelope.KindKeepaliveResponse, Payload: raw}, h))
	require.Len(t, h.keepaliveResponses, 1)
	assert.Equal(t, uint64(5), h.keepaliveResponses[0].ID)
}

func TestDispatchAuthAccountResponse(t *testing.T) {
	raw, err := json.Marshal(envelope.AuthAccountResponse{
		AccountID: "abc-123",
		Result:    envelope.AuthSuccess,
	})
	require.NoError(t, err)

	h := &recordingHandler{}
	require.NoError(t, Dispatch(envelope.CoreEnvelope{Kind: envelope.KindAuthAccountResponse, Payload: raw}, h))
	require.Len(t, h.authResponses, 1)
	assert.Equal(t, envelope.AuthSuccess, h.authResponses[0].Result)
}

func TestDispatchUnrecognizedKind(t *testing.T) {
	h := &recordingHandler{}
	err := Dispatch(envelope.CoreEnvelope{Kind: "NotARealKind", Payload: json.RawMessage(`{}`)}, h)
	require.Error(t, err)
	assert.Empty(t, h.inits)
	assert.Empty(t, h.keepaliveResponses)
	assert.Empty(t, h.authResponses)
}

func TestDispatchMalformedPayloadForValidKindDoesNotInvokeHandler(t *testing.T) {
	h := &recordingHandler{}
	err := Dispatch(envelope.CoreEnvelope{Kind: envelope.KindInit, Payload: json.RawMessage(`not json`)}, h)
	require.Error(t, err)
	assert.Empty(t, h.inits)
}
