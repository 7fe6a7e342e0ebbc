// File: protocol/frame_test.go
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame_SingleCharPing(t *testing.T) {
	f, err := DecodeFrame("2")
	require.NoError(t, err)
	assert.Equal(t, EnginePing, f.Engine)
	assert.False(t, f.HasSock)
}

func TestDecodeFrame_OpenPayload(t *testing.T) {
	f, err := DecodeFrame(`0{"pingInterval":5000,"sid":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, EngineOpen, f.Engine)

	var open OpenPayload
	require.NoError(t, json.Unmarshal([]byte(f.Payload), &open))
	assert.Equal(t, 5000, open.PingInterval)
}

func TestDecodeFrame_OpenEmptyPayload(t *testing.T) {
	f, err := DecodeFrame("0")
	require.NoError(t, err)
	assert.Equal(t, EngineOpen, f.Engine)
	assert.Empty(t, f.Payload)
}

func TestDecodeFrame_EventMessage(t *testing.T) {
	f, err := DecodeFrame(`42["welcome",{"foo":1}]`)
	require.NoError(t, err)
	assert.Equal(t, EngineMessage, f.Engine)
	assert.Equal(t, SocketEvent, f.Socket)

	ev, err := DecodeEvent(f.Payload)
	require.NoError(t, err)
	assert.Equal(t, "welcome", ev.Name)
	assert.JSONEq(t, `{"foo":1}`, string(ev.Data))
}

func TestDecodeFrame_EventNoData(t *testing.T) {
	f, err := DecodeFrame(`42["start"]`)
	require.NoError(t, err)

	ev, err := DecodeEvent(f.Payload)
	require.NoError(t, err)
	assert.Equal(t, "start", ev.Name)
	assert.Nil(t, ev.Data)
}

func TestDecodeFrame_BadEngineType(t *testing.T) {
	_, err := DecodeFrame("9garbage")
	require.Error(t, err)
	var decErr *DecodeError
	assert.ErrorAs(t, err, &decErr)
}

func TestDecodeFrame_Empty(t *testing.T) {
	_, err := DecodeFrame("")
	require.Error(t, err)
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := DecodeEvent(`not json`)
	require.Error(t, err)
}

func TestEncodeEvent_RoundTrip(t *testing.T) {
	type payload struct {
		X int    `json:"x"`
		S string `json:"s"`
	}
	data := payload{X: 7, S: "hi"}

	text, err := EncodeEvent("move", data)
	require.NoError(t, err)
	assert.Equal(t, `42["move",{"x":7,"s":"hi"}]`, text)

	f, err := DecodeFrame(text)
	require.NoError(t, err)
	assert.Equal(t, EngineMessage, f.Engine)
	assert.Equal(t, SocketEvent, f.Socket)

	ev, err := DecodeEvent(f.Payload)
	require.NoError(t, err)
	assert.Equal(t, "move", ev.Name)

	var got payload
	require.NoError(t, json.Unmarshal(ev.Data, &got))
	assert.Equal(t, data, got)
}

func TestEncodePong(t *testing.T) {
	assert.Equal(t, "3", EncodePong())
}
