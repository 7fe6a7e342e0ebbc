// File: protocol/dispatcher_test.go
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_OrderedHandlers(t *testing.T) {
	d := NewDispatcher()
	var order []int
	d.On("x", func(data json.RawMessage) { order = append(order, 1) })
	d.On("x", func(data json.RawMessage) { order = append(order, 2) })

	d.Dispatch("x", nil)

	assert.Equal(t, []int{1, 2}, order)
}

func TestDispatcher_UnknownEventIgnored(t *testing.T) {
	d := NewDispatcher()
	assert.NotPanics(t, func() { d.Dispatch("nope", nil) })
}

func TestDispatcher_RawHandlersSeeEveryMessage(t *testing.T) {
	d := NewDispatcher()
	var seen []Frame
	d.OnRaw(func(f Frame) { seen = append(seen, f) })

	f := Frame{Engine: EngineMessage, Socket: SocketEvent, Payload: `["x"]`}
	d.DispatchRaw(f)

	assert.Len(t, seen, 1)
	assert.Equal(t, f, seen[0])
}

func TestDispatcher_PanicRecovered(t *testing.T) {
	d := NewDispatcher()
	d.On("boom", func(data json.RawMessage) { panic("bad handler") })

	assert.NotPanics(t, func() { d.Dispatch("boom", nil) })
}
