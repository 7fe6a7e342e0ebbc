// File: bot/fake_transport_test.go
package bot

import (
	"encoding/json"
	"sync"
)

// rawJSON is a test convenience for building json.RawMessage literals
// inline in table-style test cases.
func rawJSON(s string) json.RawMessage {
	return json.RawMessage(s)
}

// fakeTransport is an in-memory Transport double recording every
// outbound write, used so protocol-handler tests don't need a real
// socket.
type fakeTransport struct {
	mu      sync.Mutex
	written []string
	closed  bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{}
}

func (f *fakeTransport) Write(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, text)
	return nil
}

func (f *fakeTransport) ReadFrame() (string, error) {
	return "", errClosedFake
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.written))
	copy(out, f.written)
	return out
}

var errClosedFake = fakeErr("fake transport has no data")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
