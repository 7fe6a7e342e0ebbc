package bollywood

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTimeout is returned by Engine.Ask when no Reply arrives within the
// given timeout.
var ErrTimeout = errors.New("bollywood: ask timed out waiting for reply")

// ErrNotFound is returned when a PID does not resolve to a running actor.
var ErrNotFound = errors.New("bollywood: actor not found")

// Engine owns the set of running actors and routes messages between them.
// An Engine is safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	processes map[string]*process
	counter   uint64
	stopping  atomic.Bool
}

// NewEngine creates an empty, ready-to-use Engine.
func NewEngine() *Engine {
	return &Engine{
		processes: make(map[string]*process),
	}
}

func (e *Engine) nextPID() *PID {
	id := atomic.AddUint64(&e.counter, 1)
	return &PID{ID: fmt.Sprintf("actor-%d", id)}
}

// Spawn starts a new actor from props and returns its PID. The actor's
// Receive is sent a Started message before any user message.
func (e *Engine) Spawn(props *Props) *PID {
	pid := e.nextPID()
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.processes[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()
	proc.sendEnvelope(&messageEnvelope{Message: Started{}})
	return pid
}

func (e *Engine) lookup(pid *PID) *process {
	if pid == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.processes[pid.ID]
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.processes, pid.ID)
	e.mu.Unlock()
}

// Send delivers message to pid's mailbox without waiting for a reply.
// sender may be nil when the caller is not itself an actor.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	proc := e.lookup(pid)
	if proc == nil {
		return
	}
	proc.sendEnvelope(&messageEnvelope{Sender: sender, Message: message})
}

// Ask delivers message to pid and blocks until the actor calls ctx.Reply,
// or until timeout elapses, in which case it returns ErrTimeout.
func (e *Engine) Ask(pid *PID, message interface{}, timeout time.Duration) (interface{}, error) {
	proc := e.lookup(pid)
	if proc == nil {
		return nil, ErrNotFound
	}

	replyCh := make(chan interface{}, 1)
	env := &messageEnvelope{
		Message:   message,
		requestID: e.nextPID().ID,
		replyCh:   replyCh,
	}
	proc.sendEnvelope(env)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-replyCh:
		return resp, nil
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Stop asks the actor at pid to shut down gracefully: it is sent Stopping,
// then Stopped, and removed from the Engine.
func (e *Engine) Stop(pid *PID) {
	proc := e.lookup(pid)
	if proc == nil {
		return
	}
	proc.sendEnvelope(&messageEnvelope{Message: Stopping{}})
}

// Shutdown stops every running actor and waits up to timeout for their
// goroutines to drain. It returns false if actors were still running when
// the timeout elapsed.
func (e *Engine) Shutdown(timeout time.Duration) bool {
	e.stopping.Store(true)

	e.mu.RLock()
	pids := make([]*PID, 0, len(e.processes))
	for _, proc := range e.processes {
		pids = append(pids, proc.pid)
	}
	e.mu.RUnlock()

	for _, pid := range pids {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.processes)
		e.mu.RUnlock()
		if remaining == 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}

	e.mu.RLock()
	remaining := len(e.processes)
	e.mu.RUnlock()
	return remaining == 0
}
