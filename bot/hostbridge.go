// File: bot/hostbridge.go
package bot

import (
	"fmt"
	"time"

	"github.com/lunarwatcher/albot/bollywood"
)

// ServiceRequest is what the core sends upstream to the host process via
// ParentHandler: an opaque request for some host-provided service (e.g.
// routing a message to another bot).
type ServiceRequest struct {
	Service string
	Payload interface{}
}

// CodeMessage is what the host process delivers down to the core: either
// a successful code_message or a code_message_fail notice.
type CodeMessage struct {
	Failed  bool
	Payload interface{}
}

// HostInfo bundles everything the host process supplies to construct a
// Bot: connection parameters and the message-passing endpoint that
// replaces the original C++ parent_handler function pointer. The
// child_handler side is the Bot's own HostBridge actor (see
// Bot.HostBridgePID and DeliverCodeMessage).
type HostInfo struct {
	Server    string
	Character string
	CharID    string
	Auth      string
	User      string

	// ParentHandler, if set, receives outbound ServiceRequests raised by
	// the bot (the parent_handler FFI callback reimagined as a message
	// send instead of a raw function pointer call).
	ParentHandler *bollywood.PID
}

// HostBridge is an actor that fronts the host-process FFI boundary. It
// forwards outbound ServiceRequests to HostInfo.ParentHandler (if any)
// and accepts inbound CodeMessages for the bot to consume via Next.
//
// Modeling this as a bollywood actor rather than a raw function-pointer
// pair keeps the boundary message-passing and panic-isolated: a host
// callback that misbehaves cannot unwind into the bot's own goroutines.
type HostBridge struct {
	engine  *bollywood.Engine
	host    HostInfo
	inbound chan CodeMessage
	self    *bollywood.PID
}

// NewHostBridgeProducer returns a bollywood.Producer for a HostBridge
// actor backed by host and running on engine.
func NewHostBridgeProducer(engine *bollywood.Engine, host HostInfo) bollywood.Producer {
	return func() bollywood.Actor {
		return &HostBridge{
			engine:  engine,
			host:    host,
			inbound: make(chan CodeMessage, 64),
		}
	}
}

func (h *HostBridge) Receive(ctx bollywood.Context) {
	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		h.self = ctx.Self()
	case ServiceRequest:
		h.dispatchOutbound(msg)
		if ctx.RequestID() != "" {
			ctx.Reply(struct{}{})
		}
	case CodeMessage:
		h.deliverInbound(msg)
	case bollywood.Stopping:
		close(h.inbound)
	}
}

func (h *HostBridge) dispatchOutbound(req ServiceRequest) {
	if h.host.ParentHandler == nil {
		fmt.Printf("bot: no parent handler registered, dropping service request %q\n", req.Service)
		return
	}
	h.engine.Send(h.host.ParentHandler, req, h.self)
}

func (h *HostBridge) deliverInbound(msg CodeMessage) {
	select {
	case h.inbound <- msg:
	default:
		fmt.Println("bot: host bridge inbound queue full, dropping code_message")
	}
}

// Next blocks until a CodeMessage arrives from the host, or timeout
// elapses, in which case ok is false.
func (h *HostBridge) Next(timeout time.Duration) (CodeMessage, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg, open := <-h.inbound:
		if !open {
			return CodeMessage{}, false
		}
		return msg, true
	case <-timer.C:
		return CodeMessage{}, false
	}
}

// DeliverCodeMessage lets the host process push a CodeMessage into pid's
// HostBridge, mirroring the original child_handler entry point.
func DeliverCodeMessage(engine *bollywood.Engine, pid *bollywood.PID, msg CodeMessage) {
	engine.Send(pid, msg, nil)
}

// RequestService sends req to pid's HostBridge for forwarding to the
// host's ParentHandler, mirroring the original parent_handler entry
// point, and waits for acknowledgement.
func RequestService(engine *bollywood.Engine, pid *bollywood.PID, req ServiceRequest, timeout time.Duration) error {
	_, err := engine.Ask(pid, req, timeout)
	return err
}
