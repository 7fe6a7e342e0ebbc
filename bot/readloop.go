// File: bot/readloop.go
package bot

import (
	"encoding/json"
	"time"

	"github.com/lunarwatcher/albot/protocol"
)

// readLoop is the network context: it owns the socket, decodes frames,
// services the keepalive scheduler and dispatches events. It exits when
// the socket is closed (by Bot.Stop or the peer).
func (b *Bot) readLoop() {
	for b.running.Load() {
		raw, err := b.transport.ReadFrame()
		if err != nil {
			if b.running.Load() {
				b.logger.Logf("read error: %v", err)
				b.running.Store(false)
				if b.callbacks.OnDisconnect != nil {
					b.callbacks.OnDisconnect(err.Error())
				}
			}
			return
		}
		b.handleFrame(raw)
	}
}

func (b *Bot) handleFrame(raw string) {
	now := time.Now()
	upstreamPingDue := b.keepalive.UpstreamPingDue(now)
	b.keepalive.NoteInbound(now)

	f, err := protocol.DecodeFrame(raw)
	if err != nil {
		b.logger.Logf("decode error: %v", err)
		return
	}

	switch f.Engine {
	case protocol.EngineOpen:
		b.handleOpen(f.Payload)
	case protocol.EnginePing:
		_ = b.write(protocol.EncodePong())
	case protocol.EnginePong:
		// noted; nothing further to do.
	case protocol.EngineClose, protocol.EngineUpgrade, protocol.EngineNoop:
		b.logger.Logf("engine frame %c", f.Engine)
	case protocol.EngineMessage:
		b.dispatcher.DispatchRaw(f)
		b.handleSocketMessage(f)
	}

	if upstreamPingDue {
		_ = b.write(string(protocol.EnginePing))
	}
}

func (b *Bot) handleOpen(payload string) {
	if payload == "" {
		return
	}
	var open protocol.OpenPayload
	if err := json.Unmarshal([]byte(payload), &open); err != nil {
		b.logger.Logf("decode open payload: %v", err)
		return
	}
	b.keepalive.AdoptOpenPayload(open)
}

func (b *Bot) handleSocketMessage(f protocol.Frame) {
	switch f.Socket {
	case protocol.SocketEvent:
		ev, err := protocol.DecodeEvent(f.Payload)
		if err != nil {
			b.logger.Logf("decode event: %v", err)
			return
		}
		b.dispatcher.Dispatch(ev.Name, ev.Data)
	case protocol.SocketConnect:
		// session id acknowledged; no store mutation required.
	case protocol.SocketDisconnect:
		b.handleDisconnect(json.RawMessage(f.Payload))
	case protocol.SocketError:
		b.logger.Logf("socket.io error: %s", f.Payload)
	}
}
