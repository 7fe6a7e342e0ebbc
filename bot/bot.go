// File: bot/bot.go
package bot

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lunarwatcher/albot/bollywood"
	"github.com/lunarwatcher/albot/gamedata"
	"github.com/lunarwatcher/albot/protocol"
	"github.com/lunarwatcher/albot/utils"
	"github.com/lunarwatcher/albot/world"
)

// Callbacks are the virtual hooks the Bot Facade exposes for user
// extension, invoked from the network context as the corresponding
// events arrive.
type Callbacks struct {
	OnConnect      func()
	OnDisconnect   func(reason string)
	OnCm           func(data []byte)
	OnPm           func(data []byte)
	OnChat         func(data []byte)
	OnPartyInvite  func(data []byte)
	OnPartyRequest func(data []byte)
	OnPartyUpdate  func(data []byte)
	OnGameError    func(data []byte)
}

// Bot is the facade over the framed event protocol client, the
// world-state mirror and the local motion simulator. A Bot must be built
// with New and then driven with Connect; Stop tears down both the
// network and tick contexts.
type Bot struct {
	name    string
	ownName string
	host    HostInfo
	cfg     utils.Config

	store      *world.Store
	dispatcher *protocol.Dispatcher
	keepalive  *protocol.Keepalive
	gamedata   gamedata.Provider
	callbacks  Callbacks
	reconnect  *ReconnectScheduler
	logger     Logger

	engine        *bollywood.Engine
	hostBridgePID *bollywood.PID

	transport Transport
	writeMu   sync.Mutex

	running  atomic.Bool
	stopTick chan struct{}
	tickWg   sync.WaitGroup
	stopOnce sync.Once
}

// New builds a Bot bound to host, using cfg for timing/viewport
// parameters and data for static monster lookups. cbs may be zero-valued
// to leave every hook unset.
func New(host HostInfo, cfg utils.Config, data gamedata.Provider, cbs Callbacks) *Bot {
	b := &Bot{
		name:       host.Character,
		ownName:    host.CharID,
		host:       host,
		cfg:        cfg,
		store:      world.NewStore(),
		dispatcher: protocol.NewDispatcher(),
		keepalive:  protocol.NewKeepalive(),
		gamedata:   data,
		callbacks:  cbs,
		reconnect:  NewReconnectScheduler(),
		logger:     NewLogger(host.Character),
		engine:     bollywood.NewEngine(),
		stopTick:   make(chan struct{}),
	}
	b.keepalive.AdoptOpenPayload(protocol.OpenPayload{PingInterval: int(cfg.DefaultPingInterval / time.Millisecond)})
	b.hostBridgePID = b.engine.Spawn(bollywood.NewProps(NewHostBridgeProducer(b.engine, host)))
	b.registerHandlers()
	return b
}

// Connect dials the host's server and starts the network and tick
// contexts. It returns once the socket is open; the read loop and tick
// loop run in background goroutines until Stop is called.
func (b *Bot) Connect() error {
	transport, err := Dial(b.host.Server, b.cfg.DialTimeout)
	if err != nil {
		return fmt.Errorf("bot %s: connect: %w", b.name, err)
	}
	b.transport = transport
	b.running.Store(true)

	go b.readLoop()
	b.tickWg.Add(1)
	go b.runTickLoop()

	return nil
}

// Stop closes the socket and stops the tick loop. It is safe to call
// more than once.
func (b *Bot) Stop() {
	b.running.Store(false)
	b.stopOnce.Do(func() {
		b.reconnect.Cancel()
		if b.transport != nil {
			_ = b.transport.Close()
		}
		close(b.stopTick)
		b.tickWg.Wait()
		b.engine.Shutdown(2 * time.Second)
	})
}

// Emit encodes an outbound event and writes it to the socket. It blocks
// only for the duration of the write.
func (b *Bot) Emit(event string, data interface{}) error {
	text, err := protocol.EncodeEvent(event, data)
	if err != nil {
		return err
	}
	return b.write(text)
}

func (b *Bot) write(text string) error {
	if b.transport == nil {
		return fmt.Errorf("bot %s: not connected", b.name)
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.transport.Write(text)
}

func (b *Bot) relogin() {
	if !b.running.Load() {
		return
	}
	if err := b.Emit("loaded", map[string]interface{}{
		"success": 1,
		"width":   b.cfg.ViewportWidth,
		"height":  b.cfg.ViewportHeight,
		"scale":   b.cfg.ViewportScale,
	}); err != nil {
		b.logger.Logf("relogin emit loaded failed: %v", err)
		return
	}
	if err := b.Emit("auth", map[string]interface{}{
		"user":        b.host.User,
		"character":   b.host.CharID,
		"auth":        b.host.Auth,
		"width":       b.cfg.ViewportWidth,
		"height":      b.cfg.ViewportHeight,
		"scale":       b.cfg.ViewportScale,
		"no_html":     true,
		"no_graphics": true,
	}); err != nil {
		b.logger.Logf("relogin emit auth failed: %v", err)
	}
}

// --- Read-only accessors (spec.md 4.H) ---

// X returns the own character's current x coordinate.
func (b *Bot) X() float64 { return b.store.Own().X() }

// Y returns the own character's current y coordinate.
func (b *Bot) Y() float64 { return b.store.Own().Y() }

// HP returns the own character's current hit points.
func (b *Bot) HP() float64 { return b.store.Own().HP() }

// MaxHP returns the own character's maximum hit points.
func (b *Bot) MaxHP() float64 { return b.store.Own().MaxHP() }

// Map returns the own character's current map name.
func (b *Bot) Map() string { return b.store.Own().Map() }

// Speed returns the own character's current speed.
func (b *Bot) Speed() float64 { return b.store.Own().Speed() }

// ID returns the own character's id.
func (b *Bot) ID() string { return b.ownName }

// IsAlive reports whether the own character is not flagged rip.
func (b *Bot) IsAlive() bool { return !b.store.Own().Rip() }

// IsMoving reports whether the own character has an outstanding move
// command.
func (b *Bot) IsMoving() bool { return b.store.Own().Moving() }

// Entity returns a copy of the live entity for id, if known.
func (b *Bot) Entity(id string) (world.Entity, bool) { return b.store.Live(id) }

// Store exposes the underlying world Store for advanced read access
// (e.g. iterating nearby monsters); callers must not mutate entities
// returned from it directly other than via Store's own methods.
func (b *Bot) Store() *world.Store { return b.store }

// HostBridgePID returns the PID of this Bot's HostBridge actor, so the
// host process can route CodeMessages to it.
func (b *Bot) HostBridgePID() *bollywood.PID { return b.hostBridgePID }

// Engine returns the bollywood Engine hosting this Bot's actors.
func (b *Bot) Engine() *bollywood.Engine { return b.engine }
