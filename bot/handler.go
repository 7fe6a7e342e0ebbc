// File: bot/handler.go
package bot

import (
	"encoding/json"
	"fmt"

	"github.com/lunarwatcher/albot/gamedata"
	"github.com/lunarwatcher/albot/utils"
	"github.com/lunarwatcher/albot/world"
)

// entitiesPayload is the shape shared by "start"'s nested entities object
// and the standalone "entities" event.
type entitiesPayload struct {
	Type     string         `json:"type"`
	Map      string         `json:"map"`
	In       string         `json:"in"`
	Players  []world.Entity `json:"players"`
	Monsters []world.Entity `json:"monsters"`
}

type startPayload struct {
	Map      string          `json:"map"`
	In       string          `json:"in"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	M        float64         `json:"m"`
	Entities entitiesPayload `json:"entities"`
}

type newMapPayload struct {
	Map      string  `json:"map"`
	In       string  `json:"in"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	M        float64 `json:"m"`
	Entities struct {
		Players  []world.Entity `json:"players"`
		Monsters []world.Entity `json:"monsters"`
	} `json:"entities"`
}

type idPayload struct {
	ID string `json:"id"`
}

type gameErrorPayload struct {
	Message string `json:"message"`
}

// registerHandlers binds every event in spec.md 4.F's table to store
// mutations and Bot callbacks. Called once, at construction, before the
// network context starts.
func (b *Bot) registerHandlers() {
	d := b.dispatcher

	d.On("welcome", b.handleWelcome)
	d.On("start", b.handleStart)
	d.On("entities", b.handleEntities)
	d.On("death", b.handleDeath)
	d.On("disappear", b.handleVanish)
	d.On("notthere", b.handleVanish)
	d.On("drop", b.handleDrop)
	d.On("chest_opened", b.handleChestOpened)
	d.On("player", b.handlePlayer)
	d.On("new_map", b.handleNewMap)
	d.On("correction", b.handleCorrection)
	d.On("cm", b.forwardTo(func(raw json.RawMessage) {
		if b.callbacks.OnCm != nil {
			b.callbacks.OnCm(raw)
		}
	}))
	d.On("pm", b.forwardTo(func(raw json.RawMessage) {
		if b.callbacks.OnPm != nil {
			b.callbacks.OnPm(raw)
		}
	}))
	d.On("chat_log", b.forwardTo(func(raw json.RawMessage) {
		if b.callbacks.OnChat != nil {
			b.callbacks.OnChat(raw)
		}
	}))
	d.On("invite", b.forwardTo(func(raw json.RawMessage) {
		if b.callbacks.OnPartyInvite != nil {
			b.callbacks.OnPartyInvite(raw)
		}
	}))
	d.On("request", b.forwardTo(func(raw json.RawMessage) {
		if b.callbacks.OnPartyRequest != nil {
			b.callbacks.OnPartyRequest(raw)
		}
	}))
	d.On("party_update", b.forwardTo(func(raw json.RawMessage) {
		if b.callbacks.OnPartyUpdate != nil {
			b.callbacks.OnPartyUpdate(raw)
		}
	}))
	d.On("game_error", b.handleGameError)
	d.On("disconnect", b.handleDisconnect)
	d.On("disconnect_reason", b.handleDisconnect)
}

func (b *Bot) forwardTo(fn func(json.RawMessage)) func(json.RawMessage) {
	return func(data json.RawMessage) { fn(data) }
}

// handleWelcome emits loaded{} then auth{} with the credentials supplied
// at construction.
func (b *Bot) handleWelcome(_ json.RawMessage) {
	loaded := map[string]interface{}{
		"success": 1,
		"width":   b.cfg.ViewportWidth,
		"height":  b.cfg.ViewportHeight,
		"scale":   b.cfg.ViewportScale,
	}
	if err := b.Emit("loaded", loaded); err != nil {
		fmt.Printf("bot %s: emit loaded: %v\n", b.name, err)
	}

	auth := map[string]interface{}{
		"user":        b.host.User,
		"character":   b.host.CharID,
		"auth":        b.host.Auth,
		"width":       b.cfg.ViewportWidth,
		"height":      b.cfg.ViewportHeight,
		"scale":       b.cfg.ViewportScale,
		"no_html":     true,
		"no_graphics": true,
	}
	if err := b.Emit("auth", auth); err != nil {
		fmt.Printf("bot %s: emit auth: %v\n", b.name, err)
	}
}

func (b *Bot) ingestEntities(env entitiesPayload) {
	for i := range env.Players {
		normalizePlayer(env.Players[i], env.Map, env.In, b.cfg)
		b.store.StageUpdate(env.Players[i].ID(), env.Players[i])
	}
	for i := range env.Monsters {
		normalizeMonster(env.Monsters[i], env.Map, env.In, b.gamedata)
		b.store.StageUpdate(env.Monsters[i].ID(), env.Monsters[i])
	}
}

func normalizePlayer(e world.Entity, mapName, in string, cfg utils.Config) {
	e.SetIn(in)
	e.SetMap(mapName)
	e.SetType("character")
	e.SetDefaultBase(float64(cfg.BaseH), float64(cfg.BaseV), float64(cfg.BaseVn))
	e.SanitizeBooleans(world.DefaultSanitizeFields...)
}

func normalizeMonster(e world.Entity, mapName, in string, data gamedata.Provider) {
	e.SetIn(in)
	e.SetMap(mapName)
	species := e.Type()
	e.SetMType(species)
	e.SetType("monster")
	if data != nil {
		if md, ok := data.Monster(species); ok {
			if !e.HasMaxHP() {
				e.SetMaxHP(float64(md.HP))
			}
			if !e.HasHP() {
				e.SetHP(e.MaxHP())
			}
		}
	}
	e.SanitizeBooleans(world.DefaultSanitizeFields...)
}

func (b *Bot) handleStart(data json.RawMessage) {
	var payload startPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		b.logger.Logf("%v", &ProtocolError{Event: "start", Err: err})
		return
	}

	b.store.StageClear()
	b.ingestEntities(payload.Entities)

	own := world.NewEntity()
	own.SetMap(payload.Map)
	own.SetIn(payload.In)
	own.SetX(payload.X)
	own.SetY(payload.Y)
	own.SetType("character")
	own.SetDefaultBase(float64(b.cfg.BaseH), float64(b.cfg.BaseV), float64(b.cfg.BaseVn))
	own.SetID(b.ownName)
	own.SetM(payload.M)
	b.store.SetOwn(own)

	if b.callbacks.OnConnect != nil {
		b.callbacks.OnConnect()
	}
}

func (b *Bot) handleEntities(data json.RawMessage) {
	var payload entitiesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		b.logger.Logf("%v", &ProtocolError{Event: "entities", Err: err})
		return
	}
	if payload.Type == "all" {
		b.store.StageClear()
	}
	b.ingestEntities(payload)
}

func (b *Bot) handleDeath(data json.RawMessage) {
	var payload idPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		return
	}
	b.store.MarkDead(payload.ID)
}

func (b *Bot) handleVanish(data json.RawMessage) {
	var payload idPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		return
	}
	b.store.MarkDead(payload.ID)
}

func (b *Bot) handleDrop(data json.RawMessage) {
	e, err := world.DecodeEntity(data)
	if err != nil || e.ID() == "" {
		b.logger.Logf("%v", &ProtocolError{Event: "drop", Err: err})
		return
	}
	b.store.ChestInsert(e.ID(), e)
}

func (b *Bot) handleChestOpened(data json.RawMessage) {
	var payload idPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		return
	}
	b.store.ChestErase(payload.ID)
}

func (b *Bot) handlePlayer(data json.RawMessage) {
	patch, err := world.DecodeEntity(data)
	if err != nil {
		b.logger.Logf("%v", &ProtocolError{Event: "player", Err: err})
		return
	}

	prevSpeed := b.store.Own().Speed()
	b.store.MergeOwn(patch)

	own := b.store.Own()
	if own.Moving() && own.Speed() != prevSpeed {
		world.RecomputeVelocity(own)
		b.store.SetOwn(own)
	}
}

func (b *Bot) handleNewMap(data json.RawMessage) {
	var payload newMapPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		b.logger.Logf("%v", &ProtocolError{Event: "new_map", Err: err})
		return
	}

	b.store.StageClear()
	b.ingestEntities(entitiesPayload{
		Map:      payload.Map,
		In:       payload.In,
		Players:  payload.Entities.Players,
		Monsters: payload.Entities.Monsters,
	})

	b.store.MergeOwn(world.Entity{
		"map":    payload.Map,
		"x":      payload.X,
		"y":      payload.Y,
		"m":      payload.M,
		"moving": false,
	})
}

func (b *Bot) handleCorrection(data json.RawMessage) {
	e, err := world.DecodeEntity(data)
	if err != nil {
		b.logger.Logf("%v", &ProtocolError{Event: "correction", Err: err})
		return
	}
	b.store.SetOwn(e)
}

func (b *Bot) handleGameError(data json.RawMessage) {
	var payload gameErrorPayload
	_ = json.Unmarshal(data, &payload)
	if payload.Message == "" {
		var raw string
		if err := json.Unmarshal(data, &raw); err == nil {
			payload.Message = raw
		}
	}

	if n, ok := ParseWaitSeconds(payload.Message); ok {
		b.reconnect.Schedule(n, b.relogin)
		return
	}

	if b.callbacks.OnGameError != nil {
		b.callbacks.OnGameError(data)
	} else {
		b.logger.Logf("%v", &GameDomainError{Message: payload.Message})
	}
}

func (b *Bot) handleDisconnect(data json.RawMessage) {
	fmt.Printf("bot %s: disconnected: %s\n", b.name, string(data))
	if b.callbacks.OnDisconnect != nil {
		b.callbacks.OnDisconnect(string(data))
	}
}
