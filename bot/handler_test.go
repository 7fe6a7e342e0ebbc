// File: bot/handler_test.go
package bot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lunarwatcher/albot/gamedata"
	"github.com/lunarwatcher/albot/protocol"
	"github.com/lunarwatcher/albot/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot() (*Bot, *fakeTransport) {
	data := gamedata.NewStatic(map[string]gamedata.MonsterData{
		"bee": {Speed: 50, HP: 60},
	})
	b := New(HostInfo{
		Server:    "play.example.test",
		Character: "testbot",
		CharID:    "me",
		Auth:      "token",
		User:      "user1",
	}, utils.DefaultConfig(), data, Callbacks{})
	ft := newFakeTransport()
	b.transport = ft
	return b, ft
}

func TestHandleWelcome_EmitsLoadedThenAuth(t *testing.T) {
	b, ft := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.dispatcher.Dispatch("welcome", nil)

	writes := ft.writes()
	require.Len(t, writes, 2)
	assert.Contains(t, writes[0], `42["loaded"`)
	assert.Contains(t, writes[1], `42["auth"`)
	assert.Contains(t, writes[1], `"character":"me"`)
}

func TestHandleStart_SetsOwnCharacterAndStagesPlayers(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	var connected bool
	b.callbacks.OnConnect = func() { connected = true }

	payload := []byte(`{"map":"main","in":"main","x":0,"y":0,"entities":{"map":"main","in":"main","players":[{"id":"me","x":0,"y":0,"speed":60,"moving":false}],"monsters":[]}}`)
	b.dispatcher.Dispatch("start", json.RawMessage(payload))

	own := b.store.Own()
	assert.Equal(t, "main", own.Map())
	base, ok := own["base"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 8.0, base["h"])

	assert.Equal(t, 1, b.store.StagedLen())
	assert.True(t, connected)
}

func TestHandleEntities_IntegrationAgainstMonsterMotion(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	payload := []byte(`{"type":"xy","map":"main","in":"main","players":[],"monsters":[{"id":"m1","type":"bee","x":100,"y":0,"going_x":0,"going_y":0,"speed":50,"moving":true,"move_num":1,"hp":60,"max_hp":60}]}`)
	b.dispatcher.Dispatch("entities", json.RawMessage(payload))

	b.runOneTick(1000 * time.Millisecond)

	m1, ok := b.store.Live("m1")
	require.True(t, ok)
	assert.InDelta(t, 50.0, m1.X(), 1e-6)
	assert.InDelta(t, -50.0, m1.VX(), 1e-6)
	em, _ := m1.EngagedMove()
	assert.Equal(t, 1, em)
	rs, _ := m1.RefSpeed()
	assert.Equal(t, 50.0, rs)
}

func TestHandleEntities_NewMoveCommandRecomputesAndStops(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	first := []byte(`{"type":"xy","map":"main","in":"main","players":[],"monsters":[{"id":"m1","type":"bee","x":100,"y":0,"going_x":0,"going_y":0,"speed":50,"moving":true,"move_num":1,"hp":60,"max_hp":60}]}`)
	b.dispatcher.Dispatch("entities", json.RawMessage(first))
	b.runOneTick(1000 * time.Millisecond)

	second := []byte(`{"type":"xy","map":"main","in":"main","players":[],"monsters":[{"id":"m1","going_x":0,"going_y":0,"speed":100,"move_num":2}]}`)
	b.dispatcher.Dispatch("entities", json.RawMessage(second))
	b.runOneTick(500 * time.Millisecond)

	m1, ok := b.store.Live("m1")
	require.True(t, ok)
	assert.InDelta(t, 0.0, m1.X(), 1e-6)
	assert.False(t, m1.Moving())
}

func TestIngestEntities_FillsHPFromGameDataWhenAbsent(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.dispatcher.Dispatch("entities", json.RawMessage(`{"type":"all","players":[],"monsters":[{"id":"m1","type":"bee","x":0,"y":0}]}`))
	b.store.DrainIntoLive()

	m1, ok := b.store.Live("m1")
	require.True(t, ok)
	assert.Equal(t, 60.0, m1.MaxHP())
	assert.Equal(t, 60.0, m1.HP())
}

func TestIngestEntities_PreservesLegitimateZeroHP(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.dispatcher.Dispatch("entities", json.RawMessage(`{"type":"all","players":[],"monsters":[{"id":"m1","type":"bee","x":0,"y":0,"hp":0,"max_hp":60}]}`))
	b.store.DrainIntoLive()

	m1, ok := b.store.Live("m1")
	require.True(t, ok)
	assert.Equal(t, 60.0, m1.MaxHP())
	assert.Equal(t, 0.0, m1.HP())
}

func TestHandleDeath_MarksDeadAfterDrain(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.dispatcher.Dispatch("entities", json.RawMessage(`{"type":"all","players":[],"monsters":[{"id":"m1","type":"bee","x":0,"y":0}]}`))
	b.store.DrainIntoLive()

	b.dispatcher.Dispatch("death", json.RawMessage(`{"id":"m1"}`))
	b.store.DrainIntoLive()

	m1, ok := b.store.Live("m1")
	require.True(t, ok)
	assert.True(t, m1.Dead())
}

func TestHandleDrop_AndChestOpened(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.dispatcher.Dispatch("drop", json.RawMessage(`{"id":"c1","gold":42}`))
	assert.Equal(t, 1, b.store.ChestLen())

	b.dispatcher.Dispatch("chest_opened", json.RawMessage(`{"id":"c1"}`))
	assert.Equal(t, 0, b.store.ChestLen())
}

func TestHandleGameError_SchedulesRelogin(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)
	defer b.reconnect.Cancel()
	// relogin only emits while the bot is running, as it is after Connect.
	b.running.Store(true)

	b.dispatcher.Dispatch("game_error", json.RawMessage(`{"message":"wait 0 seconds"}`))
	time.Sleep(1200 * time.Millisecond)

	writes := b.transport.(*fakeTransport).writes()
	assert.NotEmpty(t, writes)
}

func TestHandleGameError_OtherErrorsForwarded(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	var seen string
	b.callbacks.OnGameError = func(data []byte) { seen = string(data) }

	b.dispatcher.Dispatch("game_error", json.RawMessage(`{"message":"you cannot do that"}`))
	assert.Contains(t, seen, "cannot")
}

func TestOpenFrame_DefaultPingInterval(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.handleFrame("0")
	assert.Equal(t, time.Duration(protocol.DefaultPingInterval)*time.Millisecond, b.keepalive.Interval())
}

func TestOpenFrame_AdoptsInterval(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.handleFrame(`0{"pingInterval":5000}`)
	assert.Equal(t, 5000*time.Millisecond, b.keepalive.Interval())
}

func TestPingFrame_RespondsWithPong(t *testing.T) {
	b, ft := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.handleFrame("2")
	writes := ft.writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "3", writes[0])
}
