// File: bot/tick_test.go
package bot

import (
	"testing"
	"time"

	"github.com/lunarwatcher/albot/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOneTick_AdvancesOwnCharacter(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	own := world.NewEntity()
	own.SetID("me")
	own.SetX(0)
	own.SetY(0)
	own.SetGoingX(100.0)
	own.SetGoingY(0.0)
	own.SetSpeed(50)
	own.SetMoving(true)
	b.store.SetOwn(own)

	b.runOneTick(1000 * time.Millisecond)

	got := b.store.Own()
	assert.InDelta(t, 50.0, got.X(), 1e-6)
}

func TestRunOneTick_SkipsDeadMonster(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.dispatcher.Dispatch("entities", rawJSON(`{"type":"all","players":[],"monsters":[{"id":"m1","type":"bee","x":0,"y":0,"going_x":100,"going_y":0,"speed":50,"moving":true,"rip":true}]}`))
	b.runOneTick(1000 * time.Millisecond)

	m1, ok := b.store.Live("m1")
	require.True(t, ok)
	assert.Equal(t, 0.0, m1.X())
}

func TestRunOneTick_FillsMonsterSpeedFromGameData(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	b.dispatcher.Dispatch("entities", rawJSON(`{"type":"all","players":[],"monsters":[{"id":"m1","type":"bee","x":100,"y":0,"going_x":0,"going_y":0,"moving":true,"move_num":1}]}`))
	b.runOneTick(1000 * time.Millisecond)

	m1, ok := b.store.Live("m1")
	require.True(t, ok)
	assert.Equal(t, 50.0, m1.Speed())
}

func TestRunOneTick_CapsIntegrationSlicesAt50ms(t *testing.T) {
	b, _ := newTestBot()
	defer b.engine.Shutdown(time.Second)

	own := world.NewEntity()
	own.SetID("me")
	own.SetX(0)
	own.SetGoingX(1000000.0)
	own.SetSpeed(1)
	own.SetMoving(true)
	b.store.SetOwn(own)

	// A delta far larger than one slice must not panic or hang; it is
	// processed in MaxTickSlice-sized pieces.
	b.runOneTick(137 * time.Millisecond)

	got := b.store.Own()
	assert.Greater(t, got.X(), 0.0)
}
