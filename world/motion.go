// File: world/motion.go
package world

import "math"

// RecomputeVelocity sets from_x/from_y to the entity's current position
// and vx/vy to the velocity vector toward going_x/going_y at speed,
// ref_speed to speed, and engaged_move to the entity's current move_num.
// It is the "(re)compute extrapolation state" step the tick loop performs
// whenever a move command supersedes the previous one.
func RecomputeVelocity(e Entity) {
	x, y := e.X(), e.Y()
	e.SetFromX(x)
	e.SetFromY(y)

	dx := e.GoingX() - x
	dy := e.GoingY() - y
	d := math.Sqrt(dx*dx + dy*dy)

	if d == 0 {
		e.SetVX(0)
		e.SetVY(0)
	} else {
		speed := e.Speed()
		e.SetVX((dx / d) * speed)
		e.SetVY((dy / d) * speed)
	}
	e.SetRefSpeed(e.Speed())
	e.SetEngagedMove(e.MoveNum())
}

// NeedsRecompute reports whether e's cached extrapolation state is stale:
// either never computed, or its move_num/ref_speed disagree with the
// entity's current move command. Used for ordinary live entities, which
// carry their own move_num.
func NeedsRecompute(e Entity) bool {
	if OwnNeedsRecompute(e) {
		return true
	}
	engaged, ok := e.EngagedMove()
	if !ok || engaged != e.MoveNum() {
		return true
	}
	return false
}

// OwnNeedsRecompute reports whether e's cached extrapolation state is
// stale based on ref_speed alone. The own character has no server-issued
// move_num to compare against, so the tick loop uses this narrower check
// for it (spec.md 4.G).
func OwnNeedsRecompute(e Entity) bool {
	refSpeed, ok := e.RefSpeed()
	return !ok || refSpeed != e.Speed()
}

// MoveEntity integrates e's position forward by deltaMillis of simulated
// time using its cached velocity. A zero delta does not move the entity.
func MoveEntity(e Entity, deltaMillis float64) {
	if deltaMillis == 0 {
		return
	}
	e.SetX(e.X() + e.VX()*deltaMillis/1000)
	e.SetY(e.Y() + e.VY()*deltaMillis/1000)
}

// sameSign reports whether a and b have the same sign, treating 0 as
// matching either sign so a stationary axis never blocks the other from
// triggering stop-logic.
func sameSign(a, b float64) bool {
	if a == 0 || b == 0 {
		return true
	}
	return (a > 0) == (b > 0)
}

// overshot reports whether position has reached or passed destination
// when moving away from from, along a single axis.
func overshot(from, position, destination float64) bool {
	traveled := position - from
	total := destination - from
	if total == 0 {
		return true
	}
	return sameSign(traveled, total) && math.Abs(traveled) >= math.Abs(total)
}

// StopLogic snaps e to its destination and clears its movement flags once
// integration has reached or overshot going_x/going_y along the ray from
// from_x/from_y. It is idempotent: calling it again on an already-stopped
// entity is a no-op.
func StopLogic(e Entity) {
	if !e.Moving() {
		return
	}

	xDone := overshot(e.FromX(), e.X(), e.GoingX())
	yDone := overshot(e.FromY(), e.Y(), e.GoingY())

	if xDone && yDone {
		e.SetX(e.GoingX())
		e.SetY(e.GoingY())
		e.SetMoving(false)
		e.SetVX(0)
		e.SetVY(0)
	}
}

// AdvanceMoving applies one ≤50ms integration slice to e if it is alive
// and has an outstanding move command: recomputing extrapolation state
// when stale, integrating position, then applying stop-logic.
func AdvanceMoving(e Entity, deltaMillis float64) {
	if e.Rip() || e.Dead() || !e.Moving() {
		return
	}
	if NeedsRecompute(e) {
		RecomputeVelocity(e)
	}
	MoveEntity(e, deltaMillis)
	StopLogic(e)
}

// AdvanceOwn applies one ≤50ms integration slice to the own character,
// using the narrower ref_speed-only staleness check (spec.md 4.G).
func AdvanceOwn(e Entity, deltaMillis float64) {
	if e.Rip() || e.Dead() || !e.Moving() {
		return
	}
	if OwnNeedsRecompute(e) {
		RecomputeVelocity(e)
	}
	MoveEntity(e, deltaMillis)
	StopLogic(e)
}
