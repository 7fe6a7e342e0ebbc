// File: world/entity.go
package world

import "encoding/json"

// Entity is a JSON-value sum type: an open-ended bag of attributes keyed
// by string, rather than a closed struct. The server's schema evolves
// independently of this client, so unknown keys are preserved verbatim
// and round-trip through Clone/Merge untouched. Typed accessors below
// cover the attributes the core actually reasons about.
type Entity map[string]interface{}

// NewEntity returns an empty Entity ready for Merge.
func NewEntity() Entity {
	return make(Entity)
}

// Clone returns a shallow copy of e. Values stored in an Entity are
// JSON scalars, arrays or nested maps produced by decoding, so a
// top-level key copy is sufficient for the mutation patterns the core
// performs (callers never mutate a nested value in place).
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Merge JSON-object-unions patch onto e: every key in patch overwrites
// the corresponding key in e, keys absent from patch are left alone.
func (e Entity) Merge(patch Entity) {
	for k, v := range patch {
		e[k] = v
	}
}

// DecodeEntity unmarshals a raw JSON object into an Entity.
func DecodeEntity(raw json.RawMessage) (Entity, error) {
	var e Entity
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return e, nil
}

func (e Entity) str(key string) (string, bool) {
	v, ok := e[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (e Entity) num(key string) (float64, bool) {
	v, ok := e[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func (e Entity) boolean(key string) (bool, bool) {
	v, ok := e[key]
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, true
	}
	return false, false
}

func (e Entity) set(key string, v interface{}) { e[key] = v }

// Identity and classification.
func (e Entity) ID() string          { s, _ := e.str("id"); return s }
func (e Entity) SetID(id string)     { e.set("id", id) }
func (e Entity) M() float64          { v, _ := e.num("m"); return v }
func (e Entity) SetM(v float64)      { e.set("m", v) }
func (e Entity) Type() string        { s, _ := e.str("type"); return s }
func (e Entity) SetType(t string)    { e.set("type", t) }
func (e Entity) MType() string       { s, _ := e.str("mtype"); return s }
func (e Entity) SetMType(m string)   { e.set("mtype", m) }
func (e Entity) Map() string         { s, _ := e.str("map"); return s }
func (e Entity) In() string          { s, _ := e.str("in"); return s }
func (e Entity) SetMap(m string)     { e.set("map", m) }
func (e Entity) SetIn(in string)     { e.set("in", in) }

// Position and extrapolation state.
func (e Entity) X() float64        { v, _ := e.num("x"); return v }
func (e Entity) Y() float64        { v, _ := e.num("y"); return v }
func (e Entity) SetX(v float64)    { e.set("x", v) }
func (e Entity) SetY(v float64)    { e.set("y", v) }
func (e Entity) FromX() float64    { v, _ := e.num("from_x"); return v }
func (e Entity) FromY() float64    { v, _ := e.num("from_y"); return v }
func (e Entity) SetFromX(v float64) { e.set("from_x", v) }
func (e Entity) SetFromY(v float64) { e.set("from_y", v) }
func (e Entity) VX() float64       { v, _ := e.num("vx"); return v }
func (e Entity) VY() float64       { v, _ := e.num("vy"); return v }
func (e Entity) SetVX(v float64)   { e.set("vx", v) }
func (e Entity) SetVY(v float64)   { e.set("vy", v) }

// RefSpeed and EngagedMove report, alongside the value, whether the field
// is present at all; an absent field means the extrapolation state was
// never computed, and the tick loop treats it like a mismatch against
// Speed/MoveNum.
func (e Entity) RefSpeed() (float64, bool) { return e.num("ref_speed") }
func (e Entity) SetRefSpeed(v float64)     { e.set("ref_speed", v) }

func (e Entity) EngagedMove() (int, bool) {
	v, ok := e.num("engaged_move")
	return int(v), ok
}
func (e Entity) SetEngagedMove(v int) { e.set("engaged_move", float64(v)) }

// Movement intent.
func (e Entity) Moving() bool          { b, _ := e.boolean("moving"); return b }
func (e Entity) SetMoving(v bool)      { e.set("moving", v) }
func (e Entity) GoingX() float64       { v, _ := e.num("going_x"); return v }
func (e Entity) GoingY() float64       { v, _ := e.num("going_y"); return v }
func (e Entity) SetGoingX(v float64)   { e.set("going_x", v) }
func (e Entity) SetGoingY(v float64)   { e.set("going_y", v) }
func (e Entity) Speed() float64        { v, _ := e.num("speed"); return v }
func (e Entity) SetSpeed(v float64)    { e.set("speed", v) }
func (e Entity) MoveNum() int          { v, _ := e.num("move_num"); return int(v) }
func (e Entity) SetMoveNum(v int)      { e.set("move_num", float64(v)) }

// Liveness. HasHP/HasMaxHP distinguish "field absent" from "field present
// and legitimately zero", the same presence-bool idiom as RefSpeed above.
func (e Entity) HP() float64        { v, _ := e.num("hp"); return v }
func (e Entity) HasHP() bool        { _, ok := e.num("hp"); return ok }
func (e Entity) MaxHP() float64     { v, _ := e.num("max_hp"); return v }
func (e Entity) HasMaxHP() bool     { _, ok := e.num("max_hp"); return ok }
func (e Entity) SetMaxHP(v float64) { e.set("max_hp", v) }
func (e Entity) SetHP(v float64)    { e.set("hp", v) }
func (e Entity) Rip() bool          { b, _ := e.boolean("rip"); return b }
func (e Entity) Dead() bool         { b, _ := e.boolean("dead"); return b }
func (e Entity) SetDead(v bool)     { e.set("dead", v) }

// SetDefaultBase injects the player bounding box (h = horizontal,
// v = vertical up, vn = vertical down) the client applies to its own
// character and to every ingested player record. Callers pass the
// configured values rather than a hardcoded box so a deployment can tune
// hitbox size via Config.
func (e Entity) SetDefaultBase(h, v, vn float64) {
	e.set("base", map[string]interface{}{"h": h, "v": v, "vn": vn})
}

// SanitizeBooleans normalizes every field in fields that the server may
// have sent as a numeric 0/1 into a real JSON bool, consistently (see
// spec.md 9. Open Questions: the source only normalized "rip").
func (e Entity) SanitizeBooleans(fields ...string) {
	for _, f := range fields {
		if b, ok := e.boolean(f); ok {
			e.set(f, b)
		}
	}
}

// DefaultSanitizeFields is the set of boolean-ish fields normalized on
// every player/monster record ingested by the protocol handler.
var DefaultSanitizeFields = []string{"rip", "afk", "stunned", "rooted"}
