// File: world/store.go
package world

import "sync"

// Store is the concurrent world-state mirror: a live snapshot, a staged
// buffer of deltas accumulated since the last tick, and the bot's own
// character in a dedicated slot for O(1) access. All three are guarded
// by a single entity mutex. The chest map is independent, guarded by its
// own mutex, since drops are not part of the motion simulation.
type Store struct {
	mu     sync.Mutex
	live   map[string]Entity
	staged map[string]Entity
	own    Entity

	chestMu sync.Mutex
	chests  map[string]Entity
}

// NewStore returns an empty Store with an empty own-character slot.
func NewStore() *Store {
	return &Store{
		live:   make(map[string]Entity),
		staged: make(map[string]Entity),
		own:    NewEntity(),
		chests: make(map[string]Entity),
	}
}

// StageUpdate merges patch onto the staged entry for id, inserting a
// fresh copy if id is not yet staged.
func (s *Store) StageUpdate(id string, patch Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageUpdateLocked(id, patch)
}

func (s *Store) stageUpdateLocked(id string, patch Entity) {
	existing, ok := s.staged[id]
	if !ok {
		cloned := patch.Clone()
		if cloned == nil {
			cloned = NewEntity()
		}
		s.staged[id] = cloned
		return
	}
	existing.Merge(patch)
}

// StageClear empties the staged map. Used on entities{type=all}, start,
// and new_map.
func (s *Store) StageClear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = make(map[string]Entity)
}

// MarkDead sets staged[id].dead = true via merge, creating the staged
// entry if necessary.
func (s *Store) MarkDead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageUpdateLocked(id, Entity{"dead": true})
}

// DrainIntoLive atomically takes the staged map, clears it, and merges
// each entry into live (inserting if absent, JSON-merging otherwise).
// Called only by the tick loop. Draining an empty staged map is a no-op
// on live.
func (s *Store) DrainIntoLive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := s.staged
	s.staged = make(map[string]Entity)

	for id, patch := range scratch {
		if existing, ok := s.live[id]; ok {
			existing.Merge(patch)
		} else {
			s.live[id] = patch
		}
	}
}

// WithLive runs fn with exclusive access to the live map and the own
// character slot. fn must not block on I/O: it is expected to perform
// the per-slice motion integration only, per the "hold the lock only for
// compute" discipline.
func (s *Store) WithLive(fn func(live map[string]Entity, own Entity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.live, s.own)
}

// Live returns a clone of the live entity for id, if present.
func (s *Store) Live(id string) (Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// LiveLen reports how many entities are in the live map.
func (s *Store) LiveLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Own returns a clone of the bot's own character record.
func (s *Store) Own() Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.own.Clone()
}

// SetOwn replaces the own character record wholesale (used by "start"
// and "correction").
func (s *Store) SetOwn(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.own = e.Clone()
}

// MergeOwn JSON-merges patch onto the own character record (used by
// "player" and "new_map").
func (s *Store) MergeOwn(patch Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.own == nil {
		s.own = NewEntity()
	}
	s.own.Merge(patch)
}

// ChestInsert records a drop under id.
func (s *Store) ChestInsert(id string, drop Entity) {
	s.chestMu.Lock()
	defer s.chestMu.Unlock()
	s.chests[id] = drop
}

// ChestErase removes a chest record, e.g. once it has been opened.
func (s *Store) ChestErase(id string) {
	s.chestMu.Lock()
	defer s.chestMu.Unlock()
	delete(s.chests, id)
}

// Chest returns a copy of the chest record for id, if present.
func (s *Store) Chest(id string) (Entity, bool) {
	s.chestMu.Lock()
	defer s.chestMu.Unlock()
	e, ok := s.chests[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// ChestLen reports how many chests are currently tracked.
func (s *Store) ChestLen() int {
	s.chestMu.Lock()
	defer s.chestMu.Unlock()
	return len(s.chests)
}

// StagedLen reports how many entities are currently staged. Exposed for
// tests and diagnostics only.
func (s *Store) StagedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}
