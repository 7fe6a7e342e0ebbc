// File: gamedata/gamedata.go
package gamedata

// MonsterData holds the static attributes of a monster species that the
// protocol handler consults when the server omits them from an entity
// record.
type MonsterData struct {
	Speed float64
	HP    int
}

// Provider exposes the static game-data tables consulted synchronously
// from both the network and tick contexts. Implementations are assumed
// immutable after load, so no locking is required on read.
type Provider interface {
	// Monster looks up a species by its mtype key. ok is false when the
	// species is unknown.
	Monster(species string) (MonsterData, bool)
}

// Static is an in-memory Provider loaded once at startup, e.g. from the
// host process's own map-data bundle.
type Static struct {
	Monsters map[string]MonsterData
}

// NewStatic builds a Static provider from a monster table.
func NewStatic(monsters map[string]MonsterData) *Static {
	if monsters == nil {
		monsters = make(map[string]MonsterData)
	}
	return &Static{Monsters: monsters}
}

func (s *Static) Monster(species string) (MonsterData, bool) {
	m, ok := s.Monsters[species]
	return m, ok
}
