package player

import "sort"

// ID keys a player in the registry.
type ID int

const (
	DealerID ID = 0
	HumanID  ID = 1
)

// Registry holds the seats of one engine.
type Registry struct {
	players map[ID]*Player
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[ID]*Player)}
}

// Add registers p, replacing any player with the same id.
func (r *Registry) Add(p *Player) { r.players[p.ID] = p }

func (r *Registry) Get(id ID) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

func (r *Registry) Human() *Player  { return r.players[HumanID] }
func (r *Registry) Dealer() *Player { return r.players[DealerID] }

func (r *Registry) Remove(id ID) { delete(r.players, id) }

// All returns players ordered by id.
func (r *Registry) All() []*Player {
	res := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (r *Registry) Len() int { return len(r.players) }
