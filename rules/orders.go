package rules

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Orders is the standing-order registry, indexed by owning player. Each
// player's orders are kept sorted by priority, highest first; equal
// priorities keep insertion order.
type Orders struct {
	byPlayer map[int][]*Order
}

// NewOrders returns an empty registry.
func NewOrders() *Orders {
	return &Orders{byPlayer: make(map[int][]*Order)}
}

// Add registers o. Orders without an ID are assigned one. Adding an order
// already present is a no-op.
func (r *Orders) Add(o *Order) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if r.Contains(o) {
		return
	}
	if r.byPlayer == nil {
		r.byPlayer = make(map[int][]*Order)
	}
	list := append(r.byPlayer[o.PlayerID], o)
	slices.SortStableFunc(list, func(a, b *Order) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	r.byPlayer[o.PlayerID] = list
}

// AddAll registers every order in list.
func (r *Orders) AddAll(list ...*Order) {
	for _, o := range list {
		r.Add(o)
	}
}

// Remove unregisters o, reporting whether it was present.
func (r *Orders) Remove(o *Order) bool {
	list := r.byPlayer[o.PlayerID]
	i := slices.IndexFunc(list, func(x *Order) bool { return x.ID == o.ID })
	if i < 0 {
		return false
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(r.byPlayer, o.PlayerID)
	} else {
		r.byPlayer[o.PlayerID] = list
	}
	return true
}

// RemoveAll unregisters every order in list and returns how many were present.
func (r *Orders) RemoveAll(list ...*Order) int {
	n := 0
	for _, o := range list {
		if r.Remove(o) {
			n++
		}
	}
	return n
}

// Contains reports whether an order with o's ID is registered for o's player.
func (r *Orders) Contains(o *Order) bool {
	return slices.ContainsFunc(r.byPlayer[o.PlayerID], func(x *Order) bool { return x.ID == o.ID })
}

// ForPlayer returns playerID's orders, highest priority first. The slice is
// a copy.
func (r *Orders) ForPlayer(playerID int) []*Order {
	return slices.Clone(r.byPlayer[playerID])
}

// All returns every order, grouped by ascending player ID.
func (r *Orders) All() []*Order {
	ids := make([]int, 0, len(r.byPlayer))
	for id := range r.byPlayer {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	var out []*Order
	for _, id := range ids {
		out = append(out, r.byPlayer[id]...)
	}
	return out
}

// Len is the total number of registered orders.
func (r *Orders) Len() int {
	n := 0
	for _, list := range r.byPlayer {
		n += len(list)
	}
	return n
}

// ResetOrders clears every order's per-round state. Membership is untouched.
func (r *Orders) ResetOrders() {
	for _, list := range r.byPlayer {
		for _, o := range list {
			o.reset()
		}
	}
}

// Next returns the highest-priority order of env.Player that is eligible
// for formationID, marking it issued. The second result is true the first time the
// order is issued to that formation this round.
func (r *Orders) Next(env Env, formationID int) (*Order, bool) {
	for _, o := range r.byPlayer[env.Player] {
		if !o.Eligible(env, formationID) {
			continue
		}
		fresh := !o.Issued(formationID)
		o.markIssued(formationID)
		return o, fresh
	}
	return nil, false
}
