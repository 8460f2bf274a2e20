package sim

import (
	"cmp"
	"slices"

	"github.com/nstehr/vimy/vimy-resolve/model"
)

// rollInitiative rolls 2d6 for every player, in player ID order so the
// dice stream is stable.
func (c *Context) rollInitiative() {
	players := slices.Clone(c.Players)
	slices.SortFunc(players, func(a, b *model.Player) int { return cmp.Compare(a.ID, b.ID) })
	for _, p := range players {
		p.Initiative = c.Dice.Roll2D6().Total
	}
	c.Reports.RoundStarted(c.Round, players)
}

// initiativeOrder returns players from initiative loser to winner. The lower
// player ID wins a tie, so the higher ID counts as the loser and acts first.
func (c *Context) initiativeOrder() []*model.Player {
	players := slices.Clone(c.Players)
	slices.SortFunc(players, func(a, b *model.Player) int {
		if n := cmp.Compare(a.Initiative, b.Initiative); n != 0 {
			return n
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return players
}

// computeTurnOrder interleaves the formations acting in phase, one per
// player at a time, starting with the initiative loser.
func (c *Context) computeTurnOrder(phase model.Phase) []int {
	queues := make(map[int][]int)
	for _, f := range c.Formations {
		if c.actsIn(f, phase) {
			queues[f.PlayerID] = append(queues[f.PlayerID], f.ID)
		}
	}
	var order []int
	players := c.initiativeOrder()
	for remaining := true; remaining; {
		remaining = false
		for _, p := range players {
			q := queues[p.ID]
			if len(q) == 0 {
				continue
			}
			order = append(order, q[0])
			queues[p.ID] = q[1:]
			remaining = true
		}
	}
	return order
}

// actsIn reports whether f takes a turn in phase.
func (c *Context) actsIn(f *model.Formation, phase model.Phase) bool {
	switch phase {
	case model.PhaseDeployment:
		return !f.Deployed && f.Live() && c.Round >= f.DeployRound
	case model.PhaseMovement, model.PhaseFiring:
		return f.Active()
	default:
		return false
	}
}
