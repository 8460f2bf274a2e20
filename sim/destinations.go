package sim

import "github.com/nstehr/vimy/vimy-resolve/model"

// DestinationProducer supplies the squares a formation may end its move
// on. Path search lives behind this interface; the resolver only ranks
// the candidates.
type DestinationProducer interface {
	Candidates(b *model.Board, from model.Position, reach int) []model.Position
}

// GridDestinations treats every passable square within reach king-moves as
// reachable. Candidates come back in row-major order.
type GridDestinations struct{}

func (GridDestinations) Candidates(b *model.Board, from model.Position, reach int) []model.Position {
	if reach < 0 {
		reach = 0
	}
	var out []model.Position
	for y := from.Y - reach; y <= from.Y+reach; y++ {
		for x := from.X - reach; x <= from.X+reach; x++ {
			p := model.Position{X: x, Y: y}
			if b.Passable(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// bestDestination picks the candidate closest to goal, breaking ties on
// straight-line distance so formations don't drift sideways. With
// preferCover, a cover square is taken over open ground if it is no
// further from goal than slack squares. Remaining ties keep candidate order.
func bestDestination(c *Context, from, goal model.Position, reach int, preferCover bool) model.Position {
	const slack = 1
	cands := c.Destinations.Candidates(c.Board, from, reach)
	if len(cands) == 0 {
		return from
	}
	closer := func(p, q model.Position) bool {
		dp, dq := p.Distance(goal), q.Distance(goal)
		if dp != dq {
			return dp < dq
		}
		return manhattan(p, goal) < manhattan(q, goal)
	}

	best := cands[0]
	for _, p := range cands[1:] {
		if closer(p, best) {
			best = p
		}
	}
	if !preferCover {
		return best
	}
	var bestCover model.Position
	found := false
	for _, p := range cands {
		if !c.Board.IsCover(p) {
			continue
		}
		if !found || closer(p, bestCover) {
			bestCover, found = p, true
		}
	}
	if found && bestCover.Distance(goal) <= best.Distance(goal)+slack {
		return bestCover
	}
	return best
}

func manhattan(a, b model.Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
