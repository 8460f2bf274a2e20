package sim

import (
	"cmp"
	"slices"

	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/rules"
)

// propose returns the action f takes in the current decision phase, or nil
// when it has nothing to do. Standing orders are consulted first, then the
// formation's role.
func (c *Context) propose(f *model.Formation) Action {
	switch c.Phase {
	case model.PhaseDeployment:
		return DeployAction{Actor: f.ID, At: f.Position}
	case model.PhaseMovement:
		return c.proposeMove(f)
	case model.PhaseFiring:
		return c.proposeAttack(f)
	default:
		return nil
	}
}

func (c *Context) nextOrder(f *model.Formation) *rules.Order {
	o, fresh := c.Orders.Next(rules.NewEnv(c.Battle, f.PlayerID), f.ID)
	if o != nil && fresh {
		var r MovementReporter = c.Reports
		r.OrderIssued(f, o.Label())
		c.Logger.Debug("order issued", "formation", f.Label(), "order", o.Label(), "priority", o.Priority)
	}
	return o
}

// proposeMove clears Withdrawing first; only fallBack sets it again, so a
// formation that stops falling back is not later withdrawn off an edge.
func (c *Context) proposeMove(f *model.Formation) Action {
	model.Delete(f.Memory, model.Withdrawing)
	role := c.Roles.Lookup(f.Role)
	order := c.nextOrder(f)

	if f.Morale.IsRouted() {
		return c.fallBack(f, false)
	}
	if order != nil {
		switch order.Type {
		case rules.OrderHold:
			return HoldAction{Actor: f.ID}
		case rules.OrderWithdraw:
			return c.fallBack(f, false)
		case rules.OrderAdvance:
			if target := c.selectTarget(f, role, order, false); target != nil {
				return c.moveTowards(f, target, 1, false)
			}
		case rules.OrderSeekCover:
			if target := c.selectTarget(f, role, order, false); target != nil {
				return c.moveTowards(f, target, role.PreferredRange.IdealDistance(), true)
			}
		}
	}
	if role.Damaged(f) {
		switch role.WhenDamaged {
		case rules.RetreatToCover:
			return c.fallBack(f, true)
		case rules.Disengage:
			return c.fallBack(f, false)
		}
	}

	target := c.selectTarget(f, role, order, false)
	if target == nil {
		return HoldAction{Actor: f.ID}
	}
	dist := f.Position.Distance(target.Position)
	ideal := role.PreferredRange.IdealDistance()
	band, inRange := model.BandFor(dist)
	if !inRange {
		band = model.RangeLong
	}
	cover := role.SeeksCoverAt(band)
	switch {
	case dist > ideal:
		return c.moveTowards(f, target, ideal, cover)
	case dist < ideal && role.Tails:
		goal := f.Position.Away(target.Position, ideal-dist)
		return c.moveTo(f, target, goal, cover)
	case cover && !model.GetOr(f.Memory, model.FoundCover, false):
		return c.moveTo(f, target, f.Position, true)
	default:
		return HoldAction{Actor: f.ID}
	}
}

// moveTowards closes on target until standoff squares separate them.
func (c *Context) moveTowards(f, target *model.Formation, standoff int, cover bool) Action {
	dist := f.Position.Distance(target.Position)
	if dist <= standoff && !cover {
		return HoldAction{Actor: f.ID}
	}
	goal := f.Position.Towards(target.Position, max(dist-standoff, 0))
	return c.moveTo(f, target, goal, cover)
}

func (c *Context) moveTo(f, target *model.Formation, goal model.Position, cover bool) Action {
	dest := bestDestination(c, f.Position, goal, f.Movement, cover)
	if cover {
		return MoveToCoverAction{Actor: f.ID, Destination: dest, TargetID: target.ID}
	}
	if dest == f.Position {
		return HoldAction{Actor: f.ID}
	}
	return MoveAction{Actor: f.ID, Destination: dest, TargetID: target.ID}
}

// fallBack moves f directly away from the nearest enemy and flags it as
// withdrawing. With cover the move is reported as a retreat.
func (c *Context) fallBack(f *model.Formation, cover bool) Action {
	model.Set(f.Memory, model.Withdrawing, true)
	nearest := c.nearestEnemy(f)
	if nearest == nil {
		return HoldAction{Actor: f.ID}
	}
	goal := f.Position.Away(nearest.Position, f.Movement)
	dest := bestDestination(c, f.Position, goal, f.Movement, cover)
	if cover {
		return MoveToCoverAction{Actor: f.ID, Destination: dest}
	}
	return MoveAction{Actor: f.ID, Destination: dest, TargetID: nearest.ID, Withdraw: true}
}

func (c *Context) proposeAttack(f *model.Formation) Action {
	role := c.Roles.Lookup(f.Role)
	order := c.nextOrder(f)
	target := c.selectTarget(f, role, order, true)
	if target == nil {
		return nil
	}
	return AttackAction{Actor: f.ID, TargetID: target.ID}
}

func (c *Context) nearestEnemy(f *model.Formation) *model.Formation {
	var best *model.Formation
	for _, e := range c.Enemies(f.PlayerID) {
		if best == nil || f.Position.Distance(e.Position) < f.Position.Distance(best.Position) {
			best = e
		}
	}
	return best
}

// selectTarget picks whom f engages. In order of precedence: an order's
// explicit target, the weakest enemy under a focus-fire order, the last
// attacker for roles that hold grudges, then preferred roles by distance.
// With inRange only enemies within long range are considered.
func (c *Context) selectTarget(f *model.Formation, role rules.Role, order *rules.Order, inRange bool) *model.Formation {
	var enemies []*model.Formation
	for _, e := range c.Enemies(f.PlayerID) {
		if _, ok := model.BandFor(f.Position.Distance(e.Position)); inRange && !ok {
			continue
		}
		enemies = append(enemies, e)
	}
	if len(enemies) == 0 {
		return nil
	}
	byID := func(id int) *model.Formation {
		i := slices.IndexFunc(enemies, func(e *model.Formation) bool { return e.ID == id })
		if i < 0 {
			return nil
		}
		return enemies[i]
	}

	if order != nil && order.TargetID != 0 {
		if t := byID(order.TargetID); t != nil {
			return t
		}
	}
	if order != nil && order.Type == rules.OrderFocusFire {
		return slices.MinFunc(enemies, func(a, b *model.Formation) int {
			if n := cmp.Compare(a.ArmorFraction(), b.ArmorFraction()); n != 0 {
				return n
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}
	if role.PrioritizesLastAttacker {
		if id, ok := model.Get(f.Memory, model.LastAttacker); ok {
			if t := byID(id); t != nil {
				return t
			}
		}
	}
	return slices.MinFunc(enemies, func(a, b *model.Formation) int {
		pa, pb := role.Prefers(a.Role), role.Prefers(b.Role)
		if pa != pb {
			if pa {
				return -1
			}
			return 1
		}
		if n := cmp.Compare(f.Position.Distance(a.Position), f.Position.Distance(b.Position)); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
