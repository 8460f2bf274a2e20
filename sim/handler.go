package sim

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-resolve/model"
)

// Handler applies one action. Cares reports whether the current phase
// allows the action; Execute is only called when it does. Handlers are the
// only code that mutates battle state in response to an action.
type Handler interface {
	Cares() bool
	Execute() error
}

// handlerFor returns the handler for a, or nil for an action kind this
// package does not know.
func handlerFor(c *Context, a Action) Handler {
	switch a := a.(type) {
	case DeployAction:
		return &deployHandler{c: c, a: a}
	case MoveAction:
		return &moveHandler{c: c, a: a}
	case MoveToCoverAction:
		return &moveToCoverHandler{c: c, a: a}
	case HoldAction:
		return &holdHandler{c: c, a: a}
	case AttackAction:
		return &attackHandler{c: c, a: a}
	case MoraleCheckAction:
		return &moraleCheckHandler{c: c, a: a}
	case WithdrawAction:
		return &withdrawHandler{c: c, a: a}
	default:
		return nil
	}
}

type deployHandler struct {
	c *Context
	a DeployAction
}

func (h *deployHandler) Cares() bool { return h.c.Phase == model.PhaseDeployment }

func (h *deployHandler) Execute() error {
	f, err := h.c.Lookup(h.a.Actor)
	if err != nil {
		return err
	}
	f.Done = true
	if f.Deployed {
		return nil
	}
	f.Position = h.c.Board.Clamp(h.a.At)
	f.Deployed = true
	var r DeploymentReporter = h.c.Reports
	r.FormationDeployed(f)
	h.c.Logger.Debug("formation deployed", "formation", f.Label(), "at", f.Position)
	return nil
}

type moveHandler struct {
	c *Context
	a MoveAction
}

func (h *moveHandler) Cares() bool { return h.c.Phase == model.PhaseMovement }

func (h *moveHandler) Execute() error {
	f, err := h.c.Lookup(h.a.Actor)
	if err != nil {
		return err
	}
	var target *model.Formation
	if h.a.TargetID != 0 {
		if target, err = h.c.Lookup(h.a.TargetID); err != nil {
			return err
		}
	}
	f.Done = true

	to := h.c.Board.Clamp(h.a.Destination)
	if !h.c.Board.Passable(to) {
		to = f.Position
	}
	f.Position = to
	model.Delete(f.Memory, model.FoundCover)

	var r MovementReporter = h.c.Reports
	switch {
	case h.a.Withdraw && target != nil:
		r.FormationWithdrew(f, target, to)
	case h.a.Withdraw:
		r.FormationRetreated(f, to)
	case target != nil:
		r.FormationAdvanced(f, target, to)
	default:
		r.FormationMoved(f, to)
	}
	return nil
}

// FoundCoverChance is the probability a move-to-cover leaves the formation
// in cover. It is not derived from terrain.
const FoundCoverChance = 0.7

type moveToCoverHandler struct {
	c *Context
	a MoveToCoverAction
}

func (h *moveToCoverHandler) Cares() bool { return h.c.Phase == model.PhaseMovement }

func (h *moveToCoverHandler) Execute() error {
	f, err := h.c.Lookup(h.a.Actor)
	if err != nil {
		return err
	}
	var target *model.Formation
	if h.a.TargetID != 0 {
		if target, err = h.c.Lookup(h.a.TargetID); err != nil {
			return err
		}
	}
	f.Done = true

	to := h.c.Board.Clamp(h.a.Destination)
	var r MovementReporter = h.c.Reports
	switch {
	case target != nil:
		if advancing(f.Position, to, target.Position) {
			r.FormationAdvanced(f, target, to)
		} else {
			r.FormationWithdrew(f, target, to)
		}
	case model.GetOr(f.Memory, model.Withdrawing, false):
		r.FormationRetreated(f, to)
	default:
		r.FormationMoved(f, to)
	}
	f.Position = to

	found := h.c.Dice.Chance(FoundCoverChance)
	model.Set(f.Memory, model.FoundCover, found)
	if found {
		r.FormationFoundCover(f)
	}
	return nil
}

// advancing reports whether moving from -> to heads horizontally toward
// target. A move with no horizontal component advances if it does not
// open the distance.
func advancing(from, to, target model.Position) bool {
	moved := model.Sign(to.X - from.X)
	if moved == 0 {
		return to.Distance(target) <= from.Distance(target)
	}
	return moved == model.Sign(target.X-from.X)
}

type holdHandler struct {
	c *Context
	a HoldAction
}

func (h *holdHandler) Cares() bool { return h.c.Phase == model.PhaseMovement }

func (h *holdHandler) Execute() error {
	f, err := h.c.Lookup(h.a.Actor)
	if err != nil {
		return err
	}
	f.Done = true
	var r MovementReporter = h.c.Reports
	r.FormationHeld(f)
	return nil
}

type attackHandler struct {
	c *Context
	a AttackAction
}

func (h *attackHandler) Cares() bool { return h.c.Phase == model.PhaseFiring }

func (h *attackHandler) Execute() error {
	attacker, err := h.c.Lookup(h.a.Actor)
	if err != nil {
		return err
	}
	target, err := h.c.Lookup(h.a.TargetID)
	if err != nil {
		return err
	}
	attacker.Done = true
	if !attacker.Active() || !target.Active() {
		return nil
	}

	tn, band, ok := h.c.Combat.ToHit(h.c.Battle, attacker, target)
	if !ok {
		h.c.Logger.Debug("target out of range", "attacker", attacker.Label(), "target", target.Label())
		return nil
	}
	roll := h.c.Dice.Roll2D6()
	var r FiringReporter = h.c.Reports
	r.AttackRolled(attacker, target, tn, roll)

	model.Set(target.Memory, model.LastAttacker, attacker.ID)
	if roll.Total < tn {
		r.AttackMissed(attacker, target)
		return nil
	}

	dmg := h.c.Combat.Damage(attacker, band, roll.Total-tn)
	lost := target.ApplyDamage(dmg)
	model.Set(target.Memory, model.DamagedThisRound, model.GetOr(target.Memory, model.DamagedThisRound, 0)+dmg)
	model.Set(target.Memory, model.UnitsLostThisRound, model.GetOr(target.Memory, model.UnitsLostThisRound, 0)+lost)
	r.AttackHit(attacker, target, dmg, lost)
	h.c.Logger.Debug("attack hit", "attacker", attacker.Label(), "target", target.Label(), "damage", dmg, "unitsLost", lost)
	if !target.Live() {
		r.FormationDestroyed(target)
		h.c.Logger.Info("formation destroyed", "formation", target.Label(), "round", h.c.Round)
	}
	return nil
}

type moraleCheckHandler struct {
	c *Context
	a MoraleCheckAction
}

func (h *moraleCheckHandler) Cares() bool { return h.c.Phase == model.PhaseEnd }

func (h *moraleCheckHandler) Execute() error {
	f, err := h.c.Lookup(h.a.Actor)
	if err != nil {
		return err
	}
	f.Done = true
	if !f.Live() {
		return nil
	}

	var r EndPhaseReporter = h.c.Reports
	tn := RecoverNerveTarget(f)
	r.MoraleCheckStarted(f, tn)
	roll := h.c.Dice.Roll2D6()
	r.MoraleCheckRolled(f, roll)

	if roll.Total >= tn {
		r.MoraleCheckPassed(f, f.Morale)
		return nil
	}
	before := f.Morale
	f.Morale = f.Morale.Next()
	r.MoraleCheckFailed(f, before, f.Morale)
	h.c.Logger.Debug("morale check failed", "formation", f.Label(), "from", before, "to", f.Morale)
	return nil
}

type withdrawHandler struct {
	c *Context
	a WithdrawAction
}

func (h *withdrawHandler) Cares() bool { return h.c.Phase == model.PhaseEnd }

func (h *withdrawHandler) Execute() error {
	f, err := h.c.Lookup(h.a.Actor)
	if err != nil {
		return err
	}
	f.Done = true
	if f.Withdrawn {
		return nil
	}
	f.Withdrawn = true
	reason := h.a.Reason
	if reason == "" {
		reason = fmt.Sprintf("morale %s", f.Morale)
	}
	var r EndPhaseReporter = h.c.Reports
	r.FormationWithdrawn(f, reason)
	h.c.Logger.Info("formation withdrawn", "formation", f.Label(), "reason", reason, "round", h.c.Round)
	return nil
}
