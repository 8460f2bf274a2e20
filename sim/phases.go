package sim

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/rules"
	"github.com/nstehr/vimy/vimy-resolve/victory"
)

// RunPhase executes the body of the current phase. Only the Victory phase
// produces a result; every other phase returns NoResult.
func (c *Context) RunPhase() (victory.Result, error) {
	switch c.Phase {
	case model.PhaseStart:
		return victory.NoResult(), nil
	case model.PhaseInitiative:
		c.rollInitiative()
		return victory.NoResult(), nil
	case model.PhaseDeployment, model.PhaseMovement, model.PhaseFiring:
		return victory.NoResult(), c.runTurns()
	case model.PhaseEnd:
		return victory.NoResult(), c.runEnd()
	case model.PhaseVictory:
		return c.checkVictory(), nil
	default:
		return victory.NoResult(), fmt.Errorf("unknown phase %d", c.Phase)
	}
}

// runTurns lets every formation in turn order act once. A formation that
// was knocked out before its turn forfeits it.
func (c *Context) runTurns() error {
	for _, id := range c.TurnOrder {
		f, err := c.Lookup(id)
		if err != nil {
			return err
		}
		if f.Done {
			continue
		}
		if c.Phase != model.PhaseDeployment && !f.Active() {
			f.Done = true
			continue
		}
		if a := c.propose(f); a != nil {
			c.Enqueue(a)
			if err := c.Process(); err != nil {
				return err
			}
		}
		f.Done = true
	}
	return nil
}

// runEnd checks morale for every formation hit this round, then withdraws
// routed, disengaging and escaped formations, then clears per-round state.
func (c *Context) runEnd() error {
	for _, f := range c.Formations {
		if f.Active() && model.GetOr(f.Memory, model.DamagedThisRound, 0) > 0 {
			c.Enqueue(MoraleCheckAction{Actor: f.ID})
		}
	}
	if err := c.Process(); err != nil {
		return err
	}

	for _, f := range c.Formations {
		if !f.Active() {
			continue
		}
		role := c.Roles.Lookup(f.Role)
		switch {
		case f.Morale.IsRouted():
			c.Enqueue(WithdrawAction{Actor: f.ID, Reason: "routed"})
		case role.WhenDamaged == rules.Disengage && role.Damaged(f):
			c.Enqueue(WithdrawAction{Actor: f.ID, Reason: "disengaged"})
		case model.GetOr(f.Memory, model.Withdrawing, false) && c.Board.OnEdge(f.Position):
			c.Enqueue(WithdrawAction{Actor: f.ID, Reason: "fell back off the battlefield"})
		}
	}
	if err := c.Process(); err != nil {
		return err
	}

	for _, f := range c.Formations {
		model.Delete(f.Memory, model.DamagedThisRound)
		model.Delete(f.Memory, model.UnitsLostThisRound)
	}
	c.Orders.ResetOrders()
	return nil
}

// checkVictory consults the victory evaluator. A win shared by more than
// one side becomes a draw.
func (c *Context) checkVictory() victory.Result {
	r := c.Victory.Evaluate(c.Battle, c.Scratch)
	if r.Win && r.Tied(c.TeamOf) {
		tied := victory.DrawResult("")
		tied.Reports = append(tied.Reports, r.Reports...)
		tied.AddReport(fmt.Sprintf("sides tied at score %.2f", r.HighScore()))
		r = tied
	}
	if !r.Decided() {
		return r
	}
	var rep VictoryReporter = c.Reports
	for _, text := range r.Reports {
		if r.Draw {
			rep.BattleDrawn(text)
		} else {
			rep.VictoryDeclared(text)
		}
	}
	return r
}
