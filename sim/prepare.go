package sim

import "github.com/nstehr/vimy/vimy-resolve/model"

// preparation is what entering a phase resets.
type preparation struct {
	clearActions bool
	resetDone    bool
	turnOrder    bool
	flushReports bool
}

// phasePreparation is the per-phase setup table. Decision phases rely on
// done flags being clear and turn order being computed before the first
// formation acts.
var phasePreparation = map[model.Phase]preparation{
	model.PhaseStart:      {clearActions: true},
	model.PhaseInitiative: {clearActions: true},
	model.PhaseDeployment: {clearActions: true, resetDone: true, turnOrder: true},
	model.PhaseMovement:   {clearActions: true, resetDone: true, turnOrder: true},
	model.PhaseFiring:     {clearActions: true, resetDone: true, turnOrder: true},
	model.PhaseEnd:        {clearActions: true, flushReports: true},
	model.PhaseVictory:    {clearActions: true, flushReports: true},
}

// Enter makes phase current: a new round starts on Initiative, reports are
// stamped with the phase, and the phase's preparation runs.
func (c *Context) Enter(phase model.Phase) {
	if phase == model.PhaseInitiative {
		c.Round++
	}
	c.Phase = phase
	c.Reports.Begin(c.Round, phase)
	c.Prepare(phase)
	c.Logger.Debug("phase entered", "phase", phase, "round", c.Round)
}

// Prepare runs the preparation for phase.
func (c *Context) Prepare(phase model.Phase) {
	p := phasePreparation[phase]
	if p.clearActions {
		c.Actions = nil
	}
	if p.flushReports {
		c.Reports.Flush()
	}
	if p.resetDone {
		for _, f := range c.Formations {
			f.Done = false
		}
	}
	if p.turnOrder {
		c.TurnOrder = c.computeTurnOrder(phase)
	}
}
