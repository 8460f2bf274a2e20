package sim

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/report"
	"github.com/nstehr/vimy/vimy-resolve/victory"
)

// MaxRounds is the hard cap after which a run is forced to a draw.
const MaxRounds = 500

const eventAdvance = "advance"

// BattleConcluded is the single outbound event of a run.
type BattleConcluded struct {
	RunID   uuid.UUID      `json:"run_id"`
	Seed    int64          `json:"seed"`
	Rounds  int            `json:"rounds"`
	Result  victory.Result `json:"result"`
	Reports []report.Entry `json:"reports"`
	// Forced is set when the round cap ended the battle.
	Forced bool `json:"forced"`
}

// Simulation drives one Context through the phase cycle until the victory
// evaluator decides the battle.
type Simulation struct {
	ctx       *Context
	machine   *fsm.FSM
	runID     uuid.UUID
	MaxRounds int
}

// New builds a simulation over c, starting in the Start phase.
func New(c *Context) *Simulation {
	s := &Simulation{ctx: c, runID: uuid.New(), MaxRounds: MaxRounds}

	events := make(fsm.Events, 0, len(model.Phases))
	for _, p := range model.Phases {
		events = append(events, fsm.EventDesc{
			Name: eventAdvance,
			Src:  []string{p.String()},
			Dst:  p.Next().String(),
		})
	}
	s.machine = fsm.NewFSM(model.PhaseStart.String(), events, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			phase, _ := model.ParsePhase(e.Dst)
			c.Enter(phase)
		},
	})
	return s
}

// RunID identifies this run in logs and results.
func (s *Simulation) RunID() uuid.UUID { return s.runID }

// Run executes phases until the battle is decided or the round cap forces
// a draw. A broken invariant aborts the run with an error.
func (s *Simulation) Run(ctx context.Context) (*BattleConcluded, error) {
	c := s.ctx
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate battle: %w", err)
	}
	c.Logger.Info("battle started",
		"run", s.runID,
		"seed", c.Dice.Seed(),
		"players", len(c.Players),
		"formations", len(c.Formations),
	)

	c.Enter(model.PhaseStart)
	if _, err := c.RunPhase(); err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.machine.Event(ctx, eventAdvance); err != nil {
			return nil, fmt.Errorf("advance from %s: %w", s.machine.Current(), err)
		}
		if c.Phase == model.PhaseInitiative && c.Round > s.MaxRounds {
			return s.forceDraw(), nil
		}
		result, err := c.RunPhase()
		if err != nil {
			c.Logger.Error("battle aborted", "run", s.runID, "round", c.Round, "phase", c.Phase, "error", err)
			return nil, fmt.Errorf("round %d %s phase: %w", c.Round, c.Phase, err)
		}
		if c.Phase == model.PhaseVictory && result.Decided() {
			return s.conclude(result, c.Round, false), nil
		}
	}
}

func (s *Simulation) forceDraw() *BattleConcluded {
	c := s.ctx
	reason := fmt.Errorf("%w: no decision after %d rounds", ErrRoundCap, s.MaxRounds).Error()
	c.Logger.Warn("forcing draw", "run", s.runID, "rounds", s.MaxRounds)
	var rep VictoryReporter = c.Reports
	rep.BattleDrawn(reason)
	return s.conclude(victory.DrawResult(reason), s.MaxRounds, true)
}

func (s *Simulation) conclude(r victory.Result, rounds int, forced bool) *BattleConcluded {
	c := s.ctx
	c.Reports.Flush()
	players, teams := r.Winners()
	c.Logger.Info("battle concluded",
		"run", s.runID,
		"rounds", rounds,
		"win", r.Win,
		"draw", r.Draw,
		"players", players,
		"teams", teams,
		"forced", forced,
	)
	return &BattleConcluded{
		RunID:   s.runID,
		Seed:    c.Dice.Seed(),
		Rounds:  rounds,
		Result:  r,
		Reports: slices.Clone(c.Reports.Entries()),
		Forced:  forced,
	}
}
