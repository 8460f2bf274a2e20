package scenario

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-resolve/dice"
	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/rules"
	"github.com/nstehr/vimy/vimy-resolve/sim"
	"github.com/nstehr/vimy/vimy-resolve/victory"
)

// Setup builds a fresh simulation context for s. Every call returns
// independent battle state, so one scenario can back many concurrent
// runs. A zero seed draws a random one. Options passed here override
// the orders and victory evaluator derived from the scenario.
func Setup(s *Scenario, opts ...sim.Option) (*sim.Context, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	orders, err := s.orders()
	if err != nil {
		return nil, err
	}
	v, err := s.victory()
	if err != nil {
		return nil, err
	}

	seed := s.Seed
	if seed == 0 {
		if seed, err = dice.NewSeed(); err != nil {
			return nil, fmt.Errorf("seed scenario %q: %w", s.Name, err)
		}
	}

	base := []sim.Option{sim.WithOrders(orders), sim.WithVictory(v)}
	return sim.NewContext(s.battle(), seed, append(base, opts...)...), nil
}

func (s *Scenario) battle() *model.Battle {
	b := &model.Battle{
		Board:     s.board(),
		Planetary: s.Planetary,
		Options:   s.Options,
	}
	for _, p := range s.Players {
		b.Players = append(b.Players, &model.Player{ID: p.ID, Name: p.Name, Team: p.Team})
	}
	for _, fs := range s.Formations {
		role, _ := model.ParseRoleKind(fs.Role)
		f := model.NewFormation(fs.ID, fs.Player, fs.Name, role, fs.Position, fs.Units)
		if fs.Skill != nil {
			f.Skill = *fs.Skill
		}
		if fs.Movement != nil {
			f.Movement = *fs.Movement
		}
		f.DeployRound = fs.DeployRound
		b.Formations = append(b.Formations, f)
	}
	return b
}

func (s *Scenario) board() *model.Board {
	if len(s.Board.Rows) > 0 {
		return model.BoardFromRows(s.Board.Rows)
	}
	w, h := s.Board.Width, s.Board.Height
	if w == 0 {
		w = DefaultBoardWidth
	}
	if h == 0 {
		h = DefaultBoardHeight
	}
	return model.NewBoard(w, h)
}

func (s *Scenario) orders() (*rules.Orders, error) {
	orders := rules.NewOrders()
	for _, p := range s.Players {
		if p.Doctrine == nil {
			continue
		}
		compiled, err := rules.CompileDoctrine(p.ID, *p.Doctrine)
		if err != nil {
			return nil, fmt.Errorf("player %d doctrine: %w", p.ID, err)
		}
		orders.AddAll(compiled...)
	}
	for i, spec := range s.Orders {
		cond, err := condition(spec.When)
		if err != nil {
			return nil, fmt.Errorf("%w: order %d: %w", ErrInvalidScenario, i, err)
		}
		typ, _ := rules.ParseOrderType(spec.Type)
		priority := spec.Priority
		if priority == 0 {
			priority = DefaultOrderPriority
		}
		o := rules.NewOrder(spec.Player, typ, priority, cond)
		o.Name = spec.Name
		o.FormationID = spec.Formation
		o.TargetID = spec.Target
		o.Delay = spec.Delay
		orders.Add(o)
	}
	return orders, nil
}

func (s *Scenario) victory() (victory.Victory, error) {
	percent, threshold := s.Victory.Percent, s.Victory.Threshold
	if percent == 0 {
		percent = victory.DefaultPercent
	}
	if threshold == 0 {
		threshold = victory.DefaultThreshold
	}
	stock := victory.Default(percent, threshold)
	if len(s.Victory.DrawTriggers) == 0 {
		return stock, nil
	}

	var chain []victory.Victory
	for _, t := range s.Victory.DrawTriggers {
		cond, err := condition(t.When)
		if err != nil {
			return nil, fmt.Errorf("%w: draw trigger %q: %w", ErrInvalidScenario, t.Name, err)
		}
		chain = append(chain, victory.Trigger{Name: t.Name, Player: t.Player, When: cond})
	}
	return victory.FirstDecided{Evaluators: append(chain, stock)}, nil
}

func condition(src string) (rules.Condition, error) {
	if src == "" {
		return rules.AlwaysTrue(), nil
	}
	return rules.Expr(src)
}
