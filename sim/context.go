package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nstehr/vimy/vimy-resolve/dice"
	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/report"
	"github.com/nstehr/vimy/vimy-resolve/rules"
	"github.com/nstehr/vimy/vimy-resolve/victory"
)

var (
	// ErrUnknownFormation means an action referenced a formation ID that is
	// not part of the battle. It aborts the run.
	ErrUnknownFormation = errors.New("unknown formation")
	// ErrUnknownPlayer means a formation or order referenced a missing player.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrRoundCap is wrapped into the report of a forced draw.
	ErrRoundCap = errors.New("round cap exceeded")
)

// Reporter is everything the simulation reports through. Each phase only
// sees the narrow interface for that phase.
type Reporter interface {
	DeploymentReporter
	MovementReporter
	FiringReporter
	EndPhaseReporter
	VictoryReporter

	Begin(round int, phase model.Phase)
	RoundStarted(round int, players []*model.Player)
	Flush()
	Discard()
	Entries() []report.Entry
}

type DeploymentReporter interface {
	FormationDeployed(f *model.Formation)
}

type MovementReporter interface {
	OrderIssued(f *model.Formation, order string)
	FormationAdvanced(f, target *model.Formation, to model.Position)
	FormationWithdrew(f, target *model.Formation, to model.Position)
	FormationRetreated(f *model.Formation, to model.Position)
	FormationMoved(f *model.Formation, to model.Position)
	FormationFoundCover(f *model.Formation)
	FormationHeld(f *model.Formation)
}

type FiringReporter interface {
	AttackRolled(attacker, target *model.Formation, targetNumber int, roll dice.Roll)
	AttackHit(attacker, target *model.Formation, damage, unitsLost int)
	AttackMissed(attacker, target *model.Formation)
	FormationDestroyed(f *model.Formation)
}

type EndPhaseReporter interface {
	MoraleCheckStarted(f *model.Formation, targetNumber int)
	MoraleCheckRolled(f *model.Formation, roll dice.Roll)
	MoraleCheckPassed(f *model.Formation, status model.MoraleStatus)
	MoraleCheckFailed(f *model.Formation, before, after model.MoraleStatus)
	FormationWithdrawn(f *model.Formation, reason string)
}

type VictoryReporter interface {
	VictoryDeclared(text string)
	BattleDrawn(reason string)
}

// Context is the mutable root of one simulation run. It is owned by a
// single Simulation and never shared across runs.
type Context struct {
	*model.Battle

	Actions      []Action
	Reports      Reporter
	Dice         *dice.Roller
	Roles        *rules.RoleRegistry
	Orders       *rules.Orders
	Victory      victory.Victory
	Combat       CombatResolver
	Destinations DestinationProducer
	Logger       *slog.Logger

	// TurnOrder is the formation IDs acting in the current decision phase.
	TurnOrder []int
	// Scratch is handed to the victory evaluator every round.
	Scratch *model.Memory
}

// Option configures a Context.
type Option func(*Context)

func WithReporter(r Reporter) Option { return func(c *Context) { c.Reports = r } }
func WithLogger(l *slog.Logger) Option { return func(c *Context) { c.Logger = l } }
func WithVictory(v victory.Victory) Option { return func(c *Context) { c.Victory = v } }
func WithOrders(o *rules.Orders) Option { return func(c *Context) { c.Orders = o } }
func WithRoles(r *rules.RoleRegistry) Option { return func(c *Context) { c.Roles = r } }
func WithCombat(r CombatResolver) Option { return func(c *Context) { c.Combat = r } }
func WithDestinations(d DestinationProducer) Option { return func(c *Context) { c.Destinations = d } }

// NewContext wraps b for a run seeded with seed. Unset collaborators get
// their defaults: a report log honouring SuppressLogging, the stock victory
// evaluator, abstract combat and grid destinations.
func NewContext(b *model.Battle, seed int64, opts ...Option) *Context {
	c := &Context{
		Battle:  b,
		Dice:    dice.New(seed),
		Scratch: model.NewMemory(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Board == nil {
		c.Board = model.NewBoard(0, 0)
	}
	if c.Reports == nil {
		c.Reports = report.NewLog(b.Options.SuppressLogging)
	}
	if c.Roles == nil {
		c.Roles = rules.NewRoleRegistry()
	}
	if c.Orders == nil {
		c.Orders = rules.NewOrders()
	}
	if c.Victory == nil {
		c.Victory = victory.Default(victory.DefaultPercent, victory.DefaultThreshold)
	}
	if c.Combat == nil {
		c.Combat = AbstractCombat{}
	}
	if c.Destinations == nil {
		c.Destinations = GridDestinations{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if b.Options.SuppressLogging {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Lookup returns the formation with id or ErrUnknownFormation.
func (c *Context) Lookup(id int) (*model.Formation, error) {
	f, ok := c.Battle.Formation(id)
	if !ok {
		return nil, fmt.Errorf("formation %d: %w", id, ErrUnknownFormation)
	}
	return f, nil
}

// LookupPlayer returns the player with id or ErrUnknownPlayer.
func (c *Context) LookupPlayer(id int) (*model.Player, error) {
	p, ok := c.Battle.Player(id)
	if !ok {
		return nil, fmt.Errorf("player %d: %w", id, ErrUnknownPlayer)
	}
	return p, nil
}

// Validate checks the invariants a run depends on before the first phase.
func (c *Context) Validate() error {
	seen := make(map[int]bool, len(c.Formations))
	for _, f := range c.Formations {
		if seen[f.ID] {
			return fmt.Errorf("duplicate formation id %d", f.ID)
		}
		seen[f.ID] = true
		if _, err := c.LookupPlayer(f.PlayerID); err != nil {
			return fmt.Errorf("formation %s: %w", f.Label(), err)
		}
		if f.Memory == nil {
			f.Memory = model.NewMemory()
		}
	}
	for _, o := range c.Orders.All() {
		if _, err := c.LookupPlayer(o.PlayerID); err != nil {
			return fmt.Errorf("order %s: %w", o.Label(), err)
		}
	}
	return nil
}

// Enqueue appends a to the pending action queue.
func (c *Context) Enqueue(a Action) {
	c.Actions = append(c.Actions, a)
}

// Process hands every queued action to its handler, in queue order, then
// empties the queue. Actions no handler cares about are dropped. A handler
// error aborts processing and is returned.
func (c *Context) Process() error {
	queue := c.Actions
	c.Actions = nil
	for _, a := range queue {
		if a == nil {
			continue
		}
		h := handlerFor(c, a)
		if h == nil || !h.Cares() {
			c.Logger.Debug("action dropped", "action", a.Kind(), "formation", a.ActorID(), "phase", c.Phase)
			continue
		}
		if err := h.Execute(); err != nil {
			return fmt.Errorf("%s for formation %d: %w", a.Kind(), a.ActorID(), err)
		}
	}
	return nil
}
