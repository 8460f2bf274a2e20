// Package scenario loads battle setups from YAML documents or Lua scripts
// and turns them into ready-to-run simulation contexts.
package scenario

import (
	"errors"
	"fmt"

	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/rules"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported scenario format")
	ErrInvalidScenario   = errors.New("invalid scenario")
)

// Board size used when a scenario gives neither rows nor dimensions.
const (
	DefaultBoardWidth  = 32
	DefaultBoardHeight = 16
)

// DefaultOrderPriority sits above every doctrine priority so explicit
// orders win over posture.
const DefaultOrderPriority = 1000

// Scenario is the setup document for one battle.
type Scenario struct {
	Name       string          `yaml:"name" json:"name"`
	Seed       int64           `yaml:"seed,omitempty" json:"seed,omitempty"`
	Board      Board           `yaml:"board" json:"board"`
	Planetary  model.Planetary `yaml:"planetary,omitempty" json:"planetary,omitempty"`
	Options    model.Options   `yaml:"options,omitempty" json:"options,omitempty"`
	Players    []Player        `yaml:"players" json:"players"`
	Formations []Formation     `yaml:"formations" json:"formations"`
	Orders     []Order         `yaml:"orders,omitempty" json:"orders,omitempty"`
	Victory    Victory         `yaml:"victory,omitempty" json:"victory,omitempty"`
}

// Board is either explicit terrain rows or bare dimensions of open ground.
type Board struct {
	Width  int      `yaml:"width,omitempty" json:"width,omitempty"`
	Height int      `yaml:"height,omitempty" json:"height,omitempty"`
	Rows   []string `yaml:"rows,omitempty" json:"rows,omitempty"`
}

type Player struct {
	ID       int             `yaml:"id" json:"id"`
	Name     string          `yaml:"name" json:"name"`
	Team     int             `yaml:"team,omitempty" json:"team,omitempty"`
	Doctrine *rules.Doctrine `yaml:"doctrine,omitempty" json:"doctrine,omitempty"`
}

type Formation struct {
	ID          int            `yaml:"id" json:"id"`
	Player      int            `yaml:"player" json:"player"`
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	Role        string         `yaml:"role,omitempty" json:"role,omitempty"`
	Position    model.Position `yaml:"position" json:"position"`
	Skill       *int           `yaml:"skill,omitempty" json:"skill,omitempty"`
	Movement    *int           `yaml:"movement,omitempty" json:"movement,omitempty"`
	DeployRound int            `yaml:"deploy_round,omitempty" json:"deploy_round,omitempty"`
	Units       []model.Unit   `yaml:"units" json:"units"`
}

// Order is a standing order. When is an expression over the player's
// battle view; empty means always.
type Order struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Player    int    `yaml:"player" json:"player"`
	Type      string `yaml:"type" json:"type"`
	Priority  int    `yaml:"priority,omitempty" json:"priority,omitempty"`
	Formation int    `yaml:"formation,omitempty" json:"formation,omitempty"`
	Target    int    `yaml:"target,omitempty" json:"target,omitempty"`
	Delay     int    `yaml:"delay,omitempty" json:"delay,omitempty"`
	When      string `yaml:"when,omitempty" json:"when,omitempty"`
}

// Victory tunes the stock evaluator and adds scripted draw triggers,
// which are checked before it.
type Victory struct {
	Percent      int       `yaml:"percent,omitempty" json:"percent,omitempty"`
	Threshold    float64   `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	DrawTriggers []Trigger `yaml:"draw_triggers,omitempty" json:"draw_triggers,omitempty"`
}

type Trigger struct {
	Name   string `yaml:"name" json:"name"`
	Player int    `yaml:"player,omitempty" json:"player,omitempty"`
	When   string `yaml:"when" json:"when"`
}

// Validate checks the cross references a simulation relies on. Expression
// syntax is checked when the scenario is set up.
func (s *Scenario) Validate() error {
	if len(s.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrInvalidScenario)
	}
	if len(s.Formations) == 0 {
		return fmt.Errorf("%w: no formations", ErrInvalidScenario)
	}
	if s.Board.Width < 0 || s.Board.Height < 0 {
		return fmt.Errorf("%w: negative board size %dx%d", ErrInvalidScenario, s.Board.Width, s.Board.Height)
	}

	players := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		if p.ID <= 0 {
			return fmt.Errorf("%w: player %q has non-positive id %d", ErrInvalidScenario, p.Name, p.ID)
		}
		if players[p.ID] {
			return fmt.Errorf("%w: duplicate player id %d", ErrInvalidScenario, p.ID)
		}
		players[p.ID] = true
	}

	formations := make(map[int]bool, len(s.Formations))
	for _, f := range s.Formations {
		if f.ID <= 0 {
			return fmt.Errorf("%w: formation %q has non-positive id %d", ErrInvalidScenario, f.Name, f.ID)
		}
		if formations[f.ID] {
			return fmt.Errorf("%w: duplicate formation id %d", ErrInvalidScenario, f.ID)
		}
		formations[f.ID] = true
		if !players[f.Player] {
			return fmt.Errorf("%w: formation %d belongs to unknown player %d", ErrInvalidScenario, f.ID, f.Player)
		}
		if _, ok := model.ParseRoleKind(f.Role); !ok {
			return fmt.Errorf("%w: formation %d has unknown role %q", ErrInvalidScenario, f.ID, f.Role)
		}
		if len(f.Units) == 0 {
			return fmt.Errorf("%w: formation %d has no units", ErrInvalidScenario, f.ID)
		}
	}

	for i, o := range s.Orders {
		if !players[o.Player] {
			return fmt.Errorf("%w: order %d belongs to unknown player %d", ErrInvalidScenario, i, o.Player)
		}
		if _, ok := rules.ParseOrderType(o.Type); !ok {
			return fmt.Errorf("%w: order %d has unknown type %q", ErrInvalidScenario, i, o.Type)
		}
		if o.Formation != 0 && !formations[o.Formation] {
			return fmt.Errorf("%w: order %d addresses unknown formation %d", ErrInvalidScenario, i, o.Formation)
		}
		if o.Target != 0 && !formations[o.Target] {
			return fmt.Errorf("%w: order %d targets unknown formation %d", ErrInvalidScenario, i, o.Target)
		}
	}

	for _, t := range s.Victory.DrawTriggers {
		if t.When == "" {
			return fmt.Errorf("%w: draw trigger %q has no condition", ErrInvalidScenario, t.Name)
		}
	}
	return nil
}
