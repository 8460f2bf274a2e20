package sim

import "github.com/nstehr/vimy/vimy-resolve/model"

// Action is a queued unit of pending effect. The set is closed: every
// variant is declared in this file and handled in handlerFor.
type Action interface {
	ActorID() int
	Kind() string
	action()
}

// DeployAction places a formation on the board.
type DeployAction struct {
	Actor int
	At    model.Position
}

// MoveAction moves a formation, optionally relative to a target. Withdraw
// marks the move as falling back.
type MoveAction struct {
	Actor       int
	Destination model.Position
	TargetID    int // 0 when moving without a reference formation
	Withdraw    bool
}

// MoveToCoverAction moves a formation toward a destination and may leave it
// in cover. TargetID only decides how the move is reported.
type MoveToCoverAction struct {
	Actor       int
	Destination model.Position
	TargetID    int
}

// HoldAction ends a formation's movement in place.
type HoldAction struct {
	Actor int
}

// AttackAction fires a formation on a target.
type AttackAction struct {
	Actor    int
	TargetID int
}

// MoraleCheckAction makes a formation test its nerve.
type MoraleCheckAction struct {
	Actor int
}

// WithdrawAction removes a formation from the battlefield.
type WithdrawAction struct {
	Actor  int
	Reason string
}

func (a DeployAction) ActorID() int      { return a.Actor }
func (a MoveAction) ActorID() int        { return a.Actor }
func (a MoveToCoverAction) ActorID() int { return a.Actor }
func (a HoldAction) ActorID() int        { return a.Actor }
func (a AttackAction) ActorID() int      { return a.Actor }
func (a MoraleCheckAction) ActorID() int { return a.Actor }
func (a WithdrawAction) ActorID() int    { return a.Actor }

func (DeployAction) Kind() string      { return "deploy" }
func (MoveAction) Kind() string        { return "move" }
func (MoveToCoverAction) Kind() string { return "move_to_cover" }
func (HoldAction) Kind() string        { return "hold" }
func (AttackAction) Kind() string      { return "attack" }
func (MoraleCheckAction) Kind() string { return "morale_check" }
func (WithdrawAction) Kind() string    { return "withdraw" }

func (DeployAction) action()      {}
func (MoveAction) action()        {}
func (MoveToCoverAction) action() {}
func (HoldAction) action()        {}
func (AttackAction) action()      {}
func (MoraleCheckAction) action() {}
func (WithdrawAction) action()    {}
