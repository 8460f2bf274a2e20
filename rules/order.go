package rules

import (
	"strings"

	"github.com/google/uuid"
)

// OrderType is what a standing order tells a formation to do.
type OrderType int

const (
	OrderAdvance OrderType = iota
	OrderHold
	OrderWithdraw
	OrderFocusFire
	OrderSeekCover
)

func (t OrderType) String() string {
	switch t {
	case OrderAdvance:
		return "advance"
	case OrderHold:
		return "hold"
	case OrderWithdraw:
		return "withdraw"
	case OrderFocusFire:
		return "focus_fire"
	case OrderSeekCover:
		return "seek_cover"
	default:
		return "unknown"
	}
}

// ParseOrderType is the inverse of String, accepting spaces or hyphens.
func ParseOrderType(s string) (OrderType, bool) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range []OrderType{OrderAdvance, OrderHold, OrderWithdraw, OrderFocusFire, OrderSeekCover} {
		if t.String() == norm {
			return t, true
		}
	}
	return OrderAdvance, false
}

// Order is a player-declared standing instruction. Orders persist across
// rounds; only the issued set is per-round state.
type Order struct {
	ID          uuid.UUID
	Name        string
	PlayerID    int
	Priority    int // higher = considered first
	Type        OrderType
	FormationID int // 0 applies to every formation of the player
	TargetID    int // 0 lets the formation pick
	Delay       int // order is dormant until Round > Delay
	Condition   Condition

	issued map[int]bool // formation IDs this order was issued to this round
}

// NewOrder returns an order with a fresh ID.
func NewOrder(playerID int, typ OrderType, priority int, cond Condition) *Order {
	return &Order{ID: uuid.New(), PlayerID: playerID, Type: typ, Priority: priority, Condition: cond}
}

// Label is the display name used in reports.
func (o *Order) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Type.String()
}

// AppliesTo reports whether the order addresses formationID.
func (o *Order) AppliesTo(formationID int) bool {
	return o.FormationID == 0 || o.FormationID == formationID
}

// Eligible reports whether the order may fire for formationID: it must
// address the formation, be past its delay and have its condition hold.
func (o *Order) Eligible(env Env, formationID int) bool {
	if !o.AppliesTo(formationID) {
		return false
	}
	if env.Round() <= o.Delay {
		return false
	}
	return o.Condition.Evaluate(env)
}

// Issued reports whether the order has been issued to formationID this round.
func (o *Order) Issued(formationID int) bool {
	return o.issued[formationID]
}

func (o *Order) markIssued(formationID int) {
	if o.issued == nil {
		o.issued = make(map[int]bool)
	}
	o.issued[formationID] = true
}

func (o *Order) reset() {
	clear(o.issued)
}
