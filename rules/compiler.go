package rules

import "fmt"

// Priorities of doctrine-generated orders. Scenario orders usually sit above
// these so an explicit instruction wins over posture.
const (
	PriorityWithdraw  = 900
	PrioritySeekCover = 700
	PriorityFocusFire = 600
	PriorityAdvance   = 500
	PriorityHold      = 400
)

// CompileDoctrine generates a player's standing orders from a doctrine's
// weights. All conditions are built via fmt.Sprintf with interpolated
// values, so a compile error here is a bug.
func CompileDoctrine(playerID int, d Doctrine) ([]*Order, error) {
	d.Validate()

	type spec struct {
		name     string
		typ      OrderType
		priority int
		src      string
	}
	specs := []spec{
		{
			// Aggressive players hang on longer before pulling out.
			name:     "withdraw-when-broken",
			typ:      OrderWithdraw,
			priority: PriorityWithdraw,
			src:      fmt.Sprintf(`BVPercent() < %d || RoutedFormations() > LiveFormations()`, lerp(50, 15, d.Aggression)),
		},
		{
			name:     "seek-cover-when-outgunned",
			typ:      OrderSeekCover,
			priority: PrioritySeekCover,
			src:      fmt.Sprintf(`EnemyBVPercent() > BVPercent() + %d`, lerp(40, 0, d.Caution)),
		},
		{
			name:     "focus-fire-when-winning",
			typ:      OrderFocusFire,
			priority: PriorityFocusFire,
			src:      fmt.Sprintf(`EnemyBVPercent() < %d`, lerp(30, 90, d.Focus)),
		},
	}
	switch {
	case d.Aggression >= 0.6:
		specs = append(specs, spec{
			name:     "advance",
			typ:      OrderAdvance,
			priority: PriorityAdvance,
			src:      `EnemyLiveFormations() > 0`,
		})
	case d.Aggression < 0.3:
		specs = append(specs, spec{
			name:     "hold-until-timer",
			typ:      OrderHold,
			priority: PriorityHold,
			src:      fmt.Sprintf(`!TimerExpired() && Round() <= %d`, lerp(2, 6, 1-d.Aggression)),
		})
	}

	orders := make([]*Order, 0, len(specs))
	for _, s := range specs {
		cond, err := Expr(s.src)
		if err != nil {
			return nil, fmt.Errorf("doctrine %q order %q: %w", d.Name, s.name, err)
		}
		o := NewOrder(playerID, s.typ, s.priority, cond)
		o.Name = s.name
		orders = append(orders, o)
	}
	return orders, nil
}
