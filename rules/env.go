package rules

import (
	"github.com/nstehr/vimy/vimy-resolve/model"
)

// Env wraps battle state for one player and exposes helper methods callable
// from expr expressions. Every helper is safe on a zero Env.
type Env struct {
	Battle *model.Battle
	Player int
}

// NewEnv returns the expression environment for playerID.
func NewEnv(b *model.Battle, playerID int) Env {
	return Env{Battle: b, Player: playerID}
}

func (e Env) Round() int {
	if e.Battle == nil {
		return 0
	}
	return e.Battle.Round
}

func (e Env) Phase() string {
	if e.Battle == nil {
		return model.PhaseStart.String()
	}
	return e.Battle.Phase.String()
}

// LiveFormations counts the player's deployed, live formations.
func (e Env) LiveFormations() int {
	if e.Battle == nil {
		return 0
	}
	n := 0
	for _, f := range e.Battle.FormationsOf(e.Player) {
		if f.Active() {
			n++
		}
	}
	return n
}

// EnemyLiveFormations counts deployed, live formations hostile to the player.
func (e Env) EnemyLiveFormations() int {
	if e.Battle == nil {
		return 0
	}
	return len(e.Battle.Enemies(e.Player))
}

// BVPercent is the player's current Battle Value as a percentage of its
// starting value. A player with no starting BV reports 0.
func (e Env) BVPercent() float64 {
	if e.Battle == nil {
		return 0
	}
	return percent(e.Battle.CurrentBV(e.Player), e.Battle.InitialBV(e.Player))
}

// EnemyBVPercent is the same ratio summed over every hostile player.
func (e Env) EnemyBVPercent() float64 {
	if e.Battle == nil {
		return 0
	}
	cur, initial := 0, 0
	for _, p := range e.Battle.Players {
		if !e.Battle.IsEnemy(e.Player, p.ID) {
			continue
		}
		cur += e.Battle.CurrentBV(p.ID)
		initial += e.Battle.InitialBV(p.ID)
	}
	return percent(cur, initial)
}

// RoutedFormations counts the player's formations whose morale has broken
// completely, whether or not they have left the field yet.
func (e Env) RoutedFormations() int {
	if e.Battle == nil {
		return 0
	}
	n := 0
	for _, f := range e.Battle.FormationsOf(e.Player) {
		if f.Morale.IsRouted() {
			n++
		}
	}
	return n
}

// LivePlayers counts players with at least one deployed, live formation.
func (e Env) LivePlayers() int {
	if e.Battle == nil {
		return 0
	}
	return len(e.Battle.LivePlayers())
}

func (e Env) TimerExpired() bool {
	return e.Battle != nil && e.Battle.TimerExpired()
}

func percent(cur, initial int) float64 {
	if initial <= 0 {
		return 0
	}
	return float64(cur) * 100 / float64(initial)
}
