// Package victory holds the composable victory evaluators. Every evaluator
// reads battle state and a scratch memory and returns a Result; none of
// them mutate the battle.
package victory

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/rules"
)

// Victory is the closed set of evaluators defined in this package.
type Victory interface {
	Evaluate(b *model.Battle, scratch *model.Memory) Result
	victory()
}

// FirstMatch returns the first sub-result reporting a win; otherwise the
// last sub-evaluator's result. Evaluation stops at the first win.
type FirstMatch struct {
	Evaluators []Victory
}

func (FirstMatch) victory() {}

func (v FirstMatch) Evaluate(b *model.Battle, scratch *model.Memory) Result {
	r := NoResult()
	for _, e := range v.Evaluators {
		r = e.Evaluate(b, scratch)
		if r.Win {
			return r
		}
	}
	return r
}

// FirstDecided returns the first sub-result that decides the battle, win or
// draw; otherwise the last sub-evaluator's result. It puts draw triggers
// ahead of an evaluator that would otherwise override them.
type FirstDecided struct {
	Evaluators []Victory
}

func (FirstDecided) victory() {}

func (v FirstDecided) Evaluate(b *model.Battle, scratch *model.Memory) Result {
	r := NoResult()
	for _, e := range v.Evaluators {
		r = e.Evaluate(b, scratch)
		if r.Decided() {
			return r
		}
	}
	return r
}

// Gate suppresses Inner's result unless the game timer has expired or the
// battle forces a check every round. Inner is always evaluated so it can
// keep its tracking state current.
type Gate struct {
	Inner Victory
}

func (Gate) victory() {}

func (v Gate) Evaluate(b *model.Battle, scratch *model.Memory) Result {
	r := v.Inner.Evaluate(b, scratch)
	if b.TimerExpired() || b.Options.CheckVictory {
		return r
	}
	return NoResult()
}

// PercentDestroyed awards a side the win once every enemy of that side has
// lost at least Percent of its starting Battle Value.
type PercentDestroyed struct {
	Percent int
}

func (PercentDestroyed) victory() {}

func (v PercentDestroyed) Evaluate(b *model.Battle, scratch *model.Memory) Result {
	r := NoResult()
	for _, s := range sidesOf(b) {
		initial, current := 0, 0
		for _, p := range b.Players {
			if s.has(p.ID) {
				continue
			}
			initial += b.InitialBV(p.ID)
			current += b.CurrentBV(p.ID)
		}
		if initial <= 0 {
			continue
		}
		destroyed := float64(initial-current) * 100 / float64(initial)
		k := peakKey(s)
		if scratch != nil && destroyed > model.GetOr(scratch, k, 0) {
			model.Set(scratch, k, destroyed)
		}
		if destroyed < float64(v.Percent) {
			continue
		}
		r.Win = true
		s.award(&r, 1)
		r.AddReport(fmt.Sprintf("%s destroyed %s%% of enemy forces", s.label(b), strconv.FormatFloat(destroyed, 'f', -1, 64)))
	}
	return r
}

// PeakDestroyed returns the highest enemy-destroyed percentage recorded for
// a team (or an unteamed player when team is 0) by PercentDestroyed.
func PeakDestroyed(scratch *model.Memory, team, playerID int) float64 {
	s := side{team: team}
	if team == model.NoTeam {
		s.players = []int{playerID}
	}
	return model.GetOr(scratch, peakKey(s), 0)
}

// Threshold averages each player's and team's score across Evaluators and
// declares a win when the resulting high score reaches Threshold. With no
// evaluators it returns NoResult.
type Threshold struct {
	Threshold  float64
	Evaluators []Victory
}

func (Threshold) victory() {}

func (v Threshold) Evaluate(b *model.Battle, scratch *model.Memory) Result {
	n := len(v.Evaluators)
	if n == 0 {
		return NoResult()
	}
	r := NoResult()
	for _, e := range v.Evaluators {
		sub := e.Evaluate(b, scratch)
		for id, s := range sub.playerScores {
			r.AddPlayerScore(id, s)
		}
		for id, s := range sub.teamScores {
			r.AddTeamScore(id, s)
		}
		r.Reports = append(r.Reports, sub.Reports...)
	}
	for _, id := range sortedKeys(r.playerScores) {
		r.SetPlayerScore(id, r.playerScores[id]/float64(n))
	}
	for _, id := range sortedKeys(r.teamScores) {
		r.SetTeamScore(id, r.teamScores[id]/float64(n))
	}
	r.Win = r.HighScore() > 0 && r.HighScore() >= v.Threshold
	return r
}

// BattlefieldControl is last-side-standing: a single surviving player or
// team wins, an empty field is a draw, and an expired timer with several
// survivors is a draw.
type BattlefieldControl struct{}

func (BattlefieldControl) victory() {}

func (BattlefieldControl) Evaluate(b *model.Battle, _ *model.Memory) Result {
	live := b.LivePlayers()
	if len(live) == 0 {
		return DrawResult("no forces remain on the battlefield")
	}

	teams := make(map[int]bool)
	unteamed := 0
	for _, p := range live {
		if p.Team == model.NoTeam {
			unteamed++
		} else {
			teams[p.Team] = true
		}
	}

	switch {
	case len(live) == 1:
		p := live[0]
		r := NewResult(true)
		r.SetPlayerScore(p.ID, 1)
		if p.Team != model.NoTeam {
			r.SetTeamScore(p.Team, 1)
		}
		r.AddReport(fmt.Sprintf("%s controls the battlefield", p.Name))
		return r
	case unteamed == 0 && len(teams) == 1:
		r := NewResult(true)
		for _, p := range live {
			r.SetPlayerScore(p.ID, 1)
			r.SetTeamScore(p.Team, 1)
		}
		r.AddReport(fmt.Sprintf("Team %d controls the battlefield", live[0].Team))
		return r
	case b.TimerExpired():
		return DrawResult(fmt.Sprintf("time expired after round %d with %d sides still fighting", b.Round, len(teams)+unteamed))
	default:
		return NoResult()
	}
}

// Trigger evaluates Then only while When holds for Player. A nil Then makes
// the trigger a draw trigger.
type Trigger struct {
	Name   string
	Player int
	When   rules.Condition
	Then   Victory
}

func (Trigger) victory() {}

func (v Trigger) Evaluate(b *model.Battle, scratch *model.Memory) Result {
	if !v.When.Evaluate(rules.NewEnv(b, v.Player)) {
		return NoResult()
	}
	if v.Then == nil {
		name := v.Name
		if name == "" {
			name = v.When.String()
		}
		return DrawResult(fmt.Sprintf("draw triggered: %s", name))
	}
	return v.Then.Evaluate(b, scratch)
}

// ForcedDraw always returns a draw.
type ForcedDraw struct {
	Reason string
}

func (ForcedDraw) victory() {}

func (v ForcedDraw) Evaluate(*model.Battle, *model.Memory) Result {
	return DrawResult(v.Reason)
}

// Defaults for the stock evaluator.
const (
	DefaultPercent   = 75
	DefaultThreshold = 1.0
)

// Default builds the stock evaluator: the timer-gated percentage check,
// then last side standing.
func Default(percent int, threshold float64) Victory {
	return FirstMatch{Evaluators: []Victory{
		Gate{Inner: Threshold{
			Threshold:  threshold,
			Evaluators: []Victory{PercentDestroyed{Percent: percent}},
		}},
		BattlefieldControl{},
	}}
}

// side is one team, or one unteamed player.
type side struct {
	team    int
	players []int
}

func (s side) has(playerID int) bool { return slices.Contains(s.players, playerID) }

func (s side) award(r *Result, score float64) {
	if s.team != model.NoTeam {
		r.SetTeamScore(s.team, score)
		return
	}
	for _, p := range s.players {
		r.SetPlayerScore(p, score)
	}
}

func (s side) label(b *model.Battle) string {
	if s.team != model.NoTeam {
		return fmt.Sprintf("Team %d", s.team)
	}
	if p, ok := b.Player(s.players[0]); ok && p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Player %d", s.players[0])
}

func sidesOf(b *model.Battle) []side {
	var out []side
	byTeam := make(map[int]int)
	for _, p := range b.Players {
		if p.Team == model.NoTeam {
			out = append(out, side{players: []int{p.ID}})
			continue
		}
		if i, ok := byTeam[p.Team]; ok {
			out[i].players = append(out[i].players, p.ID)
			continue
		}
		byTeam[p.Team] = len(out)
		out = append(out, side{team: p.Team, players: []int{p.ID}})
	}
	return out
}

func peakKey(s side) model.Key[float64] {
	if s.team != model.NoTeam {
		return model.NewKey[float64]("victory.peak_destroyed.team." + strconv.Itoa(s.team))
	}
	return model.NewKey[float64]("victory.peak_destroyed.player." + strconv.Itoa(s.players[0]))
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
