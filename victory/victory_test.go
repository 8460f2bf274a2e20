package victory

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/rules"
)

// duel returns two unteamed players, each with one deployed formation.
func duel(bvA, bvB int) *model.Battle {
	a := model.NewFormation(1, 1, "A", model.RoleBrawler, model.Position{}, []model.Unit{{BV: bvA, Armor: 10}})
	b := model.NewFormation(2, 2, "B", model.RoleBrawler, model.Position{X: 5}, []model.Unit{{BV: bvB, Armor: 10}})
	a.Deployed, b.Deployed = true, true
	return &model.Battle{
		Round:      1,
		Formations: []*model.Formation{a, b},
		Players:    []*model.Player{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Bravo"}},
		Options:    model.Options{RoundLimit: 20},
	}
}

// fixed is a test double returning canned scores.
type fixed struct {
	Victory
	players map[int]float64
	teams   map[int]float64
	win     bool
	calls   *int
}

func (f fixed) Evaluate(*model.Battle, *model.Memory) Result {
	if f.calls != nil {
		*f.calls++
	}
	r := NewResult(f.win)
	for id, s := range f.players {
		r.SetPlayerScore(id, s)
	}
	for id, s := range f.teams {
		r.SetTeamScore(id, s)
	}
	return r
}

func TestResultHighScoreTracksMutations(t *testing.T) {
	r := NewResult(true)
	if r.HighScore() != 0 {
		t.Fatalf("empty HighScore = %f, want 0", r.HighScore())
	}
	r.SetPlayerScore(1, 0.4)
	r.SetTeamScore(2, 0.9)
	if r.HighScore() != 0.9 {
		t.Errorf("HighScore = %f, want 0.9", r.HighScore())
	}
	r.SetTeamScore(2, 0.1)
	if r.HighScore() != 0.4 {
		t.Errorf("HighScore after lowering = %f, want 0.4", r.HighScore())
	}
	r.AddPlayerScore(1, 1)
	if r.HighScore() != 1.4 {
		t.Errorf("HighScore after Add = %f, want 1.4", r.HighScore())
	}
	r.SetPlayerScore(3, -2)
	if r.HighScore() != 1.4 {
		t.Errorf("HighScore with negative entry = %f, want 1.4", r.HighScore())
	}
	if !r.Valid() {
		t.Error("scored win reported invalid")
	}
}

func TestResultValidity(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want bool
	}{
		{"no result", NoResult(), true},
		{"draw", DrawResult("stalemate"), true},
		{"bare win", NewResult(true), false},
		{"draw with win", Result{Win: true, Draw: true}, false},
	}
	for _, tc := range tests {
		if got := tc.r.Valid(); got != tc.want {
			t.Errorf("%s: Valid() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResultJSONRecomputesHighScore(t *testing.T) {
	r := NewResult(true)
	r.SetPlayerScore(1, 1)
	r.SetTeamScore(4, 0.5)
	r.AddReport("Alpha controls the battlefield")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	tampered := strings.Replace(string(data), `"high_score":1`, `"high_score":99`, 1)

	var back Result
	if err := json.Unmarshal([]byte(tampered), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.HighScore() != 1 {
		t.Errorf("HighScore = %f, want 1", back.HighScore())
	}
	if s, ok := back.TeamScore(4); !ok || s != 0.5 {
		t.Errorf("TeamScore(4) = %f, %v", s, ok)
	}
}

func TestResultTied(t *testing.T) {
	teamOf := func(id int) int {
		if id == 3 || id == 4 {
			return 7
		}
		return model.NoTeam
	}

	r := NewResult(true)
	r.SetPlayerScore(1, 1)
	r.SetPlayerScore(2, 1)
	if !r.Tied(teamOf) {
		t.Error("two unteamed players at the high score should tie")
	}

	team := NewResult(true)
	team.SetTeamScore(7, 1)
	team.SetPlayerScore(3, 1)
	team.SetPlayerScore(4, 1)
	if team.Tied(teamOf) {
		t.Error("a team and its own members should not tie")
	}
}

func TestPercentDestroyedReportsExactPercentage(t *testing.T) {
	b := duel(1000, 1000)
	b.Formations[1].Units = []model.Unit{
		{BV: 400, Armor: 5, MaxArmor: 5},
		{BV: 600, Armor: 0, MaxArmor: 5},
	}

	scratch := model.NewMemory()
	for _, pct := range []int{50, 60} {
		r := PercentDestroyed{Percent: pct}.Evaluate(b, scratch)
		if !r.Win {
			t.Fatalf("threshold %d: no win at 60%% destroyed", pct)
		}
		if s, ok := r.PlayerScore(1); !ok || s != 1 {
			t.Errorf("threshold %d: PlayerScore(1) = %f, %v; want 1", pct, s, ok)
		}
		if _, ok := r.PlayerScore(2); ok {
			t.Errorf("threshold %d: losing side was scored", pct)
		}
		if len(r.Reports) != 1 || !strings.Contains(r.Reports[0], "destroyed 60% of enemy forces") {
			t.Errorf("threshold %d: reports = %q", pct, r.Reports)
		}
		if !r.Valid() {
			t.Errorf("threshold %d: invalid result", pct)
		}
	}

	if r := (PercentDestroyed{Percent: 61}).Evaluate(b, scratch); r.Win {
		t.Error("threshold 61 declared a win at 60%")
	}
	if got := PeakDestroyed(scratch, model.NoTeam, 1); got != 60 {
		t.Errorf("PeakDestroyed = %f, want 60", got)
	}
}

func TestPercentDestroyedAttributesTeams(t *testing.T) {
	b := duel(100, 100)
	c := model.NewFormation(3, 3, "C", model.RoleScout, model.Position{}, []model.Unit{{BV: 100, Armor: 1}})
	c.Deployed = true
	b.Formations = append(b.Formations, c)
	b.Players[0].Team = 1
	b.Players = append(b.Players, &model.Player{ID: 3, Name: "Charlie", Team: 1})
	b.Formations[1].ApplyDamage(10)

	r := PercentDestroyed{Percent: 100}.Evaluate(b, nil)
	if !r.Win {
		t.Fatal("team did not win after destroying all enemies")
	}
	if s, ok := r.TeamScore(1); !ok || s != 1 {
		t.Errorf("TeamScore(1) = %f, %v; want 1", s, ok)
	}
	if !strings.HasPrefix(r.Reports[0], "Team 1") {
		t.Errorf("report = %q, want team attribution", r.Reports[0])
	}
}

func TestThresholdNormalizesScores(t *testing.T) {
	evals := []Victory{
		fixed{players: map[int]float64{1: 1, 2: 0.5}},
		fixed{players: map[int]float64{1: 0.5}, teams: map[int]float64{9: 3}},
		fixed{players: map[int]float64{1: 0, 2: 1}},
		fixed{},
	}
	r := Threshold{Threshold: 10, Evaluators: evals}.Evaluate(duel(1, 1), nil)

	checks := []struct {
		id   int
		want float64
	}{
		{1, (1 + 0.5 + 0) / 4.0},
		{2, (0.5 + 1) / 4.0},
	}
	for _, c := range checks {
		if got, _ := r.PlayerScore(c.id); got != c.want {
			t.Errorf("player %d score = %f, want %f", c.id, got, c.want)
		}
	}
	if got, _ := r.TeamScore(9); got != 0.75 {
		t.Errorf("team 9 score = %f, want 0.75", got)
	}
	if r.Win {
		t.Error("win declared below threshold")
	}

	r = Threshold{Threshold: 0.75, Evaluators: evals}.Evaluate(duel(1, 1), nil)
	if !r.Win || r.HighScore() != 0.75 {
		t.Errorf("Win = %v, HighScore = %f; want true, 0.75", r.Win, r.HighScore())
	}
}

func TestThresholdEmptyIsNeutral(t *testing.T) {
	r := Threshold{Threshold: 0}.Evaluate(duel(1, 1), nil)
	if r.Decided() || r.HighScore() != 0 {
		t.Errorf("empty threshold = %+v, want NoResult", r)
	}
}

func TestBattlefieldControl(t *testing.T) {
	b := duel(100, 100)
	if r := (BattlefieldControl{}).Evaluate(b, nil); r.Decided() {
		t.Fatalf("two live players: %+v, want undecided", r)
	}

	b.Formations[1].ApplyDamage(10)
	r := BattlefieldControl{}.Evaluate(b, nil)
	if !r.Win || r.Draw {
		t.Fatalf("one live player: Win=%v Draw=%v, want win", r.Win, r.Draw)
	}
	if s, _ := r.PlayerScore(1); s != 1 {
		t.Errorf("winner score = %f, want 1", s)
	}

	b.Formations[0].ApplyDamage(10)
	r = BattlefieldControl{}.Evaluate(b, nil)
	if !r.Draw || r.Win {
		t.Errorf("zero live players: Win=%v Draw=%v, want draw", r.Win, r.Draw)
	}
	if len(r.PlayerScores()) != 0 || len(r.TeamScores()) != 0 {
		t.Error("draw carries scores")
	}
}

func TestBattlefieldControlTeamsAndTimer(t *testing.T) {
	b := duel(100, 100)
	b.Players[0].Team, b.Players[1].Team = 3, 3
	r := BattlefieldControl{}.Evaluate(b, nil)
	if !r.Win {
		t.Fatal("single surviving team did not win")
	}
	if s, _ := r.TeamScore(3); s != 1 {
		t.Errorf("TeamScore(3) = %f, want 1", s)
	}

	b.Players[1].Team = 4
	b.Round = 20
	if r := (BattlefieldControl{}).Evaluate(b, nil); !r.Draw {
		t.Error("expired timer with two sides should draw")
	}
}

func TestGateAlwaysEvaluatesInner(t *testing.T) {
	calls := 0
	inner := fixed{win: true, players: map[int]float64{1: 1}, calls: &calls}
	b := duel(1, 1)

	if r := (Gate{Inner: inner}).Evaluate(b, nil); r.Decided() {
		t.Error("gate let a result through before the timer")
	}
	b.Options.CheckVictory = true
	if r := (Gate{Inner: inner}).Evaluate(b, nil); !r.Win {
		t.Error("gate suppressed a result with CheckVictory set")
	}
	b.Options.CheckVictory = false
	b.Round = 20
	if r := (Gate{Inner: inner}).Evaluate(b, nil); !r.Win {
		t.Error("gate suppressed a result after the timer expired")
	}
	if calls != 3 {
		t.Errorf("inner evaluated %d times, want 3", calls)
	}
}

func TestFirstMatch(t *testing.T) {
	calls := 0
	loser := fixed{players: map[int]float64{1: 0.2}}
	winner := fixed{win: true, players: map[int]float64{2: 1}}
	never := fixed{win: true, players: map[int]float64{3: 1}, calls: &calls}

	r := FirstMatch{Evaluators: []Victory{loser, winner, never}}.Evaluate(duel(1, 1), nil)
	if s, _ := r.PlayerScore(2); !r.Win || s != 1 {
		t.Errorf("FirstMatch = %+v, want the second evaluator's win", r)
	}
	if calls != 0 {
		t.Error("evaluation continued past the first win")
	}

	r = FirstMatch{Evaluators: []Victory{loser, ForcedDraw{Reason: "stop"}}}.Evaluate(duel(1, 1), nil)
	if !r.Draw {
		t.Error("FirstMatch without a win should defer to the last result")
	}
	if r := (FirstMatch{}).Evaluate(duel(1, 1), nil); r.Decided() {
		t.Error("empty FirstMatch decided")
	}
}

func TestFirstDecided(t *testing.T) {
	calls := 0
	undecided := fixed{players: map[int]float64{1: 0.2}}
	never := fixed{win: true, players: map[int]float64{2: 1}, calls: &calls}

	r := FirstDecided{Evaluators: []Victory{undecided, ForcedDraw{Reason: "ceasefire"}, never}}.Evaluate(duel(1, 1), nil)
	if !r.Draw || r.Win {
		t.Errorf("FirstDecided = %+v, want the draw", r)
	}
	if calls != 0 {
		t.Error("evaluation continued past a draw")
	}

	r = FirstDecided{Evaluators: []Victory{undecided, fixed{win: true, players: map[int]float64{2: 1}}}}.Evaluate(duel(1, 1), nil)
	if s, _ := r.PlayerScore(2); !r.Win || s != 1 {
		t.Errorf("FirstDecided = %+v, want the win", r)
	}
	if r := (FirstDecided{}).Evaluate(duel(1, 1), nil); r.Decided() {
		t.Error("empty FirstDecided decided")
	}
}

func TestDrawTriggerAheadOfDefault(t *testing.T) {
	cond, err := rules.Expr(`Round() >= 2`)
	if err != nil {
		t.Fatalf("Expr: %v", err)
	}
	v := FirstDecided{Evaluators: []Victory{
		Trigger{Name: "ceasefire", When: cond},
		Default(DefaultPercent, DefaultThreshold),
	}}
	b := duel(100, 100)
	if r := v.Evaluate(b, model.NewMemory()); r.Decided() {
		t.Fatalf("round 1 decided: %+v", r)
	}
	b.Round = 2
	r := v.Evaluate(b, model.NewMemory())
	if !r.Draw || len(r.Reports) != 1 || r.Reports[0] != "draw triggered: ceasefire" {
		t.Errorf("round 2 = %+v, want the ceasefire draw", r)
	}
}

func TestTrigger(t *testing.T) {
	b := duel(1, 1)
	cond, err := rules.Expr(`Round() >= 3`)
	if err != nil {
		t.Fatalf("Expr: %v", err)
	}
	trig := Trigger{Name: "stalemate", Player: 1, When: cond}

	if r := trig.Evaluate(b, nil); r.Decided() {
		t.Error("trigger fired before its condition held")
	}
	b.Round = 3
	r := trig.Evaluate(b, nil)
	if !r.Draw || len(r.Reports) != 1 || r.Reports[0] != "draw triggered: stalemate" {
		t.Errorf("trigger = %+v, want draw", r)
	}

	trig.Then = fixed{win: true, players: map[int]float64{1: 1}}
	if r := trig.Evaluate(b, nil); !r.Win {
		t.Error("trigger did not delegate to Then")
	}
}

func TestDefaultFallsBackToBattlefieldControl(t *testing.T) {
	b := duel(100, 100)
	b.Formations[1].ApplyDamage(10)

	r := Default(DefaultPercent, DefaultThreshold).Evaluate(b, model.NewMemory())
	if !r.Win {
		t.Fatal("Default did not detect the last side standing")
	}
	if !strings.Contains(r.Reports[0], "controls the battlefield") {
		t.Errorf("report = %q", r.Reports[0])
	}
}
