package victory

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

// Result is the unified output of every victory evaluator. Scores are kept
// behind setters so the high score can never go stale.
type Result struct {
	Win     bool
	Draw    bool
	Reports []string

	playerScores map[int]float64
	teamScores   map[int]float64
	highScore    float64
}

// NoResult is the neutral "nobody has won yet" result.
func NoResult() Result { return Result{} }

// DrawResult is an explicit draw. Draws carry no winner and no scores.
func DrawResult(reason string) Result {
	r := Result{Draw: true}
	if reason != "" {
		r.Reports = append(r.Reports, reason)
	}
	return r
}

// NewResult returns an empty result with win set as given.
func NewResult(win bool) Result {
	return Result{Win: win}
}

// Decided reports whether the battle is over, by a win or a draw.
func (r Result) Decided() bool { return r.Win || r.Draw }

func (r *Result) SetPlayerScore(playerID int, score float64) {
	if r.playerScores == nil {
		r.playerScores = make(map[int]float64)
	}
	r.playerScores[playerID] = score
	r.recompute()
}

func (r *Result) AddPlayerScore(playerID int, delta float64) {
	r.SetPlayerScore(playerID, r.playerScores[playerID]+delta)
}

func (r *Result) SetTeamScore(team int, score float64) {
	if r.teamScores == nil {
		r.teamScores = make(map[int]float64)
	}
	r.teamScores[team] = score
	r.recompute()
}

func (r *Result) AddTeamScore(team int, delta float64) {
	r.SetTeamScore(team, r.teamScores[team]+delta)
}

// AddReport appends a narrative line.
func (r *Result) AddReport(text string) {
	r.Reports = append(r.Reports, text)
}

// PlayerScore returns the player's score and whether one was recorded.
func (r Result) PlayerScore(playerID int) (float64, bool) {
	s, ok := r.playerScores[playerID]
	return s, ok
}

// TeamScore returns the team's score and whether one was recorded.
func (r Result) TeamScore(team int) (float64, bool) {
	s, ok := r.teamScores[team]
	return s, ok
}

// PlayerScores returns a copy of the per-player scores.
func (r Result) PlayerScores() map[int]float64 { return maps.Clone(r.playerScores) }

// TeamScores returns a copy of the per-team scores.
func (r Result) TeamScores() map[int]float64 { return maps.Clone(r.teamScores) }

// HighScore is the maximum across both score maps, 0 when both are empty.
func (r Result) HighScore() float64 { return r.highScore }

// Winners returns the player and team IDs holding the high score, sorted.
func (r Result) Winners() (players, teams []int) {
	if !r.Win {
		return nil, nil
	}
	for id, s := range r.playerScores {
		if s == r.highScore {
			players = append(players, id)
		}
	}
	for id, s := range r.teamScores {
		if s == r.highScore {
			teams = append(teams, id)
		}
	}
	slices.Sort(players)
	slices.Sort(teams)
	return players, teams
}

// Tied reports whether more than one side shares the high score. Team
// members' individual scores do not count against their own team.
func (r Result) Tied(teamOf func(playerID int) int) bool {
	if !r.Win {
		return false
	}
	players, teams := r.Winners()
	sides := make(map[int]bool)
	for _, t := range teams {
		sides[t] = true
	}
	unteamed := 0
	for _, p := range players {
		t := 0
		if teamOf != nil {
			t = teamOf(p)
		}
		if t == 0 {
			unteamed++
		} else {
			sides[t] = true
		}
	}
	return len(sides)+unteamed > 1
}

// Valid reports whether the result is internally consistent: a win needs at
// least one attributed score, a draw never carries a win, and the high
// score matches the score maps.
func (r Result) Valid() bool {
	if r.Draw {
		return !r.Win
	}
	if r.Win && len(r.playerScores) == 0 && len(r.teamScores) == 0 {
		return false
	}
	return r.highScore == maxScore(r.playerScores, r.teamScores)
}

func (r *Result) recompute() {
	r.highScore = maxScore(r.playerScores, r.teamScores)
}

func maxScore(ms ...map[int]float64) float64 {
	high, seen := math.Inf(-1), false
	for _, m := range ms {
		for _, s := range m {
			if s > high {
				high = s
			}
			seen = true
		}
	}
	if !seen {
		return 0
	}
	return high
}

type resultJSON struct {
	Win          bool            `json:"win"`
	Draw         bool            `json:"draw"`
	PlayerScores map[int]float64 `json:"player_scores,omitempty"`
	TeamScores   map[int]float64 `json:"team_scores,omitempty"`
	HighScore    float64         `json:"high_score"`
	Reports      []string        `json:"reports,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Win:          r.Win,
		Draw:         r.Draw,
		PlayerScores: r.playerScores,
		TeamScores:   r.teamScores,
		HighScore:    r.highScore,
		Reports:      r.Reports,
	})
}

// UnmarshalJSON restores a result; the high score is recomputed rather
// than trusted.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Result{Win: raw.Win, Draw: raw.Draw, Reports: raw.Reports}
	for id, s := range raw.PlayerScores {
		r.SetPlayerScore(id, s)
	}
	for id, s := range raw.TeamScores {
		r.SetTeamScore(id, s)
	}
	return nil
}
