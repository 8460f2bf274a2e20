package batch

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/nstehr/vimy/vimy-resolve/scenario"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary aggregates a batch. A team win also credits each winning
// player, so player and team tallies may overlap.
type Summary struct {
	Scenario    string         `json:"scenario"`
	Runs        int            `json:"runs"`
	SeedBase    int64          `json:"seed_base"`
	PlayerWins  map[int]int    `json:"player_wins"`
	TeamWins    map[int]int    `json:"team_wins,omitempty"`
	Draws       int            `json:"draws"`
	Forced      int            `json:"forced"`
	TotalRounds int            `json:"total_rounds"`
	MinRounds   int            `json:"min_rounds"`
	MaxRounds   int            `json:"max_rounds"`
	Players     map[int]string `json:"players"` // display names
	Outcomes    []Outcome      `json:"outcomes,omitempty"`
}

func summarize(s *scenario.Scenario, base int64, outcomes []Outcome) *Summary {
	sum := &Summary{
		Scenario:   s.Name,
		Runs:       len(outcomes),
		SeedBase:   base,
		PlayerWins: make(map[int]int),
		TeamWins:   make(map[int]int),
		Outcomes:   outcomes,
		Players:    make(map[int]string, len(s.Players)),
	}
	for _, p := range s.Players {
		sum.Players[p.ID] = p.Name
		sum.PlayerWins[p.ID] = 0
	}
	for i, o := range outcomes {
		if o.Draw {
			sum.Draws++
		}
		if o.Forced {
			sum.Forced++
		}
		for _, p := range o.Players {
			sum.PlayerWins[p]++
		}
		for _, t := range o.Teams {
			sum.TeamWins[t]++
		}
		sum.TotalRounds += o.Rounds
		if i == 0 || o.Rounds < sum.MinRounds {
			sum.MinRounds = o.Rounds
		}
		sum.MaxRounds = max(sum.MaxRounds, o.Rounds)
	}
	return sum
}

// MeanRounds is the average battle length.
func (s *Summary) MeanRounds() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.TotalRounds) / float64(s.Runs)
}

// Decisive counts runs that ended in a win.
func (s *Summary) Decisive() int { return s.Runs - s.Draws }

func (s *Summary) rate(n int) float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(n) * 100 / float64(s.Runs)
}

func (s *Summary) playerName(id int) string {
	if name := s.Players[id]; name != "" {
		return name
	}
	return fmt.Sprintf("Player %d", id)
}

// Write prints a human-readable report with English number formatting.
func (s *Summary) Write(w io.Writer) error {
	pw := &printer{p: message.NewPrinter(language.English), w: w}
	pw.printf("Scenario: %s\n", s.Scenario)
	pw.printf("Runs: %d (seeds %d-%d)\n", s.Runs, s.SeedBase+1, s.SeedBase+int64(s.Runs))
	for _, id := range slices.Sorted(maps.Keys(s.PlayerWins)) {
		n := s.PlayerWins[id]
		pw.printf("  %s: %d wins (%.1f%%)\n", s.playerName(id), n, s.rate(n))
	}
	for _, id := range slices.Sorted(maps.Keys(s.TeamWins)) {
		n := s.TeamWins[id]
		pw.printf("  Team %d: %d wins (%.1f%%)\n", id, n, s.rate(n))
	}
	pw.printf("Draws: %d (%.1f%%), %d forced by the round cap\n", s.Draws, s.rate(s.Draws), s.Forced)
	pw.printf("Rounds: mean %.1f, min %d, max %d\n", s.MeanRounds(), s.MinRounds, s.MaxRounds)
	return pw.err
}

// printer keeps the first write error.
type printer struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (pw *printer) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.p.Fprintf(pw.w, format, args...)
}
