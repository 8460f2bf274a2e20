// Package report collects the narrative log of a battle. Log implements
// every phase reporter the simulation calls; it never inspects battle state
// beyond the formations it is handed.
package report

import (
	"fmt"
	"strings"

	"github.com/nstehr/vimy/vimy-resolve/dice"
	"github.com/nstehr/vimy/vimy-resolve/model"
)

// Categories of report entries.
const (
	CategoryRound      = "round"
	CategoryDeployment = "deployment"
	CategoryMovement   = "movement"
	CategoryOrder      = "order"
	CategoryFiring     = "firing"
	CategoryMorale     = "morale"
	CategoryWithdrawal = "withdrawal"
	CategoryDestroyed  = "destroyed"
	CategoryVictory    = "victory"
)

// summaryCategories survive summary-only mode.
var summaryCategories = map[string]bool{
	CategoryWithdrawal: true,
	CategoryDestroyed:  true,
	CategoryVictory:    true,
}

// Entry is one line of the battle narrative.
type Entry struct {
	Round     int    `json:"round"`
	Phase     string `json:"phase"`
	Formation string `json:"formation,omitempty"` // label, or "" for battle-wide events
	Player    int    `json:"player,omitempty"`
	Category  string `json:"category"`
	Key       string `json:"key"`
	Text      string `json:"text"`
}

// String formats the entry as a fixed-width log line.
//
//	[R=03 firing    ] Alpha Lance  firing   hit        Alpha Lance hits Bravo Star for 6 damage
func (e Entry) String() string {
	f := e.Formation
	if f == "" {
		f = "--"
	}
	return fmt.Sprintf("[R=%02d %-10s] %-14s %-10s %-14s %s", e.Round, e.Phase, f, e.Category, e.Key, e.Text)
}

// Log buffers entries for the current phase and keeps the flushed history.
// It is owned by one simulation run and is not safe for concurrent use.
type Log struct {
	round   int
	phase   model.Phase
	pending []Entry
	entries []Entry
	summary bool
}

// NewLog returns a log. In summary mode only withdrawal, destruction and
// victory entries are kept.
func NewLog(summaryOnly bool) *Log {
	return &Log{summary: summaryOnly}
}

// Begin stamps subsequent entries with round and phase.
func (l *Log) Begin(round int, phase model.Phase) {
	l.round, l.phase = round, phase
}

// Flush moves pending entries into the history.
func (l *Log) Flush() {
	l.entries = append(l.entries, l.pending...)
	l.pending = l.pending[:0]
}

// Discard drops pending entries without recording them.
func (l *Log) Discard() {
	l.pending = l.pending[:0]
}

// Pending returns the entries not yet flushed.
func (l *Log) Pending() []Entry { return l.pending }

// Entries returns the flushed history.
func (l *Log) Entries() []Entry { return l.entries }

// Filter returns flushed entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *Log) Filter(category, key string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Format returns the full history as a single string.
func (l *Log) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (l *Log) add(f *model.Formation, category, key, format string, args ...any) {
	if l.summary && !summaryCategories[category] {
		return
	}
	e := Entry{
		Round:    l.round,
		Phase:    l.phase.String(),
		Category: category,
		Key:      key,
		Text:     fmt.Sprintf(format, args...),
	}
	if f != nil {
		e.Formation = f.Label()
		e.Player = f.PlayerID
	}
	l.pending = append(l.pending, e)
}

// RoundStarted records the initiative results for a round.
func (l *Log) RoundStarted(round int, players []*model.Player) {
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = fmt.Sprintf("%s %d", p.Name, p.Initiative)
	}
	l.add(nil, CategoryRound, "initiative", "Round %d initiative: %s", round, strings.Join(parts, ", "))
}

// Deployment

func (l *Log) FormationDeployed(f *model.Formation) {
	l.add(f, CategoryDeployment, "deployed", "%s deploys at %s", f.Label(), f.Position)
}

// Movement

func (l *Log) OrderIssued(f *model.Formation, order string) {
	l.add(f, CategoryOrder, "issued", "%s receives order: %s", f.Label(), order)
}

func (l *Log) FormationAdvanced(f, target *model.Formation, to model.Position) {
	l.add(f, CategoryMovement, "advance", "%s advances on %s to %s", f.Label(), target.Label(), to)
}

func (l *Log) FormationWithdrew(f, target *model.Formation, to model.Position) {
	l.add(f, CategoryMovement, "withdraw", "%s falls back from %s to %s", f.Label(), target.Label(), to)
}

func (l *Log) FormationRetreated(f *model.Formation, to model.Position) {
	l.add(f, CategoryMovement, "retreat", "%s retreats to %s", f.Label(), to)
}

func (l *Log) FormationMoved(f *model.Formation, to model.Position) {
	l.add(f, CategoryMovement, "move", "%s moves to %s", f.Label(), to)
}

func (l *Log) FormationFoundCover(f *model.Formation) {
	l.add(f, CategoryMovement, "cover", "%s finds cover", f.Label())
}

func (l *Log) FormationHeld(f *model.Formation) {
	l.add(f, CategoryMovement, "hold", "%s holds position at %s", f.Label(), f.Position)
}

// Firing

func (l *Log) AttackRolled(attacker, target *model.Formation, targetNumber int, roll dice.Roll) {
	l.add(attacker, CategoryFiring, "roll", "%s fires on %s: needs %d, rolls %s", attacker.Label(), target.Label(), targetNumber, roll)
}

func (l *Log) AttackHit(attacker, target *model.Formation, damage, unitsLost int) {
	if unitsLost > 0 {
		l.add(attacker, CategoryFiring, "hit", "%s hits %s for %d damage, destroying %d unit(s)", attacker.Label(), target.Label(), damage, unitsLost)
		return
	}
	l.add(attacker, CategoryFiring, "hit", "%s hits %s for %d damage", attacker.Label(), target.Label(), damage)
}

func (l *Log) AttackMissed(attacker, target *model.Formation) {
	l.add(attacker, CategoryFiring, "miss", "%s misses %s", attacker.Label(), target.Label())
}

func (l *Log) FormationDestroyed(f *model.Formation) {
	l.add(f, CategoryDestroyed, "destroyed", "%s has been destroyed", f.Label())
}

// End phase

func (l *Log) MoraleCheckStarted(f *model.Formation, targetNumber int) {
	l.add(f, CategoryMorale, "start", "%s checks morale (%s): needs %d", f.Label(), f.Morale, targetNumber)
}

func (l *Log) MoraleCheckRolled(f *model.Formation, roll dice.Roll) {
	l.add(f, CategoryMorale, "roll", "%s rolls %s", f.Label(), roll)
}

func (l *Log) MoraleCheckPassed(f *model.Formation, status model.MoraleStatus) {
	l.add(f, CategoryMorale, "passed", "%s holds its nerve, morale remains %s", f.Label(), status)
}

func (l *Log) MoraleCheckFailed(f *model.Formation, before, after model.MoraleStatus) {
	l.add(f, CategoryMorale, "failed", "%s wavers, morale %s -> %s", f.Label(), before, after)
}

func (l *Log) FormationWithdrawn(f *model.Formation, reason string) {
	l.add(f, CategoryWithdrawal, "withdrawn", "%s withdraws from the battlefield (%s)", f.Label(), reason)
}

// Victory

func (l *Log) VictoryDeclared(text string) {
	l.add(nil, CategoryVictory, "victory", "%s", text)
}

func (l *Log) BattleDrawn(reason string) {
	l.add(nil, CategoryVictory, "draw", "%s", reason)
}
