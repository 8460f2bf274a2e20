package sim

import (
	"io"
	"log/slog"

	"github.com/nstehr/vimy/vimy-resolve/model"
	"github.com/nstehr/vimy/vimy-resolve/report"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// duel builds a two-player battle on an open 20x10 board: a Brawler lance
// for player 1 at (2,5) and one for player 2 at (8,5).
func duel() *model.Battle {
	a := model.NewFormation(1, 1, "Alpha Lance", model.RoleBrawler, model.Position{X: 2, Y: 5}, []model.Unit{
		{Name: "Atlas", BV: 1000, Armor: 10, Damage: [3]int{10, 10, 10}},
	})
	b := model.NewFormation(2, 2, "Bravo Lance", model.RoleBrawler, model.Position{X: 8, Y: 5}, []model.Unit{
		{Name: "Locust", BV: 400, Armor: 5, Damage: [3]int{1, 1, 1}},
	})
	return &model.Battle{
		Formations: []*model.Formation{a, b},
		Players:    []*model.Player{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Bravo"}},
		Board:      model.NewBoard(20, 10),
		Options:    model.Options{RoundLimit: 20},
	}
}

func newTestContext(b *model.Battle, seed int64) (*Context, *report.Log) {
	log := report.NewLog(false)
	return NewContext(b, seed, WithReporter(log), WithLogger(quiet)), log
}

// deployAll marks every formation deployed.
func deployAll(b *model.Battle) {
	for _, f := range b.Formations {
		f.Deployed = true
	}
}

func lastPending(l *report.Log) report.Entry {
	p := l.Pending()
	if len(p) == 0 {
		return report.Entry{}
	}
	return p[len(p)-1]
}
