package rules

import "github.com/nstehr/vimy/vimy-resolve/model"

// testBattle returns two unteamed players with one deployed formation each.
func testBattle() *model.Battle {
	a := model.NewFormation(1, 1, "Alpha Lance", model.RoleBrawler, model.Position{X: 1, Y: 1}, []model.Unit{
		{Name: "Warhammer", BV: 600, Armor: 10},
		{Name: "Rifleman", BV: 400, Armor: 6},
	})
	b := model.NewFormation(2, 2, "Bravo Star", model.RoleStriker, model.Position{X: 9, Y: 1}, []model.Unit{
		{Name: "Kit Fox", BV: 500, Armor: 8},
	})
	a.Deployed, b.Deployed = true, true
	return &model.Battle{
		Round:      1,
		Phase:      model.PhaseMovement,
		Formations: []*model.Formation{a, b},
		Players:    []*model.Player{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Bravo"}},
		Board:      model.NewBoard(12, 4),
		Options:    model.Options{RoundLimit: 10},
	}
}
