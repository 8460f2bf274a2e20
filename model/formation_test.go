package model

import "testing"

func testFormation() *Formation {
	f := NewFormation(1, 1, "Lance", RoleBrawler, Position{X: 2, Y: 2}, []Unit{
		{Name: "A", BV: 100, Armor: 4, Damage: [3]int{3, 2, 1}},
		{Name: "B", BV: 200, Armor: 6, Damage: [3]int{2, 2, 2}},
	})
	f.Deployed = true
	return f
}

func TestNewFormationDefaults(t *testing.T) {
	f := testFormation()
	if f.Skill != DefaultSkill || f.Movement != DefaultMovement {
		t.Errorf("skill/movement = %d/%d, want defaults", f.Skill, f.Movement)
	}
	if f.Units[0].MaxArmor != 4 || f.Units[1].MaxArmor != 6 {
		t.Errorf("MaxArmor not filled: %+v", f.Units)
	}
	if f.Memory == nil {
		t.Error("Memory is nil")
	}
	if got := f.InitialBV(); got != 300 {
		t.Errorf("InitialBV = %d, want 300", got)
	}
}

func TestFormationApplyDamageSpills(t *testing.T) {
	f := testFormation()

	if lost := f.ApplyDamage(5); lost != 1 {
		t.Errorf("ApplyDamage(5) lost = %d, want 1", lost)
	}
	if f.Units[0].Armor != 0 || f.Units[1].Armor != 5 {
		t.Errorf("armor after spill = %d/%d, want 0/5", f.Units[0].Armor, f.Units[1].Armor)
	}
	if got := f.CurrentBV(); got != 200 {
		t.Errorf("CurrentBV = %d, want 200", got)
	}
	if got := f.Damage(RangeShort); got != 2 {
		t.Errorf("Damage(short) = %d, want 2", got)
	}

	if lost := f.ApplyDamage(50); lost != 1 {
		t.Errorf("ApplyDamage(50) lost = %d, want 1", lost)
	}
	if f.Live() || f.Active() {
		t.Error("formation with no units should not be live")
	}
	if got := f.ArmorFraction(); got != 0 {
		t.Errorf("ArmorFraction = %f, want 0", got)
	}
}

func TestFormationWithdrawnHasNoBV(t *testing.T) {
	f := testFormation()
	f.Withdrawn = true
	if f.CurrentBV() != 0 {
		t.Errorf("CurrentBV = %d, want 0 once withdrawn", f.CurrentBV())
	}
	if f.Live() {
		t.Error("withdrawn formation is live")
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		d      int
		want   RangeBand
		inside bool
	}{
		{0, RangeShort, true},
		{3, RangeShort, true},
		{4, RangeMedium, true},
		{8, RangeMedium, true},
		{14, RangeLong, true},
		{15, RangeLong, false},
	}
	for _, tc := range tests {
		got, ok := BandFor(tc.d)
		if got != tc.want || ok != tc.inside {
			t.Errorf("BandFor(%d) = %s, %v; want %s, %v", tc.d, got, ok, tc.want, tc.inside)
		}
	}
}

func TestBattleLivePlayersAndEnemies(t *testing.T) {
	a := testFormation()
	c := NewFormation(2, 2, "Star", RoleStriker, Position{X: 8, Y: 2}, []Unit{{BV: 500, Armor: 3}})
	c.Deployed = true
	reserve := NewFormation(3, 3, "Reserve", RoleScout, Position{}, []Unit{{BV: 50, Armor: 1}})

	b := &Battle{
		Formations: []*Formation{a, c, reserve},
		Players: []*Player{
			{ID: 1, Name: "Alpha", Team: 1},
			{ID: 2, Name: "Bravo", Team: 2},
			{ID: 3, Name: "Charlie", Team: 1},
		},
	}

	if got := len(b.LivePlayers()); got != 2 {
		t.Errorf("LivePlayers = %d, want 2 (player 3 not deployed)", got)
	}
	if b.IsEnemy(1, 3) {
		t.Error("teammates reported as enemies")
	}
	if !b.IsEnemy(1, 2) {
		t.Error("opposing teams not reported as enemies")
	}
	if got := b.Enemies(1); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Enemies(1) = %v, want [2]", got)
	}
	if got := b.InitialBV(2); got != 500 {
		t.Errorf("InitialBV(2) = %d, want 500", got)
	}

	c.ApplyDamage(3)
	if got := b.CurrentBV(2); got != 0 {
		t.Errorf("CurrentBV(2) = %d, want 0", got)
	}
	if got := len(b.LivePlayers()); got != 1 {
		t.Errorf("LivePlayers after loss = %d, want 1", got)
	}
}

func TestBattleTimerExpired(t *testing.T) {
	b := &Battle{Round: 5, Options: Options{RoundLimit: 5}}
	if !b.TimerExpired() {
		t.Error("TimerExpired = false at limit")
	}
	b.Options.RoundLimit = 0
	if b.TimerExpired() {
		t.Error("zero RoundLimit should disable the timer")
	}
}

func TestPlanetaryFireModifier(t *testing.T) {
	tests := []struct {
		p    Planetary
		want int
	}{
		{Planetary{}, 0},
		{Planetary{Light: LightDay, Weather: WeatherClear, Wind: WindCalm}, 0},
		{Planetary{Light: LightMoonless}, 3},
		{Planetary{Light: LightDusk, Weather: WeatherHeavyRain, Wind: WindStrong}, 4},
	}
	for _, tc := range tests {
		if got := tc.p.FireModifier(); got != tc.want {
			t.Errorf("FireModifier(%+v) = %d, want %d", tc.p, got, tc.want)
		}
	}
}
