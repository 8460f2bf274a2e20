package model

import "testing"

func TestMoraleNextSaturates(t *testing.T) {
	want := []MoraleStatus{MoraleShaken, MoraleUnsteady, MoraleBroken, MoraleRouted, MoraleRouted, MoraleRouted}
	m := MoraleNormal
	for i, w := range want {
		next := m.Next()
		if next < m {
			t.Fatalf("step %d: Next(%s) = %s went backwards", i, m, next)
		}
		if next != w {
			t.Errorf("step %d: Next(%s) = %s, want %s", i, m, next, w)
		}
		m = next
	}
	if !m.IsRouted() {
		t.Errorf("final status %s should be routed", m)
	}
}

func TestMoraleString(t *testing.T) {
	tests := []struct {
		m    MoraleStatus
		want string
	}{
		{MoraleNormal, "Normal"},
		{MoraleShaken, "Shaken"},
		{MoraleUnsteady, "Unsteady"},
		{MoraleBroken, "Broken"},
		{MoraleRouted, "Routed"},
		{MoraleStatus(42), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.m, got, tc.want)
		}
	}
}

func TestPhaseNextCycle(t *testing.T) {
	p := PhaseStart
	var seen []Phase
	for range 8 {
		p = p.Next()
		seen = append(seen, p)
	}
	want := []Phase{PhaseInitiative, PhaseDeployment, PhaseMovement, PhaseFiring, PhaseEnd, PhaseVictory, PhaseInitiative, PhaseDeployment}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestPhaseIsDecision(t *testing.T) {
	for _, p := range Phases {
		want := p == PhaseDeployment || p == PhaseMovement || p == PhaseFiring
		if got := p.IsDecision(); got != want {
			t.Errorf("%s.IsDecision() = %v, want %v", p, got, want)
		}
		back, ok := ParsePhase(p.String())
		if !ok || back != p {
			t.Errorf("ParsePhase(%q) = %s, %v", p.String(), back, ok)
		}
	}
}

func TestParseRoleKind(t *testing.T) {
	tests := []struct {
		in   string
		want RoleKind
		ok   bool
	}{
		{"brawler", RoleBrawler, true},
		{"Missile Boat", RoleMissileBoat, true},
		{"missile-boat", RoleMissileBoat, true},
		{"MissileBoat", RoleMissileBoat, true},
		{" SNIPER ", RoleSniper, true},
		{"", RoleUndetermined, true},
		{"artillery", RoleUndetermined, false},
	}
	for _, tc := range tests {
		got, ok := ParseRoleKind(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRoleKind(%q) = %s, %v; want %s, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
