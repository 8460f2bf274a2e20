package rules

import (
	"testing"

	"github.com/nstehr/vimy/vimy-resolve/model"
)

func TestEnvCounts(t *testing.T) {
	b := testBattle()
	env := NewEnv(b, 1)

	if got := env.LiveFormations(); got != 1 {
		t.Errorf("LiveFormations = %d, want 1", got)
	}
	if got := env.EnemyLiveFormations(); got != 1 {
		t.Errorf("EnemyLiveFormations = %d, want 1", got)
	}
	if got := env.Phase(); got != "movement" {
		t.Errorf("Phase = %q, want movement", got)
	}

	b.Formations[0].ApplyDamage(10) // destroys the Warhammer
	if got := env.BVPercent(); got != 40 {
		t.Errorf("BVPercent = %f, want 40", got)
	}
	if got := env.EnemyBVPercent(); got != 100 {
		t.Errorf("EnemyBVPercent = %f, want 100", got)
	}

	b.Formations[0].Morale = model.MoraleRouted
	if got := env.RoutedFormations(); got != 1 {
		t.Errorf("RoutedFormations = %d, want 1", got)
	}
}

func TestEnvZeroValue(t *testing.T) {
	var env Env
	if env.Round() != 0 || env.LiveFormations() != 0 || env.BVPercent() != 0 || env.TimerExpired() {
		t.Error("zero Env should report empty state")
	}
}

func TestEnvTimer(t *testing.T) {
	b := testBattle()
	env := NewEnv(b, 2)
	if env.TimerExpired() {
		t.Fatal("timer expired at round 1")
	}
	b.Round = 10
	if !env.TimerExpired() {
		t.Error("timer not expired at the round limit")
	}
}
