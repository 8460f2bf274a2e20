package rules

import "testing"

func TestConditionVariants(t *testing.T) {
	env := NewEnv(testBattle(), 1)

	var zero Condition
	if !zero.Evaluate(env) {
		t.Error("zero Condition should be always true")
	}
	if !AlwaysTrue().Evaluate(env) {
		t.Error("AlwaysTrue evaluated false")
	}
	if AlwaysFalse().Evaluate(env) {
		t.Error("AlwaysFalse evaluated true")
	}
	if When(nil).Evaluate(env) {
		t.Error("When(nil) evaluated true")
	}

	called := 0
	c := When(func(e Env) bool {
		called++
		return e.Player == 1
	})
	if !c.Evaluate(env) || !c.Evaluate(env) {
		t.Error("closure condition evaluated false")
	}
	if called != 2 {
		t.Errorf("closure called %d times, want 2 (fresh evaluation each time)", called)
	}
}

func TestExprCondition(t *testing.T) {
	b := testBattle()
	env := NewEnv(b, 1)

	tests := []struct {
		src  string
		want bool
	}{
		{`Round() == 1`, true},
		{`LiveFormations() >= EnemyLiveFormations()`, true},
		{`Phase() == "firing"`, false},
		{`BVPercent() < 50`, false},
		{`!TimerExpired() && LivePlayers() == 2`, true},
	}
	for _, tc := range tests {
		c, err := Expr(tc.src)
		if err != nil {
			t.Fatalf("Expr(%q): %v", tc.src, err)
		}
		if got := c.Evaluate(env); got != tc.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tc.src, got, tc.want)
		}
		if c.String() != tc.src {
			t.Errorf("String() = %q, want %q", c.String(), tc.src)
		}
	}
}

func TestExprConditionCompileErrors(t *testing.T) {
	for _, src := range []string{`Round(`, `NoSuchHelper() > 1`, `Round() + 1`} {
		if _, err := Expr(src); err == nil {
			t.Errorf("Expr(%q) compiled, want error", src)
		}
	}
}
