package dice

import "testing"

func TestRollerDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := range 50 {
		ra, rb := a.Roll2D6(), b.Roll2D6()
		if ra.Total != rb.Total {
			t.Fatalf("roll %d: %d != %d with the same seed", i, ra.Total, rb.Total)
		}
		if ra.Total < 2 || ra.Total > 12 {
			t.Fatalf("roll %d: 2d6 total %d out of range", i, ra.Total)
		}
	}
}

func TestRollString(t *testing.T) {
	r := Roll{Dice: []int{3, 4}, Total: 7}
	if got := r.String(); got != "7 [3+4]" {
		t.Errorf("String() = %q, want %q", got, "7 [3+4]")
	}
}

func TestChanceBounds(t *testing.T) {
	r := New(1)
	for range 20 {
		if r.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !r.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	if a == b {
		t.Errorf("two crypto seeds were equal: %d", a)
	}
}
