package rules

import (
	"slices"
	"testing"

	"github.com/google/uuid"
)

func TestOrdersAddSortsByPriority(t *testing.T) {
	orders := NewOrders()
	low := NewOrder(1, OrderHold, 10, AlwaysTrue())
	high := NewOrder(1, OrderAdvance, 50, AlwaysTrue())
	mid1 := NewOrder(1, OrderSeekCover, 30, AlwaysTrue())
	mid2 := NewOrder(1, OrderFocusFire, 30, AlwaysTrue())
	other := NewOrder(2, OrderWithdraw, 99, AlwaysTrue())
	orders.AddAll(low, high, mid1, mid2, other)

	got := orders.ForPlayer(1)
	want := []*Order{high, mid1, mid2, low}
	if !slices.Equal(got, want) {
		t.Errorf("ForPlayer(1) order wrong: got %v", labels(got))
	}
	if orders.Len() != 5 {
		t.Errorf("Len = %d, want 5", orders.Len())
	}
	if all := orders.All(); len(all) != 5 || all[4] != other {
		t.Errorf("All() = %v, want player 2 last", labels(all))
	}
}

func TestOrdersAddAssignsIDAndDedupes(t *testing.T) {
	orders := NewOrders()
	o := &Order{PlayerID: 3, Type: OrderHold}
	orders.Add(o)
	orders.Add(o)
	if o.ID == uuid.Nil {
		t.Error("Add did not assign an ID")
	}
	if orders.Len() != 1 {
		t.Errorf("Len = %d after duplicate Add, want 1", orders.Len())
	}
}

func TestOrdersRemove(t *testing.T) {
	orders := NewOrders()
	a := NewOrder(1, OrderHold, 1, AlwaysTrue())
	b := NewOrder(1, OrderAdvance, 2, AlwaysTrue())
	c := NewOrder(2, OrderAdvance, 2, AlwaysTrue())
	orders.AddAll(a, b, c)

	if !orders.Remove(a) {
		t.Error("Remove(a) = false")
	}
	if orders.Remove(a) {
		t.Error("second Remove(a) = true")
	}
	if orders.Contains(a) || !orders.Contains(b) {
		t.Error("Contains wrong after Remove")
	}
	if n := orders.RemoveAll(b, c, a); n != 2 {
		t.Errorf("RemoveAll = %d, want 2", n)
	}
	if orders.Len() != 0 {
		t.Errorf("Len = %d, want 0", orders.Len())
	}
}

func TestOrdersResetIsIdempotent(t *testing.T) {
	orders := NewOrders()
	list := []*Order{
		NewOrder(1, OrderHold, 1, AlwaysTrue()),
		NewOrder(1, OrderAdvance, 5, AlwaysFalse()),
		NewOrder(2, OrderWithdraw, 3, AlwaysTrue()),
	}
	orders.AddAll(list...)
	before := orders.All()

	env := NewEnv(testBattle(), 1)
	orders.Next(env, 1)
	for range 5 {
		orders.ResetOrders()
	}

	after := orders.All()
	if !slices.Equal(before, after) {
		t.Errorf("membership changed across ResetOrders: %v -> %v", labels(before), labels(after))
	}
	for _, o := range after {
		if o.Issued(1) {
			t.Errorf("order %s still issued after reset", o.Label())
		}
	}
}

func TestOrdersNext(t *testing.T) {
	b := testBattle()
	env := NewEnv(b, 1)

	orders := NewOrders()
	disabled := NewOrder(1, OrderWithdraw, 100, AlwaysFalse())
	delayed := NewOrder(1, OrderAdvance, 90, AlwaysTrue())
	delayed.Delay = 2
	otherFormation := NewOrder(1, OrderHold, 80, AlwaysTrue())
	otherFormation.FormationID = 99
	cover := NewOrder(1, OrderSeekCover, 10, AlwaysTrue())
	orders.AddAll(disabled, delayed, otherFormation, cover)

	got, fresh := orders.Next(env, 1)
	if got != cover || !fresh {
		t.Fatalf("Next = %v, %v; want seek_cover, fresh", got, fresh)
	}
	if _, fresh := orders.Next(env, 1); fresh {
		t.Error("second Next in the same round reported fresh")
	}

	b.Round = 3
	if got, _ := orders.Next(env, 1); got != delayed {
		t.Errorf("Next after delay = %v, want advance", got)
	}

	orders.ResetOrders()
	if _, fresh := orders.Next(env, 1); !fresh {
		t.Error("Next after ResetOrders not fresh")
	}

	if got, _ := NewOrders().Next(env, 1); got != nil {
		t.Errorf("empty registry Next = %v, want nil", got)
	}
}

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		in   string
		want OrderType
		ok   bool
	}{
		{"advance", OrderAdvance, true},
		{"Focus Fire", OrderFocusFire, true},
		{"seek-cover", OrderSeekCover, true},
		{"charge", OrderAdvance, false},
	}
	for _, tc := range tests {
		got, ok := ParseOrderType(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseOrderType(%q) = %s, %v; want %s, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func labels(list []*Order) []string {
	out := make([]string, len(list))
	for i, o := range list {
		out[i] = o.Label()
	}
	return out
}
