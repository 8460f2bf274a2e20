package model

import "testing"

func TestBoardFromRowsAt(t *testing.T) {
	b := BoardFromRows([]string{
		"..WW",
		"..~~",
		"RB..",
		"T",
	})
	if b.Width != 4 || b.Height != 4 {
		t.Fatalf("size = %dx%d, want 4x4", b.Width, b.Height)
	}

	tests := []struct {
		x, y int
		want TerrainType
	}{
		{0, 0, Open},
		{2, 0, Woods},
		{2, 1, Water},
		{0, 2, Rough},
		{1, 2, Building},
		{0, 3, Woods},
		{3, 3, Open}, // padded
	}
	for _, tc := range tests {
		got := b.At(Position{X: tc.x, Y: tc.y})
		if got != tc.want {
			t.Errorf("At(%d, %d) = %s, want %s", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestBoardAtOutOfBounds(t *testing.T) {
	b := BoardFromRows([]string{"~~", "~~"})

	// Out-of-bounds squares read as open ground.
	for _, p := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := b.At(p); got != Open {
			t.Errorf("At%s = %s, want open", p, got)
		}
	}
}

func TestBoardEmptyTerrainIsOpen(t *testing.T) {
	b := NewBoard(5, 5)
	if got := b.At(Position{X: 2, Y: 2}); got != Open {
		t.Errorf("At(2,2) = %s, want open", got)
	}
	if b.HasCover() {
		t.Error("HasCover() = true on an all-open board")
	}
}

func TestBoardCoverAndPassable(t *testing.T) {
	b := BoardFromRows([]string{"W~.B"})

	tests := []struct {
		x        int
		cover    bool
		passable bool
	}{
		{0, true, true},
		{1, false, false},
		{2, false, true},
		{3, true, true},
	}
	for _, tc := range tests {
		p := Position{X: tc.x}
		if got := b.IsCover(p); got != tc.cover {
			t.Errorf("IsCover%s = %v, want %v", p, got, tc.cover)
		}
		if got := b.Passable(p); got != tc.passable {
			t.Errorf("Passable%s = %v, want %v", p, got, tc.passable)
		}
	}
	if !b.HasCover() {
		t.Error("HasCover() = false, want true")
	}
	if b.Passable(Position{X: 9}) {
		t.Error("off-board square should not be passable")
	}
}

func TestBoardClamp(t *testing.T) {
	b := NewBoard(10, 6)

	tests := []struct {
		in, want Position
	}{
		{Position{3, 3}, Position{3, 3}},
		{Position{-4, 2}, Position{0, 2}},
		{Position{12, -1}, Position{9, 0}},
		{Position{9, 6}, Position{9, 5}},
	}
	for _, tc := range tests {
		if got := b.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp%s = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestPositionDistanceAndSteps(t *testing.T) {
	a := Position{X: 1, Y: 1}
	c := Position{X: 6, Y: 3}

	if got := a.Distance(c); got != 5 {
		t.Errorf("Distance = %d, want 5", got)
	}
	if got := a.Towards(c, 2); got != (Position{3, 3}) {
		t.Errorf("Towards(2) = %s, want (3,3)", got)
	}
	if got := a.Towards(c, 10); got != c {
		t.Errorf("Towards(10) = %s, want %s", got, c)
	}
	if got := a.Away(c, 1); got != (Position{0, 0}) {
		t.Errorf("Away(1) = %s, want (0,0)", got)
	}
}

func TestParseTerrain(t *testing.T) {
	tests := []struct {
		r    rune
		want TerrainType
	}{
		{'W', Woods}, {'w', Woods}, {'T', Woods},
		{'R', Rough}, {'b', Building}, {'~', Water},
		{'.', Open}, {'?', Open},
	}
	for _, tc := range tests {
		if got := ParseTerrain(tc.r); got != tc.want {
			t.Errorf("ParseTerrain(%q) = %s, want %s", tc.r, got, tc.want)
		}
	}
}
