package model

import "fmt"

// Position is a board square.
type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Distance is the number of king-move steps between two squares.
func (p Position) Distance(o Position) int {
	return max(abs(p.X-o.X), abs(p.Y-o.Y))
}

// Towards returns the square reached by stepping at most n squares from p
// toward o.
func (p Position) Towards(o Position, n int) Position {
	return Position{X: p.X + stepAxis(o.X-p.X, n), Y: p.Y + stepAxis(o.Y-p.Y, n)}
}

// Away returns the square reached by stepping at most n squares from p
// directly away from o.
func (p Position) Away(o Position, n int) Position {
	return Position{X: p.X - stepAxis(o.X-p.X, n), Y: p.Y - stepAxis(o.Y-p.Y, n)}
}

func stepAxis(d, n int) int {
	switch {
	case d > 0:
		return min(d, n)
	case d < 0:
		return -min(-d, n)
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
