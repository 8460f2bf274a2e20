package model

// TerrainType classifies a single board square. Only the properties the
// resolver needs are modelled: passability and whether the square offers cover.
type TerrainType byte

const (
	Open     TerrainType = 0 // clear ground
	Woods    TerrainType = 1 // light cover
	Rough    TerrainType = 2 // broken ground, counts as cover
	Building TerrainType = 3 // hard cover
	Water    TerrainType = 4 // impassable to formations
)

func (t TerrainType) String() string {
	switch t {
	case Open:
		return "open"
	case Woods:
		return "woods"
	case Rough:
		return "rough"
	case Building:
		return "building"
	case Water:
		return "water"
	default:
		return "unknown"
	}
}

// ParseTerrain maps a one-character board glyph to a terrain type.
// Unknown glyphs are treated as open ground.
func ParseTerrain(r rune) TerrainType {
	switch r {
	case 'W', 'w', 'T':
		return Woods
	case 'R', 'r':
		return Rough
	case 'B', 'b':
		return Building
	case '~':
		return Water
	default:
		return Open
	}
}

// Board is the coarse battlefield the resolver moves formations across.
// Path search and line of sight live outside this package; the board only
// answers bounds and terrain questions.
type Board struct {
	Width   int
	Height  int
	Terrain []TerrainType // row-major: Terrain[y*Width + x]; empty means all open
}

// NewBoard returns an all-open board of the given size.
func NewBoard(width, height int) *Board {
	return &Board{Width: width, Height: height}
}

// BoardFromRows builds a board from glyph rows (see ParseTerrain). Short
// rows are padded with open ground.
func BoardFromRows(rows []string) *Board {
	width := 0
	for _, r := range rows {
		if n := len([]rune(r)); n > width {
			width = n
		}
	}
	b := &Board{Width: width, Height: len(rows), Terrain: make([]TerrainType, width*len(rows))}
	for y, r := range rows {
		for x, ch := range []rune(r) {
			b.Terrain[y*width+x] = ParseTerrain(ch)
		}
	}
	return b
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// At returns the terrain at p. Out-of-bounds squares report Open.
func (b *Board) At(p Position) TerrainType {
	if !b.InBounds(p) || len(b.Terrain) == 0 {
		return Open
	}
	return b.Terrain[p.Y*b.Width+p.X]
}

// IsCover reports whether the square at p offers cover.
func (b *Board) IsCover(p Position) bool {
	switch b.At(p) {
	case Woods, Rough, Building:
		return true
	}
	return false
}

// Passable reports whether a formation may end its move at p.
func (b *Board) Passable(p Position) bool {
	return b.InBounds(p) && b.At(p) != Water
}

// Clamp pulls p onto the board.
func (b *Board) Clamp(p Position) Position {
	return Position{
		X: clampInt(p.X, 0, max(b.Width-1, 0)),
		Y: clampInt(p.Y, 0, max(b.Height-1, 0)),
	}
}

// OnEdge reports whether p lies on the outermost ring of squares.
func (b *Board) OnEdge(p Position) bool {
	if !b.InBounds(p) {
		return false
	}
	return p.X == 0 || p.Y == 0 || p.X == b.Width-1 || p.Y == b.Height-1
}

// HasCover returns true if any square on the board offers cover.
func (b *Board) HasCover() bool {
	for _, t := range b.Terrain {
		if t == Woods || t == Rough || t == Building {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
