package model

import "fmt"

// RangeBand buckets engagement distance.
type RangeBand int

const (
	RangeShort RangeBand = iota
	RangeMedium
	RangeLong
)

// Engagement distances in board squares.
const (
	ShortRange  = 3
	MediumRange = 8
	LongRange   = 14
)

func (r RangeBand) String() string {
	switch r {
	case RangeShort:
		return "short"
	case RangeMedium:
		return "medium"
	case RangeLong:
		return "long"
	default:
		return "unknown"
	}
}

// BandFor returns the band a distance falls into, or false when the target
// is beyond long range.
func BandFor(distance int) (RangeBand, bool) {
	switch {
	case distance <= ShortRange:
		return RangeShort, true
	case distance <= MediumRange:
		return RangeMedium, true
	case distance <= LongRange:
		return RangeLong, true
	default:
		return RangeLong, false
	}
}

// IdealDistance is the stand-off a formation aims for when it prefers band r.
func (r RangeBand) IdealDistance() int {
	switch r {
	case RangeShort:
		return 1
	case RangeMedium:
		return 6
	default:
		return 11
	}
}

// Unit is one element of a formation as far as the resolver cares: how much
// it is worth, how much punishment it can take, and what it deals per band.
type Unit struct {
	Name     string `yaml:"name" json:"name"`
	BV       int    `yaml:"bv" json:"bv"`
	Armor    int    `yaml:"armor" json:"armor"`
	MaxArmor int    `yaml:"max_armor,omitempty" json:"max_armor,omitempty"`
	Damage   [3]int `yaml:"damage" json:"damage"` // short, medium, long
}

// Destroyed reports whether the unit has no armor left.
func (u Unit) Destroyed() bool { return u.Armor <= 0 }

// Default movement and skill for formations that don't specify them.
const (
	DefaultSkill    = 4
	DefaultMovement = 4
)

// Formation is the unit of combat granularity: a group of units that moves,
// fires and breaks together.
type Formation struct {
	ID          int
	Name        string
	PlayerID    int
	Position    Position
	Morale      MoraleStatus
	Role        RoleKind
	Skill       int // base 2d6 target for attacks and nerve checks
	Movement    int // squares per movement phase
	Units       []Unit
	Memory      *Memory
	Done        bool
	Deployed    bool
	DeployRound int
	Withdrawn   bool
}

// NewFormation returns a formation with defaults applied. Units' MaxArmor is
// filled from Armor when unset.
func NewFormation(id, playerID int, name string, role RoleKind, pos Position, units []Unit) *Formation {
	us := make([]Unit, len(units))
	copy(us, units)
	for i := range us {
		if us[i].MaxArmor == 0 {
			us[i].MaxArmor = us[i].Armor
		}
	}
	return &Formation{
		ID:       id,
		Name:     name,
		PlayerID: playerID,
		Position: pos,
		Role:     role,
		Skill:    DefaultSkill,
		Movement: DefaultMovement,
		Units:    us,
		Memory:   NewMemory(),
	}
}

// Label is the display name used in reports.
func (f *Formation) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("Formation #%d", f.ID)
}

// LiveUnits counts units that are not destroyed.
func (f *Formation) LiveUnits() int {
	n := 0
	for _, u := range f.Units {
		if !u.Destroyed() {
			n++
		}
	}
	return n
}

// Live reports whether the formation still has units on the battlefield.
func (f *Formation) Live() bool {
	return !f.Withdrawn && f.LiveUnits() > 0
}

// Active reports whether the formation is deployed and live.
func (f *Formation) Active() bool {
	return f.Deployed && f.Live()
}

// InitialBV is the Battle Value the formation started with.
func (f *Formation) InitialBV() int {
	total := 0
	for _, u := range f.Units {
		total += u.BV
	}
	return total
}

// CurrentBV counts surviving units still on the battlefield.
func (f *Formation) CurrentBV() int {
	if f.Withdrawn {
		return 0
	}
	total := 0
	for _, u := range f.Units {
		if !u.Destroyed() {
			total += u.BV
		}
	}
	return total
}

// Damage is the damage the formation's surviving units deal at band r.
func (f *Formation) Damage(r RangeBand) int {
	total := 0
	for _, u := range f.Units {
		if !u.Destroyed() {
			total += u.Damage[r]
		}
	}
	return total
}

// ArmorFraction is remaining armor over starting armor across all units.
func (f *Formation) ArmorFraction() float64 {
	cur, maxA := 0, 0
	for _, u := range f.Units {
		maxA += u.MaxArmor
		if u.Armor > 0 {
			cur += u.Armor
		}
	}
	if maxA == 0 {
		return 0
	}
	return float64(cur) / float64(maxA)
}

// ApplyDamage allocates points to surviving units in roster order, spilling
// over into the next unit when one is destroyed. It returns the number of
// units destroyed.
func (f *Formation) ApplyDamage(points int) int {
	lost := 0
	for i := range f.Units {
		if points <= 0 {
			break
		}
		u := &f.Units[i]
		if u.Destroyed() {
			continue
		}
		take := min(points, u.Armor)
		u.Armor -= take
		points -= take
		if u.Destroyed() {
			lost++
		}
	}
	return lost
}
