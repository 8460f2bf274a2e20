package rules

import (
	"slices"

	"github.com/nstehr/vimy/vimy-resolve/model"
)

// DamagedResponse is what a role does once its armor drops below its
// retreat threshold.
type DamagedResponse int

const (
	FightOn DamagedResponse = iota
	RetreatToCover
	Disengage
)

func (d DamagedResponse) String() string {
	switch d {
	case RetreatToCover:
		return "retreat_to_cover"
	case Disengage:
		return "disengage"
	default:
		return "fight_on"
	}
}

// Role is the policy a formation fights by. Roles are plain values with
// no mutable state; two lookups of the same kind are equal.
type Role struct {
	Kind           model.RoleKind
	PreferredRange model.RangeBand
	// CoverThrough[band] reports whether the role will move through cover
	// to reach an engagement at that band.
	CoverThrough [3]bool
	// Tails roles hold their preferred distance instead of closing.
	Tails                   bool
	PrioritizesLastAttacker bool
	WhenDamaged             DamagedResponse
	// RetreatThreshold is the armor fraction below which WhenDamaged kicks in.
	RetreatThreshold float64
	PreferredTargets []model.RoleKind
}

// SeeksCoverAt reports whether the role moves through cover toward band.
func (r Role) SeeksCoverAt(band model.RangeBand) bool {
	if band < model.RangeShort || band > model.RangeLong {
		return false
	}
	return r.CoverThrough[band]
}

// Prefers reports whether kind is one of the role's favoured targets.
func (r Role) Prefers(kind model.RoleKind) bool {
	return slices.Contains(r.PreferredTargets, kind)
}

// Damaged reports whether f has taken enough punishment for WhenDamaged
// to apply.
func (r Role) Damaged(f *model.Formation) bool {
	return r.WhenDamaged != FightOn && f.ArmorFraction() < r.RetreatThreshold
}

var (
	coverAll        = [3]bool{true, true, true}
	coverNone       = [3]bool{}
	coverBeyondNear = [3]bool{false, true, true}
	coverFarOnly    = [3]bool{false, false, true}
)

// RoleRegistry maps every role kind to its strategy. Build one with
// NewRoleRegistry and share it; it is never mutated after construction.
type RoleRegistry struct {
	roles map[model.RoleKind]Role
}

// NewRoleRegistry builds the strategy table for the eight archetypes plus
// the neutral Undetermined role.
func NewRoleRegistry() *RoleRegistry {
	table := []Role{
		{
			Kind: model.RoleAmbusher, PreferredRange: model.RangeShort, CoverThrough: coverAll,
			WhenDamaged: RetreatToCover, RetreatThreshold: 0.5,
			PreferredTargets: []model.RoleKind{model.RoleJuggernaut, model.RoleBrawler, model.RoleMissileBoat},
		},
		{
			Kind: model.RoleBrawler, PreferredRange: model.RangeMedium, CoverThrough: coverBeyondNear,
			PrioritizesLastAttacker: true,
			PreferredTargets:        []model.RoleKind{model.RoleBrawler, model.RoleStriker, model.RoleSkirmisher},
		},
		{
			Kind: model.RoleJuggernaut, PreferredRange: model.RangeShort, CoverThrough: coverNone,
			PrioritizesLastAttacker: true,
			PreferredTargets:        []model.RoleKind{model.RoleBrawler, model.RoleJuggernaut},
		},
		{
			Kind: model.RoleMissileBoat, PreferredRange: model.RangeLong, CoverThrough: coverAll, Tails: true,
			WhenDamaged: RetreatToCover, RetreatThreshold: 0.5,
			PreferredTargets: []model.RoleKind{model.RoleJuggernaut, model.RoleBrawler, model.RoleSniper},
		},
		{
			Kind: model.RoleScout, PreferredRange: model.RangeLong, CoverThrough: coverAll, Tails: true,
			WhenDamaged: Disengage, RetreatThreshold: 0.75,
			PreferredTargets: []model.RoleKind{model.RoleScout, model.RoleStriker},
		},
		{
			Kind: model.RoleSkirmisher, PreferredRange: model.RangeMedium, CoverThrough: coverBeyondNear, Tails: true,
			WhenDamaged: RetreatToCover, RetreatThreshold: 0.5,
			PreferredTargets: []model.RoleKind{model.RoleMissileBoat, model.RoleSniper, model.RoleScout},
		},
		{
			Kind: model.RoleSniper, PreferredRange: model.RangeLong, CoverThrough: coverAll, Tails: true,
			WhenDamaged: RetreatToCover, RetreatThreshold: 0.5,
			PreferredTargets: []model.RoleKind{model.RoleJuggernaut, model.RoleBrawler, model.RoleMissileBoat},
		},
		{
			Kind: model.RoleStriker, PreferredRange: model.RangeShort, CoverThrough: coverFarOnly,
			PrioritizesLastAttacker: true, WhenDamaged: Disengage, RetreatThreshold: 0.5,
			PreferredTargets: []model.RoleKind{model.RoleMissileBoat, model.RoleSniper, model.RoleScout},
		},
		{
			Kind: model.RoleUndetermined, PreferredRange: model.RangeMedium, CoverThrough: coverNone,
		},
	}
	reg := &RoleRegistry{roles: make(map[model.RoleKind]Role, len(table))}
	for _, r := range table {
		reg.roles[r.Kind] = r
	}
	return reg
}

// Lookup returns the strategy for kind. Unknown kinds get the neutral
// Undetermined role.
func (r *RoleRegistry) Lookup(kind model.RoleKind) Role {
	if role, ok := r.roles[kind]; ok {
		return role
	}
	return r.roles[model.RoleUndetermined]
}
