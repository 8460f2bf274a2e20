package model

import "strings"

// RoleKind is the tactical archetype a formation fights as.
type RoleKind int

const (
	RoleUndetermined RoleKind = iota
	RoleAmbusher
	RoleBrawler
	RoleJuggernaut
	RoleMissileBoat
	RoleScout
	RoleSkirmisher
	RoleSniper
	RoleStriker
)

// RoleKinds lists the eight archetypes, excluding Undetermined.
var RoleKinds = []RoleKind{
	RoleAmbusher, RoleBrawler, RoleJuggernaut, RoleMissileBoat,
	RoleScout, RoleSkirmisher, RoleSniper, RoleStriker,
}

func (r RoleKind) String() string {
	switch r {
	case RoleAmbusher:
		return "ambusher"
	case RoleBrawler:
		return "brawler"
	case RoleJuggernaut:
		return "juggernaut"
	case RoleMissileBoat:
		return "missile_boat"
	case RoleScout:
		return "scout"
	case RoleSkirmisher:
		return "skirmisher"
	case RoleSniper:
		return "sniper"
	case RoleStriker:
		return "striker"
	default:
		return "undetermined"
	}
}

// ParseRoleKind accepts the String form as well as spaced or hyphenated
// variants ("Missile Boat", "missile-boat"). Unknown names return
// RoleUndetermined, false.
func ParseRoleKind(s string) (RoleKind, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if norm == "missileboat" {
		norm = "missile_boat"
	}
	for _, r := range RoleKinds {
		if r.String() == norm {
			return r, true
		}
	}
	return RoleUndetermined, norm == "undetermined" || norm == ""
}
