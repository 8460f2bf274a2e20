package sim

import "github.com/nstehr/vimy/vimy-resolve/model"

// CombatResolver is the narrow view of the combat engine the resolver
// needs: a 2d6 target number for an attack and the damage a hit deals.
type CombatResolver interface {
	// ToHit returns the target number for attacker firing on target and the
	// range band of the shot. ok is false when the target is out of range.
	ToHit(b *model.Battle, attacker, target *model.Formation) (tn int, band model.RangeBand, ok bool)
	// Damage is the damage a hit deals; margin is roll minus target number.
	Damage(attacker *model.Formation, band model.RangeBand, margin int) int
}

// Attack modifiers.
const (
	MediumRangeModifier = 2
	LongRangeModifier   = 4
	CoverModifier       = 1
	// MinTargetNumber is the lowest target a 2d6 roll is ever asked for.
	MinTargetNumber = 2
	// CriticalMargin is how far a roll must beat its target to deal extra damage.
	CriticalMargin = 4
)

// AbstractCombat resolves a whole formation's fire as a single 2d6 roll
// against skill plus range, cover, morale and planetary modifiers.
type AbstractCombat struct{}

func (AbstractCombat) ToHit(b *model.Battle, attacker, target *model.Formation) (int, model.RangeBand, bool) {
	band, ok := model.BandFor(attacker.Position.Distance(target.Position))
	if !ok {
		return 0, band, false
	}
	tn := attacker.Skill
	switch band {
	case model.RangeMedium:
		tn += MediumRangeModifier
	case model.RangeLong:
		tn += LongRangeModifier
	}
	if model.GetOr(target.Memory, model.FoundCover, false) {
		tn += CoverModifier
	}
	tn += attacker.Morale.Level()
	if b != nil {
		tn += b.Planetary.FireModifier()
	}
	return max(tn, MinTargetNumber), band, true
}

func (AbstractCombat) Damage(attacker *model.Formation, band model.RangeBand, margin int) int {
	dmg := attacker.Damage(band)
	if margin >= CriticalMargin {
		dmg += dmg / 2
	}
	return dmg
}

// Morale modifiers for the recovering-nerve check.
const (
	// HeavyDamageThreshold is the armor fraction below which a formation
	// checks at HeavyDamageModifier.
	HeavyDamageThreshold = 0.5
	HeavyDamageModifier  = 2
)

// RecoverNerveTarget is the 2d6 target a formation must meet to keep its
// morale: skill, plus the steps it has already slipped, plus one per unit
// lost this round, plus a penalty once badly damaged.
func RecoverNerveTarget(f *model.Formation) int {
	tn := f.Skill + f.Morale.Level() + model.GetOr(f.Memory, model.UnitsLostThisRound, 0)
	if f.ArmorFraction() < HeavyDamageThreshold {
		tn += HeavyDamageModifier
	}
	return max(tn, MinTargetNumber)
}
