package model

// Phase is one stage of the fixed round cycle.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseInitiative
	PhaseDeployment
	PhaseMovement
	PhaseFiring
	PhaseEnd
	PhaseVictory
)

// Phases lists every phase in cycle order.
var Phases = []Phase{PhaseStart, PhaseInitiative, PhaseDeployment, PhaseMovement, PhaseFiring, PhaseEnd, PhaseVictory}

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseInitiative:
		return "initiative"
	case PhaseDeployment:
		return "deployment"
	case PhaseMovement:
		return "movement"
	case PhaseFiring:
		return "firing"
	case PhaseEnd:
		return "end"
	case PhaseVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// ParsePhase is the inverse of String. Unknown names map to PhaseStart, false.
func ParsePhase(s string) (Phase, bool) {
	for _, p := range Phases {
		if p.String() == s {
			return p, true
		}
	}
	return PhaseStart, false
}

// IsDecision reports whether formations act individually in this phase.
func (p Phase) IsDecision() bool {
	switch p {
	case PhaseDeployment, PhaseMovement, PhaseFiring:
		return true
	}
	return false
}

// Next returns the phase that follows p. Victory loops back to Initiative.
func (p Phase) Next() Phase {
	if p == PhaseVictory {
		return PhaseInitiative
	}
	return p + 1
}
