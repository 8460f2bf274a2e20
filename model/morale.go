package model

// MoraleStatus is a formation's will to keep fighting. It only ever
// escalates: a failed check moves it one step toward Routed.
type MoraleStatus int

const (
	MoraleNormal MoraleStatus = iota
	MoraleShaken
	MoraleUnsteady
	MoraleBroken
	MoraleRouted
)

func (m MoraleStatus) String() string {
	switch m {
	case MoraleNormal:
		return "Normal"
	case MoraleShaken:
		return "Shaken"
	case MoraleUnsteady:
		return "Unsteady"
	case MoraleBroken:
		return "Broken"
	case MoraleRouted:
		return "Routed"
	default:
		return "Unknown"
	}
}

// Next returns the following status, saturating at MoraleRouted.
func (m MoraleStatus) Next() MoraleStatus {
	if m >= MoraleRouted {
		return MoraleRouted
	}
	if m < MoraleNormal {
		return MoraleShaken
	}
	return m + 1
}

// Level is the number of steps away from Normal.
func (m MoraleStatus) Level() int { return int(m) }

// IsRouted reports whether the formation has reached the terminal state.
func (m MoraleStatus) IsRouted() bool { return m >= MoraleRouted }
