package rules

import "math"

// Doctrine is a player's high-level posture. Weights are 0.0–1.0; the
// compiler maps them to concrete standing orders.
type Doctrine struct {
	Name       string  `json:"name" yaml:"name"`
	Aggression float64 `json:"aggression" yaml:"aggression"`
	Caution    float64 `json:"caution" yaml:"caution"`
	Focus      float64 `json:"focus" yaml:"focus"`
}

// DefaultDoctrine returns a balanced baseline doctrine.
func DefaultDoctrine() Doctrine {
	return Doctrine{
		Name:       "Balanced",
		Aggression: 0.5,
		Caution:    0.5,
		Focus:      0.5,
	}
}

// Validate clamps all weights to their valid ranges.
func (d *Doctrine) Validate() {
	d.Aggression = clamp(d.Aggression, 0, 1)
	d.Caution = clamp(d.Caution, 0, 1)
	d.Focus = clamp(d.Focus, 0, 1)
}

// lerp linearly interpolates between min and max by t (0–1), returning an int.
func lerp(min, max int, t float64) int {
	return min + int(math.Round(float64(max-min)*t))
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
