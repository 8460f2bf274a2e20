package model

// NoTeam marks a player fighting on their own.
const NoTeam = 0

// Player is one side of the battle. Players sharing a non-zero Team fight
// together.
type Player struct {
	ID         int
	Name       string
	Team       int
	Initiative int // last initiative roll total
}

// Light, Weather and Wind are the environmental conditions that affect fire.
type (
	Light   string
	Weather string
	Wind    string
)

const (
	LightDay      Light = "day"
	LightDusk     Light = "dusk"
	LightFullMoon Light = "full_moon"
	LightMoonless Light = "moonless"

	WeatherClear     Weather = "clear"
	WeatherLightRain Weather = "light_rain"
	WeatherHeavyRain Weather = "heavy_rain"
	WeatherFog       Weather = "fog"
	WeatherSnow      Weather = "snow"

	WindCalm     Wind = "calm"
	WindModerate Wind = "moderate"
	WindStrong   Wind = "strong"
)

// Planetary holds the conditions the battle is fought under.
type Planetary struct {
	Light   Light   `yaml:"light" json:"light"`
	Weather Weather `yaml:"weather" json:"weather"`
	Wind    Wind    `yaml:"wind" json:"wind"`
}

// FireModifier is the penalty added to every attack's target number.
func (p Planetary) FireModifier() int {
	mod := 0
	switch p.Light {
	case LightDusk:
		mod++
	case LightFullMoon:
		mod += 2
	case LightMoonless:
		mod += 3
	}
	switch p.Weather {
	case WeatherLightRain, WeatherFog, WeatherSnow:
		mod++
	case WeatherHeavyRain:
		mod += 2
	}
	if p.Wind == WindStrong {
		mod++
	}
	return mod
}

// Options are per-run feature flags.
type Options struct {
	// CheckVictory forces timer-gated victory conditions to be checked every round.
	CheckVictory bool `yaml:"check_victory" json:"check_victory"`
	// RoundLimit is the game timer; 0 disables it.
	RoundLimit int `yaml:"round_limit" json:"round_limit"`
	// SuppressLogging drops per-action logging and narrative reports.
	SuppressLogging bool `yaml:"suppress_logging" json:"suppress_logging"`
}

// Battle is the data half of a simulation context: everything conditions
// and victory evaluators are allowed to read.
type Battle struct {
	Round      int
	Phase      Phase
	Formations []*Formation
	Players    []*Player
	Board      *Board
	Planetary  Planetary
	Options    Options
}

// Formation looks up a formation by ID.
func (b *Battle) Formation(id int) (*Formation, bool) {
	for _, f := range b.Formations {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Player looks up a player by ID.
func (b *Battle) Player(id int) (*Player, bool) {
	for _, p := range b.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// FormationsOf returns the formations owned by a player, in roster order.
func (b *Battle) FormationsOf(playerID int) []*Formation {
	var out []*Formation
	for _, f := range b.Formations {
		if f.PlayerID == playerID {
			out = append(out, f)
		}
	}
	return out
}

// TeamOf returns the player's team, NoTeam for unknown players.
func (b *Battle) TeamOf(playerID int) int {
	if p, ok := b.Player(playerID); ok {
		return p.Team
	}
	return NoTeam
}

// IsEnemy reports whether two players fight on opposite sides.
func (b *Battle) IsEnemy(a, c int) bool {
	if a == c {
		return false
	}
	ta, tc := b.TeamOf(a), b.TeamOf(c)
	return ta == NoTeam || tc == NoTeam || ta != tc
}

// Enemies returns the active formations hostile to playerID.
func (b *Battle) Enemies(playerID int) []*Formation {
	var out []*Formation
	for _, f := range b.Formations {
		if f.Active() && b.IsEnemy(playerID, f.PlayerID) {
			out = append(out, f)
		}
	}
	return out
}

// LivePlayers returns players with at least one deployed, live formation.
func (b *Battle) LivePlayers() []*Player {
	var out []*Player
	for _, p := range b.Players {
		for _, f := range b.Formations {
			if f.PlayerID == p.ID && f.Active() {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// CurrentBV sums the current Battle Value of a player's formations.
func (b *Battle) CurrentBV(playerID int) int {
	total := 0
	for _, f := range b.FormationsOf(playerID) {
		total += f.CurrentBV()
	}
	return total
}

// InitialBV sums the starting Battle Value of a player's formations.
func (b *Battle) InitialBV(playerID int) int {
	total := 0
	for _, f := range b.FormationsOf(playerID) {
		total += f.InitialBV()
	}
	return total
}

// TimerExpired reports whether the game timer has run out.
func (b *Battle) TimerExpired() bool {
	return b.Options.RoundLimit > 0 && b.Round >= b.Options.RoundLimit
}
