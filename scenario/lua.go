package scenario

import (
	"bytes"
	"fmt"
	"math"

	"github.com/Shopify/go-lua"
	"gopkg.in/yaml.v3"
)

const scenarioTypeName = "vimy.scenario"

// LoadLua runs a scenario script. The script builds its battle through the
// Scenario DSL and must return the Scenario it built:
//
//	local s = Scenario.new("Ridge Line")
//	s:board{width = 20, height = 10}
//	s:player{id = 1, name = "Alpha"}
//	s:formation{id = 1, player = 1, role = "brawler", position = {x = 2, y = 5},
//	  units = {{name = "Atlas", bv = 1000, armor = 10, damage = {10, 10, 10}}}}
//	return s
//
// Method arguments use the same field names as the YAML document.
func LoadLua(path string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("%w: load lua: %w", ErrInvalidScenario, err)
	}
	return runLua(state)
}

// ParseLua runs a scenario script held in memory.
func ParseLua(src string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadString(state, src); err != nil {
		return nil, fmt.Errorf("%w: load lua: %w", ErrInvalidScenario, err)
	}
	return runLua(state)
}

func newLuaState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)

	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
	return state
}

func runLua(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("%w: run lua: %w", ErrInvalidScenario, err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("%w: script must return a Scenario", ErrInvalidScenario)
	}
	s, ok := state.ToUserData(-1).(*Scenario)
	state.Pop(1)
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: script returned something other than a Scenario", ErrInvalidScenario)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func scenarioNew(state *lua.State) int {
	state.PushUserData(&Scenario{Name: lua.OptString(state, 1, "")})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "seed", Function: scenarioSeed},
	{Name: "board", Function: scenarioBoard},
	{Name: "planetary", Function: scenarioPlanetary},
	{Name: "options", Function: scenarioOptions},
	{Name: "player", Function: scenarioPlayer},
	{Name: "formation", Function: scenarioFormation},
	{Name: "order", Function: scenarioOrder},
	{Name: "victory", Function: scenarioVictory},
	{Name: "draw_when", Function: scenarioDrawWhen},
}

// Every method returns the scenario so calls can be chained.

func scenarioSeed(state *lua.State) int {
	s := checkScenario(state)
	s.Seed = int64(lua.CheckInteger(state, 2))
	state.PushValue(1)
	return 1
}

func scenarioBoard(state *lua.State) int {
	s := checkScenario(state)
	decodeArg(state, "board", &s.Board)
	state.PushValue(1)
	return 1
}

func scenarioPlanetary(state *lua.State) int {
	s := checkScenario(state)
	decodeArg(state, "planetary", &s.Planetary)
	state.PushValue(1)
	return 1
}

func scenarioOptions(state *lua.State) int {
	s := checkScenario(state)
	decodeArg(state, "options", &s.Options)
	state.PushValue(1)
	return 1
}

func scenarioPlayer(state *lua.State) int {
	s := checkScenario(state)
	var p Player
	decodeArg(state, "player", &p)
	s.Players = append(s.Players, p)
	state.PushValue(1)
	return 1
}

func scenarioFormation(state *lua.State) int {
	s := checkScenario(state)
	var f Formation
	decodeArg(state, "formation", &f)
	s.Formations = append(s.Formations, f)
	state.PushValue(1)
	return 1
}

func scenarioOrder(state *lua.State) int {
	s := checkScenario(state)
	var o Order
	decodeArg(state, "order", &o)
	s.Orders = append(s.Orders, o)
	state.PushValue(1)
	return 1
}

func scenarioVictory(state *lua.State) int {
	s := checkScenario(state)
	decodeArg(state, "victory", &s.Victory)
	state.PushValue(1)
	return 1
}

// scenarioDrawWhen(name, expr [, player]) adds a draw trigger.
func scenarioDrawWhen(state *lua.State) int {
	s := checkScenario(state)
	s.Victory.DrawTriggers = append(s.Victory.DrawTriggers, Trigger{
		Name:   lua.CheckString(state, 2),
		When:   lua.CheckString(state, 3),
		Player: lua.OptInteger(state, 4, 0),
	})
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	if s, ok := lua.CheckUserData(state, 1, scenarioTypeName).(*Scenario); ok && s != nil {
		return s
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

// decodeArg converts the table argument into out by way of the YAML
// decoder, so scripts and documents share one set of field names.
func decodeArg(state *lua.State, method string, out any) {
	lua.CheckType(state, 2, lua.TypeTable)
	data, err := yaml.Marshal(tableToMap(state, 2))
	if err != nil {
		lua.Errorf(state, "%s: %s", method, err.Error())
		return
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		lua.Errorf(state, "%s: %s", method, err.Error())
	}
}

func tableToMap(state *lua.State, index int) map[string]any {
	out := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return out
	}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			out[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return out
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		v, _ := state.ToString(index)
		return v
	case lua.TypeNumber:
		v, _ := state.ToNumber(index)
		if math.Mod(v, 1) == 0 {
			return int(v)
		}
		return v
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a slice for sequence tables and a map otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray, maxIndex, count := true, 0, 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if idx, ok := state.ToInteger(-2); state.TypeOf(-2) == lua.TypeNumber && ok && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}
	if isArray && count > 0 && maxIndex == count {
		out := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			out = append(out, luaToGo(state, -1))
			state.Pop(1)
		}
		return out
	}
	return tableToMap(state, index)
}
