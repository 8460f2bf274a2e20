package model

// Key names a typed slot in a Memory. Two keys with the same name address the
// same slot, so every key used by the resolver is declared once below.
type Key[T any] struct {
	name string
}

// NewKey declares a memory slot holding values of type T.
func NewKey[T any](name string) Key[T] { return Key[T]{name: name} }

func (k Key[T]) Name() string { return k.name }

// Keys carried on formation memory. Each is written by exactly one handler
// and read by the strategy and combat layers.
var (
	// FoundCover is set by the move-to-cover handler; read by combat when the
	// formation is targeted. Cleared when the formation moves again.
	FoundCover = NewKey[bool]("found_cover")
	// Withdrawing marks a formation falling back; the movement reporter then
	// describes target-less moves as retreats. Cleared whenever the strategy
	// proposes a move that is not a fall-back.
	Withdrawing = NewKey[bool]("withdrawing")
	// LastAttacker is the formation ID that most recently fired on this one.
	LastAttacker = NewKey[int]("last_attacker")
	// DamagedThisRound accumulates damage points taken during the current round.
	DamagedThisRound = NewKey[int]("damaged_this_round")
	// UnitsLostThisRound counts units destroyed during the current round.
	UnitsLostThisRound = NewKey[int]("units_lost_this_round")
)

// Memory is a small typed scratch store scoped to the lifetime of its owner
// (a formation, or one victory evaluation).
type Memory struct {
	values map[string]any
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

// Get returns the value stored under k and whether it was present.
func Get[T any](m *Memory, k Key[T]) (T, bool) {
	var zero T
	if m == nil || m.values == nil {
		return zero, false
	}
	v, ok := m.values[k.name].(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// GetOr returns the value stored under k, or def when absent.
func GetOr[T any](m *Memory, k Key[T], def T) T {
	if v, ok := Get(m, k); ok {
		return v
	}
	return def
}

// Set stores v under k.
func Set[T any](m *Memory, k Key[T], v T) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[k.name] = v
}

// Delete removes the value stored under k.
func Delete[T any](m *Memory, k Key[T]) {
	if m == nil || m.values == nil {
		return
	}
	delete(m.values, k.name)
}

// Has reports whether anything is stored under k.
func Has[T any](m *Memory, k Key[T]) bool {
	_, ok := Get(m, k)
	return ok
}

// Clear empties the store.
func (m *Memory) Clear() {
	clear(m.values)
}

// Len is the number of stored values.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}
