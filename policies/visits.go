package policies

import "github.com/zeu5/easy21-rl/game"

// Visits counts N(s) and N(s, a) over the lifetime of a learner.
// Counts only ever grow.
type Visits struct {
	states map[game.State]int
	pairs  map[game.StateAction]int
}

func NewVisits() *Visits {
	return &Visits{
		states: make(map[game.State]int),
		pairs:  make(map[game.StateAction]int),
	}
}

// RecordState increments N(s) and returns the new count
func (v *Visits) RecordState(s game.State) int {
	v.states[s]++
	return v.states[s]
}

// RecordStateAction increments N(s, a) and returns the new count
func (v *Visits) RecordStateAction(s game.State, a game.Action) int {
	sa := game.StateAction{State: s, Action: a}
	v.pairs[sa]++
	return v.pairs[sa]
}

func (v *Visits) State(s game.State) int {
	return v.states[s]
}

func (v *Visits) StateAction(s game.State, a game.Action) int {
	return v.pairs[game.StateAction{State: s, Action: a}]
}

func (v *Visits) pair(sa game.StateAction) int {
	return v.pairs[sa]
}
