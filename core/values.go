package core

import (
	"errors"
	"fmt"

	"github.com/zeu5/easy21-rl/game"
)

var (
	ErrInsufficientData = errors.New("insufficient training data")
)

// ValueFunction is a snapshot of learned action values. Missing keys
// were never updated and read as 0.
type ValueFunction map[game.StateAction]float64

func (v ValueFunction) Q(s game.State, a game.Action) float64 {
	return v[game.StateAction{State: s, Action: a}]
}

// V is the greedy state value max_a Q(s, a)
func (v ValueFunction) V(s game.State) float64 {
	hit, stand := v.Q(s, game.Hit), v.Q(s, game.Stand)
	if hit > stand {
		return hit
	}
	return stand
}

// Greedy returns the action with the larger estimate. The second return
// value is false when both estimates are equal.
func (v ValueFunction) Greedy(s game.State) (game.Action, bool) {
	hit, stand := v.Q(s, game.Hit), v.Q(s, game.Stand)
	switch {
	case hit > stand:
		return game.Hit, true
	case stand > hit:
		return game.Stand, true
	default:
		return game.Stand, false
	}
}

// Visited reports whether any action value of s has been recorded
func (v ValueFunction) Visited(s game.State) bool {
	for _, a := range game.Actions {
		if _, ok := v[game.StateAction{State: s, Action: a}]; ok {
			return true
		}
	}
	return false
}

// Complete returns ErrInsufficientData when some playable state has no
// estimate yet. The value function remains usable, those states read as 0.
func (v ValueFunction) Complete() error {
	states := game.States()
	missing := 0
	for _, s := range states {
		if !v.Visited(s) {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%w: %d of %d states never visited", ErrInsufficientData, missing, len(states))
	}
	return nil
}

func (v ValueFunction) Copy() ValueFunction {
	out := make(ValueFunction, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
