package policies

import "github.com/zeu5/easy21-rl/game"

// Traces is the eligibility trace table E(s, a) of a single episode
type Traces struct {
	weights map[game.StateAction]float64
}

func NewTraces() *Traces {
	return &Traces{
		weights: make(map[game.StateAction]float64),
	}
}

func (t *Traces) Reset() {
	clear(t.weights)
}

func (t *Traces) Get(s game.State, a game.Action) float64 {
	return t.weights[game.StateAction{State: s, Action: a}]
}

func (t *Traces) increment(sa game.StateAction) {
	t.weights[sa]++
}

// Len is the number of pairs visited in the current episode
func (t *Traces) Len() int {
	return len(t.weights)
}

// update calls f for every pair with a non-zero trace and then decays
// that trace by lambda
func (t *Traces) update(lambda float64, f func(game.StateAction, float64)) {
	for sa, e := range t.weights {
		if e == 0 {
			continue
		}
		f(sa, e)
		t.weights[sa] = e * lambda
	}
}
