package core

import "github.com/zeu5/easy21-rl/game"

// Step is one SARSA transition of an episode
type Step struct {
	State      game.State
	Action     game.Action
	Reward     game.Reward
	NextState  game.State
	NextAction game.Action
	Terminal   bool

	// DealerSum is the dealer's final sum when the step ended the episode with a STAND
	DealerSum int
}

func (s *Step) StateAction() game.StateAction {
	return game.StateAction{State: s.State, Action: s.Action}
}

func (s *Step) NextStateAction() game.StateAction {
	return game.StateAction{State: s.NextState, Action: s.NextAction}
}

// Trace records the steps of one episode in order. It is only touched by
// the goroutine running the episode and its analyzers afterwards.
type Trace struct {
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0, 4),
	}
}

func (t *Trace) AddStep(s *Step) {
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	return t.steps[i]
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	return t.steps[len(t.steps)-1]
}

// Return is the undiscounted sum of the rewards observed in the episode
func (t *Trace) Return() float64 {
	total := 0.0
	for _, s := range t.steps {
		total += s.Reward.Float()
	}
	return total
}
