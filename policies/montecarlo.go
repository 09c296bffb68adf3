package policies

import (
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
)

// MonteCarloPolicy is every-visit Monte Carlo control. The table is only
// updated once the episode's terminal reward is known.
type MonteCarloPolicy struct {
	*learner
	reward game.Reward
}

var _ core.Policy = &MonteCarloPolicy{}
var _ core.ValueReader = &MonteCarloPolicy{}

func NewMonteCarloPolicy(n0 float64, seed uint64) *MonteCarloPolicy {
	return &MonteCarloPolicy{
		learner: newLearner(n0, seed),
	}
}

func (m *MonteCarloPolicy) ResetEpisode(eCtx *core.EpisodeContext) {
	m.learner.ResetEpisode(eCtx)
	m.reward = game.NoReward
}

func (m *MonteCarloPolicy) UpdateStep(_ *core.StepContext, step *core.Step) {
	if step.Terminal {
		m.reward = step.Reward
	}
}

func (m *MonteCarloPolicy) UpdateEpisode(_ *core.EpisodeContext) {
	m.update(m.reward.Float())
}

// update moves every visited pair towards the episode return. The return
// equals the terminal reward since there is no discounting. Each visit
// divides by the count it was recorded with, which keeps Q(s, a) the exact
// mean of its returns even when a pair repeats within an episode.
func (m *MonteCarloPolicy) update(ret float64) {
	for _, v := range m.trajectory.Visits() {
		q := m.qTable.get(v.StateAction)
		m.qTable.add(v.StateAction, (ret-q)/float64(v.Count))
	}
	m.trajectory.Clear()
}

type MonteCarloPolicyConstructor struct {
	N0   float64
	Seed uint64
}

var _ core.PolicyConstructor = &MonteCarloPolicyConstructor{}

func NewMonteCarloPolicyConstructor(n0 float64, seed uint64) *MonteCarloPolicyConstructor {
	return &MonteCarloPolicyConstructor{
		N0:   n0,
		Seed: seed,
	}
}

func (m *MonteCarloPolicyConstructor) NewPolicy() core.Policy {
	return NewMonteCarloPolicy(m.N0, m.Seed)
}
