package policies

import (
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
)

// TDLambdaPolicy is backward-view Sarsa(lambda) control with accumulating
// traces. Every step updates all pairs still eligible in the episode.
type TDLambdaPolicy struct {
	*learner
	lambda float64
	traces *Traces
}

var _ core.Policy = &TDLambdaPolicy{}
var _ core.ValueReader = &TDLambdaPolicy{}

func NewTDLambdaPolicy(n0, lambda float64, seed uint64) *TDLambdaPolicy {
	return &TDLambdaPolicy{
		learner: newLearner(n0, seed),
		lambda:  lambda,
		traces:  NewTraces(),
	}
}

func (t *TDLambdaPolicy) Traces() *Traces {
	return t.traces
}

func (t *TDLambdaPolicy) Reset() {
	t.learner.Reset()
	t.traces.Reset()
}

func (t *TDLambdaPolicy) ResetEpisode(eCtx *core.EpisodeContext) {
	t.learner.ResetEpisode(eCtx)
	t.traces.Reset()
}

func (t *TDLambdaPolicy) UpdateStep(_ *core.StepContext, step *core.Step) {
	sa := step.StateAction()

	// Q(s', a') of a terminal state is 0
	target := step.Reward.Float()
	if !step.Terminal {
		target += t.qTable.get(step.NextStateAction())
	}
	delta := target - t.qTable.get(sa)

	t.traces.increment(sa)
	t.traces.update(t.lambda, func(pair game.StateAction, e float64) {
		t.qTable.add(pair, delta*e/float64(t.visits.pair(pair)))
	})
}

func (t *TDLambdaPolicy) UpdateEpisode(_ *core.EpisodeContext) {
	t.trajectory.Clear()
}

type TDLambdaPolicyConstructor struct {
	N0     float64
	Lambda float64
	Seed   uint64
}

var _ core.PolicyConstructor = &TDLambdaPolicyConstructor{}

func NewTDLambdaPolicyConstructor(n0, lambda float64, seed uint64) *TDLambdaPolicyConstructor {
	return &TDLambdaPolicyConstructor{
		N0:     n0,
		Lambda: lambda,
		Seed:   seed,
	}
}

func (t *TDLambdaPolicyConstructor) NewPolicy() core.Policy {
	return NewTDLambdaPolicy(t.N0, t.Lambda, t.Seed)
}
