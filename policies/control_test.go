package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
)

// visit records (s, a) the way the exploration policy would
func visit(l *learner, s game.State, a game.Action) {
	l.visits.RecordState(s)
	n := l.visits.RecordStateAction(s, a)
	l.trajectory.Add(s, a, n)
}

func terminalStep(s game.State, a game.Action, r game.Reward) *core.Step {
	return &core.Step{State: s, Action: a, Reward: r, NextState: s, Terminal: true}
}

func TestMonteCarlo_RepeatedPairIsIncrementalMean(t *testing.T) {
	p := NewMonteCarloPolicy(40, 1)
	s := game.State{Dealer: 6, Player: 14}

	p.ResetEpisode(nil)
	visit(p.learner, s, game.Hit)
	visit(p.learner, s, game.Hit)
	require.Equal(t, 2, p.Visits().StateAction(s, game.Hit))

	p.UpdateStep(nil, terminalStep(s, game.Hit, game.Win))
	p.UpdateEpisode(nil)

	assert.Equal(t, 1.0, p.QTable().Get(s, game.Hit))
	assert.Zero(t, p.trajectory.Len())
}

func TestMonteCarlo_SampleMeanAcrossEpisodes(t *testing.T) {
	p := NewMonteCarloPolicy(40, 1)
	s := game.State{Dealer: 2, Player: 19}
	rewards := []game.Reward{game.Win, game.Lose, game.Win, game.Draw}

	for _, r := range rewards {
		p.ResetEpisode(nil)
		visit(p.learner, s, game.Stand)
		p.UpdateStep(nil, terminalStep(s, game.Stand, r))
		p.UpdateEpisode(nil)
	}
	assert.InDelta(t, 0.25, p.QTable().Get(s, game.Stand), 1e-12)
}

func TestMonteCarlo_EveryPairGetsTerminalReward(t *testing.T) {
	p := NewMonteCarloPolicy(40, 1)
	s1 := game.State{Dealer: 5, Player: 8}
	s2 := game.State{Dealer: 5, Player: 15}

	p.ResetEpisode(nil)
	visit(p.learner, s1, game.Hit)
	p.UpdateStep(nil, &core.Step{State: s1, Action: game.Hit, Reward: game.NoReward, NextState: s2, NextAction: game.Stand})
	visit(p.learner, s2, game.Stand)
	p.UpdateStep(nil, terminalStep(s2, game.Stand, game.Lose))
	p.UpdateEpisode(nil)

	assert.Equal(t, -1.0, p.QTable().Get(s1, game.Hit))
	assert.Equal(t, -1.0, p.QTable().Get(s2, game.Stand))
}

func TestTDLambda_ZeroLambdaClearsTrace(t *testing.T) {
	p := NewTDLambdaPolicy(40, 0, 1)
	s1 := game.State{Dealer: 9, Player: 10}
	s2 := game.State{Dealer: 9, Player: 17}

	p.ResetEpisode(nil)
	visit(p.learner, s1, game.Hit)
	visit(p.learner, s2, game.Stand)
	p.QTable().Set(s2, game.Stand, 0.5)

	p.UpdateStep(nil, &core.Step{State: s1, Action: game.Hit, Reward: game.NoReward, NextState: s2, NextAction: game.Stand})
	assert.Zero(t, p.Traces().Get(s1, game.Hit))
	// delta = 0 + 0.5 - 0, step size 1/N = 1
	assert.Equal(t, 0.5, p.QTable().Get(s1, game.Hit))

	p.UpdateStep(nil, terminalStep(s2, game.Stand, game.Lose))
	assert.Equal(t, 0.5, p.QTable().Get(s1, game.Hit), "earlier pair must not change with lambda 0")
	assert.Equal(t, -1.0, p.QTable().Get(s2, game.Stand))
	assert.Zero(t, p.Traces().Get(s2, game.Stand))
}

func TestTDLambda_OneLambdaPropagatesReward(t *testing.T) {
	p := NewTDLambdaPolicy(40, 1, 1)
	s1 := game.State{Dealer: 9, Player: 10}
	s2 := game.State{Dealer: 9, Player: 17}

	p.ResetEpisode(nil)
	visit(p.learner, s1, game.Hit)
	visit(p.learner, s2, game.Stand)

	p.UpdateStep(nil, &core.Step{State: s1, Action: game.Hit, Reward: game.NoReward, NextState: s2, NextAction: game.Stand})
	assert.Equal(t, 1.0, p.Traces().Get(s1, game.Hit))
	assert.Zero(t, p.QTable().Get(s1, game.Hit))

	p.UpdateStep(nil, terminalStep(s2, game.Stand, game.Win))
	// with lambda 1 and fresh counts both pairs receive the full return
	assert.Equal(t, 1.0, p.QTable().Get(s1, game.Hit))
	assert.Equal(t, 1.0, p.QTable().Get(s2, game.Stand))
	assert.Equal(t, 1.0, p.Traces().Get(s1, game.Hit))
	assert.Equal(t, 1.0, p.Traces().Get(s2, game.Stand))
}

func TestTDLambda_TracesResetEachEpisode(t *testing.T) {
	p := NewTDLambdaPolicy(40, 0.5, 1)
	s := game.State{Dealer: 1, Player: 20}

	p.ResetEpisode(nil)
	visit(p.learner, s, game.Stand)
	p.UpdateStep(nil, terminalStep(s, game.Stand, game.Win))
	p.UpdateEpisode(nil)
	assert.Equal(t, 0.5, p.Traces().Get(s, game.Stand))

	p.ResetEpisode(nil)
	assert.Zero(t, p.Traces().Len())
	assert.Zero(t, p.Traces().Get(s, game.Stand))
	// counters survive episodes
	assert.Equal(t, 1, p.Visits().StateAction(s, game.Stand))
}

func TestTDLambda_StepSizeUsesPairCount(t *testing.T) {
	p := NewTDLambdaPolicy(40, 0, 1)
	s := game.State{Dealer: 4, Player: 18}

	for i := 0; i < 3; i++ {
		p.ResetEpisode(nil)
		visit(p.learner, s, game.Stand)
		p.UpdateStep(nil, terminalStep(s, game.Stand, game.Win))
		p.UpdateEpisode(nil)
	}
	// 1/1, 1/2, 1/3 step sizes towards a constant target stay at the target
	assert.InDelta(t, 1.0, p.QTable().Get(s, game.Stand), 1e-12)
}

func TestTDLambda_RepeatedPairAccumulatesTrace(t *testing.T) {
	p := NewTDLambdaPolicy(40, 0.5, 1)
	s1 := game.State{Dealer: 5, Player: 10}
	s2 := game.State{Dealer: 5, Player: 14}
	s3 := game.State{Dealer: 5, Player: 18}

	// earlier episodes left N(s1, HIT) = 1, N(s2, HIT) = 2
	p.Visits().RecordStateAction(s1, game.Hit)
	p.Visits().RecordStateAction(s2, game.Hit)
	p.Visits().RecordStateAction(s2, game.Hit)
	p.QTable().Set(s2, game.Hit, 0.8)

	// s1 -HIT-> s2 -HIT-> s1 -HIT-> s3 -STAND-> win
	p.ResetEpisode(nil)
	visit(p.learner, s1, game.Hit)
	visit(p.learner, s2, game.Hit)
	p.UpdateStep(nil, &core.Step{State: s1, Action: game.Hit, Reward: game.NoReward, NextState: s2, NextAction: game.Hit})
	// delta 0.8, step 1/2
	assert.InDelta(t, 0.4, p.QTable().Get(s1, game.Hit), 1e-12)

	visit(p.learner, s1, game.Hit)
	p.UpdateStep(nil, &core.Step{State: s2, Action: game.Hit, Reward: game.NoReward, NextState: s1, NextAction: game.Hit})
	// delta -0.4, both pairs now at N = 3
	assert.InDelta(t, 0.4-0.4*0.5/3, p.QTable().Get(s1, game.Hit), 1e-12)
	assert.InDelta(t, 0.8-0.4/3, p.QTable().Get(s2, game.Hit), 1e-12)

	visit(p.learner, s3, game.Stand)
	p.UpdateStep(nil, &core.Step{State: s1, Action: game.Hit, Reward: game.NoReward, NextState: s3, NextAction: game.Stand})
	assert.InDelta(t, 1.25*0.5, p.Traces().Get(s1, game.Hit), 1e-12)
	assert.InDelta(t, 0.25, p.Traces().Get(s2, game.Hit), 1e-12)

	p.UpdateStep(nil, terminalStep(s3, game.Stand, game.Win))
	assert.InDelta(t, 145.0/360.0, p.QTable().Get(s1, game.Hit), 1e-12)
	assert.InDelta(t, 250.0/360.0, p.QTable().Get(s2, game.Hit), 1e-12)
	assert.InDelta(t, 1.0, p.QTable().Get(s3, game.Stand), 1e-12)
	assert.InDelta(t, 0.3125, p.Traces().Get(s1, game.Hit), 1e-12)
	assert.InDelta(t, 0.125, p.Traces().Get(s2, game.Hit), 1e-12)
	assert.InDelta(t, 0.5, p.Traces().Get(s3, game.Stand), 1e-12)
}

func TestPolicies_ResetDiscardsTables(t *testing.T) {
	for _, p := range []interface {
		core.Policy
		QTable() *QTable
		Visits() *Visits
	}{
		NewMonteCarloPolicy(10, 1),
		NewTDLambdaPolicy(10, 0.3, 1),
	} {
		s := game.State{Dealer: 3, Player: 12}
		p.PickAction(nil, s)
		require.Equal(t, 1, p.Visits().State(s))

		p.Reset()
		assert.Zero(t, p.Visits().State(s))
		assert.Zero(t, p.QTable().Size())
	}
}

func TestRandomPolicy_ValidActions(t *testing.T) {
	p := NewRandomPolicy()
	seen := make(map[game.Action]bool)
	for i := 0; i < 200; i++ {
		a := p.PickAction(nil, game.State{Dealer: 1, Player: 1})
		require.True(t, a.Valid())
		seen[a] = true
	}
	assert.Len(t, seen, 2)
}
