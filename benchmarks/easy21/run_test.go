package easy21

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/easy21-rl/benchmarks/common"
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
	"github.com/zeu5/easy21-rl/policies"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testFlags(t *testing.T) *common.Flags {
	flags := common.DefaultFlags()
	flags.SavePath = t.TempDir()
	flags.N0 = 40
	flags.Episodes = 2000
	flags.ReportEvery = 500
	flags.Seed = 7
	flags.Parallelism = 2
	return flags
}

func TestMonteCarlo_ValuesStayWithinRewardBounds(t *testing.T) {
	if testing.Short() {
		t.Skip("long running")
	}
	cmp := core.NewComparison()
	cmp.AddExperiment(&core.Experiment{
		Name:        MonteCarlo,
		Environment: NewEnvironmentConstructor(11).NewEnvironment(0),
		Policy:      policies.NewMonteCarloPolicy(40, policySeed(11, 0)),
	})

	results, err := cmp.Run(context.Background(), 1, &core.RunConfig{
		Episodes: 100000,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0][MonteCarlo]
	assert.Equal(t, 100000, result.CompletedEpisodes)
	require.NotEmpty(t, result.Values)
	for sa, q := range result.Values {
		assert.True(t, sa.State.InBounds(), "table key %s out of bounds", sa)
		assert.GreaterOrEqual(t, q, -1.0, sa.String())
		assert.LessOrEqual(t, q, 1.0, sa.String())
	}
	// 100k episodes with N0=40 reach every state
	assert.NoError(t, result.Values.Complete())
}

func TestPrepareComparison_IsolatedExperiments(t *testing.T) {
	flags := testFlags(t)
	cmp := PrepareComparison(flags, quietLogger(), io.Discard)

	results, err := cmp.Run(context.Background(), 1, &core.RunConfig{
		Episodes: flags.Episodes,
		Logger:   quietLogger(),
		Output:   io.Discard,
	}, flags.Parallelism)
	require.NoError(t, err)
	require.Len(t, results, 1)

	run := results[0]
	require.Len(t, run, 3)
	for _, name := range []string{MonteCarlo, TDLambdaName(flags.Lambda), Random} {
		require.Contains(t, run, name)
		assert.Equal(t, flags.Episodes, run[name].CompletedEpisodes)
		assert.Contains(t, run[name].Datasets, "Rewards")
	}
	assert.Nil(t, run[Random].Values)
	assert.NotEmpty(t, run[MonteCarlo].Values)
	assert.NotEmpty(t, run[TDLambdaName(flags.Lambda)].Values)
	assert.NotEqual(t, run[MonteCarlo].Values, run[TDLambdaName(flags.Lambda)].Values)

	assert.FileExists(t, filepath.Join(flags.SavePath, "0", "rewards.json"))
	assert.FileExists(t, filepath.Join(flags.SavePath, "0", "value_surface.html"))
	assert.FileExists(t, filepath.Join(flags.SavePath, "0", "coverage.json"))
}

func TestPrepareComparison_Cancelled(t *testing.T) {
	flags := testFlags(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PrepareMonteCarloComparison(flags, quietLogger(), io.Discard).Run(ctx, 1, &core.RunConfig{
		Episodes: flags.Episodes,
		Logger:   quietLogger(),
		Output:   io.Discard,
	}, 1)
	assert.ErrorIs(t, err, core.ErrCancelled)
}

func TestLambdaSweep(t *testing.T) {
	flags := testFlags(t)
	flags.LambdaSteps = 3
	flags.ReferenceEpisodes = 5000
	flags.Episodes = 500

	sweep := PrepareLambdaSweep(flags, quietLogger(), io.Discard)
	require.Equal(t, []float64{0, 0.5, 1}, sweep.Lambdas)

	results, err := sweep.Run(context.Background(), 1, &core.RunConfig{
		Episodes: flags.Episodes,
		Logger:   quietLogger(),
		Output:   io.Discard,
	}, flags.Parallelism)
	require.NoError(t, err)
	require.NotEmpty(t, sweep.Reference)

	require.Len(t, results, 1)
	assert.Len(t, results[0], 3)
	for _, lambda := range sweep.Lambdas {
		assert.Contains(t, results[0], TDLambdaName(lambda))
	}
	assert.FileExists(t, filepath.Join(flags.SavePath, "0", "mse.json"))
}

func TestEnvironmentConstructor_SeededInstancesDiffer(t *testing.T) {
	c := NewEnvironmentConstructor(3)
	a, b := c.NewEnvironment(0), c.NewEnvironment(1)

	same := true
	for i := 0; i < 20; i++ {
		if a.Reset() != b.Reset() {
			same = false
		}
	}
	assert.False(t, same)

	again := NewEnvironmentConstructor(3).NewEnvironment(0)
	first := NewEnvironmentConstructor(3).NewEnvironment(0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Reset(), again.Reset())
	}
}

func TestPolicySeed_ExplorationIndependentOfCards(t *testing.T) {
	const seeds = 5000
	agree := 0
	for seed := uint64(1); seed <= seeds; seed++ {
		s := NewEnvironmentConstructor(seed).NewEnvironment(0).Reset()
		a := policies.NewMonteCarloPolicyConstructor(40, policySeed(seed, 0)).NewPolicy().PickAction(nil, s)
		if (a == game.Hit) == (s.Player <= 5) {
			agree++
		}
	}
	// independent draws agree about half the time, one standard deviation is ~35
	assert.InDelta(t, seeds/2, agree, 175)
}

func TestPolicySeed(t *testing.T) {
	assert.Zero(t, policySeed(0, 3))
	assert.NotEqual(t, uint64(7), policySeed(7, 0))
	assert.NotEqual(t, policySeed(7, 0), policySeed(7, 1))
	assert.Equal(t, policySeed(7, 2), policySeed(7, 2))
	assert.NotZero(t, policySeed(policySeedMix, 0))
}
