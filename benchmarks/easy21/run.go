package easy21

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/charmbracelet/log"
	"github.com/zeu5/easy21-rl/analysis"
	"github.com/zeu5/easy21-rl/benchmarks/common"
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
	"github.com/zeu5/easy21-rl/policies"
	"github.com/zeu5/easy21-rl/util"
)

const (
	MonteCarlo = "MonteCarlo"
	Random     = "Random"
)

// TDLambdaName is the experiment name of a TD(lambda) learner
func TDLambdaName(lambda float64) string {
	return fmt.Sprintf("TDLambda_%.2f", lambda)
}

type envConstructor struct {
	*game.EnvConstructor
}

var _ core.EnvironmentConstructor = envConstructor{}

func NewEnvironmentConstructor(seed uint64) core.EnvironmentConstructor {
	return envConstructor{&game.EnvConstructor{Seed: seed}}
}

func (c envConstructor) NewEnvironment(instance int) core.Environment {
	return c.NewEnv(instance)
}

// policySeedMix moves policy seeds off the environment seeds Seed + k*step,
// so exploration never replays the card stream
const policySeedMix = 0xbf58476d1ce4e5b9

// policySeed derives the seed of the i-th learner. 0 stays "seed from the clock".
func policySeed(seed uint64, i int) uint64 {
	if seed == 0 {
		return 0
	}
	derived := (seed ^ policySeedMix) + uint64(i)
	if derived == 0 {
		return 1
	}
	return derived
}

func addAnalyses(cmp *core.ParallelComparison, flags *common.Flags, logger *log.Logger, out io.Writer) {
	cmp.AddAnalysis(
		"Rewards",
		analysis.NewRewardAnalyzerConstructor(flags.ReportEvery, logger),
		analysis.NewRewardComparatorConstructor(flags.SavePath, logger),
	)
	cmp.AddAnalysis(
		"ValueSurface",
		analysis.NewValueAnalyzerConstructor(),
		analysis.NewSurfaceComparatorConstructor(flags.SavePath, logger),
	)
	cmp.AddAnalysis(
		"GreedyPolicy",
		analysis.NewValueAnalyzerConstructor(),
		analysis.NewPolicyComparatorConstructor(out),
	)
	cmp.AddAnalysis(
		"Coverage",
		analysis.NewCoverageAnalyzerConstructor(flags.ReportEvery),
		analysis.NewCoverageComparatorConstructor(flags.SavePath, logger),
	)
	if flags.Debug {
		cmp.AddAnalysis(
			"Debug",
			analysis.NewPrintDebugAnalyzerConstructor(flags.SavePath, flags.DebugFromEpisode, logger),
			analysis.NewNoOpComparatorConstructor(),
		)
	}
}

func PrepareMonteCarloComparison(flags *common.Flags, logger *log.Logger, out io.Writer) *core.ParallelComparison {
	cmp := core.NewParallelComparison()
	addAnalyses(cmp, flags, logger, out)

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        MonteCarlo,
		Environment: NewEnvironmentConstructor(flags.Seed),
		Policy:      policies.NewMonteCarloPolicyConstructor(flags.N0, policySeed(flags.Seed, 0)),
	})
	return cmp
}

func PrepareTDLambdaComparison(flags *common.Flags, logger *log.Logger, out io.Writer) *core.ParallelComparison {
	cmp := core.NewParallelComparison()
	addAnalyses(cmp, flags, logger, out)

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        TDLambdaName(flags.Lambda),
		Environment: NewEnvironmentConstructor(flags.Seed),
		Policy:      policies.NewTDLambdaPolicyConstructor(flags.N0, flags.Lambda, policySeed(flags.Seed, 0)),
	})
	return cmp
}

// PrepareComparison pits both learners against the random baseline
func PrepareComparison(flags *common.Flags, logger *log.Logger, out io.Writer) *core.ParallelComparison {
	cmp := core.NewParallelComparison()
	addAnalyses(cmp, flags, logger, out)

	env := NewEnvironmentConstructor(flags.Seed)
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        MonteCarlo,
		Environment: env,
		Policy:      policies.NewMonteCarloPolicyConstructor(flags.N0, policySeed(flags.Seed, 0)),
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        TDLambdaName(flags.Lambda),
		Environment: env,
		Policy:      policies.NewTDLambdaPolicyConstructor(flags.N0, flags.Lambda, policySeed(flags.Seed, 1)),
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        Random,
		Environment: env,
		Policy:      &policies.RandomPolicyConstructor{},
	})
	return cmp
}

// LambdaSweep first learns a long Monte Carlo reference, then trains one
// TD(lambda) learner per lambda and scores each against the reference
type LambdaSweep struct {
	flags   *common.Flags
	logger  *log.Logger
	out     io.Writer
	Lambdas []float64

	// Reference is the value function of the last reference run
	Reference core.ValueFunction
}

func PrepareLambdaSweep(flags *common.Flags, logger *log.Logger, out io.Writer) *LambdaSweep {
	if logger == nil {
		logger = log.Default()
	}
	return &LambdaSweep{
		flags:   flags,
		logger:  logger,
		out:     out,
		Lambdas: util.Linspace(0, 1, flags.LambdaSteps),
	}
}

func (s *LambdaSweep) referenceComparison() *core.ParallelComparison {
	cmp := core.NewParallelComparison()
	cmp.AddAnalysis(
		"ValueSurface",
		analysis.NewValueAnalyzerConstructor(),
		analysis.NewSurfaceComparatorConstructor(path.Join(s.flags.SavePath, "reference"), s.logger),
	)
	cmp.AddAnalysis(
		"GreedyPolicy",
		analysis.NewValueAnalyzerConstructor(),
		analysis.NewPolicyComparatorConstructor(s.out),
	)
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        MonteCarlo,
		Environment: NewEnvironmentConstructor(s.flags.Seed),
		Policy:      policies.NewMonteCarloPolicyConstructor(s.flags.N0, policySeed(s.flags.Seed, 0)),
	})
	return cmp
}

func (s *LambdaSweep) sweepComparison(reference core.ValueFunction) *core.ParallelComparison {
	cmp := core.NewParallelComparison()
	cmp.AddAnalysis(
		"Rewards",
		analysis.NewRewardAnalyzerConstructor(s.flags.ReportEvery, s.logger),
		analysis.NewRewardComparatorConstructor(s.flags.SavePath, s.logger),
	)
	cmp.AddAnalysis(
		"MSE",
		analysis.NewValueAnalyzerConstructor(),
		analysis.NewFixedMSEComparatorConstructor(MonteCarlo, reference, s.flags.SavePath, s.logger),
	)

	env := NewEnvironmentConstructor(s.flags.Seed)
	for i, lambda := range s.Lambdas {
		cmp.AddExperiment(&core.ParallelExperiment{
			Name:        TDLambdaName(lambda),
			Environment: env,
			Policy:      policies.NewTDLambdaPolicyConstructor(s.flags.N0, lambda, policySeed(s.flags.Seed, i+1)),
		})
	}
	return cmp
}

// Run trains the reference for flags.ReferenceEpisodes and every TD learner
// for rConfig.Episodes
func (s *LambdaSweep) Run(ctx context.Context, runs int, rConfig *core.RunConfig, parallelism int) ([]core.RunResults, error) {
	refConfig := *rConfig
	refConfig.Episodes = s.flags.ReferenceEpisodes

	s.logger.Info("learning reference", "experiment", MonteCarlo, "episodes", refConfig.Episodes)
	refResults, err := s.referenceComparison().Run(ctx, 1, &refConfig, 1)
	if err != nil {
		return nil, fmt.Errorf("reference run: %w", err)
	}
	s.Reference = refResults[0][MonteCarlo].Values

	s.logger.Info("sweeping lambda", "values", len(s.Lambdas), "episodes", rConfig.Episodes)
	results, err := s.sweepComparison(s.Reference).Run(ctx, runs, rConfig, parallelism)
	if err != nil {
		return results, fmt.Errorf("lambda sweep: %w", err)
	}
	return results, nil
}
