package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/easy21-rl/benchmarks/common"
)

var (
	flags    *common.Flags = common.DefaultFlags()
	savePath string

	n0                float64
	lambda            float64
	lambdaSteps       int
	referenceEpisodes int

	numRuns     int
	episodes    int
	reportEvery int
	seed        uint64
	parallelism int

	debug            bool
	debugFromEpisode int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().Float64Var(&n0, "n0", flags.N0, "Exploration decay constant, epsilon = N0/(N0+N(s))")
	cmd.PersistentFlags().Float64Var(&lambda, "lambda", flags.Lambda, "Trace decay of the TD(lambda) learner")
	cmd.PersistentFlags().IntVar(&lambdaSteps, "lambda-steps", flags.LambdaSteps, "Number of lambda values swept over [0, 1]")
	cmd.PersistentFlags().IntVar(&referenceEpisodes, "reference-episodes", flags.ReferenceEpisodes, "Episodes of the Monte Carlo reference in a sweep")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.PersistentFlags().IntVar(&reportEvery, "report-every", flags.ReportEvery, "Episodes between reward reports")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Random seed, 0 seeds from the clock")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel experiments")

	cmd.PersistentFlags().BoolVar(&debug, "debug", flags.Debug, "Debug logging and episode trace dumps")
	cmd.PersistentFlags().IntVar(&debugFromEpisode, "debug-from-episode", flags.DebugFromEpisode, "First episode whose trace is dumped with --debug")
}

func UpdateFlags() {
	flags.SavePath = savePath
	flags.N0 = n0
	flags.Lambda = lambda
	flags.LambdaSteps = lambdaSteps
	flags.ReferenceEpisodes = referenceEpisodes

	flags.NumRuns = numRuns
	flags.Episodes = episodes
	flags.ReportEvery = reportEvery
	flags.Seed = seed
	flags.Parallelism = parallelism

	flags.Debug = debug
	flags.DebugFromEpisode = debugFromEpisode
}
