package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/easy21-rl/benchmarks/easy21"
	"github.com/zeu5/easy21-rl/core"
)

func runConfig() *core.RunConfig {
	return &core.RunConfig{
		Episodes:    flags.Episodes,
		ReportEvery: flags.ReportEvery,
		Logger:      logger,
	}
}

// withInterrupt cancels the context passed to f on the first interrupt
func withInterrupt(f func(context.Context) error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os
	defer signal.Stop(sigCh)

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
			logger.Warn("interrupted, stopping after the current episode")
		case <-doneCh:
		}
		cancel()
	}()

	err := f(ctx)
	close(doneCh)
	return err
}

func runComparison(cmp *core.ParallelComparison) error {
	return withInterrupt(func(ctx context.Context) error {
		_, err := cmp.Run(ctx, flags.NumRuns, runConfig(), flags.Parallelism)
		return err
	})
}

func MonteCarloCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mc",
		Short: "Every-visit Monte Carlo control",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComparison(easy21.PrepareMonteCarloComparison(flags, logger, cmd.OutOrStdout()))
		},
	}
}

func TDLambdaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "td",
		Short: "Backward view TD(lambda) control",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComparison(easy21.PrepareTDLambdaComparison(flags, logger, cmd.OutOrStdout()))
		},
	}
}

func CompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Monte Carlo and TD(lambda) against a random baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComparison(easy21.PrepareComparison(flags, logger, cmd.OutOrStdout()))
		},
	}
}

func SweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mean squared error of TD(lambda) against a Monte Carlo reference over lambda in [0, 1]",
		RunE: func(cmd *cobra.Command, args []string) error {
			sweep := easy21.PrepareLambdaSweep(flags, logger, cmd.OutOrStdout())
			return withInterrupt(func(ctx context.Context) error {
				_, err := sweep.Run(ctx, flags.NumRuns, runConfig(), flags.Parallelism)
				return err
			})
		},
	}
}
