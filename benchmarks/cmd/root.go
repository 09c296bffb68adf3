package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logger = log.New(os.Stderr)

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "easy21",
		Short:        "Model-free control on Easy21",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			UpdateFlags()
			if err := validateFlags(); err != nil {
				return err
			}
			if flags.Debug {
				logger.SetLevel(log.DebugLevel)
			}
			if err := flags.Record(); err != nil {
				return fmt.Errorf("recording config: %w", err)
			}
			return nil
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		MonteCarloCommand(),
		TDLambdaCommand(),
		SweepCommand(),
		CompareCommand(),
	)

	return cmd
}

func validateFlags() error {
	switch {
	case flags.N0 <= 0:
		return errors.New("n0 must be positive")
	case flags.Lambda < 0 || flags.Lambda > 1:
		return errors.New("lambda must be within [0, 1]")
	case flags.LambdaSteps < 1:
		return errors.New("lambda-steps must be at least 1")
	case flags.Episodes < 1:
		return errors.New("episodes must be at least 1")
	}
	return nil
}
