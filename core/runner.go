package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/zeu5/easy21-rl/util"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCancelled = errors.New("context cancelled")
)

const printFrequency = 200 * time.Millisecond

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	writer io.Writer

	*RunConfig
}

type ExperimentResult struct {
	CompletedEpisodes int
	TotalEpisodes     int
	TotalTimeSteps    int
	CumulativeReward  float64

	Error    error
	Datasets map[string]DataSet
	// Values is the final action-value function, nil for policies without one
	Values ValueFunction
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// RunResults maps experiment names to their results for a single run
type RunResults map[string]*ExperimentResult

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	logger := ctx.logger().With("experiment", e.Name, "run", ctx.run)
	e.Policy.Reset()
	values, _ := e.Policy.(ValueReader)

	logger.Debug("starting experiment", "episodes", ctx.Episodes)
	start := time.Now()
EpisodeLoop:
	for episode := 0; episode < ctx.Episodes; episode++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = ErrCancelled
			break EpisodeLoop
		default:
		}

		eCtx := NewEpisodeContext(ctx.ctx)
		eCtx.Run = ctx.run
		eCtx.Episode = episode
		eCtx.StartTimeStep = result.TotalTimeSteps
		eCtx.Values = values

		e.runEpisode(eCtx)

		result.TotalEpisodes++
		result.CompletedEpisodes++
		result.TotalTimeSteps += eCtx.Trace.Len()
		result.CumulativeReward += eCtx.Trace.Return()

		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}

		if ctx.ReportEvery > 0 && episode%ctx.ReportEvery == 0 {
			fmt.Fprintf(
				ctx.writer,
				"Experiment: %s, Run %d, Episode %d/%d, Timesteps: %d, Cumulative reward: %.0f\n",
				e.Name, ctx.run, episode, ctx.Episodes, result.TotalTimeSteps, result.CumulativeReward,
			)
		}
	}
	if result.Error != nil {
		logger.Warn("experiment stopped", "err", result.Error, "episodes", result.CompletedEpisodes)
	} else {
		logger.Info(
			"experiment finished",
			"episodes", result.CompletedEpisodes,
			"timesteps", result.TotalTimeSteps,
			"reward", result.CumulativeReward,
			"took", time.Since(start).Round(time.Millisecond),
		)
	}

	if values != nil {
		result.Values = values.Values()
		if err := result.Values.Complete(); err != nil {
			logger.Warn("value function incomplete", "err", err)
		}
	}
	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}

	e.Policy.Reset()
	return result
}

// runEpisode plays one episode to termination. The next action is always
// picked before the policy sees the step so that SARSA style updates
// have Q(s', a') available.
func (e *Experiment) runEpisode(eCtx *EpisodeContext) {
	e.Policy.ResetEpisode(eCtx)

	state := e.Environment.Reset()
	action := e.Policy.PickAction(&StepContext{Step: 0, EpisodeContext: eCtx}, state)
	for step := 0; ; step++ {
		sCtx := &StepContext{Step: step, EpisodeContext: eCtx}
		outcome := e.Environment.Step(state, action)

		s := &Step{
			State:     state,
			Action:    action,
			Reward:    outcome.Reward,
			NextState: outcome.State,
			Terminal:  outcome.Terminal,
			DealerSum: outcome.DealerSum,
		}
		if !outcome.Terminal {
			s.NextAction = e.Policy.PickAction(&StepContext{Step: step + 1, EpisodeContext: eCtx}, outcome.State)
		}
		e.Policy.UpdateStep(sCtx, s)
		eCtx.Trace.AddStep(s)

		if outcome.Terminal {
			break
		}
		state, action = s.NextState, s.NextAction
	}
	e.Policy.UpdateEpisode(eCtx)
}

// Run executes every experiment sequentially for the given number of runs
func (c *Comparison) Run(ctx context.Context, runs int, rConfig *RunConfig) ([]RunResults, error) {
	out := make([]RunResults, 0, runs)
	writer := rConfig.Output
	if writer == nil {
		writer = io.Discard
	}
	for run := 0; run < runs; run++ {
		results := make(RunResults)

		for _, e := range c.Experiments {
			if err := ctx.Err(); err != nil {
				return out, ErrCancelled
			}
			eCtx := &experimentRunContext{
				run:       run,
				ctx:       ctx,
				analyzers: make(map[string]Analyzer),
				writer:    writer,
				RunConfig: rConfig,
			}

			for name, a := range c.Analyzers {
				a.Reset()
				eCtx.analyzers[name] = a
			}

			results[e.Name] = e.run(eCtx)
			if results[e.Name].IsError() {
				return out, results[e.Name].Error
			}
		}

		compare(results, c.analyzerNames(), func(name string) Comparator {
			return c.Comparators[name]
		})
		out = append(out, results)
	}
	return out, nil
}

func (c *Comparison) analyzerNames() []string {
	names := make([]string, 0, len(c.Analyzers))
	for name := range c.Analyzers {
		names = append(names, name)
	}
	return names
}

// compare gathers the datasets of every analyzer and hands them to the comparators
func compare(results RunResults, analyzerNames []string, comparator func(string) Comparator) {
	experimentNames := make([]string, 0, len(results))
	for name := range results {
		experimentNames = append(experimentNames, name)
	}
	sort.Strings(experimentNames)

	datasets := make(map[string][]DataSet)
	for _, name := range analyzerNames {
		datasets[name] = make([]DataSet, 0, len(experimentNames))
		for _, exp := range experimentNames {
			result := results[exp]
			if result.IsError() {
				datasets[name] = append(datasets[name], nil)
			} else {
				datasets[name] = append(datasets[name], result.Datasets[name])
			}
		}
	}
	for _, name := range analyzerNames {
		c := comparator(name)
		if c == nil {
			continue
		}
		c.Compare(experimentNames, datasets[name])
	}
}

// Run executes the experiments concurrently, at most parallelism at a time.
// Every experiment constructs its own environment and policy so no tables
// are shared between workers.
func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) ([]RunResults, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	out := make([]RunResults, 0, runs)
	for run := 0; run < runs; run++ {
		if err := ctx.Err(); err != nil {
			return out, ErrCancelled
		}

		printer := util.NewTerminalPrinter(printFrequency, rConfig.Output)
		printer.SetHeader(fmt.Sprintf("Run %d", run))
		outputs := make([]*util.ParallelOutput, len(c.Experiments))
		for i := range c.Experiments {
			outputs[i] = printer.NewOutput()
		}
		printer.Start(ctx)

		results := make(RunResults)
		mtx := new(sync.Mutex)

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)
		for i, e := range c.Experiments {
			g.Go(func() error {
				result := c.runExperiment(gCtx, e, i, run, outputs[i], rConfig)
				mtx.Lock()
				results[e.Name] = result
				mtx.Unlock()
				return result.Error
			})
		}
		err := g.Wait()
		printer.Stop()
		if err != nil {
			return out, err
		}

		compare(results, c.analyzerNames(), func(name string) Comparator {
			cc, ok := c.Comparators[name]
			if !ok {
				return nil
			}
			return cc.NewComparator(run)
		})
		out = append(out, results)
	}
	return out, nil
}

// runExperiment constructs and runs one experiment in its own worker
func (c *ParallelComparison) runExperiment(ctx context.Context, pe *ParallelExperiment, instance, run int, writer io.Writer, rConfig *RunConfig) *ExperimentResult {
	eCtx := &experimentRunContext{
		run:       run,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		writer:    writer,
		RunConfig: rConfig,
	}
	for name, aC := range c.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(pe.Name, run)
	}

	exp := &Experiment{
		Name:        pe.Name,
		Environment: pe.Environment.NewEnvironment(instance),
		Policy:      pe.Policy.NewPolicy(),
	}
	return exp.run(eCtx)
}

func (c *ParallelComparison) analyzerNames() []string {
	names := make([]string, 0, len(c.Analyzers))
	for name := range c.Analyzers {
		names = append(names, name)
	}
	return names
}
