package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/charmbracelet/log"
	"github.com/zeu5/easy21-rl/core"
)

// PrintDebugAnalyzer writes a readable dump of late episodes to disk
type PrintDebugAnalyzer struct {
	// savePath is the path to save the trace
	savePath string
	exp      string
	// will save the trace to the file only after the episode number exceeds this threshold
	thresholdEpisode int
	logger           *log.Logger
}

var _ core.Analyzer = &PrintDebugAnalyzer{}

func NewPrintDebugAnalyzer(savePath string, threshold int, logger *log.Logger) *PrintDebugAnalyzer {
	if logger == nil {
		logger = log.Default()
	}
	tracesPath := path.Join(savePath, "traces")
	if err := os.MkdirAll(tracesPath, 0755); err != nil {
		logger.Warn("could not create traces directory", "path", tracesPath, "err", err)
	}
	return &PrintDebugAnalyzer{
		savePath:         tracesPath,
		thresholdEpisode: threshold,
		logger:           logger,
	}
}

func (a *PrintDebugAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode {
		return
	}
	fileName := fmt.Sprintf("%d_trace_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_trace_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	p := path.Join(a.savePath, fileName)
	if err := os.WriteFile(p, []byte(traceToString(trace)), 0644); err != nil {
		a.logger.Warn("could not save trace", "path", p, "episode", ctx.Episode, "err", err)
	}
}

func traceToString(trace *core.Trace) string {
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		fmt.Fprintf(buf, "Step %d\n%s\n", i, stepToString(trace.Step(i)))
	}
	return buf.String()
}

func stepToString(step *core.Step) string {
	out := fmt.Sprintf(
		"State: %s\nAction: %s\nReward: %s\nNext State: %s\n",
		step.State, step.Action, step.Reward, step.NextState,
	)
	if step.Terminal {
		if step.DealerSum != 0 {
			out += fmt.Sprintf("Dealer Sum: %d\n", step.DealerSum)
		}
		return out + "Terminal\n"
	}
	return out + fmt.Sprintf("Next Action: %s\n", step.NextAction)
}

func (a *PrintDebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *PrintDebugAnalyzer) Reset() {
	// do nothing
}

type PrintDebugAnalyzerConstructor struct {
	SavePath         string
	ThresholdEpisode int
	Logger           *log.Logger
}

var _ core.AnalyzerConstructor = &PrintDebugAnalyzerConstructor{}

func NewPrintDebugAnalyzerConstructor(savePath string, thresholdEpisode int, logger *log.Logger) *PrintDebugAnalyzerConstructor {
	return &PrintDebugAnalyzerConstructor{
		SavePath:         savePath,
		ThresholdEpisode: thresholdEpisode,
		Logger:           logger,
	}
}

func (c *PrintDebugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	a := NewPrintDebugAnalyzer(c.SavePath, c.ThresholdEpisode, c.Logger)
	a.exp = exp
	return a
}
