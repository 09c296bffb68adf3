package analysis

import (
	"path"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
	"github.com/zeu5/easy21-rl/util"
)

type coverageDataset struct {
	Timesteps    []int
	UniqueStates []int
	// Missing is the number of playable states never visited
	Missing int
}

func (c *coverageDataset) Copy() *coverageDataset {
	return &coverageDataset{
		Timesteps:    util.CopyIntSlice(c.Timesteps),
		UniqueStates: util.CopyIntSlice(c.UniqueStates),
		Missing:      c.Missing,
	}
}

// CoverageAnalyzer tracks how many distinct states the learner has visited
type CoverageAnalyzer struct {
	every    int
	states   map[game.State]bool
	timestep int
	dataset  *coverageDataset
}

var _ core.Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer(every int) *CoverageAnalyzer {
	if every < 1 {
		every = 1
	}
	c := &CoverageAnalyzer{every: every}
	c.Reset()
	return c
}

func (c *CoverageAnalyzer) Reset() {
	c.states = make(map[game.State]bool)
	c.timestep = 0
	c.dataset = &coverageDataset{
		Timesteps:    make([]int, 0),
		UniqueStates: make([]int, 0),
		Missing:      len(game.States()),
	}
}

func (c *CoverageAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	for i := 0; i < trace.Len(); i++ {
		c.states[trace.Step(i).State] = true
	}
	c.timestep += trace.Len()
	c.dataset.Missing = len(game.States()) - len(c.states)

	if eCtx.Episode%c.every != 0 {
		return
	}
	c.dataset.Timesteps = append(c.dataset.Timesteps, c.timestep)
	c.dataset.UniqueStates = append(c.dataset.UniqueStates, len(c.states))
}

func (c *CoverageAnalyzer) DataSet() core.DataSet {
	return c.dataset.Copy()
}

type CoverageAnalyzerConstructor struct {
	every int
}

var _ core.AnalyzerConstructor = &CoverageAnalyzerConstructor{}

func NewCoverageAnalyzerConstructor(every int) *CoverageAnalyzerConstructor {
	return &CoverageAnalyzerConstructor{every: every}
}

func (c *CoverageAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewCoverageAnalyzer(c.every)
}

type CoverageComparator struct {
	savePath string
	logger   *log.Logger
}

var _ core.Comparator = &CoverageComparator{}

func NewCoverageComparator(savePath string, logger *log.Logger) *CoverageComparator {
	if logger == nil {
		logger = log.Default()
	}
	return &CoverageComparator{
		savePath: path.Join(savePath, "coverage.json"),
		logger:   logger,
	}
}

func (c *CoverageComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]*coverageDataset)
	for i, name := range experimentNames {
		ds, ok := datasets[i].(*coverageDataset)
		if !ok {
			continue
		}
		if ds.Missing > 0 {
			c.logger.Warn("not every state was visited", "experiment", name, "missing", ds.Missing)
		}
		out[name] = ds
	}

	if err := util.SaveJson(c.savePath, out); err != nil {
		c.logger.Error("saving coverage", "err", err)
	}
}

type CoverageComparatorConstructor struct {
	savePath string
	logger   *log.Logger
}

var _ core.ComparatorConstructor = &CoverageComparatorConstructor{}

func NewCoverageComparatorConstructor(savePath string, logger *log.Logger) *CoverageComparatorConstructor {
	return &CoverageComparatorConstructor{
		savePath: savePath,
		logger:   logger,
	}
}

func (c *CoverageComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewCoverageComparator(path.Join(c.savePath, strconv.Itoa(run)), c.logger)
}
