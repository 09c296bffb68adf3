package analysis

import (
	"fmt"
	"path"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/util"
	"gonum.org/v1/gonum/stat"
)

// Report summarises the returns observed up to an episode
type Report struct {
	Episode          int
	CumulativeReward float64
	// WindowMean and WindowStdDev cover the episodes since the previous report
	WindowMean   float64
	WindowStdDev float64
}

type rewardDataset struct {
	Episodes         int
	CumulativeReward float64
	Wins             int
	Losses           int
	Draws            int
	Reports          []Report
}

func (r *rewardDataset) Copy() *rewardDataset {
	out := *r
	out.Reports = make([]Report, len(r.Reports))
	copy(out.Reports, r.Reports)
	return &out
}

func (r *rewardDataset) WinRate() float64 {
	if r.Episodes == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Episodes)
}

// RewardAnalyzer accumulates episode returns and reports every `every` episodes
type RewardAnalyzer struct {
	every  int
	logger *log.Logger

	dataset *rewardDataset
	window  []float64
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer(every int, logger *log.Logger) *RewardAnalyzer {
	if every < 1 {
		every = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RewardAnalyzer{
		every:   every,
		logger:  logger,
		dataset: &rewardDataset{Reports: make([]Report, 0)},
		window:  make([]float64, 0, every),
	}
}

func (r *RewardAnalyzer) Reset() {
	r.dataset = &rewardDataset{Reports: make([]Report, 0)}
	r.window = r.window[:0]
}

func (r *RewardAnalyzer) Analyze(eCtx *core.EpisodeContext, trace *core.Trace) {
	ret := trace.Return()
	r.dataset.Episodes++
	r.dataset.CumulativeReward += ret
	switch {
	case ret > 0:
		r.dataset.Wins++
	case ret < 0:
		r.dataset.Losses++
	default:
		r.dataset.Draws++
	}
	r.window = append(r.window, ret)

	if eCtx.Episode%r.every != 0 {
		return
	}
	report := Report{
		Episode:          eCtx.Episode,
		CumulativeReward: r.dataset.CumulativeReward,
		WindowMean:       stat.Mean(r.window, nil),
	}
	if len(r.window) > 1 {
		report.WindowStdDev = stat.StdDev(r.window, nil)
	}
	r.dataset.Reports = append(r.dataset.Reports, report)
	r.window = r.window[:0]

	r.logger.Debug(
		"reward report",
		"run", eCtx.Run,
		"episode", report.Episode,
		"cumulative", report.CumulativeReward,
		"mean", report.WindowMean,
	)
}

func (r *RewardAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

// Reports returns the periodic reports gathered so far
func (r *RewardAnalyzer) Reports() []Report {
	return r.dataset.Copy().Reports
}

type RewardAnalyzerConstructor struct {
	Every  int
	Logger *log.Logger
}

var _ core.AnalyzerConstructor = &RewardAnalyzerConstructor{}

func NewRewardAnalyzerConstructor(every int, logger *log.Logger) *RewardAnalyzerConstructor {
	return &RewardAnalyzerConstructor{
		Every:  every,
		Logger: logger,
	}
}

func (r *RewardAnalyzerConstructor) NewAnalyzer(exp string, run int) core.Analyzer {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	return NewRewardAnalyzer(r.Every, logger.With("experiment", exp))
}

// RewardComparator saves the reward reports of all experiments and plots
// their cumulative reward curves
type RewardComparator struct {
	savePath string
	logger   *log.Logger
}

var _ core.Comparator = &RewardComparator{}

func NewRewardComparator(savePath string, logger *log.Logger) *RewardComparator {
	if logger == nil {
		logger = log.Default()
	}
	return &RewardComparator{
		savePath: savePath,
		logger:   logger,
	}
}

func (r *RewardComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]*rewardDataset)
	for i, name := range experimentNames {
		ds, ok := datasets[i].(*rewardDataset)
		if !ok {
			continue
		}
		out[name] = ds
		r.logger.Info(
			"rewards",
			"experiment", name,
			"episodes", ds.Episodes,
			"cumulative", ds.CumulativeReward,
			"win_rate", fmt.Sprintf("%.3f", ds.WinRate()),
		)
	}
	if len(out) == 0 {
		return
	}

	if err := util.SaveJson(path.Join(r.savePath, "rewards.json"), out); err != nil {
		r.logger.Error("saving rewards", "err", err)
	}
	if err := util.SaveRender(path.Join(r.savePath, "rewards.html"), rewardPage(experimentNames, out)); err != nil {
		r.logger.Error("rendering rewards", "err", err)
	}
}

func rewardPage(experimentNames []string, datasets map[string]*rewardDataset) *components.Page {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Cumulative reward"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	var episodes []string
	for _, name := range experimentNames {
		ds, ok := datasets[name]
		if !ok {
			continue
		}
		if len(ds.Reports) > len(episodes) {
			episodes = episodes[:0]
			for _, report := range ds.Reports {
				episodes = append(episodes, strconv.Itoa(report.Episode))
			}
		}
	}
	line.SetXAxis(episodes)

	for _, name := range experimentNames {
		ds, ok := datasets[name]
		if !ok {
			continue
		}
		items := make([]opts.LineData, 0, len(ds.Reports))
		for _, report := range ds.Reports {
			items = append(items, opts.LineData{Value: report.CumulativeReward})
		}
		line.AddSeries(name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	return page
}

type RewardComparatorConstructor struct {
	savePath string
	logger   *log.Logger
}

var _ core.ComparatorConstructor = &RewardComparatorConstructor{}

func NewRewardComparatorConstructor(savePath string, logger *log.Logger) *RewardComparatorConstructor {
	return &RewardComparatorConstructor{
		savePath: savePath,
		logger:   logger,
	}
}

func (r *RewardComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewRewardComparator(path.Join(r.savePath, strconv.Itoa(run)), r.logger)
}
