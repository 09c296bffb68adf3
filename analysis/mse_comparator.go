package analysis

import (
	"path"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
	"github.com/zeu5/easy21-rl/util"
	"gonum.org/v1/gonum/stat"
)

// MeanSquaredError compares two value functions over every playable state
// and both actions. Unvisited pairs count as 0 on either side.
func MeanSquaredError(vf, reference core.ValueFunction) float64 {
	states := game.States()
	errs := make([]float64, 0, len(states)*len(game.Actions))
	for _, s := range states {
		for _, a := range game.Actions {
			d := vf.Q(s, a) - reference.Q(s, a)
			errs = append(errs, d*d)
		}
	}
	return stat.Mean(errs, nil)
}

// MSEComparator scores every experiment against the value function of a
// reference experiment, typically a long Monte Carlo run
type MSEComparator struct {
	reference string
	// values, when set, is used instead of looking the reference up among the datasets
	values   core.ValueFunction
	savePath string
	logger   *log.Logger

	// Results holds the errors of the last comparison in experiment order
	Results []MSEResult
}

type MSEResult struct {
	Experiment string
	MSE        float64
}

var _ core.Comparator = &MSEComparator{}

func NewMSEComparator(reference, savePath string, logger *log.Logger) *MSEComparator {
	if logger == nil {
		logger = log.Default()
	}
	return &MSEComparator{
		reference: reference,
		savePath:  savePath,
		logger:    logger,
	}
}

func (m *MSEComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	names, values := valueFunctions(experimentNames, datasets)

	reference := m.values
	for i, name := range names {
		if name == m.reference {
			reference = values[i]
		}
	}
	if reference == nil {
		m.logger.Warn("reference experiment missing, skipping mean squared error", "reference", m.reference)
		return
	}
	if err := reference.Complete(); err != nil {
		m.logger.Warn("reference value function incomplete", "err", err)
	}

	m.Results = make([]MSEResult, 0, len(names))
	for i, name := range names {
		if name == m.reference {
			continue
		}
		result := MSEResult{Experiment: name, MSE: MeanSquaredError(values[i], reference)}
		m.Results = append(m.Results, result)
		m.logger.Info("mean squared error", "experiment", name, "reference", m.reference, "mse", result.MSE)
	}
	if m.savePath == "" || len(m.Results) == 0 {
		return
	}

	if err := util.SaveJson(path.Join(m.savePath, "mse.json"), m.Results); err != nil {
		m.logger.Error("saving mean squared error", "err", err)
	}
	if err := util.SaveRender(path.Join(m.savePath, "mse.html"), m.page()); err != nil {
		m.logger.Error("rendering mean squared error", "err", err)
	}
}

func (m *MSEComparator) page() *components.Page {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean squared error against " + m.reference}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	xs := make([]string, 0, len(m.Results))
	items := make([]opts.LineData, 0, len(m.Results))
	for _, r := range m.Results {
		xs = append(xs, r.Experiment)
		items = append(items, opts.LineData{Value: r.MSE})
	}
	line.SetXAxis(xs).AddSeries("MSE", items)

	page := components.NewPage()
	page.AddCharts(line)
	return page
}

type MSEComparatorConstructor struct {
	reference string
	values    core.ValueFunction
	savePath  string
	logger    *log.Logger
}

var _ core.ComparatorConstructor = &MSEComparatorConstructor{}

func NewMSEComparatorConstructor(reference, savePath string, logger *log.Logger) *MSEComparatorConstructor {
	return &MSEComparatorConstructor{
		reference: reference,
		savePath:  savePath,
		logger:    logger,
	}
}

// NewFixedMSEComparatorConstructor compares against a value function learned
// outside the comparison, named reference in the logs
func NewFixedMSEComparatorConstructor(reference string, values core.ValueFunction, savePath string, logger *log.Logger) *MSEComparatorConstructor {
	return &MSEComparatorConstructor{
		reference: reference,
		values:    values,
		savePath:  savePath,
		logger:    logger,
	}
}

func (m *MSEComparatorConstructor) NewComparator(run int) core.Comparator {
	c := NewMSEComparator(m.reference, path.Join(m.savePath, strconv.Itoa(run)), m.logger)
	c.values = m.values
	return c
}
