package analysis

import (
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/logrusorgru/aurora"
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
	"github.com/zeu5/easy21-rl/util"
)

// ValueAnalyzer exposes the learner's final action-value function as its dataset
type ValueAnalyzer struct {
	values core.ValueReader
}

var _ core.Analyzer = &ValueAnalyzer{}

func NewValueAnalyzer() *ValueAnalyzer {
	return &ValueAnalyzer{}
}

func (v *ValueAnalyzer) Analyze(eCtx *core.EpisodeContext, _ *core.Trace) {
	v.values = eCtx.Values
}

// DataSet returns a core.ValueFunction, or nil for policies without one
func (v *ValueAnalyzer) DataSet() core.DataSet {
	if v.values == nil {
		return nil
	}
	return v.values.Values()
}

func (v *ValueAnalyzer) Reset() {
	v.values = nil
}

type ValueAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &ValueAnalyzerConstructor{}

func NewValueAnalyzerConstructor() *ValueAnalyzerConstructor {
	return &ValueAnalyzerConstructor{}
}

func (*ValueAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewValueAnalyzer()
}

func valueFunctions(experimentNames []string, datasets []core.DataSet) ([]string, []core.ValueFunction) {
	names := make([]string, 0, len(experimentNames))
	values := make([]core.ValueFunction, 0, len(experimentNames))
	for i, name := range experimentNames {
		vf, ok := datasets[i].(core.ValueFunction)
		if !ok || vf == nil {
			continue
		}
		names = append(names, name)
		values = append(values, vf)
	}
	return names, values
}

// SurfaceComparator renders V*(s) = max_a Q(s, a) of every experiment as a
// 3D bar chart keyed by dealer card and player sum
type SurfaceComparator struct {
	savePath string
	logger   *log.Logger
}

var _ core.Comparator = &SurfaceComparator{}

func NewSurfaceComparator(savePath string, logger *log.Logger) *SurfaceComparator {
	if logger == nil {
		logger = log.Default()
	}
	return &SurfaceComparator{
		savePath: path.Join(savePath, "value_surface.html"),
		logger:   logger,
	}
}

func (s *SurfaceComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	names, values := valueFunctions(experimentNames, datasets)
	if len(names) == 0 {
		return
	}

	page := components.NewPage()
	for i, name := range names {
		if err := values[i].Complete(); err != nil {
			s.logger.Warn("plotting partial value function", "experiment", name, "err", err)
		}
		page.AddCharts(surfaceChart(name, values[i]))
	}
	if err := util.SaveRender(s.savePath, page); err != nil {
		s.logger.Error("rendering value surface", "err", err)
	}
}

func surfaceChart(name string, vf core.ValueFunction) *charts.Bar3D {
	dealer := make([]string, 0, game.MaxCard)
	for d := game.MinCard; d <= game.MaxCard; d++ {
		dealer = append(dealer, strconv.Itoa(d))
	}
	player := make([]string, 0, game.MaxSum)
	for p := game.MinSum; p <= game.MaxSum; p++ {
		player = append(player, strconv.Itoa(p))
	}

	bar := charts.NewBar3D()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: name}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "Dealer showing", Data: dealer}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Player sum", Data: player}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "V*"}),
	)

	data := make([]opts.Chart3DData, 0, len(dealer)*len(player))
	for _, s := range game.States() {
		data = append(data, opts.Chart3DData{
			Value: []interface{}{s.Dealer - game.MinCard, s.Player - game.MinSum, vf.V(s)},
		})
	}
	bar.AddSeries("V*", data)
	return bar
}

type SurfaceComparatorConstructor struct {
	savePath string
	logger   *log.Logger
}

var _ core.ComparatorConstructor = &SurfaceComparatorConstructor{}

func NewSurfaceComparatorConstructor(savePath string, logger *log.Logger) *SurfaceComparatorConstructor {
	return &SurfaceComparatorConstructor{
		savePath: savePath,
		logger:   logger,
	}
}

func (s *SurfaceComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewSurfaceComparator(path.Join(s.savePath, strconv.Itoa(run)), s.logger)
}

// PolicyComparator prints the greedy policy of every experiment as a grid,
// player sums top to bottom and dealer cards left to right
type PolicyComparator struct {
	out io.Writer
}

var _ core.Comparator = &PolicyComparator{}

func NewPolicyComparator(out io.Writer) *PolicyComparator {
	return &PolicyComparator{out: out}
}

func (p *PolicyComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	names, values := valueFunctions(experimentNames, datasets)
	for i, name := range names {
		fmt.Fprintf(p.out, "Greedy policy: %s\n", name)
		writePolicy(p.out, values[i])
		fmt.Fprintln(p.out)
	}
}

func writePolicy(w io.Writer, vf core.ValueFunction) {
	fmt.Fprint(w, "    ")
	for d := game.MinCard; d <= game.MaxCard; d++ {
		fmt.Fprintf(w, "%3d", d)
	}
	fmt.Fprintln(w)
	for p := game.MaxSum; p >= game.MinSum; p-- {
		fmt.Fprintf(w, "%3d ", p)
		for d := game.MinCard; d <= game.MaxCard; d++ {
			s := game.State{Dealer: d, Player: p}
			action, decided := vf.Greedy(s)
			switch {
			case !vf.Visited(s) || !decided:
				fmt.Fprint(w, aurora.White("  ."))
			case action == game.Hit:
				fmt.Fprint(w, aurora.Green("  H"))
			default:
				fmt.Fprint(w, aurora.Blue("  S"))
			}
		}
		fmt.Fprintln(w)
	}
}

type PolicyComparatorConstructor struct {
	out io.Writer
}

var _ core.ComparatorConstructor = &PolicyComparatorConstructor{}

func NewPolicyComparatorConstructor(out io.Writer) *PolicyComparatorConstructor {
	return &PolicyComparatorConstructor{out: out}
}

func (p *PolicyComparatorConstructor) NewComparator(_ int) core.Comparator {
	return NewPolicyComparator(p.out)
}
