package policies

import (
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
)

// learner owns the tables shared by the control algorithms:
// Q, N(s), N(s, a) and the current episode's trajectory
type learner struct {
	n0   float64
	seed uint64

	qTable     *QTable
	visits     *Visits
	explorer   *EpsilonGreedy
	trajectory *Trajectory
}

func newLearner(n0 float64, seed uint64) *learner {
	l := &learner{n0: n0, seed: seed}
	l.Reset()
	return l
}

// Reset discards everything learned
func (l *learner) Reset() {
	l.qTable = NewQTable()
	l.visits = NewVisits()
	l.explorer = NewEpsilonGreedy(l.n0, l.visits, l.seed)
	l.trajectory = NewTrajectory()
}

func (l *learner) ResetEpisode(_ *core.EpisodeContext) {
	l.trajectory.Clear()
}

func (l *learner) PickAction(_ *core.StepContext, s game.State) game.Action {
	return l.explorer.Pick(s, l.qTable, l.trajectory)
}

func (l *learner) Values() core.ValueFunction {
	return l.qTable.Snapshot()
}

func (l *learner) QTable() *QTable {
	return l.qTable
}

func (l *learner) Visits() *Visits {
	return l.visits
}
