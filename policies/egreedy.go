package policies

import (
	"time"

	"github.com/zeu5/easy21-rl/game"
	erand "golang.org/x/exp/rand"
)

// Visit is one (s, a) occurrence of an episode with N(s, a) right after it was counted
type Visit struct {
	game.StateAction
	Count int
}

// Trajectory is the ordered list of visits of the current episode
type Trajectory struct {
	visits []Visit
}

func NewTrajectory() *Trajectory {
	return &Trajectory{visits: make([]Visit, 0, 8)}
}

func (t *Trajectory) Add(s game.State, a game.Action, count int) {
	t.visits = append(t.visits, Visit{
		StateAction: game.StateAction{State: s, Action: a},
		Count:       count,
	})
}

func (t *Trajectory) Visits() []Visit {
	return t.visits
}

func (t *Trajectory) Len() int {
	return len(t.visits)
}

func (t *Trajectory) Clear() {
	t.visits = t.visits[:0]
}

// EpsilonGreedy explores with epsilon = N0 / (N0 + N(s)), so every state
// starts fully exploratory and becomes greedy as it is revisited.
type EpsilonGreedy struct {
	N0     float64
	visits *Visits
	rand   *erand.Rand
}

func NewEpsilonGreedy(n0 float64, visits *Visits, seed uint64) *EpsilonGreedy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &EpsilonGreedy{
		N0:     n0,
		visits: visits,
		rand:   erand.New(erand.NewSource(seed)),
	}
}

func (p *EpsilonGreedy) Epsilon(s game.State) float64 {
	return p.N0 / (p.N0 + float64(p.visits.State(s)))
}

// Pick counts the visit to s, chooses an action, counts (s, a) and appends
// it to the trajectory. Equal estimates are always broken at random.
func (p *EpsilonGreedy) Pick(s game.State, q *QTable, trajectory *Trajectory) game.Action {
	p.visits.RecordState(s)
	epsilon := p.Epsilon(s)

	var action game.Action
	hit, stand := q.Get(s, game.Hit), q.Get(s, game.Stand)
	switch {
	case p.rand.Float64() < epsilon || hit == stand:
		action = game.Actions[p.rand.Intn(len(game.Actions))]
	case hit > stand:
		action = game.Hit
	default:
		action = game.Stand
	}

	count := p.visits.RecordStateAction(s, action)
	trajectory.Add(s, action, count)
	return action
}
