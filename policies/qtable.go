package policies

import (
	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
)

// QTable holds action-value estimates. Reading an unseen pair creates it at 0.
type QTable struct {
	table map[game.StateAction]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[game.StateAction]float64),
	}
}

func (q *QTable) Get(s game.State, a game.Action) float64 {
	return q.get(game.StateAction{State: s, Action: a})
}

func (q *QTable) get(sa game.StateAction) float64 {
	val, ok := q.table[sa]
	if !ok {
		q.table[sa] = 0
	}
	return val
}

func (q *QTable) Set(s game.State, a game.Action, val float64) {
	q.table[game.StateAction{State: s, Action: a}] = val
}

func (q *QTable) add(sa game.StateAction, delta float64) {
	q.table[sa] = q.get(sa) + delta
}

// Size is the number of state-action pairs accessed so far
func (q *QTable) Size() int {
	return len(q.table)
}

func (q *QTable) Snapshot() core.ValueFunction {
	out := make(core.ValueFunction, len(q.table))
	for sa, val := range q.table {
		out[sa] = val
	}
	return out
}
