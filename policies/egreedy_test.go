package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/easy21-rl/game"
)

func TestEpsilonGreedy_EpsilonDecay(t *testing.T) {
	visits := NewVisits()
	p := NewEpsilonGreedy(40, visits, 1)
	s := game.State{Dealer: 4, Player: 13}

	assert.Equal(t, 1.0, p.Epsilon(s))

	visits.RecordState(s)
	assert.InDelta(t, 40.0/41.0, p.Epsilon(s), 1e-12)

	for i := 0; i < 1_000_000; i++ {
		visits.RecordState(s)
	}
	assert.Less(t, p.Epsilon(s), 1e-4)
}

func TestEpsilonGreedy_TieIsRandom(t *testing.T) {
	visits := NewVisits()
	p := NewEpsilonGreedy(1, visits, 3)
	q := NewQTable()
	s := game.State{Dealer: 2, Player: 8}
	// make the state effectively greedy, both estimates still 0
	for i := 0; i < 100000; i++ {
		visits.RecordState(s)
	}

	traj := NewTrajectory()
	counts := make(map[game.Action]int)
	for i := 0; i < 4000; i++ {
		counts[p.Pick(s, q, traj)]++
	}
	assert.InDelta(t, 2000, counts[game.Hit], 250)
	assert.InDelta(t, 2000, counts[game.Stand], 250)
}

func TestEpsilonGreedy_GreedyOnLargerEstimate(t *testing.T) {
	visits := NewVisits()
	p := NewEpsilonGreedy(1, visits, 5)
	q := NewQTable()
	s := game.State{Dealer: 10, Player: 20}
	q.Set(s, game.Stand, 0.6)
	q.Set(s, game.Hit, -0.4)
	for i := 0; i < 1_000_000; i++ {
		visits.RecordState(s)
	}

	traj := NewTrajectory()
	stands := 0
	for i := 0; i < 1000; i++ {
		if p.Pick(s, q, traj) == game.Stand {
			stands++
		}
	}
	assert.GreaterOrEqual(t, stands, 995)
}

func TestEpsilonGreedy_PickBookkeeping(t *testing.T) {
	visits := NewVisits()
	p := NewEpsilonGreedy(40, visits, 9)
	q := NewQTable()
	traj := NewTrajectory()
	s := game.State{Dealer: 7, Player: 11}

	a := p.Pick(s, q, traj)
	require.True(t, a.Valid())
	assert.Equal(t, 1, visits.State(s))
	assert.Equal(t, 1, visits.StateAction(s, a))
	require.Equal(t, 1, traj.Len())
	assert.Equal(t, Visit{StateAction: game.StateAction{State: s, Action: a}, Count: 1}, traj.Visits()[0])

	// both estimates were read, so both now exist at their default
	assert.Equal(t, 2, q.Size())
	assert.Zero(t, q.Get(s, game.Hit))
	assert.Zero(t, q.Get(s, game.Stand))
}

func TestVisits_Monotone(t *testing.T) {
	visits := NewVisits()
	s := game.State{Dealer: 1, Player: 5}
	assert.Zero(t, visits.State(s))
	assert.Zero(t, visits.StateAction(s, game.Hit))

	for i := 1; i <= 5; i++ {
		assert.Equal(t, i, visits.RecordState(s))
		assert.Equal(t, i, visits.RecordStateAction(s, game.Hit))
	}
	assert.Zero(t, visits.StateAction(s, game.Stand))
}

func TestQTable_DefaultsToZero(t *testing.T) {
	q := NewQTable()
	s := game.State{Dealer: 3, Player: 3}
	assert.Zero(t, q.Size())
	assert.Zero(t, q.Get(s, game.Hit))
	assert.Equal(t, 1, q.Size())

	q.Set(s, game.Hit, 0.25)
	assert.Equal(t, 0.25, q.Get(s, game.Hit))

	snap := q.Snapshot()
	q.Set(s, game.Hit, -1)
	assert.Equal(t, 0.25, snap.Q(s, game.Hit))
}
