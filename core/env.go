package core

import (
	"context"

	"github.com/zeu5/easy21-rl/game"
)

type Environment interface {
	Reset() game.State
	Step(game.State, game.Action) game.Outcome
}

var _ Environment = &game.Env{}

type EpisodeContext struct {
	Context context.Context
	Episode int
	Run     int

	// StartTimeStep is the number of steps taken before this episode
	StartTimeStep int

	Trace *Trace

	// Values is a read-only view of the learner's estimates, nil when
	// the policy keeps no action-value table
	Values ValueReader
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
	}
}

// Reward returns the terminal reward of the episode, absent until the episode finished
func (e *EpisodeContext) Reward() game.Reward {
	if e.Trace.Len() == 0 {
		return game.NoReward
	}
	return e.Trace.Last().Reward
}

type StepContext struct {
	Step int
	*EpisodeContext
}

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment with the given instance number.
	NewEnvironment(int) Environment
}
