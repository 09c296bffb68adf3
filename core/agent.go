package core

import "github.com/zeu5/easy21-rl/game"

// Policy both acts and learns. A policy instance owns all of its tables,
// so two experiments must never share one.
type Policy interface {
	ResetEpisode(*EpisodeContext)
	UpdateEpisode(*EpisodeContext)
	PickAction(*StepContext, game.State) game.Action
	// UpdateStep is called after every environment step. When the step
	// is not terminal, NextAction has already been picked from NextState.
	UpdateStep(*StepContext, *Step)
	Reset()
}

type PolicyConstructor interface {
	NewPolicy() Policy
}

// ValueReader is implemented by policies that learn an action-value function
type ValueReader interface {
	Values() ValueFunction
}
