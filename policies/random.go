package policies

import (
	"time"

	"github.com/zeu5/easy21-rl/core"
	"github.com/zeu5/easy21-rl/game"
	erand "golang.org/x/exp/rand"
)

// RandomPolicy hits or stands with equal probability and never learns
type RandomPolicy struct {
	rand *erand.Rand
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{
		rand: erand.New(erand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (r *RandomPolicy) PickAction(_ *core.StepContext, _ game.State) game.Action {
	return game.Actions[r.rand.Intn(len(game.Actions))]
}

func (r *RandomPolicy) UpdateStep(_ *core.StepContext, _ *core.Step) {}

func (r *RandomPolicy) ResetEpisode(_ *core.EpisodeContext) {}

type RandomPolicyConstructor struct{}

func (r *RandomPolicyConstructor) NewPolicy() core.Policy {
	return NewRandomPolicy()
}
