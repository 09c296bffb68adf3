package game

import "fmt"

// Outcome is the result of a single environment step
type Outcome struct {
	State    State
	Reward   Reward
	Terminal bool

	// DealerSum is the dealer's final sum after a STAND, 0 otherwise
	DealerSum int
}

// Env is the Easy21 environment. It holds no game state of its own,
// each Step is a pure function of the given state plus fresh card draws.
type Env struct {
	cards CardSource
}

func NewEnv(seed uint64) *Env {
	return NewEnvWithCards(NewCards(seed))
}

func NewEnvWithCards(cards CardSource) *Env {
	return &Env{cards: cards}
}

// Reset deals the opening state. The first card of both dealer and
// player is always black.
func (e *Env) Reset() State {
	return State{
		Dealer: e.cards.DrawBlack().Value,
		Player: e.cards.DrawBlack().Value,
	}
}

// Step plays action a from state s
func (e *Env) Step(s State, a Action) Outcome {
	switch a {
	case Hit:
		return e.hit(s)
	case Stand:
		return e.stand(s)
	default:
		panic(fmt.Sprintf("easy21: invalid action %s in state %s", a, s))
	}
}

func (e *Env) hit(s State) Outcome {
	next := State{Dealer: s.Dealer, Player: s.Player + e.cards.Draw().Signed()}
	if !next.InBounds() {
		return Outcome{State: next, Reward: Lose, Terminal: true}
	}
	return Outcome{State: next, Reward: NoReward}
}

func (e *Env) stand(s State) Outcome {
	dealer := s.Dealer
	for dealer >= MinSum && dealer < DealerStandsAt {
		dealer += e.cards.Draw().Signed()
	}

	out := Outcome{State: s, Terminal: true, DealerSum: dealer}
	switch {
	case !inBounds(dealer):
		out.Reward = Win
	case dealer < s.Player:
		out.Reward = Win
	case dealer > s.Player:
		out.Reward = Lose
	default:
		out.Reward = Draw
	}
	return out
}

// EnvConstructor creates independent environments with derived seeds
type EnvConstructor struct {
	Seed uint64
}

// NewEnv returns the environment for the given instance number
func (c *EnvConstructor) NewEnv(instance int) *Env {
	if c.Seed == 0 {
		return NewEnv(0)
	}
	return NewEnv(c.Seed + uint64(instance)*0x9e3779b97f4a7c15)
}
