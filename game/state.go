package game

import (
	"fmt"
	"strconv"
)

const (
	MinSum = 1
	MaxSum = 21

	MinCard = 1
	MaxCard = 10

	// DealerStandsAt is the sum from which the dealer stops drawing
	DealerStandsAt = 17
)

// State is what the player observes: the dealer's first card and the player's sum
type State struct {
	Dealer int
	Player int
}

func (s State) String() string {
	return fmt.Sprintf("(%d, %d)", s.Dealer, s.Player)
}

// InBounds reports whether the player's sum is still playable
func (s State) InBounds() bool {
	return inBounds(s.Player)
}

func inBounds(sum int) bool {
	return sum >= MinSum && sum <= MaxSum
}

// States enumerates every non-terminal state in dealer-major order
func States() []State {
	out := make([]State, 0, (MaxCard-MinCard+1)*(MaxSum-MinSum+1))
	for d := MinCard; d <= MaxCard; d++ {
		for p := MinSum; p <= MaxSum; p++ {
			out = append(out, State{Dealer: d, Player: p})
		}
	}
	return out
}

type Action uint8

const (
	Hit Action = iota + 1
	Stand
)

// Actions lists the legal actions in a fixed order
var Actions = []Action{Hit, Stand}

func (a Action) Valid() bool {
	return a == Hit || a == Stand
}

func (a Action) String() string {
	switch a {
	case Hit:
		return "HIT"
	case Stand:
		return "STAND"
	default:
		return "Action(" + strconv.Itoa(int(a)) + ")"
	}
}

// StateAction is the key of the action-value, visit and trace tables
type StateAction struct {
	State  State
	Action Action
}

func (sa StateAction) String() string {
	return sa.State.String() + " " + sa.Action.String()
}

// Reward is a terminal reward. Non-terminal steps carry NoReward.
type Reward struct {
	value   int
	present bool
}

var NoReward = Reward{}

var (
	Win  = RewardOf(1)
	Draw = RewardOf(0)
	Lose = RewardOf(-1)
)

func RewardOf(v int) Reward {
	return Reward{value: v, present: true}
}

// Value returns the reward and whether one was given
func (r Reward) Value() (int, bool) {
	return r.value, r.present
}

func (r Reward) Present() bool {
	return r.present
}

// Float returns the reward as a float, 0 when absent
func (r Reward) Float() float64 {
	return float64(r.value)
}

func (r Reward) String() string {
	if !r.present {
		return "none"
	}
	return strconv.Itoa(r.value)
}
