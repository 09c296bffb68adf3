package game

import (
	"time"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type Color uint8

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Card is a single draw from the infinite Easy21 deck
type Card struct {
	Value int
	Color Color
}

// Signed returns the card's contribution to a running sum.
// Red cards subtract, black cards add.
func (c Card) Signed() int {
	if c.Color == Red {
		return -c.Value
	}
	return c.Value
}

// CardSource produces cards for an Environment
type CardSource interface {
	Draw() Card
	DrawBlack() Card
}

// colorWeights indexed by Color: black with probability 2/3, red with 1/3
var colorWeights = []float64{2, 1}

// Cards draws with replacement from an infinite deck
type Cards struct {
	rand  *erand.Rand
	color distuv.Categorical
}

var _ CardSource = &Cards{}

// NewCards seeds the deck. A zero seed uses the current time.
func NewCards(seed uint64) *Cards {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := erand.NewSource(seed)
	return &Cards{
		rand:  erand.New(src),
		color: distuv.NewCategorical(colorWeights, src),
	}
}

func (c *Cards) value() int {
	return MinCard + c.rand.Intn(MaxCard-MinCard+1)
}

func (c *Cards) Draw() Card {
	return Card{
		Value: c.value(),
		Color: Color(c.color.Rand()),
	}
}

func (c *Cards) DrawBlack() Card {
	return Card{Value: c.value(), Color: Black}
}
