package cards

import (
	"errors"
	"math/rand"
)

// ErrOutOfCards is returned when more than 52 cards are drawn between
// shuffles. Reaching it mid-hand is an engine bug.
var ErrOutOfCards = errors.New("out of cards")

// Deck is an ordered 52-card sequence with a draw cursor. It is owned
// exclusively by the hand that deals from it.
type Deck struct {
	cards []Card
	top   int
	rng   *rand.Rand
}

// NewDeck returns an unshuffled deck dealing from the given source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 52), rng: rng}
	for i := 0; i < 52; i++ {
		d.cards[i] = Card(i)
	}
	return d
}

// NewStackedDeck deals the given cards in order. Used by tests that need a
// known board or known pockets.
func NewStackedDeck(cs ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cs...)}
}

// NewSeededDeck returns a deck in the deterministic order derived from seed.
func NewSeededDeck(seed []byte) *Deck {
	return &Deck{cards: DeterministicDeck(seed)}
}

// Shuffle produces a uniformly random permutation of the current cards and
// resets the draw cursor.
func (d *Deck) Shuffle() {
	d.top = 0
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw returns the next card, or ErrOutOfCards when the deck is exhausted.
func (d *Deck) Draw() (Card, error) {
	if d.top >= len(d.cards) {
		return 0, ErrOutOfCards
	}
	c := d.cards[d.top]
	d.top++
	return c, nil
}

// Remaining reports how many cards can still be drawn.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.top
}
