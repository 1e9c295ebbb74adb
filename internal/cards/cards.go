package cards

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Card is a 0..51 id, where:
// - rank = (id % 13) + 2  (2..14, ace high)
// - suit = (id / 13)      (0..3)
type Card uint8

const (
	SuitClubs uint8 = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// Make builds a card from rank (2..14) and suit (0..3).
func Make(rank, suit uint8) Card {
	return Card(suit*13 + (rank - 2))
}

func (c Card) Rank() uint8 { // 2..14
	return uint8(c%13) + 2
}

func (c Card) Suit() uint8 { // 0..3
	return uint8(c / 13)
}

func (c Card) String() string {
	r := c.Rank()
	var rch byte
	switch r {
	case 14:
		rch = 'A'
	case 13:
		rch = 'K'
	case 12:
		rch = 'Q'
	case 11:
		rch = 'J'
	case 10:
		rch = 'T'
	default:
		rch = byte('0' + r)
	}
	s := c.Suit()
	var sch byte
	switch s {
	case SuitClubs:
		sch = 'c'
	case SuitDiamonds:
		sch = 'd'
	case SuitHearts:
		sch = 'h'
	case SuitSpades:
		sch = 's'
	default:
		sch = '?'
	}
	return string([]byte{rch, sch})
}

// Parse reads a two-character card like "As" or "Td".
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q", s)
	}
	var rank uint8
	switch s[0] {
	case 'A':
		rank = 14
	case 'K':
		rank = 13
	case 'Q':
		rank = 12
	case 'J':
		rank = 11
	case 'T':
		rank = 10
	default:
		if s[0] < '2' || s[0] > '9' {
			return 0, fmt.Errorf("invalid card rank %q", s)
		}
		rank = uint8(s[0] - '0')
	}
	var suit uint8
	switch s[1] {
	case 'c':
		suit = SuitClubs
	case 'd':
		suit = SuitDiamonds
	case 'h':
		suit = SuitHearts
	case 's':
		suit = SuitSpades
	default:
		return 0, fmt.Errorf("invalid card suit %q", s)
	}
	return Make(rank, suit), nil
}

// MustParse is Parse for literals in tests and scripted decks.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Strings renders a card slice for event payloads.
func Strings(cs []Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	return out
}

// DeterministicDeck returns a deterministically shuffled 52-card ordering.
// Fisher-Yates driven by a sha256-based stream over seed||counter.
func DeterministicDeck(seed []byte) []Card {
	deck := make([]Card, 52)
	for i := 0; i < 52; i++ {
		deck[i] = Card(i)
	}
	var counter uint64
	for i := 51; i > 0; i-- {
		buf := make([]byte, len(seed)+8)
		copy(buf, seed)
		binary.LittleEndian.PutUint64(buf[len(seed):], counter)
		h := sha256.Sum256(buf)
		counter++
		j := int(binary.LittleEndian.Uint64(h[:8]) % uint64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}
