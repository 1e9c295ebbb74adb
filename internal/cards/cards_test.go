package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardRankSuitRoundTrip(t *testing.T) {
	for id := 0; id < 52; id++ {
		c := Card(id)
		require.Equal(t, c, Make(c.Rank(), c.Suit()))
		require.GreaterOrEqual(t, c.Rank(), uint8(2))
		require.LessOrEqual(t, c.Rank(), uint8(14))
	}
}

func TestCardString(t *testing.T) {
	require.Equal(t, "2c", Card(0).String())
	require.Equal(t, "Ac", Card(12).String())
	require.Equal(t, "Td", Make(10, SuitDiamonds).String())
	require.Equal(t, "As", Make(14, SuitSpades).String())
}

func TestParse(t *testing.T) {
	for id := 0; id < 52; id++ {
		c := Card(id)
		got, err := Parse(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	for _, bad := range []string{"", "A", "1s", "Ax", "10s"} {
		_, err := Parse(bad)
		require.Error(t, err, bad)
	}
}

func TestDeckDrawsAll52Distinct(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(7)))
	d.Shuffle()

	seen := map[Card]bool{}
	for i := 0; i < 52; i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	_, err := d.Draw()
	require.ErrorIs(t, err, ErrOutOfCards)
}

func TestShuffleResetsCursor(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	d.Shuffle()
	for i := 0; i < 52; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	d.Shuffle()
	require.Equal(t, 52, d.Remaining())
	_, err := d.Draw()
	require.NoError(t, err)
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	d := NewStackedDeck(MustParse("As"), MustParse("Kd"))
	c, err := d.Draw()
	require.NoError(t, err)
	require.Equal(t, "As", c.String())
	c, err = d.Draw()
	require.NoError(t, err)
	require.Equal(t, "Kd", c.String())
	_, err = d.Draw()
	require.ErrorIs(t, err, ErrOutOfCards)
}

func TestDeterministicDeckIsStablePermutation(t *testing.T) {
	a := DeterministicDeck([]byte("seed"))
	b := DeterministicDeck([]byte("seed"))
	require.Equal(t, a, b)

	seen := map[Card]bool{}
	for _, c := range a {
		require.False(t, seen[c])
		seen[c] = true
	}
	require.Len(t, seen, 52)
}
