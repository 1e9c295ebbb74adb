package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"limitpoker/internal/cards"
	"limitpoker/internal/chips"
	"limitpoker/internal/event"
	"limitpoker/internal/game"
)

type obs struct {
	events []event.Event
}

func (o *obs) Notify(e event.Event) { o.events = append(o.events, e) }

func (o *obs) last(kind string) event.Event {
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Kind() == kind {
			return o.events[i]
		}
	}
	return nil
}

func cents(c int64) chips.Amount { return chips.FromCents(c) }

func newTestTable(t *testing.T, numSeats int) (*Table, *obs) {
	t.Helper()
	tbl := NewTable(1, "test", game.NewFixedLimit(cents(2), cents(4)), numSeats)
	tbl.SetDeckFunc(func() *cards.Deck { return cards.NewSeededDeck([]byte("table")) })
	o := &obs{}
	tbl.AddObserver("watcher", o)
	return tbl, o
}

// post answers a blind prompt with its post-blind entry.
func post(t *testing.T, tbl *Table, username string) {
	t.Helper()
	actions := tbl.PendingActions(username)
	require.NotEmpty(t, actions, "%s has no blind prompt", username)
	require.Equal(t, game.ActionPostBlind, actions[0].Kind)
	require.NoError(t, tbl.Act(username, 0, nil))
}

func TestSeatPlayerValidation(t *testing.T) {
	tbl, o := newTestTable(t, 4)

	_, err := tbl.SeatPlayer("alice", 0, cents(1000))
	require.NoError(t, err)
	require.NotNil(t, o.last("PlayerJoinedGame"))

	_, err = tbl.SeatPlayer("bob", 0, cents(1000))
	require.ErrorIs(t, err, ErrSeatOccupied)

	_, err = tbl.SeatPlayer("alice", 1, cents(1000))
	require.ErrorIs(t, err, ErrAlreadySeated)

	_, err = tbl.SeatPlayer("bob", 4, cents(1000))
	require.ErrorIs(t, err, ErrNoSuchSeat)
	_, err = tbl.SeatPlayer("bob", -1, cents(1000))
	require.ErrorIs(t, err, ErrNoSuchSeat)
}

func TestBeginRequiresTwoActivePlayers(t *testing.T) {
	tbl, _ := newTestTable(t, 4)
	require.ErrorIs(t, tbl.Begin(), ErrNotEnoughPlayers)

	_, err := tbl.SeatPlayer("alice", 0, cents(1000))
	require.NoError(t, err)
	require.ErrorIs(t, tbl.Begin(), ErrNotEnoughPlayers)
}

func TestBlindNegotiationDealsAHand(t *testing.T) {
	tbl, o := newTestTable(t, 4)
	_, err := tbl.SeatPlayer("p0", 0, cents(1000))
	require.NoError(t, err)
	_, err = tbl.SeatPlayer("p1", 1, cents(1000))
	require.NoError(t, err)
	_, err = tbl.SeatPlayer("p2", 2, cents(1000))
	require.NoError(t, err)

	require.NoError(t, tbl.Begin())
	require.Equal(t, 0, tbl.DealerSeat())
	require.Equal(t, "small_blind", tbl.NegotiationState())

	// Beginning again while negotiating is rejected.
	require.ErrorIs(t, tbl.Begin(), ErrHandUnderway)

	post(t, tbl, "p1")
	require.Equal(t, "big_blind", tbl.NegotiationState())
	post(t, tbl, "p2")

	require.True(t, tbl.HandUnderway())
	started := o.last("NewHandStarted").(event.NewHandStarted)
	require.Equal(t, []string{"p1", "p2", "p0"}, started.Players)
	require.Equal(t, 0, started.DealerSeat)

	// The game, not the negotiation, posted the blinds.
	require.Equal(t, cents(999), tbl.PlayerByName("p1").Chips)
	require.Equal(t, cents(998), tbl.PlayerByName("p2").Chips)

	st := tbl.State()
	require.True(t, st.HandUnderway)
	require.Equal(t, 2, st.Seats[1].NumCards)
	require.Equal(t, cents(1), st.RoundBets[1])
	require.Equal(t, cents(2), st.RoundBets[2])
}

func TestSmallBlindCandidateSitsOutThreeHanded(t *testing.T) {
	tbl, o := newTestTable(t, 3)
	for i, name := range []string{"p0", "p1", "p2"} {
		_, err := tbl.SeatPlayer(name, i, cents(1000))
		require.NoError(t, err)
	}

	require.NoError(t, tbl.Begin())
	require.Equal(t, 0, tbl.DealerSeat())
	require.NotEmpty(t, tbl.PendingActions("p1"))

	// p1 declines the small blind: heads-up rules now put the small blind
	// on the dealer, who is re-prompted in the same state.
	actions := tbl.PendingActions("p1")
	require.Equal(t, game.ActionSitOut, actions[1].Kind)
	require.NoError(t, tbl.Act("p1", 1, nil))

	require.True(t, tbl.PlayerByName("p1").SittingOut)
	require.Equal(t, 0, tbl.DealerSeat())
	require.Equal(t, "small_blind", tbl.NegotiationState())
	require.Empty(t, tbl.PendingActions("p1"))
	require.NotEmpty(t, tbl.PendingActions("p0"))

	// The last opponent sits out too: the hand is cancelled and the table
	// idles.
	require.NoError(t, tbl.SitOutPlayer("p2"))
	require.NotNil(t, o.last("HandCancelled"))
	require.False(t, tbl.Negotiating())
	require.Empty(t, tbl.PendingActions("p0"))
}

func TestBigBlindCandidateSitsOutThreeHandedRestartsNegotiation(t *testing.T) {
	tbl, _ := newTestTable(t, 3)
	for i, name := range []string{"p0", "p1", "p2"} {
		_, err := tbl.SeatPlayer(name, i, cents(1000))
		require.NoError(t, err)
	}

	require.NoError(t, tbl.Begin())
	post(t, tbl, "p1")
	require.NotEmpty(t, tbl.PendingActions("p2"))

	// The big-blind candidate drops to heads-up, so the small blind moves
	// to the dealer and negotiation starts over.
	require.NoError(t, tbl.Act("p2", 1, nil))
	require.Equal(t, "small_blind", tbl.NegotiationState())
	require.NotEmpty(t, tbl.PendingActions("p0"))

	post(t, tbl, "p0")
	post(t, tbl, "p1")
	require.True(t, tbl.HandUnderway())
}

func TestHandEndRotatesDealerAndDealsNextHand(t *testing.T) {
	tbl, _ := newTestTable(t, 2)
	_, err := tbl.SeatPlayer("p0", 0, cents(1000))
	require.NoError(t, err)
	_, err = tbl.SeatPlayer("p1", 1, cents(1000))
	require.NoError(t, err)

	require.NoError(t, tbl.Begin())
	require.Equal(t, 0, tbl.DealerSeat())
	post(t, tbl, "p0") // heads-up dealer posts the small blind
	post(t, tbl, "p1")
	require.True(t, tbl.HandUnderway())

	// The dealer acts first preflop heads-up; folding ends the hand and
	// the next one begins with the button passed.
	actions := tbl.PendingActions("p0")
	require.Len(t, actions, 3)
	require.NoError(t, tbl.Act("p0", 2, nil))

	require.False(t, tbl.HandUnderway())
	require.Equal(t, 1, tbl.DealerSeat())
	require.Equal(t, "small_blind", tbl.NegotiationState())
	require.NotEmpty(t, tbl.PendingActions("p1"))

	require.Equal(t, cents(999), tbl.PlayerByName("p0").Chips)
	require.Equal(t, cents(1001), tbl.PlayerByName("p1").Chips)
}

func TestActValidation(t *testing.T) {
	tbl, _ := newTestTable(t, 2)
	_, err := tbl.SeatPlayer("p0", 0, cents(1000))
	require.NoError(t, err)
	_, err = tbl.SeatPlayer("p1", 1, cents(1000))
	require.NoError(t, err)

	require.ErrorIs(t, tbl.Act("ghost", 0, nil), ErrNotSeated)

	require.NoError(t, tbl.Begin())
	require.ErrorIs(t, tbl.Act("p1", 0, nil), game.ErrUnexpectedAction)
	require.ErrorIs(t, tbl.Act("p0", 5, nil), game.ErrActionParams)
	require.ErrorIs(t, tbl.Act("p0", -1, nil), game.ErrActionParams)
	require.ErrorIs(t, tbl.Act("p0", 0, []string{"extra"}), game.ErrActionParams)

	post(t, tbl, "p0")
	post(t, tbl, "p1")

	// In-hand: a raise must quote the offered amount.
	actions := tbl.PendingActions("p0")
	require.Equal(t, game.ActionRaise, actions[0].Kind)
	require.ErrorIs(t, tbl.Act("p0", 0, nil), game.ErrActionParams)
	require.ErrorIs(t, tbl.Act("p0", 0, []string{"9.99"}), game.ErrInvalidPlay)
	require.NoError(t, tbl.Act("p0", 0, []string{actions[0].Amount.String()}))
}

func TestSitOutDuringHandFoldsWhenPrompted(t *testing.T) {
	tbl, o := newTestTable(t, 2)
	_, err := tbl.SeatPlayer("p0", 0, cents(1000))
	require.NoError(t, err)
	_, err = tbl.SeatPlayer("p1", 1, cents(1000))
	require.NoError(t, err)

	require.NoError(t, tbl.Begin())
	post(t, tbl, "p0")
	post(t, tbl, "p1")
	require.NotEmpty(t, tbl.PendingActions("p0"))

	require.NoError(t, tbl.SitOutPlayer("p0"))
	require.NotNil(t, o.last("PlayerFolded"))
	require.False(t, tbl.HandUnderway())
	require.Equal(t, cents(1001), tbl.PlayerByName("p1").Chips)

	// Only one active player remains, so no new hand is dealt.
	require.False(t, tbl.Negotiating())
}

func TestRemovePlayerMidHandFoldsAndFreesSeat(t *testing.T) {
	tbl, o := newTestTable(t, 3)
	for i, name := range []string{"p0", "p1", "p2"} {
		_, err := tbl.SeatPlayer(name, i, cents(1000))
		require.NoError(t, err)
	}

	require.NoError(t, tbl.Begin())
	post(t, tbl, "p1")
	post(t, tbl, "p2")
	require.True(t, tbl.HandUnderway())

	// p0 (first to act preflop) leaves mid-hand.
	require.NoError(t, tbl.RemovePlayer("p0"))
	require.Nil(t, tbl.PlayerByName("p0"))
	require.NotNil(t, o.last("PlayerLeftTable"))
	require.NotNil(t, o.last("PlayerFolded"))

	// The hand continues heads-up between the blinds.
	require.True(t, tbl.HandUnderway())
	require.NotEmpty(t, tbl.PendingActions("p1"))
}

func TestEngineFailureCancelsHandAndReportsCause(t *testing.T) {
	tbl, o := newTestTable(t, 2)
	// A one-card deck makes the deal fail as soon as the hand starts.
	tbl.SetDeckFunc(func() *cards.Deck { return cards.NewStackedDeck(cards.MustParse("2c")) })

	var failedHand string
	var failedErr error
	tbl.SetFailureFunc(func(handID string, err error) {
		failedHand = handID
		failedErr = err
	})

	_, err := tbl.SeatPlayer("p0", 0, cents(1000))
	require.NoError(t, err)
	_, err = tbl.SeatPlayer("p1", 1, cents(1000))
	require.NoError(t, err)

	require.NoError(t, tbl.Begin())
	post(t, tbl, "p0")
	post(t, tbl, "p1")

	require.NotNil(t, o.last("HandCancelled"))
	require.NotEmpty(t, failedHand)
	require.ErrorIs(t, failedErr, cards.ErrOutOfCards)

	// The blinds were refunded before the table moved on.
	require.Equal(t, cents(1000), tbl.PlayerByName("p0").Chips)
	require.Equal(t, cents(1000), tbl.PlayerByName("p1").Chips)
}

func TestStateSnapshotHidesCards(t *testing.T) {
	tbl, _ := newTestTable(t, 2)
	_, err := tbl.SeatPlayer("p0", 0, cents(1000))
	require.NoError(t, err)
	_, err = tbl.SeatPlayer("p1", 1, cents(1000))
	require.NoError(t, err)

	st := tbl.State()
	require.False(t, st.HandUnderway)
	require.Len(t, st.Seats, 2)
	require.Equal(t, 0, st.Seats[0].NumCards)

	require.NoError(t, tbl.Begin())
	post(t, tbl, "p0")
	post(t, tbl, "p1")

	st = tbl.State()
	require.True(t, st.HandUnderway)
	require.Equal(t, 2, st.Seats[0].NumCards)
	require.Equal(t, 2, st.Seats[1].NumCards)
	require.Len(t, st.Pots, 0) // blinds still in round bets
	require.Equal(t, cents(1), st.RoundBets[0])
	require.Equal(t, cents(2), st.RoundBets[1])

	listing := tbl.Listing()
	require.Equal(t, 2, listing.PlayerCount)
	require.Equal(t, "test", listing.Name)
}
