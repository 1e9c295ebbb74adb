// Package table manages seating, dealer rotation and blind negotiation, and
// owns the successive hands played at one table. The server drives it from a
// single goroutine; the table itself does no locking.
package table

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"limitpoker/internal/cards"
	"limitpoker/internal/chips"
	"limitpoker/internal/event"
	"limitpoker/internal/game"
)

// Observer receives every event the table publishes. Sessions register one
// observer per opened table.
type Observer interface {
	Notify(e event.Event)
}

// Table seats players and plays hands. Between hands it runs the blind
// negotiation protocol: the small- and big-blind candidates are each offered
// post-blind or sit-out, and the hand is dealt once both have agreed.
type Table struct {
	ID   uint64
	Name string

	limit game.Limit
	seats []*game.Player

	dealerSeat int // -1 until the first hand
	sbPlayer   *game.Player
	bbPlayer   *game.Player

	game *game.Game
	gsm  *game.StateMachine

	// pending holds the blind-negotiation prompts only; during a hand the
	// game tracks its own.
	pending map[string][]game.Action

	observers map[string]Observer

	newDeck       func() *cards.Deck
	newHandID     func() string
	actionTimeout time.Duration
	failureFn     func(handID string, err error)
}

func NewTable(id uint64, name string, limit game.Limit, numSeats int) *Table {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	t := &Table{
		ID:         id,
		Name:       name,
		limit:      limit,
		seats:      make([]*game.Player, numSeats),
		dealerSeat: -1,
		gsm:        game.NewStateMachine(),
		pending:    map[string][]game.Action{},
		observers:  map[string]Observer{},
		newDeck: func() *cards.Deck {
			d := cards.NewDeck(rng)
			d.Shuffle()
			return d
		},
		newHandID: uuid.NewString,
	}
	_ = t.gsm.AddState("small_blind", t.enterSmallBlind)
	_ = t.gsm.AddState("big_blind", t.enterBigBlind)
	_ = t.gsm.AddState("hand_underway", t.enterHandUnderway)
	return t
}

// SetDeckFunc overrides how each hand's deck is produced.
func (t *Table) SetDeckFunc(fn func() *cards.Deck) { t.newDeck = fn }

// SetActionTimeout bounds how long a prompted player may stall during a
// hand. Zero disables the deadline.
func (t *Table) SetActionTimeout(d time.Duration) { t.actionTimeout = d }

// SetFailureFunc registers a callback for hands aborted by an internal
// engine error (deck exhaustion, evaluator failure).
func (t *Table) SetFailureFunc(fn func(handID string, err error)) { t.failureFn = fn }

func (t *Table) Limit() game.Limit     { return t.limit }
func (t *Table) NumSeats() int         { return len(t.seats) }
func (t *Table) DealerSeat() int       { return t.dealerSeat }
func (t *Table) Game() *game.Game      { return t.game }
func (t *Table) Negotiating() bool     { return t.gsm.Started() && t.game == nil }
func (t *Table) NegotiationState() string {
	if t.game != nil {
		return ""
	}
	return t.gsm.Current()
}

// HandUnderway reports whether a hand is currently being played.
func (t *Table) HandUnderway() bool {
	return t.game != nil && !t.game.Finished()
}

func (t *Table) AddObserver(username string, o Observer) { t.observers[username] = o }
func (t *Table) RemoveObserver(username string)          { delete(t.observers, username) }

// Broadcast publishes an event to every observer of the table.
func (t *Table) Broadcast(e event.Event) {
	for _, o := range t.observers {
		o.Notify(e)
	}
}

// NotifyUser publishes an event to a single observer.
func (t *Table) NotifyUser(name string, e event.Event) {
	if o, ok := t.observers[name]; ok {
		o.Notify(e)
	}
}

// SeatPlayer creates a player at the given seat. Occupied seats, seats out
// of range, and usernames already seated elsewhere at the table are
// rejected.
func (t *Table) SeatPlayer(username string, seat int, stack chips.Amount) (*game.Player, error) {
	if seat < 0 || seat >= len(t.seats) {
		return nil, fmt.Errorf("%w: seat %d", ErrNoSuchSeat, seat)
	}
	if t.seats[seat] != nil {
		return nil, fmt.Errorf("%w: seat %d", ErrSeatOccupied, seat)
	}
	if t.PlayerByName(username) != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySeated, username)
	}
	p := game.NewPlayer(username, seat, stack)
	t.seats[seat] = p
	t.Broadcast(event.PlayerJoinedGame{Name: username, Seat: seat})
	return p, nil
}

// RemovePlayer frees the player's seat. A player removed mid-hand is folded
// out of the hand first; their chips leave with them.
func (t *Table) RemovePlayer(username string) error {
	p := t.PlayerByName(username)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNotSeated, username)
	}
	p.SittingOut = true
	if t.HandUnderway() && t.inCurrentHand(p) {
		t.game.SitOut(p)
	}
	t.seats[p.Seat] = nil
	t.Broadcast(event.PlayerLeftTable{Name: username, Seat: p.Seat})
	if t.Negotiating() {
		t.repairNegotiation()
	}
	return nil
}

// SitOutPlayer marks the player sitting out. During a hand the game folds
// them, immediately if they were prompted; during blind negotiation the
// candidate assignment is recomputed.
func (t *Table) SitOutPlayer(username string) error {
	p := t.PlayerByName(username)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNotSeated, username)
	}
	delete(t.pending, username)
	p.SittingOut = true
	t.Broadcast(event.PlayerSatOut{Name: username})
	if t.HandUnderway() && t.inCurrentHand(p) {
		t.game.SitOut(p)
		return nil
	}
	if t.Negotiating() {
		t.repairNegotiation()
	}
	return nil
}

// Begin starts the next hand's blind negotiation: the dealer button moves to
// the next active player and the small-blind candidate is prompted.
func (t *Table) Begin() error {
	if t.HandUnderway() || t.Negotiating() {
		return ErrHandUnderway
	}
	if t.countActive() < 2 {
		return fmt.Errorf("%w: need 2, have %d", ErrNotEnoughPlayers, t.countActive())
	}
	t.advanceDealer()
	t.gsm.Reset()
	return t.gsm.Advance()
}

// PendingActions returns the actions the table or its current hand is
// waiting on from the named player.
func (t *Table) PendingActions(username string) []game.Action {
	if t.HandUnderway() {
		return t.game.PendingActions(username)
	}
	return t.pending[username]
}

// Act arbitrates one response to a prompt: the zero-based index into the
// offered action list plus that action's parameters.
func (t *Table) Act(username string, idx int, params []string) error {
	p := t.PlayerByName(username)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNotSeated, username)
	}

	if t.HandUnderway() {
		actions := t.game.PendingActions(username)
		if actions == nil {
			return fmt.Errorf("%w: %s is not being waited on", game.ErrUnexpectedAction, username)
		}
		a, err := pick(actions, idx, params)
		if err != nil {
			return err
		}
		return t.game.ProcessAction(p, a)
	}

	actions, ok := t.pending[username]
	if !ok {
		return fmt.Errorf("%w: %s is not being waited on", game.ErrUnexpectedAction, username)
	}
	a, err := pick(actions, idx, params)
	if err != nil {
		return err
	}

	switch a.Kind {
	case game.ActionPostBlind:
		delete(t.pending, username)
		if t.gsm.Current() == "small_blind" {
			t.sbPlayer = p
		} else {
			t.bbPlayer = p
		}
		return t.gsm.Advance()
	case game.ActionSitOut:
		return t.SitOutPlayer(username)
	default:
		return fmt.Errorf("%w: %s during blind negotiation", game.ErrUnexpectedAction, a.Kind)
	}
}

func pick(actions []game.Action, idx int, params []string) (game.Action, error) {
	if idx < 0 || idx >= len(actions) {
		return game.Action{}, fmt.Errorf("%w: action index %d out of range", game.ErrActionParams, idx)
	}
	a := actions[idx]
	if err := a.ValidateParams(params); err != nil {
		return game.Action{}, err
	}
	return a, nil
}

// Tick enforces the in-hand action deadline.
func (t *Table) Tick(now time.Time) {
	if t.HandUnderway() {
		t.game.Tick(now)
	}
}

// GameOver regains control from a finished or aborted hand. The next hand
// begins automatically while enough players remain active.
func (t *Table) GameOver() {
	g := t.game
	t.game = nil
	t.sbPlayer, t.bbPlayer = nil, nil
	t.gsm.Reset()
	if g != nil && g.Aborted() {
		if err := g.Failure(); err != nil && t.failureFn != nil {
			t.failureFn(g.ID, err)
		}
		t.Broadcast(event.HandCancelled{})
	}
	if t.countActive() >= 2 {
		_ = t.Begin()
	}
}

func (t *Table) enterSmallBlind() {
	t.pending = map[string][]game.Action{}
	t.sbPlayer, t.bbPlayer = nil, nil
	t.promptBlind(t.smallBlindCandidate(), t.limit.SmallBlind())
}

func (t *Table) enterBigBlind() {
	t.promptBlind(t.bigBlindCandidate(), t.limit.BigBlind())
}

func (t *Table) promptBlind(p *game.Player, blind chips.Amount) {
	if p == nil {
		t.wait()
		return
	}
	actions := game.BlindActions(blind)
	t.pending[p.Name] = actions
	offers := make([]event.ActionOffer, 0, len(actions))
	for _, a := range actions {
		offers = append(offers, a.Offer())
	}
	t.Broadcast(event.PlayerPrompted{Name: p.Name})
	t.NotifyUser(p.Name, event.PlayerPrompted{Name: p.Name, Actions: offers})
}

// repairNegotiation recomputes the blind candidates after a sit-out or
// leave mid-negotiation. The dealer button never moves here; dropping below
// two active players cancels the hand.
func (t *Table) repairNegotiation() {
	if t.countActive() < 2 {
		t.wait()
		return
	}
	switch t.gsm.Current() {
	case "small_blind":
		t.pending = map[string][]game.Action{}
		t.promptBlind(t.smallBlindCandidate(), t.limit.SmallBlind())
	case "big_blind":
		// Heads-up moves the small blind onto the dealer, so a collapse
		// to two players restarts the negotiation. Losing the posted
		// small blind does the same.
		if t.countActive() == 2 || t.sbPlayer == nil || !isActive(t.sbPlayer) {
			t.gsm.Reset()
			_ = t.gsm.Advance()
			return
		}
		t.pending = map[string][]game.Action{}
		t.promptBlind(t.bigBlindCandidate(), t.limit.BigBlind())
	}
}

// wait cancels the pending hand and idles the table until the next Begin.
func (t *Table) wait() {
	t.pending = map[string][]game.Action{}
	t.sbPlayer, t.bbPlayer = nil, nil
	t.game = nil
	t.gsm.Reset()
	t.Broadcast(event.HandCancelled{})
}

func (t *Table) enterHandUnderway() {
	t.pending = map[string][]game.Action{}

	players := t.handPlayers()
	dealer := indexOf(players, t.seats[t.dealerSeat])
	if dealer < 0 {
		// Dead button: the player just before the vacated dealer seat.
		dealer = len(players) - 1
	}
	sb := indexOf(players, t.sbPlayer)
	bb := indexOf(players, t.bbPlayer)
	if len(players) < 2 || sb < 0 || bb < 0 {
		t.wait()
		return
	}

	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	t.Broadcast(event.NewHandStarted{Players: names, DealerSeat: t.dealerSeat})

	g := game.NewGame(t.newHandID(), t.limit, t.newDeck(), players, dealer, sb, bb, t, t)
	if t.actionTimeout > 0 {
		g.SetActionTimeout(t.actionTimeout)
	}
	t.game = g
	if err := g.Start(); err != nil {
		t.game = nil
		t.wait()
	}
}

// handPlayers lists the active players clockwise starting at the seat after
// the dealer, so the dealer is last.
func (t *Table) handPlayers() []*game.Player {
	n := len(t.seats)
	players := make([]*game.Player, 0, n)
	for i := 1; i <= n; i++ {
		p := t.seats[(t.dealerSeat+i)%n]
		if p != nil && isActive(p) {
			players = append(players, p)
		}
	}
	return players
}

func indexOf(players []*game.Player, p *game.Player) int {
	for i, q := range players {
		if q == p {
			return i
		}
	}
	return -1
}

func (t *Table) smallBlindCandidate() *game.Player {
	// Heads-up the dealer posts the small blind.
	if d := t.seats[t.dealerSeat]; t.countActive() == 2 && d != nil && isActive(d) {
		return d
	}
	return t.nextActiveAfter(t.dealerSeat)
}

func (t *Table) bigBlindCandidate() *game.Player {
	return t.nextActiveAfter(t.sbPlayer.Seat)
}

func (t *Table) nextActiveAfter(seat int) *game.Player {
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		p := t.seats[((seat+i)%n+n)%n]
		if p != nil && isActive(p) {
			return p
		}
	}
	return nil
}

func (t *Table) advanceDealer() {
	start := t.dealerSeat
	if start < 0 {
		start = len(t.seats) - 1
	}
	if p := t.nextActiveAfter(start); p != nil {
		t.dealerSeat = p.Seat
	}
}

func isActive(p *game.Player) bool {
	return !p.SittingOut && p.Chips > 0
}

func (t *Table) countActive() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && isActive(p) {
			n++
		}
	}
	return n
}

// PlayerByName returns the seated player with the given username, or nil.
func (t *Table) PlayerByName(username string) *game.Player {
	for _, p := range t.seats {
		if p != nil && p.Name == username {
			return p
		}
	}
	return nil
}

func (t *Table) inCurrentHand(p *game.Player) bool {
	if t.game == nil {
		return false
	}
	for _, q := range t.game.Players() {
		if q == p {
			return true
		}
	}
	return false
}

// Listing summarizes the table for the directory.
func (t *Table) Listing() event.TableListing {
	n := 0
	for _, p := range t.seats {
		if p != nil {
			n++
		}
	}
	return event.TableListing{
		ID:          t.ID,
		Name:        t.Name,
		Limit:       t.limit.String(),
		PlayerCount: n,
	}
}

// State snapshots the table for a newly attached observer. Opponents' hole
// cards are reduced to a count.
func (t *Table) State() event.TableState {
	st := event.TableState{
		ID:           t.ID,
		Name:         t.Name,
		Limit:        t.limit.String(),
		HandUnderway: t.HandUnderway(),
		Seats:        make([]*event.PlayerState, len(t.seats)),
		RoundBets:    make([]chips.Amount, len(t.seats)),
	}
	for i, p := range t.seats {
		if p == nil {
			continue
		}
		st.Seats[i] = &event.PlayerState{
			Username:   p.Name,
			Chips:      p.Chips,
			Seat:       p.Seat,
			SittingOut: p.SittingOut,
			Folded:     p.Folded,
			NumCards:   len(p.Cards),
		}
		st.RoundBets[i] = p.CurrentBet
	}
	if t.game != nil {
		st.CommunityCards = cards.Strings(t.game.Board())
		for _, pot := range t.game.PotManager().Pots() {
			st.Pots = append(st.Pots, event.PotState{Amount: pot.Amount, IsMainPot: pot.Main})
		}
	}
	return st
}
