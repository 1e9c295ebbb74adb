package game

import (
	"fmt"
	"time"

	"limitpoker/internal/cards"
	"limitpoker/internal/chips"
	"limitpoker/internal/event"
	"limitpoker/internal/holdem"
)

// Listener is notified when a hand has ended, normally or by abort. The
// table implements it to regain control of the seat rotation.
type Listener interface {
	GameOver()
}

// Broadcaster fans events out to a table's observers. Events addressed to a
// single user travel the private path.
type Broadcaster interface {
	Broadcast(e event.Event)
	NotifyUser(name string, e event.Event)
}

// Game drives one hand from blinds to showdown. It owns its deck and pot
// manager; the participating players belong to the table.
type Game struct {
	ID string

	limit   Limit
	deck    *cards.Deck
	pots    *PotManager
	players []*Player

	// Indices into players.
	dealer int
	sb     int
	bb     int

	board      []cards.Card
	currentBet chips.Amount
	raiseCount int
	lastActor  int

	// lastAggressor indexes the most recent raiser (the big blind until a
	// raise occurs); showdown reveals hands starting from it.
	lastAggressor int

	pending map[string][]Action

	gsm      *StateMachine
	finished bool
	aborted  bool
	failure  error

	listener Listener
	bcast    Broadcaster

	actionTimeout time.Duration
	deadline      time.Time
}

// NewGame wires a hand over the given players. dealer, sb and bb index into
// players; the slice order is the action order (clockwise).
func NewGame(id string, limit Limit, deck *cards.Deck, players []*Player, dealer, sb, bb int, listener Listener, bcast Broadcaster) *Game {
	g := &Game{
		ID:       id,
		limit:    limit,
		deck:     deck,
		pots:     NewPotManager(),
		players:  players,
		dealer:   dealer,
		sb:       sb,
		bb:       bb,
		pending:  map[string][]Action{},
		gsm:      NewStateMachine(),
		listener: listener,
		bcast:    bcast,
	}
	_ = g.gsm.AddState("preflop", g.enterPreflop)
	_ = g.gsm.AddState("flop", func() { g.enterStreet(3) })
	_ = g.gsm.AddState("turn", func() { g.enterStreet(1) })
	_ = g.gsm.AddState("river", func() { g.enterStreet(1) })
	_ = g.gsm.AddState("gameover", g.endHand)
	return g
}

// SetActionTimeout bounds how long a prompted player may stall. Zero
// disables the deadline.
func (g *Game) SetActionTimeout(d time.Duration) {
	g.actionTimeout = d
}

// Start enters preflop: blinds, hole cards, first prompt.
func (g *Game) Start() error {
	if g.gsm.Started() {
		return fmt.Errorf("hand %s already started", g.ID)
	}
	return g.gsm.Advance()
}

func (g *Game) Finished() bool          { return g.finished }
func (g *Game) Aborted() bool           { return g.aborted }
func (g *Game) Failure() error          { return g.failure }
func (g *Game) Board() []cards.Card     { return g.board }
func (g *Game) Street() string          { return g.gsm.Current() }
func (g *Game) Players() []*Player      { return g.players }
func (g *Game) PotManager() *PotManager { return g.pots }

// PendingActions returns the actions offered to the named player, or nil.
func (g *Game) PendingActions(name string) []Action {
	return g.pending[name]
}

func (g *Game) enterPreflop() {
	sbP := g.players[g.sb]
	paid := sbP.Bet(g.limit.SmallBlind(), -1)
	g.bcast.Broadcast(event.PlayerPostedBlind{Name: sbP.Name, Amount: paid})

	bbP := g.players[g.bb]
	paid = bbP.Bet(g.limit.BigBlind(), -1)
	g.bcast.Broadcast(event.PlayerPostedBlind{Name: bbP.Name, Amount: paid})

	g.currentBet = g.limit.BigBlind()

	// Two passes of one card each, starting at the small blind.
	n := len(g.players)
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < n; i++ {
			p := g.players[(g.sb+i)%n]
			c, err := g.deck.Draw()
			if err != nil {
				g.fail(err)
				return
			}
			p.Cards = append(p.Cards, c)
		}
	}
	for _, p := range g.players {
		g.bcast.NotifyUser(p.Name, event.HoleCardsDealt{Cards: cards.Strings(p.Cards)})
	}

	g.raiseCount = 0
	g.lastActor = g.bb
	g.lastAggressor = g.bb
	g.continueRound()
}

func (g *Game) enterStreet(draw int) {
	dealt := make([]cards.Card, 0, draw)
	for i := 0; i < draw; i++ {
		c, err := g.deck.Draw()
		if err != nil {
			g.fail(err)
			return
		}
		g.board = append(g.board, c)
		dealt = append(dealt, c)
	}
	g.bcast.Broadcast(event.CommunityCardsDealt{Cards: cards.Strings(dealt)})

	g.currentBet = 0
	g.raiseCount = 0
	g.lastActor = g.dealer
	g.continueRound()
}

func (g *Game) betLevel() int {
	switch g.gsm.Current() {
	case "turn", "river":
		return 2
	default:
		return 1
	}
}

func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.players {
		if !p.Folded {
			n++
		}
	}
	return n
}

// findNextToAct walks clockwise from the seat after lastActor and returns
// the first player who still owes a decision, or nil when the round is
// complete.
func (g *Game) findNextToAct() *Player {
	n := len(g.players)
	for step := 1; step <= n; step++ {
		p := g.players[(g.lastActor+step)%n]
		if p.CanAct(g.raiseCount) {
			return p
		}
	}
	return nil
}

func (g *Game) continueRound() {
	if g.finished {
		return
	}
	if g.activeCount() <= 1 {
		g.collectRound()
		g.endHand()
		return
	}
	next := g.findNextToAct()
	if next == nil {
		g.collectRound()
		if err := g.gsm.Advance(); err != nil {
			g.fail(err)
		}
		return
	}
	g.prompt(next)
}

// collectRound moves every player's round contribution into the pot
// manager and resets the betting context for the next street.
func (g *Game) collectRound() {
	byAmount := map[chips.Amount][]*Player{}
	for _, p := range g.players {
		if amt := p.NewRound(); amt > 0 {
			byAmount[amt] = append(byAmount[amt], p)
		}
	}
	g.pots.Add(byAmount)
	for _, p := range g.players {
		if p.Folded {
			g.pots.Fold(p)
		}
	}
	g.currentBet = 0
	g.raiseCount = 0
	g.lastActor = g.dealer
}

func (g *Game) prompt(p *Player) {
	if p.SittingOut {
		g.applyFold(p)
		return
	}
	actions := g.limit.CreateActions(p, p.CurrentBet, g.currentBet, g.betLevel())
	p.Pending = actions
	g.pending[p.Name] = actions
	if g.actionTimeout > 0 {
		g.deadline = time.Now().Add(g.actionTimeout)
	}

	offers := make([]event.ActionOffer, 0, len(actions))
	for _, a := range actions {
		offers = append(offers, a.Offer())
	}
	g.bcast.Broadcast(event.PlayerPrompted{Name: p.Name})
	g.bcast.NotifyUser(p.Name, event.PlayerPrompted{Name: p.Name, Actions: offers})
}

// ProcessAction arbitrates one response to a prompt. The action must be one
// the player was offered; the caller has already validated index and
// parameters.
func (g *Game) ProcessAction(p *Player, a Action) error {
	if g.finished {
		return ErrGameFinished
	}
	if _, ok := g.pending[p.Name]; !ok {
		return fmt.Errorf("%w: %s is not being waited on", ErrUnexpectedAction, p.Name)
	}

	switch a.Kind {
	case ActionCall:
		need := g.currentBet - p.CurrentBet
		if need > p.Chips {
			need = p.Chips
		}
		paid := p.Bet(need, g.raiseCount)
		g.bcast.Broadcast(event.PlayerCalled{Name: p.Name, Amount: paid})

	case ActionRaise:
		by := a.Amount
		if by <= 0 {
			return fmt.Errorf("%w: raise of %s", ErrInvalidPlay, by)
		}
		if by > p.Chips {
			return fmt.Errorf("%w: raise %s exceeds stack %s", ErrInvalidPlay, by, p.Chips)
		}
		g.raiseCount++
		g.currentBet += by
		p.Bet(g.currentBet-p.CurrentBet, g.raiseCount)
		for i, q := range g.players {
			if q == p {
				g.lastAggressor = i
				break
			}
		}
		g.bcast.Broadcast(event.PlayerRaised{Name: p.Name, Amount: by})

	case ActionFold:
		g.applyFold(p)
		return nil

	default:
		return fmt.Errorf("%w: %s during a hand", ErrUnexpectedAction, a.Kind)
	}

	g.clearPending(p)
	g.continueRound()
	return nil
}

// SitOut marks the player sitting out. If the hand is waiting on them the
// fold is applied immediately instead of on their next turn.
func (g *Game) SitOut(p *Player) {
	p.SittingOut = true
	if g.finished {
		return
	}
	if _, ok := g.pending[p.Name]; ok {
		g.applyFold(p)
	}
}

// Tick enforces the action deadline: a prompted player past it is treated
// as sitting out.
func (g *Game) Tick(now time.Time) {
	if g.finished || g.actionTimeout <= 0 || len(g.pending) == 0 {
		return
	}
	if now.Before(g.deadline) {
		return
	}
	for name := range g.pending {
		for _, p := range g.players {
			if p.Name == name {
				g.SitOut(p)
				return
			}
		}
	}
}

func (g *Game) applyFold(p *Player) {
	p.Folded = true
	g.pots.Fold(p)
	g.bcast.Broadcast(event.PlayerFolded{Name: p.Name})
	g.clearPending(p)
	g.continueRound()
}

func (g *Game) clearPending(p *Player) {
	delete(g.pending, p.Name)
	p.Pending = nil
	for i, q := range g.players {
		if q == p {
			g.lastActor = i
			break
		}
	}
}

// endHand resolves the showdown (or uncontested win), distributes every
// pot, resets the players, and returns control to the listener.
func (g *Game) endHand() {
	if g.finished {
		return
	}
	g.finished = true
	g.pending = map[string][]Action{}

	g.bcast.Broadcast(event.GameEnding{})

	unfolded := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if !p.Folded {
			unfolded = append(unfolded, p)
		}
	}

	if len(unfolded) > 1 {
		// Show hands in action order starting from the last aggressor.
		n := len(g.players)
		for step := 0; step < n; step++ {
			p := g.players[(g.lastAggressor+step)%n]
			if p.Folded {
				continue
			}
			g.bcast.Broadcast(event.PlayerShowedCards{Name: p.Name, Cards: cards.Strings(p.Cards)})
		}
	}

	// Determine every pot's winners before paying anything out, so an
	// evaluator failure can still refund the pots untouched.
	pots := g.pots.Pots()
	potWinners := make([][]*Player, len(pots))
	for i, pot := range pots {
		if pot.Amount == 0 {
			continue
		}
		elig := make([]*Player, 0, len(g.players))
		for _, p := range g.players {
			if !p.Folded && pot.IsEligible(p) {
				elig = append(elig, p)
			}
		}
		if len(elig) == 0 {
			// Every contributor folded; the pot goes to the live hands.
			elig = append(elig, unfolded...)
		}
		if len(elig) == 0 {
			continue
		}
		if len(elig) == 1 {
			potWinners[i] = elig
			continue
		}
		pockets := make([][2]cards.Card, 0, len(elig))
		for _, p := range elig {
			pockets = append(pockets, [2]cards.Card{p.Cards[0], p.Cards[1]})
		}
		res, err := holdem.Winners(pockets, g.board)
		if err != nil {
			g.fail(err)
			return
		}
		for _, idx := range res["hi"] {
			potWinners[i] = append(potWinners[i], elig[idx])
		}
	}

	results := []event.PotResult{}
	for i, pot := range pots {
		winners := potWinners[i]
		if len(winners) == 0 {
			continue
		}
		shares := pot.Amount.Split(len(winners))
		ws := make([]event.PotWinner, 0, len(winners))
		for j, w := range winners {
			w.Chips += shares[j]
			ws = append(ws, event.PotWinner{Username: w.Name, Amount: shares[j]})
		}
		results = append(results, event.PotResult{
			Pot:     event.PotState{Amount: pot.Amount, IsMainPot: pot.Main},
			Winners: ws,
		})
	}
	g.pots.clear()

	g.bcast.Broadcast(event.GameOver{Results: results})

	for _, p := range g.players {
		p.Reset()
	}
	if g.listener != nil {
		g.listener.GameOver()
	}
}

// Abort refunds every pot and the current round's bets and ends the hand.
// After an abort the total pot value is zero.
func (g *Game) Abort() {
	if g.finished {
		return
	}
	g.finished = true
	g.aborted = true
	g.pending = map[string][]Action{}

	g.pots.RefundAll()
	for _, p := range g.players {
		p.Chips += p.CurrentBet
		p.CurrentBet = 0
		p.Reset()
	}
	if g.listener != nil {
		g.listener.GameOver()
	}
}

// fail handles an engine-internal error (deck exhaustion, evaluator
// inconsistency): the hand is aborted and its pots refunded. The cause is
// retained for the table layer to surface.
func (g *Game) fail(err error) {
	g.failure = err
	g.finished = false
	g.Abort()
}
