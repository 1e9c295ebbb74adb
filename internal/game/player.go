package game

import (
	"limitpoker/internal/cards"
	"limitpoker/internal/chips"
)

// Player is one seat's state at a table. Player objects belong to the table
// that seats them and are reused across hands.
type Player struct {
	Name string
	Seat int

	Chips      chips.Amount
	CurrentBet chips.Amount // committed during the current betting round

	// RaiseCount is the last raise index this player has matched;
	// -1 means the player has not acted since the round started.
	RaiseCount int

	Cards []cards.Card

	SittingOut bool
	Folded     bool
	AllIn      bool

	// Pending holds the actions offered by the most recent prompt, in
	// wire order. Empty when the server is not waiting on this player.
	Pending []Action
}

func NewPlayer(name string, seat int, stack chips.Amount) *Player {
	return &Player{
		Name:       name,
		Seat:       seat,
		Chips:      stack,
		RaiseCount: -1,
	}
}

// Bet commits up to amount from the stack into the current round, capping at
// the stack (all-in), and records the raise level matched. It returns the
// amount actually paid.
func (p *Player) Bet(amount chips.Amount, raiseCount int) chips.Amount {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.CurrentBet += amount
	p.RaiseCount = raiseCount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}

// NewRound closes the player's betting round, returning the amount they
// contributed so the pot manager can collect it.
func (p *Player) NewRound() chips.Amount {
	amt := p.CurrentBet
	p.CurrentBet = 0
	p.RaiseCount = -1
	return amt
}

// CanAct reports whether the player still owes a decision at the given
// betting level.
func (p *Player) CanAct(raiseCount int) bool {
	return !p.Folded && !p.AllIn && p.RaiseCount != raiseCount
}

// Reset clears all per-hand state. Sitting-out persists across hands.
func (p *Player) Reset() {
	p.Cards = nil
	p.CurrentBet = 0
	p.RaiseCount = -1
	p.Folded = false
	p.AllIn = false
	p.Pending = nil
}
