package game

import (
	"fmt"

	"limitpoker/internal/chips"
)

// Limit computes the legal action set for a betting context. The order of
// the returned actions is the wire contract: clients answer prompts by
// index.
type Limit interface {
	// CreateActions returns the actions available to a player who has
	// inPot committed this round against currentBet, at the given bet
	// level (1 = small-bet streets, 2 = big-bet streets).
	CreateActions(p *Player, inPot, currentBet chips.Amount, betLevel int) []Action
	SmallBlind() chips.Amount
	BigBlind() chips.Amount
	String() string
}

// FixedLimit is standard fixed-limit betting: raises are the small bet on
// preflop and flop and the big bet on turn and river.
type FixedLimit struct {
	SmallBet chips.Amount
	BigBet   chips.Amount

	smallBlind chips.Amount
	bigBlind   chips.Amount
}

// NewFixedLimit derives the blinds as half the small bet and the small bet.
func NewFixedLimit(smallBet, bigBet chips.Amount) *FixedLimit {
	return NewFixedLimitWithBlinds(smallBet, bigBet, smallBet/2, smallBet)
}

func NewFixedLimitWithBlinds(smallBet, bigBet, smallBlind, bigBlind chips.Amount) *FixedLimit {
	return &FixedLimit{
		SmallBet:   smallBet,
		BigBet:     bigBet,
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
	}
}

func (l *FixedLimit) SmallBlind() chips.Amount { return l.smallBlind }
func (l *FixedLimit) BigBlind() chips.Amount   { return l.bigBlind }

func (l *FixedLimit) String() string {
	return fmt.Sprintf("%s/%s fixed limit", l.SmallBet, l.BigBet)
}

func (l *FixedLimit) CreateActions(p *Player, inPot, currentBet chips.Amount, betLevel int) []Action {
	call := currentBet - inPot
	if call >= p.Chips {
		// Calling puts the player all-in; no raise is offered.
		return []Action{
			{Kind: ActionCall, Amount: p.Chips},
			{Kind: ActionFold},
		}
	}

	raiseBy := l.SmallBet
	if betLevel >= 2 {
		raiseBy = l.BigBet
	}
	if max := p.Chips - call; raiseBy > max {
		raiseBy = max // raising all-in for less than a full bet
	}

	actions := make([]Action, 0, 3)
	if raiseBy > 0 {
		actions = append(actions, Action{Kind: ActionRaise, Amount: raiseBy})
	}
	actions = append(actions,
		Action{Kind: ActionCall, Amount: call},
		Action{Kind: ActionFold},
	)
	return actions
}

// BlindActions is the negotiation prompt offered before a hand starts.
func BlindActions(blind chips.Amount) []Action {
	return []Action{
		{Kind: ActionPostBlind, Amount: blind},
		{Kind: ActionSitOut},
	}
}
