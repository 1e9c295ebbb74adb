package game

import (
	"fmt"

	"limitpoker/internal/chips"
	"limitpoker/internal/event"
)

// ActionKind tags the variants a prompt can offer.
type ActionKind int

const (
	ActionCall ActionKind = iota
	ActionRaise
	ActionFold
	ActionPostBlind
	ActionSitOut
)

func (k ActionKind) String() string {
	switch k {
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionFold:
		return "fold"
	case ActionPostBlind:
		return "post_blind"
	case ActionSitOut:
		return "sit_out"
	default:
		return "unknown"
	}
}

// Action is one selectable entry in a prompt. For Call it carries the cost
// to call (0 = check), for Raise the raise-by amount, for PostBlind the
// blind amount.
type Action struct {
	Kind   ActionKind
	Amount chips.Amount
}

// Offer renders the action for the private prompt event.
func (a Action) Offer() event.ActionOffer {
	return event.ActionOffer{Name: a.Kind.String(), Amount: a.Amount}
}

// ValidateParams checks the client-supplied parameters against the offered
// action. Raise takes exactly one parameter, the raise-by amount as a
// decimal string, which must match the offered amount; every other action
// takes none.
func (a Action) ValidateParams(params []string) error {
	if a.Kind != ActionRaise {
		if len(params) != 0 {
			return fmt.Errorf("%w: %s takes no parameters", ErrActionParams, a.Kind)
		}
		return nil
	}
	if len(params) != 1 {
		return fmt.Errorf("%w: raise requires an amount", ErrActionParams)
	}
	amt, err := chips.Parse(params[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActionParams, err)
	}
	if amt != a.Amount {
		return fmt.Errorf("%w: raise must be %s", ErrInvalidPlay, a.Amount)
	}
	return nil
}
