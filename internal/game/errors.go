package game

import "errors"

var (
	// ErrGameFinished rejects actions against a hand that has ended.
	ErrGameFinished = errors.New("game finished")
	// ErrUnexpectedAction rejects actions from a player the hand is not
	// waiting on.
	ErrUnexpectedAction = errors.New("unexpected action")
	// ErrInvalidPlay rejects actions legal in shape but illegal in value,
	// e.g. a raise exceeding the player's chips or a zero bet mid-round.
	ErrInvalidPlay = errors.New("invalid play")
	// ErrActionParams rejects malformed action parameters, e.g. a missing
	// or non-numeric raise amount.
	ErrActionParams = errors.New("invalid action parameters")
)
