package table

import "errors"

var (
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrSeatOccupied     = errors.New("seat occupied")
	ErrAlreadySeated    = errors.New("already seated")
	ErrNoSuchSeat       = errors.New("no such seat")
	ErrNotSeated        = errors.New("not seated at this table")
	ErrHandUnderway     = errors.New("hand already underway")
)
