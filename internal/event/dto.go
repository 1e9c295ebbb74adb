package event

import "limitpoker/internal/chips"

type TableListing struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Limit       string `json:"limit"`
	PlayerCount int    `json:"playerCount"`
}

// PlayerState never carries another player's actual cards, only the count.
type PlayerState struct {
	Username   string       `json:"username"`
	Chips      chips.Amount `json:"chips"`
	Seat       int          `json:"seat"`
	SittingOut bool         `json:"sittingOut"`
	Folded     bool         `json:"folded"`
	NumCards   int          `json:"numCards"`
}

type PotState struct {
	Amount    chips.Amount `json:"amount"`
	IsMainPot bool         `json:"isMainPot"`
}

type PotWinner struct {
	Username string       `json:"username"`
	Amount   chips.Amount `json:"amount"`
}

type TableState struct {
	ID             uint64         `json:"id"`
	Name           string         `json:"name"`
	Limit          string         `json:"limit"`
	HandUnderway   bool           `json:"handUnderway"`
	CommunityCards []string       `json:"communityCards"`
	Pots           []PotState     `json:"pots"`
	RoundBets      []chips.Amount `json:"roundBets"`
	Seats          []*PlayerState `json:"seats"`
}
