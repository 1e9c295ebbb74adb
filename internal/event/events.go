// Package event defines the immutable records a table publishes to its
// observers, and the DTOs the server serializes back to clients. Events
// carry only what the recipient is authorized to see; private events
// (hole cards, action prompts) travel on a per-user path.
package event

import "limitpoker/internal/chips"

// Event is any table-scoped notification. Kind routes serialization.
type Event interface {
	Kind() string
}

// ActionOffer describes one selectable action in a prompt. The slice order
// is the wire contract: clients answer with the zero-based index.
type ActionOffer struct {
	Name   string       `json:"name"`
	Amount chips.Amount `json:"amount"`
}

type PlayerJoinedGame struct {
	Name string `json:"name"`
	Seat int    `json:"seat"`
}

func (PlayerJoinedGame) Kind() string { return "PlayerJoinedGame" }

type PlayerLeftTable struct {
	Name string `json:"name"`
	Seat int    `json:"seat"`
}

func (PlayerLeftTable) Kind() string { return "PlayerLeftTable" }

// PlayerPrompted is broadcast with the actor's name only; the copy sent
// privately to the actor additionally carries the ordered action list.
type PlayerPrompted struct {
	Name    string        `json:"name"`
	Actions []ActionOffer `json:"actions,omitempty"`
}

func (PlayerPrompted) Kind() string { return "PlayerPrompted" }

type NewHandStarted struct {
	Players    []string `json:"players"`
	DealerSeat int      `json:"dealerSeat"`
}

func (NewHandStarted) Kind() string { return "NewHandStarted" }

type HandCancelled struct{}

func (HandCancelled) Kind() string { return "HandCancelled" }

type PlayerPostedBlind struct {
	Name   string       `json:"name"`
	Amount chips.Amount `json:"amount"`
}

func (PlayerPostedBlind) Kind() string { return "PlayerPostedBlind" }

// HoleCardsDealt is private to the receiving player.
type HoleCardsDealt struct {
	Cards []string `json:"cards"`
}

func (HoleCardsDealt) Kind() string { return "HoleCardsDealt" }

// PlayerCalled with Amount == 0 is a check.
type PlayerCalled struct {
	Name   string       `json:"name"`
	Amount chips.Amount `json:"amount"`
}

func (PlayerCalled) Kind() string { return "PlayerCalled" }

type PlayerRaised struct {
	Name   string       `json:"name"`
	Amount chips.Amount `json:"amount"`
}

func (PlayerRaised) Kind() string { return "PlayerRaised" }

type PlayerFolded struct {
	Name string `json:"name"`
}

func (PlayerFolded) Kind() string { return "PlayerFolded" }

type CommunityCardsDealt struct {
	Cards []string `json:"cards"`
}

func (CommunityCardsDealt) Kind() string { return "CommunityCardsDealt" }

type GameEnding struct{}

func (GameEnding) Kind() string { return "GameEnding" }

type PlayerShowedCards struct {
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
}

func (PlayerShowedCards) Kind() string { return "PlayerShowedCards" }

// PotResult pairs one pot with the players it was awarded to.
type PotResult struct {
	Pot     PotState    `json:"pot"`
	Winners []PotWinner `json:"winners"`
}

type GameOver struct {
	Results []PotResult `json:"results"`
}

func (GameOver) Kind() string { return "GameOver" }

type PlayerSatOut struct {
	Name string `json:"name"`
}

func (PlayerSatOut) Kind() string { return "PlayerSatOut" }

type PlayerSentChatMessage struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (PlayerSentChatMessage) Kind() string { return "PlayerSentChatMessage" }
