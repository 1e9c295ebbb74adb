package game

import (
	"sort"

	"limitpoker/internal/chips"
)

// Pot is a pool of chips contested by an eligible subset of players.
// Folding removes a player from eligibility but leaves their chips in.
type Pot struct {
	Amount chips.Amount
	Main   bool

	eligible map[*Player]bool
	contrib  map[*Player]chips.Amount
}

func newPot(main bool) *Pot {
	return &Pot{
		Main:     main,
		eligible: map[*Player]bool{},
		contrib:  map[*Player]chips.Amount{},
	}
}

func (p *Pot) IsEligible(pl *Player) bool {
	return p.eligible[pl]
}

// Contribution returns what pl has paid into this pot.
func (p *Pot) Contribution(pl *Player) chips.Amount {
	return p.contrib[pl]
}

// PotManager accumulates each betting round's contributions into the main
// pot and, when players go all-in, a chain of side pots. The first-created
// pot is the main pot; later pots have progressively fewer eligible
// players.
type PotManager struct {
	pots      []*Pot // creation order; pots[0] is the main pot
	createNew bool
}

func NewPotManager() *PotManager {
	return &PotManager{}
}

// Add collects one finished betting round. contributions maps a contributed
// amount to the players who contributed exactly that amount this round.
// It must be called exactly once per round.
func (m *PotManager) Add(contributions map[chips.Amount][]*Player) {
	amounts := make([]chips.Amount, 0, len(contributions))
	for a := range contributions {
		if a > 0 {
			amounts = append(amounts, a)
		}
	}
	if len(amounts) == 0 {
		return
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i] < amounts[j] })

	eligibles := map[*Player]bool{}
	for _, a := range amounts {
		for _, pl := range contributions[a] {
			eligibles[pl] = true
		}
	}

	var carry chips.Amount
	for _, a := range amounts {
		if m.createNew || len(m.pots) == 0 {
			m.pots = append(m.pots, newPot(len(m.pots) == 0))
			m.createNew = false
		}
		cur := m.pots[len(m.pots)-1]

		tier := a - carry
		for pl := range eligibles {
			cur.Amount += tier
			cur.contrib[pl] += tier
			cur.eligible[pl] = true
		}

		// Players who stopped at this amount contribute to no further
		// tier; an all-in among them caps this pot.
		for _, pl := range contributions[a] {
			if pl.AllIn {
				m.createNew = true
			}
			delete(eligibles, pl)
		}
		carry = a
	}
}

// Fold removes the player from every pot's eligibility without refunding.
func (m *PotManager) Fold(pl *Player) {
	for _, p := range m.pots {
		delete(p.eligible, pl)
	}
}

// RefundAll returns to each player the amount they contributed to each pot
// in which they remain eligible, then empties the manager.
func (m *PotManager) RefundAll() {
	for _, p := range m.pots {
		for pl := range p.eligible {
			pl.Chips += p.contrib[pl]
		}
	}
	m.pots = nil
	m.createNew = false
}

// Pots returns the pots in award order: side pots in creation order, main
// pot last.
func (m *PotManager) Pots() []*Pot {
	if len(m.pots) <= 1 {
		return append([]*Pot(nil), m.pots...)
	}
	out := make([]*Pot, 0, len(m.pots))
	out = append(out, m.pots[1:]...)
	out = append(out, m.pots[0])
	return out
}

// Total is the combined value of all pots.
func (m *PotManager) Total() chips.Amount {
	var sum chips.Amount
	for _, p := range m.pots {
		sum += p.Amount
	}
	return sum
}

func (m *PotManager) clear() {
	m.pots = nil
	m.createNew = false
}
