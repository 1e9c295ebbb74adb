package holdem

import (
	"errors"
	"fmt"
	"sort"

	"limitpoker/internal/cards"
)

type HandCategory uint8

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
)

func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "high card"
	case OnePair:
		return "one pair"
	case TwoPair:
		return "two pair"
	case Trips:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case Quads:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	default:
		return "unknown"
	}
}

type HandRank struct {
	Category    HandCategory
	Tiebreakers []uint8 // high-to-low lexicographic
}

func CompareHandRank(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	l := len(a.Tiebreakers)
	if len(b.Tiebreakers) > l {
		l = len(b.Tiebreakers)
	}
	for i := 0; i < l; i++ {
		var av uint8
		var bv uint8
		if i < len(a.Tiebreakers) {
			av = a.Tiebreakers[i]
		}
		if i < len(b.Tiebreakers) {
			bv = b.Tiebreakers[i]
		}
		if av == bv {
			continue
		}
		if av < bv {
			return -1
		}
		return 1
	}
	return 0
}

func assertDistinct(cs []cards.Card, label string) error {
	seen := make([]bool, 52)
	for _, c := range cs {
		if c > 51 {
			return fmt.Errorf("%s contains invalid card id %d", label, c)
		}
		if seen[c] {
			return fmt.Errorf("%s contains duplicate card %s", label, c)
		}
		seen[c] = true
	}
	return nil
}

func ranksDesc(cs []cards.Card) []uint8 {
	r := make([]uint8, 0, len(cs))
	for _, c := range cs {
		r = append(r, c.Rank())
	}
	sort.Slice(r, func(i, j int) bool { return r[i] > r[j] })
	return r
}

func straightHighFromRanksDesc(uniqueRanksDesc []uint8) (uint8, bool) {
	if len(uniqueRanksDesc) != 5 {
		return 0, false
	}
	// Detect wheel (A-5) specially.
	hasAce := uniqueRanksDesc[0] == 14
	wheel := hasAce && uniqueRanksDesc[1] == 5 && uniqueRanksDesc[2] == 4 && uniqueRanksDesc[3] == 3 && uniqueRanksDesc[4] == 2
	if wheel {
		return 5, true
	}
	for i := 1; i < len(uniqueRanksDesc); i++ {
		if uniqueRanksDesc[i-1]-1 != uniqueRanksDesc[i] {
			return 0, false
		}
	}
	return uniqueRanksDesc[0], true
}

func evaluate5(cards5 []cards.Card) (HandRank, error) {
	if len(cards5) != 5 {
		return HandRank{}, fmt.Errorf("evaluate5 expected 5 cards, got %d", len(cards5))
	}
	if err := assertDistinct(cards5, "cards5"); err != nil {
		return HandRank{}, err
	}

	isFlush := true
	for i := 1; i < len(cards5); i++ {
		if cards5[i].Suit() != cards5[0].Suit() {
			isFlush = false
			break
		}
	}

	ranks := ranksDesc(cards5)
	counts := map[uint8]uint8{}
	for _, r := range ranks {
		counts[r] = counts[r] + 1
	}
	uniqueRanksDesc := make([]uint8, 0, len(counts))
	for r := range counts {
		uniqueRanksDesc = append(uniqueRanksDesc, r)
	}
	sort.Slice(uniqueRanksDesc, func(i, j int) bool { return uniqueRanksDesc[i] > uniqueRanksDesc[j] })

	straightHigh, isStraight := straightHighFromRanksDesc(uniqueRanksDesc)

	type group struct {
		rank  uint8
		count uint8
	}
	groups := make([]group, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, group{rank: r, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	if isStraight && isFlush {
		return HandRank{Category: StraightFlush, Tiebreakers: []uint8{straightHigh}}, nil
	}
	if groups[0].count == 4 {
		quadRank := groups[0].rank
		var kicker uint8
		for _, g := range groups {
			if g.count == 1 {
				kicker = g.rank
				break
			}
		}
		return HandRank{Category: Quads, Tiebreakers: []uint8{quadRank, kicker}}, nil
	}
	if groups[0].count == 3 && groups[1].count == 2 {
		return HandRank{Category: FullHouse, Tiebreakers: []uint8{groups[0].rank, groups[1].rank}}, nil
	}
	if isFlush {
		return HandRank{Category: Flush, Tiebreakers: ranks}, nil
	}
	if isStraight {
		return HandRank{Category: Straight, Tiebreakers: []uint8{straightHigh}}, nil
	}
	if groups[0].count == 3 {
		tripsRank := groups[0].rank
		kickers := []uint8{}
		for _, g := range groups {
			if g.count == 1 {
				kickers = append(kickers, g.rank)
			}
		}
		sort.Slice(kickers, func(i, j int) bool { return kickers[i] > kickers[j] })
		return HandRank{Category: Trips, Tiebreakers: append([]uint8{tripsRank}, kickers...)}, nil
	}
	if groups[0].count == 2 && groups[1].count == 2 {
		pairRanks := []uint8{groups[0].rank, groups[1].rank}
		sort.Slice(pairRanks, func(i, j int) bool { return pairRanks[i] > pairRanks[j] })
		var kicker uint8
		for _, g := range groups {
			if g.count == 1 {
				kicker = g.rank
				break
			}
		}
		return HandRank{Category: TwoPair, Tiebreakers: []uint8{pairRanks[0], pairRanks[1], kicker}}, nil
	}
	if groups[0].count == 2 {
		pairRank := groups[0].rank
		kickers := []uint8{}
		for _, g := range groups {
			if g.count == 1 {
				kickers = append(kickers, g.rank)
			}
		}
		sort.Slice(kickers, func(i, j int) bool { return kickers[i] > kickers[j] })
		return HandRank{Category: OnePair, Tiebreakers: append([]uint8{pairRank}, kickers...)}, nil
	}

	return HandRank{Category: HighCard, Tiebreakers: ranks}, nil
}

// Best returns the strongest 5-card rank available from 5, 6 or 7 cards.
func Best(cs []cards.Card) (HandRank, error) {
	if len(cs) < 5 || len(cs) > 7 {
		return HandRank{}, fmt.Errorf("Best expected 5..7 cards, got %d", len(cs))
	}
	if err := assertDistinct(cs, "cards"); err != nil {
		return HandRank{}, err
	}
	if len(cs) == 5 {
		return evaluate5(cs)
	}

	var best *HandRank
	pick := make([]cards.Card, 5)
	n := len(cs)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2], pick[3], pick[4] = cs[a], cs[b], cs[c], cs[d], cs[e]
						r, err := evaluate5(pick)
						if err != nil {
							return HandRank{}, err
						}
						if best == nil || CompareHandRank(r, *best) == 1 {
							tmp := r
							best = &tmp
						}
					}
				}
			}
		}
	}
	return *best, nil
}

// Winners picks, among pockets, the index set of the best hand made from a
// pocket plus the board. The result maps "hi" to the winning pocket indices
// (ascending; ties yield several). A single pocket wins outright regardless
// of board size; multiple pockets require at least 5 total cards.
func Winners(pockets [][2]cards.Card, board []cards.Card) (map[string][]int, error) {
	if len(pockets) == 0 {
		return nil, errors.New("no pockets to evaluate")
	}
	if len(pockets) == 1 {
		return map[string][]int{"hi": {0}}, nil
	}
	if len(board)+2 < 5 {
		return nil, fmt.Errorf("cannot evaluate %d pockets on a %d-card board", len(pockets), len(board))
	}
	if len(board) > 5 {
		board = board[:5]
	}
	if err := assertDistinct(board, "board"); err != nil {
		return nil, err
	}

	var best *HandRank
	bestIdx := []int{}
	for i, pocket := range pockets {
		all := make([]cards.Card, 0, 7)
		all = append(all, pocket[0], pocket[1])
		all = append(all, board...)
		if err := assertDistinct(all, fmt.Sprintf("pocket %d cards", i)); err != nil {
			return nil, err
		}
		r, err := Best(all)
		if err != nil {
			return nil, err
		}
		if best == nil {
			tmp := r
			best = &tmp
			bestIdx = []int{i}
			continue
		}
		cmp := CompareHandRank(r, *best)
		if cmp == 1 {
			tmp := r
			best = &tmp
			bestIdx = []int{i}
		} else if cmp == 0 {
			bestIdx = append(bestIdx, i)
		}
	}
	return map[string][]int{"hi": bestIdx}, nil
}
