package cards

import "sort"

// Category is the class of the best five-card hand an agent held.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"high_card", "one_pair", "two_pair", "three_of_a_kind", "straight",
	"flush", "full_house", "four_of_a_kind", "straight_flush",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "invalid"
	}
	return categoryNames[c]
}

// Classify returns the category of the best hand among 5 to 7 distinct
// cards.
func Classify(cs []Card) (Category, bool) {
	if len(cs) < 5 || len(cs) > 7 || !Distinct(cs) {
		return HighCard, false
	}

	bySuit := make(map[byte][]int)
	counts := make(map[int]int)
	for _, c := range cs {
		bySuit[c.Suit] = append(bySuit[c.Suit], c.Rank)
		counts[c.Rank]++
	}

	for _, ranks := range bySuit {
		if len(ranks) >= 5 && hasStraight(ranks) {
			return StraightFlush, true
		}
	}

	var quads, trips, pairs int
	for _, n := range counts {
		switch n {
		case 4:
			quads++
		case 3:
			trips++
		case 2:
			pairs++
		}
	}

	switch {
	case quads > 0:
		return FourOfAKind, true
	case trips > 1 || (trips == 1 && pairs > 0):
		return FullHouse, true
	}
	for _, ranks := range bySuit {
		if len(ranks) >= 5 {
			return Flush, true
		}
	}

	ranks := make([]int, 0, len(counts))
	for r := range counts {
		ranks = append(ranks, r)
	}
	if hasStraight(ranks) {
		return Straight, true
	}

	switch {
	case trips > 0:
		return ThreeOfAKind, true
	case pairs > 1:
		return TwoPair, true
	case pairs == 1:
		return OnePair, true
	}
	return HighCard, true
}

// hasStraight reports whether five consecutive ranks are present. The ace
// also plays low.
func hasStraight(ranks []int) bool {
	seen := make(map[int]bool, len(ranks)+1)
	for _, r := range ranks {
		seen[r] = true
		if r == 14 {
			seen[1] = true
		}
	}
	uniq := make([]int, 0, len(seen))
	for r := range seen {
		uniq = append(uniq, r)
	}
	sort.Ints(uniq)

	run := 1
	for i := 1; i < len(uniq); i++ {
		if uniq[i] == uniq[i-1]+1 {
			run++
			if run >= 5 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
