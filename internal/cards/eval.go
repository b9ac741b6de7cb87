package cards

import (
	poker "github.com/paulhankin/poker"
)

// Library-based hand score. Larger score = stronger hand.
type Score int16

// Convert our Card -> library card.
func toPH(c Card) poker.Card {
	var s poker.Suit
	switch c.Suit {
	case 'c':
		s = poker.Club
	case 'd':
		s = poker.Diamond
	case 'h':
		s = poker.Heart
	case 's':
		s = poker.Spade
	default:
		s = poker.Club
	}
	// Our ranks: 2..14 (Ace=14). Library: 1..13 (Ace=1).
	var r poker.Rank
	if c.Rank == 14 {
		r = poker.Rank(1)
	} else {
		r = poker.Rank(c.Rank)
	}
	card, _ := poker.MakeCard(s, r)
	return card
}

// Evaluate scores the best five-card hand among 5 to 7 distinct cards.
func Evaluate(cs []Card) (Score, bool) {
	n := len(cs)
	if n < 5 || n > 7 || !Distinct(cs) {
		return 0, false
	}
	pcs := make([]poker.Card, n)
	for i, c := range cs {
		pcs[i] = toPH(c)
	}
	switch n {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], pcs)
		return Score(poker.Eval7(&a7)), true
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], pcs)
		return Score(poker.Eval5(&a5)), true
	default:
		return bestOfFive(pcs), true
	}
}

// bestOfFive picks the strongest five-card subset of six cards.
func bestOfFive(pcs []poker.Card) Score {
	var best Score
	first := true
	var five [5]poker.Card
	for skip := range pcs {
		k := 0
		for i, c := range pcs {
			if i == skip {
				continue
			}
			five[k] = c
			k++
		}
		score := Score(poker.Eval5(&five))
		if first || score > best {
			best = score
			first = false
		}
	}
	return best
}
