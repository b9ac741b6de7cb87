package cards

import (
	"fmt"
	"strings"
)

// Card is a playing card parsed from a log label such as "Ah" or "10d".
type Card struct {
	Rank int // 2..14, ace high
	Suit byte
}

func (c Card) String() string {
	ranks := "  23456789TJQKA"
	return fmt.Sprintf("%c%c", ranks[c.Rank], c.Suit)
}

// Parse parses a single card label. Ranks are 2-9, T/10, J, Q, K, A; suits
// are c, d, h, s. Both are case insensitive.
func Parse(label string) (Card, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("card %q: too short", label)
	}

	suit := s[len(s)-1]
	if !strings.ContainsRune("cdhs", rune(suit)) {
		return Card{}, fmt.Errorf("card %q: unknown suit", label)
	}

	var rank int
	switch r := s[:len(s)-1]; r {
	case "t", "10":
		rank = 10
	case "j":
		rank = 11
	case "q":
		rank = 12
	case "k":
		rank = 13
	case "a":
		rank = 14
	default:
		if len(r) != 1 || r[0] < '2' || r[0] > '9' {
			return Card{}, fmt.Errorf("card %q: unknown rank", label)
		}
		rank = int(r[0] - '0')
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseList parses a rendered card list ("Ah, Kd"). An empty string is an
// empty list.
func ParseList(joined string) ([]Card, error) {
	if strings.TrimSpace(joined) == "" {
		return nil, nil
	}
	parts := strings.Split(joined, ",")
	out := make([]Card, 0, len(parts))
	for _, p := range parts {
		c, err := Parse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Distinct reports whether no card appears twice.
func Distinct(cs []Card) bool {
	seen := make(map[Card]bool, len(cs))
	for _, c := range cs {
		if seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
