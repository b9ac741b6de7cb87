package cards

import "testing"

func mustList(t *testing.T, joined string) []Card {
	t.Helper()
	cs, err := ParseList(joined)
	if err != nil {
		t.Fatalf("ParseList(%q): %v", joined, err)
	}
	return cs
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"Ah", Card{Rank: 14, Suit: 'h'}},
		{"kd", Card{Rank: 13, Suit: 'd'}},
		{"Tc", Card{Rank: 10, Suit: 'c'}},
		{"10s", Card{Rank: 10, Suit: 's'}},
		{" 2S ", Card{Rank: 2, Suit: 's'}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "A", "1h", "Ax", "11h", "??"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q): expected error", bad)
		}
	}
}

func TestCardString(t *testing.T) {
	c, _ := Parse("10h")
	if c.String() != "Th" {
		t.Errorf("expected Th, got %s", c.String())
	}
}

func TestParseList(t *testing.T) {
	cs := mustList(t, "Ah, Kd, 7c")
	if len(cs) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cs))
	}
	if cs, _ := ParseList(""); cs != nil {
		t.Errorf("expected nil for empty list, got %v", cs)
	}
	if _, err := ParseList("Ah, ZZ"); err == nil {
		t.Error("expected error for bad card")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		hand string
		want Category
	}{
		{"Ah, Kd, 7c, 4s, 2h", HighCard},
		{"Ah, Ad, 7c, 4s, 2h", OnePair},
		{"Ah, Ad, 7c, 7s, 2h", TwoPair},
		{"Ah, Ad, Ac, 7s, 2h", ThreeOfAKind},
		{"Ah, 2d, 3c, 4s, 5h", Straight},
		{"9h, Td, Jc, Qs, Kh, 2c, 2d", Straight},
		{"Ah, Jh, 7h, 4h, 2h, Kd", Flush},
		{"Ah, Ad, Ac, 7s, 7h", FullHouse},
		{"Ah, Ad, Ac, 7s, 7h, 7d", FullHouse},
		{"Ah, Ad, Ac, As, 7h", FourOfAKind},
		{"5s, 6s, 7s, 8s, 9s, Ad, Ac", StraightFlush},
	}
	for _, tt := range tests {
		got, ok := Classify(mustList(t, tt.hand))
		if !ok {
			t.Errorf("Classify(%s): not classified", tt.hand)
			continue
		}
		if got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.hand, got, tt.want)
		}
	}

	if _, ok := Classify(mustList(t, "Ah, Kd, 7c")); ok {
		t.Error("expected too few cards to be rejected")
	}
	if _, ok := Classify(mustList(t, "Ah, Ah, 7c, 4s, 2h")); ok {
		t.Error("expected duplicate cards to be rejected")
	}
}

func TestEvaluate_Ordering(t *testing.T) {
	quads, ok := Evaluate(mustList(t, "Ah, Ad, Ac, As, 7h"))
	if !ok {
		t.Fatal("expected quads to evaluate")
	}
	pair, ok := Evaluate(mustList(t, "Ah, Ad, 7c, 4s, 2h"))
	if !ok {
		t.Fatal("expected pair to evaluate")
	}
	if quads <= pair {
		t.Errorf("expected quads (%d) to beat a pair (%d)", quads, pair)
	}

	six, ok := Evaluate(mustList(t, "Ah, Ad, Ac, As, 7h, 2c"))
	if !ok {
		t.Fatal("expected six cards to evaluate")
	}
	if six != quads {
		t.Errorf("expected the kicker-equal six card hand to score %d, got %d", quads, six)
	}

	if _, ok := Evaluate(mustList(t, "Ah, Ad")); ok {
		t.Error("expected two cards to be rejected")
	}
}
