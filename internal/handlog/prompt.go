package handlog

import (
	"encoding/json"
	"fmt"
	"math"
)

// cachedPrompt is the most recent successfully parsed prompt for an agent.
type cachedPrompt struct {
	prompt Prompt
	raw    string
}

// promptCache maps agent name to its latest prompt within the current hand.
type promptCache map[string]cachedPrompt

func (c promptCache) put(agent string, p cachedPrompt) {
	c[agent] = p
}

func (c promptCache) lookup(agent string) (cachedPrompt, bool) {
	p, ok := c[agent]
	return p, ok
}

func (c promptCache) evict(agent string) {
	delete(c, agent)
}

func (c promptCache) reset() {
	clear(c)
}

// decodePrompt parses a captured prompt object. Only a syntax error or a
// non-object payload is an error; load-bearing fields of an unexpected type
// fall back to their zero value.
func decodePrompt(raw string) (Prompt, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Prompt{}, fmt.Errorf("decode prompt: %w", err)
	}
	if fields == nil {
		return Prompt{}, fmt.Errorf("decode prompt: not an object")
	}
	return Prompt{
		YourChips: decodeChips(fields["your_chips"]),
		YourCards: decodeCards(fields["your_cards"]),
		Community: decodeCards(fields["community"]),
	}, nil
}

func decodeChips(raw json.RawMessage) int {
	if raw == nil {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

func decodeCards(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var cards []string
	if err := json.Unmarshal(raw, &cards); err == nil {
		return cards
	}
	var mixed []any
	if err := json.Unmarshal(raw, &mixed); err != nil {
		return nil
	}
	cards = make([]string, len(mixed))
	for i, v := range mixed {
		cards[i] = fmt.Sprint(v)
	}
	return cards
}
