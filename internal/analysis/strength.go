package analysis

import (
	"sort"

	"github.com/MikeSquared-Agency/handlog/internal/cards"
	"github.com/MikeSquared-Agency/handlog/internal/handlog"
)

// StrengthCount is how often an action was taken holding a made hand of a
// given category.
type StrengthCount struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Count    int    `json:"count"`
}

// RiverLeader is the agent holding the strongest hand among the river
// decisions of one hand.
type RiverLeader struct {
	HandID   int    `json:"hand_id"`
	Agent    string `json:"agent"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// recordCards returns the hole and community cards of a record combined.
// Records with unreadable cards report false.
func recordCards(r handlog.ActionRecord) ([]cards.Card, bool) {
	hole, err := cards.ParseList(r.HoleCards)
	if err != nil {
		return nil, false
	}
	board, err := cards.ParseList(r.CommunityCards)
	if err != nil {
		return nil, false
	}
	return append(hole, board...), true
}

// StrengthCounts classifies every post-flop decision by the made hand the
// agent held. Preflop decisions and unreadable cards are skipped.
func StrengthCounts(rows []Row) []StrengthCount {
	type key struct {
		cat    cards.Category
		action string
	}
	counts := map[key]int{}
	for _, r := range rows {
		cs, ok := recordCards(r.ActionRecord)
		if !ok {
			continue
		}
		cat, ok := cards.Classify(cs)
		if !ok {
			continue
		}
		counts[key{cat, r.Action}]++
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cat != keys[j].cat {
			return keys[i].cat > keys[j].cat
		}
		return keys[i].action < keys[j].action
	})

	out := make([]StrengthCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, StrengthCount{Category: k.cat.String(), Action: k.action, Count: counts[k]})
	}
	return out
}

// RiverLeaders finds, for every hand with river decisions, the agent whose
// last river decision was made holding the strongest seven cards.
func RiverLeaders(rows []Row) []RiverLeader {
	type held struct {
		agent  string
		score  cards.Score
		cat    cards.Category
		action string
	}
	last := map[int]map[string]held{}
	for _, r := range rows {
		if r.Phase != handlog.PhaseRiver {
			continue
		}
		cs, ok := recordCards(r.ActionRecord)
		if !ok {
			continue
		}
		score, ok := cards.Evaluate(cs)
		if !ok {
			continue
		}
		cat, _ := cards.Classify(cs)
		if last[r.HandID] == nil {
			last[r.HandID] = map[string]held{}
		}
		last[r.HandID][r.AgentName] = held{agent: r.AgentName, score: score, cat: cat, action: r.Action}
	}

	hands := make([]int, 0, len(last))
	for h := range last {
		hands = append(hands, h)
	}
	sort.Ints(hands)

	out := make([]RiverLeader, 0, len(hands))
	for _, h := range hands {
		agents := make([]string, 0, len(last[h]))
		for a := range last[h] {
			agents = append(agents, a)
		}
		sort.Strings(agents)

		best := last[h][agents[0]]
		for _, a := range agents[1:] {
			if c := last[h][a]; c.score > best.score {
				best = c
			}
		}
		out = append(out, RiverLeader{HandID: h, Agent: best.agent, Category: best.cat.String(), Action: best.action})
	}
	return out
}
