package analysis

import (
	"math/rand/v2"
	"sort"

	"github.com/MikeSquared-Agency/handlog/internal/handlog"
)

// DefaultSampleSize is how many reasoning rows a summary samples.
const DefaultSampleSize = 10

// ActionCount is how often an action was taken.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// AgentActionCount is how often one agent took an action.
type AgentActionCount struct {
	Agent  string `json:"agent"`
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// PhaseActionCount is how often an action was taken in a phase.
type PhaseActionCount struct {
	Phase  handlog.Phase `json:"phase"`
	Action string        `json:"action"`
	Count  int           `json:"count"`
}

// AmountStats describes the distribution of non-zero bet amounts for an
// agent.
type AmountStats struct {
	Agent  string  `json:"agent"`
	Count  int     `json:"count"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// ChipPoint is an agent's stack at its first decision of a hand.
type ChipPoint struct {
	Agent  string `json:"agent"`
	HandID int    `json:"hand_id"`
	Chips  int    `json:"chips"`
}

// Summary is the aggregate view of a filtered record set.
type Summary struct {
	Records         int                `json:"records"`
	Options         Options            `json:"options"`
	Actions         []ActionCount      `json:"actions"`
	AgentActions    []AgentActionCount `json:"agent_actions"`
	PhaseActions    []PhaseActionCount `json:"phase_actions"`
	BetAmounts      []AmountStats      `json:"bet_amounts"`
	ChipTrajectory  []ChipPoint        `json:"chip_trajectory"`
	ReasoningSample []Row              `json:"reasoning_sample"`
	HandStrength    []StrengthCount    `json:"hand_strength"`
	RiverLeaders    []RiverLeader      `json:"river_leaders"`
}

// Summarize aggregates the records that pass f. Options always describe the
// full record set so a caller can widen the filter again. The chip
// trajectory follows the selected agents across every hand.
func Summarize(records []handlog.ActionRecord, f Filter, sampleSize int, seed uint64) Summary {
	rows := f.Apply(records)
	return Summary{
		Records:         len(rows),
		Options:         OptionsFor(records),
		Actions:         ActionCounts(rows),
		AgentActions:    AgentActionCounts(rows),
		PhaseActions:    PhaseActionCounts(rows),
		BetAmounts:      BetAmounts(rows),
		ChipTrajectory:  ChipTrajectory(records, f.Agents),
		ReasoningSample: Sample(rows, sampleSize, seed),
		HandStrength:    StrengthCounts(rows),
		RiverLeaders:    RiverLeaders(rows),
	}
}

// ActionCounts counts actions, most frequent first.
func ActionCounts(rows []Row) []ActionCount {
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Action]++
	}
	out := make([]ActionCount, 0, len(counts))
	for a, n := range counts {
		out = append(out, ActionCount{Action: a, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// AgentActionCounts counts actions per agent, ordered by agent then action.
func AgentActionCounts(rows []Row) []AgentActionCount {
	type key struct{ agent, action string }
	counts := map[key]int{}
	for _, r := range rows {
		counts[key{r.AgentName, r.Action}]++
	}
	out := make([]AgentActionCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, AgentActionCount{Agent: k.agent, Action: k.action, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Agent != out[j].Agent {
			return out[i].Agent < out[j].Agent
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// PhaseActionCounts counts actions per phase in poker order.
func PhaseActionCounts(rows []Row) []PhaseActionCount {
	type key struct {
		phase  handlog.Phase
		action string
	}
	counts := map[key]int{}
	for _, r := range rows {
		counts[key{r.Phase, r.Action}]++
	}
	out := make([]PhaseActionCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, PhaseActionCount{Phase: k.phase, Action: k.action, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Phase.Order() != out[j].Phase.Order() {
			return out[i].Phase.Order() < out[j].Phase.Order()
		}
		if out[i].Phase != out[j].Phase {
			return out[i].Phase < out[j].Phase
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// BetAmounts describes non-zero amounts per agent. Agents that never put
// chips in are left out.
func BetAmounts(rows []Row) []AmountStats {
	byAgent := map[string][]int{}
	for _, r := range rows {
		if r.Amount > 0 {
			byAgent[r.AgentName] = append(byAgent[r.AgentName], r.Amount)
		}
	}

	out := make([]AmountStats, 0, len(byAgent))
	for agent, amounts := range byAgent {
		sort.Ints(amounts)
		sum := 0
		for _, a := range amounts {
			sum += a
		}
		n := len(amounts)
		median := float64(amounts[n/2])
		if n%2 == 0 {
			median = float64(amounts[n/2-1]+amounts[n/2]) / 2
		}
		out = append(out, AmountStats{
			Agent:  agent,
			Count:  n,
			Min:    amounts[0],
			Max:    amounts[n-1],
			Mean:   float64(sum) / float64(n),
			Median: median,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Agent < out[j].Agent })
	return out
}

// ChipTrajectory takes each agent's stack at its first decision of every
// hand. An empty agent list means every agent.
func ChipTrajectory(records []handlog.ActionRecord, agents []string) []ChipPoint {
	type key struct {
		agent string
		hand  int
	}
	seen := map[key]bool{}
	out := []ChipPoint{}
	for _, r := range records {
		if len(agents) > 0 && !contains(agents, r.AgentName) {
			continue
		}
		k := key{r.AgentName, r.HandID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ChipPoint{Agent: r.AgentName, HandID: r.HandID, Chips: r.ChipsBefore})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Agent != out[j].Agent {
			return out[i].Agent < out[j].Agent
		}
		return out[i].HandID < out[j].HandID
	})
	return out
}

// Sample picks up to n rows with a seeded generator and returns them in log
// order. The same seed always yields the same sample.
func Sample(rows []Row, n int, seed uint64) []Row {
	if n <= 0 || len(rows) == 0 {
		return []Row{}
	}
	if n >= len(rows) {
		out := make([]Row, len(rows))
		copy(out, rows)
		return out
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	picked := rng.Perm(len(rows))[:n]
	sort.Ints(picked)

	out := make([]Row, n)
	for i, idx := range picked {
		out[i] = rows[idx]
	}
	return out
}
