package analysis

import (
	"sort"

	"github.com/MikeSquared-Agency/handlog/internal/handlog"
)

// Filter selects records by agent, hand and phase. An empty dimension
// selects everything.
type Filter struct {
	Agents []string        `json:"agents,omitempty"`
	Hands  []int           `json:"hands,omitempty"`
	Phases []handlog.Phase `json:"phases,omitempty"`
}

// Match reports whether a single record passes the filter.
func (f Filter) Match(r handlog.ActionRecord) bool {
	if len(f.Agents) > 0 && !contains(f.Agents, r.AgentName) {
		return false
	}
	if len(f.Hands) > 0 && !contains(f.Hands, r.HandID) {
		return false
	}
	if len(f.Phases) > 0 && !contains(f.Phases, r.Phase) {
		return false
	}
	return true
}

// Row is a record together with its position in the unfiltered log order.
type Row struct {
	Index int `json:"index"`
	handlog.ActionRecord
}

// Apply returns the matching records in log order, keeping their original
// indexes so a filtered view can point back at the full table.
func (f Filter) Apply(records []handlog.ActionRecord) []Row {
	rows := []Row{}
	for i, r := range records {
		if f.Match(r) {
			rows = append(rows, Row{Index: i, ActionRecord: r})
		}
	}
	return rows
}

// Options lists the distinct values a filter can choose from.
type Options struct {
	Agents []string        `json:"agents"`
	Hands  []int           `json:"hands"`
	Phases []handlog.Phase `json:"phases"`
}

// OptionsFor collects sorted agents and hands, and the phases present in
// poker order.
func OptionsFor(records []handlog.ActionRecord) Options {
	agents := map[string]bool{}
	hands := map[int]bool{}
	phases := map[handlog.Phase]bool{}
	for _, r := range records {
		agents[r.AgentName] = true
		hands[r.HandID] = true
		phases[r.Phase] = true
	}

	opts := Options{
		Agents: make([]string, 0, len(agents)),
		Hands:  make([]int, 0, len(hands)),
		Phases: make([]handlog.Phase, 0, len(phases)),
	}
	for a := range agents {
		opts.Agents = append(opts.Agents, a)
	}
	for h := range hands {
		opts.Hands = append(opts.Hands, h)
	}
	for p := range phases {
		opts.Phases = append(opts.Phases, p)
	}
	sort.Strings(opts.Agents)
	sort.Ints(opts.Hands)
	sortPhases(opts.Phases)
	return opts
}

func sortPhases(ps []handlog.Phase) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Order() != ps[j].Order() {
			return ps[i].Order() < ps[j].Order()
		}
		return ps[i] < ps[j]
	})
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
