package handlog

import "encoding/json"

// Phase is the betting round an agent was acting in, derived from the
// number of community cards visible in its prompt.
type Phase string

const (
	PhasePreflop Phase = "preflop"
	PhaseFlop    Phase = "flop"
	PhaseTurn    Phase = "turn"
	PhaseRiver   Phase = "river"
	PhaseUnknown Phase = "unknown"
)

// Phases lists every phase label in poker order, unknown last.
var Phases = []Phase{PhasePreflop, PhaseFlop, PhaseTurn, PhaseRiver, PhaseUnknown}

// Prompt holds the load-bearing fields of an agent prompt. Every other key
// stays in the raw JSON kept alongside it.
type Prompt struct {
	YourChips int
	YourCards []string
	Community []string
}

// ActionRecord is one agent decision fused with the prompt that produced it.
type ActionRecord struct {
	HandID         int             `json:"hand_id"`
	AgentName      string          `json:"agent_name"`
	Phase          Phase           `json:"phase"`
	ChipsBefore    int             `json:"chips_before"`
	HoleCards      string          `json:"hole_cards"`
	CommunityCards string          `json:"community_cards"`
	Action         string          `json:"action"`
	Amount         int             `json:"amount"`
	Reasoning      string          `json:"reasoning"`
	RawPrompt      json.RawMessage `json:"raw_prompt"`
}

// Stats counts what a single pass saw and what it dropped.
type Stats struct {
	Lines            int `json:"lines"`
	Hands            int `json:"hands"`
	Prompts          int `json:"prompts"`
	MalformedPrompts int `json:"malformed_prompts"`
	IncompleteBlocks int `json:"incomplete_blocks"`
	Decisions        int `json:"decisions"`
	OrphanDecisions  int `json:"orphan_decisions"`
	Records          int `json:"records"`
}

// Result is the output of one extraction pass.
type Result struct {
	Records []ActionRecord
	Stats   Stats
}
