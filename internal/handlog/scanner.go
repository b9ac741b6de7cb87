package handlog

import (
	"encoding/json"
	"strings"
)

// Scanner walks a fully loaded log once, top to bottom, and turns every
// decision line that can be traced back to a prompt into an ActionRecord.
//
// All scan state lives on the Scanner, so each pass needs a fresh one.
type Scanner struct {
	lines   []string
	pos     int
	handID  int
	inHand  bool
	prompts promptCache
	block   BlockCapture
	records []ActionRecord
	stats   Stats
}

// NewScanner creates a scanner over the given lines.
func NewScanner(lines []string) *Scanner {
	return &Scanner{
		lines:   lines,
		prompts: make(promptCache),
		records: []ActionRecord{},
	}
}

// Run performs the pass and returns the records in log order.
func (s *Scanner) Run() *Result {
	for s.pos < len(s.lines) {
		s.step()
	}
	s.stats.Lines = len(s.lines)
	s.stats.Records = len(s.records)
	return &Result{Records: s.records, Stats: s.stats}
}

// step consumes at least one line. Hand markers take priority over prompt
// starts, which take priority over decisions.
func (s *Scanner) step() {
	line := s.lines[s.pos]

	if hand, ok := matchHandStart(line); ok {
		s.handBoundary(hand)
		s.pos++
		return
	}

	if agent, rest, ok := matchPromptStart(line); ok {
		s.pos++
		s.capturePrompt(agent, rest)
		return
	}

	if d, ok := matchDecision(line); ok {
		s.correlate(d)
	}
	s.pos++
}

// handBoundary starts a new hand. Prompts never outlive their hand.
func (s *Scanner) handBoundary(hand int) {
	s.handID = hand
	s.inHand = true
	s.prompts.reset()
	s.stats.Hands++
}

// capturePrompt reads the prompt object that opens on the line before the
// cursor and leaves the cursor on the line after it closes.
func (s *Scanner) capturePrompt(agent, rest string) {
	s.stats.Prompts++
	s.block.Start()

	status := BlockOpen
	if strings.TrimSpace(rest) != "" {
		status = s.block.Feed(rest)
	}
	for status == BlockOpen && s.pos < len(s.lines) {
		status = s.block.Feed(s.lines[s.pos])
		s.pos++
	}
	if status == BlockOpen {
		status = s.block.Abort()
	}

	switch status {
	case BlockIncomplete:
		s.stats.IncompleteBlocks++
	case BlockMismatch:
		s.prompts.evict(agent)
		s.stats.MalformedPrompts++
	case BlockComplete:
		raw := s.block.Text()
		p, err := decodePrompt(raw)
		if err != nil {
			s.prompts.evict(agent)
			s.stats.MalformedPrompts++
			return
		}
		s.prompts.put(agent, cachedPrompt{prompt: p, raw: raw})
	}
}

// correlate pairs a decision with the agent's cached prompt. A decision
// with no prompt in the current hand, or one seen before the first hand
// marker, is dropped.
func (s *Scanner) correlate(d decision) {
	s.stats.Decisions++

	cached, ok := s.prompts.lookup(d.agent)
	if !ok || !s.inHand {
		s.stats.OrphanDecisions++
		return
	}

	p := cached.prompt
	s.records = append(s.records, ActionRecord{
		HandID:         s.handID,
		AgentName:      d.agent,
		Phase:          ClassifyPhase(len(p.Community)),
		ChipsBefore:    p.YourChips,
		HoleCards:      strings.Join(p.YourCards, ", "),
		CommunityCards: strings.Join(p.Community, ", "),
		Action:         d.action,
		Amount:         d.amount,
		Reasoning:      d.reasoning,
		RawPrompt:      json.RawMessage(cached.raw),
	})
}
