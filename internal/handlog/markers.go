package handlog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	handStartRe   = regexp.MustCompile(`=== STARTING NEW HAND #(\d+) ===`)
	promptStartRe = regexp.MustCompile(`LLM Prompt for ([A-Za-z0-9_-]+): \{`)
	decisionRe    = regexp.MustCompile(`\[([A-Za-z0-9_-]+)\] Successfully parsed decision: (\w+), (\d+), (.*)`)
)

// matchHandStart reports the hand number announced by a hand marker line.
// A number that does not fit an int is treated as no match.
func matchHandStart(line string) (int, bool) {
	m := handStartRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// matchPromptStart returns the agent a prompt block belongs to and whatever
// follows the opening brace on the same line.
func matchPromptStart(line string) (agent, rest string, ok bool) {
	loc := promptStartRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", "", false
	}
	return line[loc[2]:loc[3]], line[loc[1]:], true
}

type decision struct {
	agent     string
	action    string
	amount    int
	reasoning string
}

func matchDecision(line string) (decision, bool) {
	m := decisionRe.FindStringSubmatch(line)
	if m == nil {
		return decision{}, false
	}
	amount, err := strconv.Atoi(m[3])
	if err != nil {
		return decision{}, false
	}
	return decision{
		agent:     m[1],
		action:    m[2],
		amount:    amount,
		reasoning: strings.TrimSpace(m[4]),
	}, true
}
