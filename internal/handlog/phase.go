package handlog

// ClassifyPhase maps a community card count to its betting round. Counts
// that no real board can have map to PhaseUnknown.
func ClassifyPhase(communityCards int) Phase {
	switch communityCards {
	case 0:
		return PhasePreflop
	case 3:
		return PhaseFlop
	case 4:
		return PhaseTurn
	case 5:
		return PhaseRiver
	default:
		return PhaseUnknown
	}
}

// Order returns the position of the phase within a hand. Unknown and
// unrecognised labels sort after the river.
func (p Phase) Order() int {
	switch p {
	case PhasePreflop:
		return 0
	case PhaseFlop:
		return 1
	case PhaseTurn:
		return 2
	case PhaseRiver:
		return 3
	default:
		return 99
	}
}

// ParsePhase returns the phase named by s and whether it is a known label.
func ParsePhase(s string) (Phase, bool) {
	for _, p := range Phases {
		if string(p) == s {
			return p, true
		}
	}
	return PhaseUnknown, false
}
