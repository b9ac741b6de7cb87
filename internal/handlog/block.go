package handlog

import "strings"

// BlockStatus is the outcome of feeding one line to a BlockCapture.
type BlockStatus int

const (
	// BlockOpen means the object is still open and more lines are needed.
	BlockOpen BlockStatus = iota
	// BlockComplete means the braces balanced; Text holds the object.
	BlockComplete
	// BlockMismatch means stray closing braces followed the end of the
	// object on its final line. Text holds the whole line and will not parse.
	BlockMismatch
	// BlockIncomplete means input ran out while the object was still open.
	BlockIncomplete
)

func (s BlockStatus) String() string {
	switch s {
	case BlockOpen:
		return "open"
	case BlockComplete:
		return "complete"
	case BlockMismatch:
		return "mismatch"
	case BlockIncomplete:
		return "incomplete"
	default:
		return "invalid"
	}
}

type captureState int

const (
	stateScanning captureState = iota
	stateCapturing
)

// BlockCapture collects a JSON object spread over consecutive log lines.
// It sits in stateScanning until Start is called, then counts brace depth
// line by line until the object closes.
//
// Braces inside string literals are not counted. JSON strings cannot span
// lines, so string state is reset at every line.
type BlockCapture struct {
	state captureState
	depth int
	buf   strings.Builder
}

// Start begins a capture whose opening brace has already been consumed.
func (c *BlockCapture) Start() {
	c.state = stateCapturing
	c.depth = 1
	c.buf.Reset()
	c.buf.WriteString("{\n")
}

// Capturing reports whether an object is currently open.
func (c *BlockCapture) Capturing() bool {
	return c.state == stateCapturing
}

// Depth is the number of currently unmatched opening braces.
func (c *BlockCapture) Depth() int {
	return c.depth
}

// Text returns the accumulated object text.
func (c *BlockCapture) Text() string {
	return c.buf.String()
}

// Feed appends one line to the open object.
func (c *BlockCapture) Feed(line string) BlockStatus {
	if c.state != stateCapturing {
		return BlockIncomplete
	}

	inString, escaped := false, false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			c.depth++
		case '}':
			c.depth--
			if c.depth > 0 {
				continue
			}
			c.state = stateScanning
			if strings.Contains(line[i+1:], "}") {
				c.depth -= strings.Count(line[i+1:], "}")
				c.buf.WriteString(line)
				c.buf.WriteByte('\n')
				return BlockMismatch
			}
			c.buf.WriteString(line[:i+1])
			return BlockComplete
		}
	}

	c.buf.WriteString(line)
	c.buf.WriteByte('\n')
	return BlockOpen
}

// Abort ends a capture because the input is exhausted.
func (c *BlockCapture) Abort() BlockStatus {
	c.state = stateScanning
	return BlockIncomplete
}
