package commands

// History keeps submitted console lines for recall with Up/Down.
type History struct {
	lines []string
	max   int
	pos   int // == len(lines) when not browsing
}

// NewHistory returns a History holding at most limit lines.
func NewHistory(limit int) *History {
	return &History{max: limit}
}

// Add records line and stops browsing. Blank lines and immediate repeats are not recorded.
func (h *History) Add(line string) {
	if line != "" && (len(h.lines) == 0 || h.lines[len(h.lines)-1] != line) {
		h.lines = append(h.lines, line)
		if h.max > 0 && len(h.lines) > h.max {
			h.lines = h.lines[len(h.lines)-h.max:]
		}
	}
	h.pos = len(h.lines)
}

// Prev moves to the previous line. It returns false when there is none.
func (h *History) Prev() (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.lines[h.pos], true
}

// Next moves to the following line. Moving past the newest line returns ""
// with ok true so the caller can clear its input.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.lines) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		return "", true
	}
	return h.lines[h.pos], true
}

// Len returns the number of recorded lines.
func (h *History) Len() int { return len(h.lines) }
