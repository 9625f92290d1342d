package core

import "sync"

// Turn is one completed exchange: the raw user request and the synthesized
// final answer.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// History is a bounded, FIFO-evicted record of completed conversation turns.
// It is process-wide state shared by concurrent requests and therefore
// mutex-guarded; appends are independent so interleaving under concurrency
// cannot corrupt earlier entries.
type History struct {
	mu    sync.RWMutex
	turns []Turn
	max   int
}

// NewHistory constructs a History retaining at most max turns. A max of zero
// or less disables retention entirely.
func NewHistory(max int) *History {
	return &History{max: max}
}

// Append records a completed turn, evicting the oldest entry once the bound
// is exceeded.
func (h *History) Append(user, assistant string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, Turn{User: user, Assistant: assistant})
	if h.max > 0 && len(h.turns) > h.max {
		h.turns = h.turns[len(h.turns)-h.max:]
	}
}

// Last returns up to n most recent turns, oldest first.
func (h *History) Last(n int) []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Len returns the number of retained turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}
