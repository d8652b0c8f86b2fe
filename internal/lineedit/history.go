package lineedit

import "sync"

// History is a bounded in-memory list of input lines.
type History struct {
	mu      sync.Mutex
	entries []string
	limit   int
}

// NewHistory creates a History keeping at most limit entries. A limit of
// zero or less keeps nothing.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add appends line, dropping the oldest entry when full.
func (h *History) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.limit <= 0 {
		return
	}
	if len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, line)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// At returns an entry, 0 being the most recent.
func (h *History) At(idx int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1-idx]
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// termHistory exposes a History to the raw-mode editor for navigation only.
// The editor calls Add for every line it reads; recording is left to
// explicit AddHistory calls so sentinel-prefixed lines stay out.
type termHistory struct {
	*History
}

func (termHistory) Add(string) {}
