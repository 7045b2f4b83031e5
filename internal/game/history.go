package game

// HistoryEntry is the position and player to move captured just before a move.
type HistoryEntry struct {
	Board   Board
	Current Player
}

// History is a linear undo stack. There is no redo.
type History struct {
	entries []HistoryEntry
}

func (h *History) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

// Pop removes and returns the most recent entry.
func (h *History) Pop() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h History) Len() int {
	return len(h.entries)
}
