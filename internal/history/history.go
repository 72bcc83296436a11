// Package history keeps the bounded record of completed conversation turns.
package history

import "time"

// Limit is the most turns a Log keeps.
const Limit = 100

// Entry is one completed turn.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Input     string    `json:"input"`
	Response  string    `json:"response"`
}

// Log is an append-only FIFO of turns, evicting the oldest past Limit.
// Entries are kept oldest first.
type Log struct {
	entries []Entry
	now     func() time.Time
}

// New creates an empty log.
func New() *Log {
	return &Log{
		entries: make([]Entry, 0, 16),
		now:     time.Now,
	}
}

// FromEntries builds a log from previously saved turns, keeping the newest
// Limit of them.
func FromEntries(entries []Entry) *Log {
	l := New()
	for _, e := range entries {
		l.append(e)
	}
	return l
}

// Record appends a turn stamped with the current time.
func (l *Log) Record(input, response string) Entry {
	e := Entry{
		Timestamp: l.now(),
		Input:     input,
		Response:  response,
	}
	l.append(e)
	return e
}

func (l *Log) append(e Entry) {
	if len(l.entries) >= Limit {
		// shift instead of reslicing so the backing array doesn't grow forever
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, e)
}

// Recent returns up to n of the newest turns, most recent last.
// n <= 0 returns every turn held.
func (l *Log) Recent(n int) []Entry {
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Entries returns a copy of every turn, oldest first.
func (l *Log) Entries() []Entry {
	return l.Recent(0)
}

// Len returns the number of turns held.
func (l *Log) Len() int {
	return len(l.entries)
}

// Reset drops every turn.
func (l *Log) Reset() {
	l.entries = l.entries[:0]
}
