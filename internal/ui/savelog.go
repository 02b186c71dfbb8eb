package ui

import (
	"sync"
	"time"
)

// SaveEntry records one successful overwrite of the task document.
type SaveEntry struct {
	When      time.Time
	Remote    string
	RequestID string
	Bytes     int
}

// SaveLogStore keeps the most recent saves in memory, oldest first.
type SaveLogStore struct {
	mu      sync.Mutex
	entries []SaveEntry
	max     int
	now     func() time.Time
}

func NewSaveLogStore(max int) *SaveLogStore {
	if max <= 0 {
		max = 20
	}
	return &SaveLogStore{max: max, now: time.Now}
}

func (s *SaveLogStore) Append(remote, requestID string, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, SaveEntry{When: s.now(), Remote: remote, RequestID: requestID, Bytes: size})
	s.trim()
}

func (s *SaveLogStore) trim() {
	if len(s.entries) > s.max {
		// drop oldest
		s.entries = append([]SaveEntry(nil), s.entries[len(s.entries)-s.max:]...)
	}
}

// List returns up to n of the newest entries, newest first. n <= 0 means all.
func (s *SaveLogStore) List(n int) []SaveEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]SaveEntry, 0, n)
	for i := len(s.entries) - 1; i >= len(s.entries)-n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}
