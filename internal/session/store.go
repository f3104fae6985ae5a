package session

import "cartographia/stocktake/internal/models"

// Store is the in-memory log of a session. Entries are kept newest first;
// only the head can be uncommitted.
type Store struct {
	entries []*models.LogEntry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Head returns the most recent entry, or nil when the store is empty.
func (s *Store) Head() *models.LogEntry {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[0]
}

// Open returns the head entry if it is still uncommitted.
func (s *Store) Open() *models.LogEntry {
	head := s.Head()
	if head == nil || head.Committed() {
		return nil
	}
	return head
}

// Push makes e the new head.
func (s *Store) Push(e *models.LogEntry) {
	s.entries = append([]*models.LogEntry{e}, s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a snapshot of the log, newest first. The returned values
// are copies and do not change when the session goes on.
func (s *Store) Entries() []models.LogEntry {
	out := make([]models.LogEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}
