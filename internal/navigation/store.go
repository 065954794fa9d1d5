package navigation

import (
	"sync"
	"time"
)

const (
	DefaultDecisionTTL  = 5 * time.Second
	DefaultHistoryLimit = 50
)

// Store holds the latest steering decision per room plus a bounded history
// ring. It is a single-process, best-effort cache: entries expire lazily on
// read and nothing is persisted.
type Store struct {
	ttl          time.Duration
	historyLimit int
	now          func() time.Time

	mu        sync.Mutex
	sequence  uint64
	latest    map[string]*DecisionEntry
	histories map[string][]*DecisionEntry
}

func NewStore(ttl time.Duration, historyLimit int) *Store {
	// Degenerate configuration degrades to a shallow store rather than an
	// unbounded one.
	if ttl < time.Second {
		ttl = time.Second
	}
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &Store{
		ttl:          ttl,
		historyLimit: historyLimit,
		now:          time.Now,
		latest:       make(map[string]*DecisionEntry),
		histories:    make(map[string][]*DecisionEntry),
	}
}

// RecordDecision stores a new decision as the room's latest and appends it
// to the room's history, evicting the oldest entry past the history limit.
// Sequence numbers are strictly increasing across all rooms.
func (s *Store) RecordDecision(room string, command Command, message string, confidence *float64, source string) *DecisionEntry {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	entry := &DecisionEntry{
		Sequence:   s.sequence,
		Room:       room,
		Command:    command,
		Message:    message,
		Confidence: confidence,
		Source:     source,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	s.latest[room] = entry
	history := append(s.histories[room], entry)
	if len(history) > s.historyLimit {
		history = history[1:]
	}
	s.histories[room] = history

	return entry
}

// GetLatestDecision returns the room's latest unexpired decision, or nil.
// An expired entry is evicted on read and never resurrected.
func (s *Store) GetLatestDecision(room string) *DecisionEntry {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.latest[room]
	if !ok {
		return nil
	}
	if entry.ExpiresAt.Before(now) {
		delete(s.latest, room)
		return nil
	}
	return entry
}

// GetHistory returns a snapshot of the room's history ring, oldest first.
// History entries outlive the latest slot's TTL; only capacity evicts them.
func (s *Store) GetHistory(room string) []*DecisionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.histories[room]
	snapshot := make([]*DecisionEntry, len(history))
	copy(snapshot, history)
	return snapshot
}

// Stats reports how many rooms have recorded history and the total
// number of decisions ever recorded.
func (s *Store) Stats() (rooms int, decisions uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories), s.sequence
}

// DestinationStore holds the current destination per room with
// last-write-wins semantics and no expiry.
type DestinationStore struct {
	mu           sync.Mutex
	now          func() time.Time
	destinations map[string]*DestinationEntry
}

func NewDestinationStore() *DestinationStore {
	return &DestinationStore{
		now:          time.Now,
		destinations: make(map[string]*DestinationEntry),
	}
}

// SetDestination overwrites unconditionally. Coordinate ranges are enforced
// at the request boundary, not here.
func (s *DestinationStore) SetDestination(room string, latitude, longitude float64, label, requestedBy string) *DestinationEntry {
	entry := &DestinationEntry{
		Room:        room,
		Latitude:    latitude,
		Longitude:   longitude,
		Label:       label,
		RequestedBy: requestedBy,
		UpdatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	s.destinations[room] = entry
	s.mu.Unlock()

	return entry
}

func (s *DestinationStore) GetDestination(room string) *DestinationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destinations[room]
}

func (s *DestinationStore) ClearDestination(room string) {
	s.mu.Lock()
	delete(s.destinations, room)
	s.mu.Unlock()
}
