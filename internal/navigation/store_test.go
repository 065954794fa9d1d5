package navigation

import (
	"sync"
	"testing"
	"time"
)

func newTestStore(ttl time.Duration, historyLimit int) (*Store, *time.Time) {
	store := NewStore(ttl, historyLimit)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	return store, &current
}

func TestNewStore_ClampsDegenerateConfig(t *testing.T) {
	store := NewStore(0, 0)
	if store.ttl != time.Second {
		t.Errorf("expected TTL clamped to 1s, got %v", store.ttl)
	}
	if store.historyLimit != 1 {
		t.Errorf("expected history limit clamped to 1, got %d", store.historyLimit)
	}

	store = NewStore(-time.Minute, -5)
	if store.ttl != time.Second {
		t.Errorf("expected TTL clamped to 1s, got %v", store.ttl)
	}
	if store.historyLimit != 1 {
		t.Errorf("expected history limit clamped to 1, got %d", store.historyLimit)
	}
}

func TestStore_RecordAndGetLatest(t *testing.T) {
	store, _ := newTestStore(5*time.Second, 10)

	conf := 0.8
	entry := store.RecordDecision("R1", CommandTurnLeft, "veer left", &conf, "vision")
	if entry.Sequence != 1 {
		t.Errorf("expected sequence 1, got %d", entry.Sequence)
	}
	if entry.ExpiresAt.Sub(entry.CreatedAt) != 5*time.Second {
		t.Errorf("expected 5s TTL window, got %v", entry.ExpiresAt.Sub(entry.CreatedAt))
	}

	latest := store.GetLatestDecision("R1")
	if latest == nil {
		t.Fatal("expected latest decision")
	}
	if latest.Command != CommandTurnLeft {
		t.Errorf("expected TURN_LEFT, got %s", latest.Command)
	}
	if latest.Confidence == nil || *latest.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", latest.Confidence)
	}
}

func TestStore_GetLatest_UnknownRoom(t *testing.T) {
	store, _ := newTestStore(5*time.Second, 10)
	if entry := store.GetLatestDecision("missing"); entry != nil {
		t.Errorf("expected nil for unknown room, got %+v", entry)
	}
}

func TestStore_LatestSuperseded(t *testing.T) {
	store, _ := newTestStore(5*time.Second, 10)

	store.RecordDecision("R1", CommandTurnLeft, "", nil, "vision")
	store.RecordDecision("R1", CommandStop, "", nil, "vision")

	latest := store.GetLatestDecision("R1")
	if latest == nil {
		t.Fatal("expected latest decision")
	}
	if latest.Command != CommandStop {
		t.Errorf("expected latest STOP, got %s", latest.Command)
	}
	if latest.Sequence != 2 {
		t.Errorf("expected sequence 2, got %d", latest.Sequence)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	store, current := newTestStore(5*time.Second, 10)

	store.RecordDecision("R1", CommandMoveForward, "", nil, "vision")
	if store.GetLatestDecision("R1") == nil {
		t.Fatal("expected decision before expiry")
	}

	*current = current.Add(6 * time.Second)
	if entry := store.GetLatestDecision("R1"); entry != nil {
		t.Errorf("expected nil after TTL, got %+v", entry)
	}

	// Eviction is permanent: a second read must not resurrect the entry.
	*current = current.Add(-6 * time.Second)
	if entry := store.GetLatestDecision("R1"); entry != nil {
		t.Errorf("expected evicted entry to stay gone, got %+v", entry)
	}
}

func TestStore_HistoryOutlivesTTL(t *testing.T) {
	store, current := newTestStore(5*time.Second, 10)

	store.RecordDecision("R1", CommandStop, "", nil, "vision")
	*current = current.Add(time.Minute)

	if store.GetLatestDecision("R1") != nil {
		t.Fatal("expected latest to expire")
	}
	history := store.GetHistory("R1")
	if len(history) != 1 {
		t.Fatalf("expected history to survive TTL, got %d entries", len(history))
	}
	if history[0].Command != CommandStop {
		t.Errorf("expected STOP in history, got %s", history[0].Command)
	}
}

func TestStore_HistoryBounded(t *testing.T) {
	store, _ := newTestStore(5*time.Second, 3)

	commands := []Command{CommandMoveForward, CommandTurnLeft, CommandTurnRight, CommandStop, CommandMoveForward}
	for _, cmd := range commands {
		store.RecordDecision("R1", cmd, "", nil, "vision")
	}

	history := store.GetHistory("R1")
	if len(history) != 3 {
		t.Fatalf("expected history bounded to 3, got %d", len(history))
	}
	expected := []Command{CommandTurnRight, CommandStop, CommandMoveForward}
	for i, cmd := range expected {
		if history[i].Command != cmd {
			t.Errorf("history[%d]: expected %s, got %s", i, cmd, history[i].Command)
		}
	}
	for i := 1; i < len(history); i++ {
		if history[i].Sequence <= history[i-1].Sequence {
			t.Errorf("expected insertion order, got sequences %d then %d", history[i-1].Sequence, history[i].Sequence)
		}
	}
}

func TestStore_HistoryLimitOne(t *testing.T) {
	store, _ := newTestStore(5*time.Second, 1)

	conf1, conf2 := 0.8, 0.95
	store.RecordDecision("R1", CommandTurnLeft, "", &conf1, "vision")
	store.RecordDecision("R1", CommandStop, "", &conf2, "vision")

	history := store.GetHistory("R1")
	if len(history) != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", len(history))
	}
	if history[0].Command != CommandStop {
		t.Errorf("expected STOP, got %s", history[0].Command)
	}
	if history[0].Confidence == nil || *history[0].Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %v", history[0].Confidence)
	}
}

func TestStore_HistorySnapshotIsStable(t *testing.T) {
	store, _ := newTestStore(5*time.Second, 10)

	store.RecordDecision("R1", CommandStop, "", nil, "vision")
	snapshot := store.GetHistory("R1")
	store.RecordDecision("R1", CommandMoveForward, "", nil, "vision")

	if len(snapshot) != 1 {
		t.Errorf("expected snapshot to stay at 1 entry, got %d", len(snapshot))
	}
}

func TestStore_SequenceAcrossRooms(t *testing.T) {
	store, _ := newTestStore(5*time.Second, 10)

	rooms := []string{"R1", "R2", "R1", "R3", "R2"}
	var last uint64
	for _, room := range rooms {
		entry := store.RecordDecision(room, CommandMoveForward, "", nil, "vision")
		if entry.Sequence <= last {
			t.Errorf("expected strictly increasing sequence, got %d after %d", entry.Sequence, last)
		}
		last = entry.Sequence
	}
	if last != uint64(len(rooms)) {
		t.Errorf("expected final sequence %d, got %d", len(rooms), last)
	}
}

func TestStore_ConcurrentRecord(t *testing.T) {
	store := NewStore(5*time.Second, 100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				store.RecordDecision("R1", CommandMoveForward, "", nil, "vision")
				store.GetLatestDecision("R1")
				store.GetHistory("R1")
			}
		}()
	}
	wg.Wait()

	latest := store.GetLatestDecision("R1")
	if latest == nil {
		t.Fatal("expected latest decision after concurrent writes")
	}
	if latest.Sequence != 400 {
		t.Errorf("expected final sequence 400, got %d", latest.Sequence)
	}
	if len(store.GetHistory("R1")) != 100 {
		t.Errorf("expected history at capacity 100, got %d", len(store.GetHistory("R1")))
	}
}

func TestDestinationStore_SetGetClear(t *testing.T) {
	store := NewDestinationStore()

	entry := store.SetDestination("R2", 10.0, 20.0, "home", "companion")
	if entry.Latitude != 10.0 || entry.Longitude != 20.0 {
		t.Errorf("expected coordinates (10, 20), got (%f, %f)", entry.Latitude, entry.Longitude)
	}
	if entry.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be stamped")
	}

	got := store.GetDestination("R2")
	if got == nil {
		t.Fatal("expected destination")
	}
	if got.Label != "home" {
		t.Errorf("expected label 'home', got '%s'", got.Label)
	}

	store.ClearDestination("R2")
	if store.GetDestination("R2") != nil {
		t.Error("expected nil after clear")
	}
}

func TestDestinationStore_LastWriteWins(t *testing.T) {
	store := NewDestinationStore()

	store.SetDestination("R1", 1.0, 2.0, "first", "")
	store.SetDestination("R1", 3.0, 4.0, "second", "")

	got := store.GetDestination("R1")
	if got == nil {
		t.Fatal("expected destination")
	}
	if got.Label != "second" || got.Latitude != 3.0 {
		t.Errorf("expected last write to win, got %+v", got)
	}
}

func TestDestinationStore_ClearAbsent(t *testing.T) {
	store := NewDestinationStore()
	store.ClearDestination("missing") // must not panic
	if store.GetDestination("missing") != nil {
		t.Error("expected nil for absent room")
	}
}
