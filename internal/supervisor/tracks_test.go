package supervisor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTrackRegistryAttachIsIdempotent(t *testing.T) {
	r := newTrackRegistry(testLogger())
	defer r.Shutdown()

	var started atomic.Int32
	consume := func(ctx context.Context) {
		started.Add(1)
		<-ctx.Done()
	}

	r.Attach(context.Background(), "TR_1", consume)
	r.Attach(context.Background(), "TR_1", consume)

	time.Sleep(20 * time.Millisecond)
	if got := started.Load(); got != 1 {
		t.Errorf("expected one consumer, got %d", got)
	}
	if r.count() != 1 {
		t.Errorf("expected one registered track, got %d", r.count())
	}
}

func TestTrackRegistryDetachCancelsConsumer(t *testing.T) {
	r := newTrackRegistry(testLogger())
	defer r.Shutdown()

	done := make(chan struct{})
	r.Attach(context.Background(), "TR_1", func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	})

	r.Detach("TR_1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer was not cancelled")
	}
}

func TestTrackRegistryShutdownWaits(t *testing.T) {
	r := newTrackRegistry(testLogger())

	var exited atomic.Int32
	for _, sid := range []string{"TR_1", "TR_2", "TR_3"} {
		r.Attach(context.Background(), sid, func(ctx context.Context) {
			<-ctx.Done()
			exited.Add(1)
		})
	}

	r.Shutdown()

	if got := exited.Load(); got != 3 {
		t.Errorf("expected all consumers to exit before Shutdown returned, got %d", got)
	}
}

func TestTrackRegistryAttachAfterShutdown(t *testing.T) {
	r := newTrackRegistry(testLogger())
	r.Shutdown()

	r.Attach(context.Background(), "TR_1", func(ctx context.Context) {
		t.Error("consumer should not start after shutdown")
	})

	time.Sleep(20 * time.Millisecond)
	if r.count() != 0 {
		t.Errorf("expected no registered tracks, got %d", r.count())
	}
}

func TestTrackRegistryFailedConsumerLeavesOthersRunning(t *testing.T) {
	r := newTrackRegistry(testLogger())
	defer r.Shutdown()

	var survivorCancelled atomic.Bool
	r.Attach(context.Background(), "TR_OK", func(ctx context.Context) {
		<-ctx.Done()
		survivorCancelled.Store(true)
	})

	// A consumer that hits a terminal read error simply returns.
	r.Attach(context.Background(), "TR_DEAD", func(ctx context.Context) {})

	deadline := time.After(time.Second)
	for r.count() != 1 {
		select {
		case <-deadline:
			t.Fatal("failed consumer was never deregistered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if survivorCancelled.Load() {
		t.Error("surviving consumer was cancelled by another task's exit")
	}
}

func TestTrackRegistryConsumerExitRemovesEntry(t *testing.T) {
	r := newTrackRegistry(testLogger())
	defer r.Shutdown()

	r.Attach(context.Background(), "TR_1", func(ctx context.Context) {})

	deadline := time.After(time.Second)
	for r.count() != 0 {
		select {
		case <-deadline:
			t.Fatal("finished consumer was never removed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
