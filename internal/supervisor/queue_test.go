package supervisor

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/eleven-am/vision-nav/internal/vision"
)

func testFrame(source string) *vision.Frame {
	return vision.NewFrame(image.NewRGBA(image.Rect(0, 0, 4, 4)), source)
}

func TestFrameQueuePushPop(t *testing.T) {
	q := newFrameQueue()
	q.Push(testFrame("a"))

	frame, err := q.Pop(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.Source != "a" {
		t.Errorf("expected source a, got %q", frame.Source)
	}
}

func TestFrameQueueDropsOldest(t *testing.T) {
	q := newFrameQueue()
	q.Push(testFrame("stale"))
	q.Push(testFrame("fresh"))

	frame, err := q.Pop(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.Source != "fresh" {
		t.Errorf("expected the newest frame to survive, got %q", frame.Source)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := q.Pop(ctx); err == nil {
		t.Error("expected queue to hold a single frame")
	}
}

func TestFrameQueuePushNeverBlocks(t *testing.T) {
	q := newFrameQueue()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			q.Push(testFrame("burst"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked with no consumer")
	}
}

func TestFrameQueuePopHonorsContext(t *testing.T) {
	q := newFrameQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := q.Pop(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
