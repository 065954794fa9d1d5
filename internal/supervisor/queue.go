package supervisor

import (
	"context"

	"github.com/eleven-am/vision-nav/internal/vision"
)

// frameQueue is a single-slot queue that always holds the newest frame.
// When a frame arrives while the slot is full, the stale frame is
// dropped so the consumer never processes old video.
type frameQueue struct {
	ch chan *vision.Frame
}

func newFrameQueue() *frameQueue {
	return &frameQueue{ch: make(chan *vision.Frame, 1)}
}

// Push stores the frame without blocking, evicting any frame already
// waiting in the slot.
func (q *frameQueue) Push(frame *vision.Frame) {
	for {
		select {
		case q.ch <- frame:
			return
		default:
			select {
			case <-q.ch:
			default:
			}
		}
	}
}

// Pop blocks until a frame is available or the context is cancelled.
func (q *frameQueue) Pop(ctx context.Context) (*vision.Frame, error) {
	select {
	case frame := <-q.ch:
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
