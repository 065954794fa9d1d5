package supervisor

import (
	"context"
	"log/slog"
	"sync"
)

// trackRegistry tracks the consumer goroutine per subscribed video
// track so that unsubscribes and shutdown can cancel them cleanly.
type trackRegistry struct {
	logger *slog.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
	closed  bool
}

func newTrackRegistry(logger *slog.Logger) *trackRegistry {
	return &trackRegistry{
		logger:  logger.With("component", "tracks"),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Attach starts consume for the track in its own goroutine. Attaching
// a track that is already registered is a no-op.
func (r *trackRegistry) Attach(ctx context.Context, sid string, consume func(ctx context.Context)) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if _, ok := r.cancels[sid]; ok {
		r.mu.Unlock()
		return
	}

	trackCtx, cancel := context.WithCancel(ctx)
	r.cancels[sid] = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer r.remove(sid)
		consume(trackCtx)
	}()
}

// Detach cancels the consumer for the track if one is running.
func (r *trackRegistry) Detach(sid string) {
	r.mu.Lock()
	cancel, ok := r.cancels[sid]
	r.mu.Unlock()

	if ok {
		cancel()
		r.logger.Debug("detached track", "sid", sid)
	}
}

// Shutdown cancels every consumer and waits for them to exit.
func (r *trackRegistry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	cancels := make([]context.CancelFunc, 0, len(r.cancels))
	for _, cancel := range r.cancels {
		cancels = append(cancels, cancel)
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	r.wg.Wait()
}

func (r *trackRegistry) remove(sid string) {
	r.mu.Lock()
	if cancel, ok := r.cancels[sid]; ok {
		cancel()
		delete(r.cancels, sid)
	}
	r.mu.Unlock()
}

func (r *trackRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}
