package supervisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/vision-nav/internal/dto"
	"github.com/eleven-am/vision-nav/internal/navigation"
)

const (
	DefaultPublishInterval = 500 * time.Millisecond
	defaultPublishTimeout  = 5 * time.Second
)

// Publisher pushes zone decisions to the navigation API, rate limited
// so the decision endpoint is not hammered on every video frame.
type Publisher struct {
	baseURL  string
	token    string
	room     string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger

	mu            sync.Mutex
	lastPublished time.Time
	now           func() time.Time
}

func NewPublisher(baseURL, token, room string, interval time.Duration, logger *slog.Logger) *Publisher {
	if interval <= 0 {
		interval = DefaultPublishInterval
	}
	return &Publisher{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		room:     room,
		interval: interval,
		client:   &http.Client{Timeout: defaultPublishTimeout},
		logger:   logger.With("component", "publisher"),
		now:      time.Now,
	}
}

// ReadyToPublish reports whether enough time has passed since the last
// publish. Returning true records the attempt, whether or not the
// caller follows through.
func (p *Publisher) ReadyToPublish() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastPublished) < p.interval {
		return false
	}
	p.lastPublished = now
	return true
}

// Publish sends the decision to the navigation API. Failures are
// logged and swallowed: a missed publish must never stall the frame
// loop.
func (p *Publisher) Publish(ctx context.Context, command navigation.Command, confidence *float64) {
	req := dto.DecisionRequest{
		Room:       p.room,
		Command:    string(command),
		Message:    describeCommand(command),
		Confidence: confidence,
		Source:     "vision",
	}

	if err := p.post(ctx, req); err != nil {
		p.logger.Warn("failed to publish decision", "error", err, "command", command)
		return
	}
	p.logger.Debug("published decision", "command", command, "room", p.room)
}

func (p *Publisher) post(ctx context.Context, req dto.DecisionRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/navigation/decision", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("decision endpoint returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

func describeCommand(command navigation.Command) string {
	switch command {
	case navigation.CommandMoveForward:
		return "Clear path ahead"
	case navigation.CommandTurnLeft:
		return "Obstacle ahead, veer left"
	case navigation.CommandTurnRight:
		return "Obstacle ahead, veer right"
	case navigation.CommandStop:
		return "Stop immediately"
	default:
		return ""
	}
}
