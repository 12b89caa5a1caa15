// Package notify pushes game events to an agent's webhook. Delivery is best
// effort: it runs off the game loop, retries a bounded number of times and
// never reports failure back to the caller.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"agentbridge/internal/app/agent"
	"agentbridge/internal/app/ports"
	"agentbridge/internal/domain/game"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	HeaderAgentKey   = "X-Agent-Key"
	HeaderEvent      = "X-Agent-Event"
	HeaderDeliveryID = "X-Delivery-ID"
	contentTypeJSON  = "application/json"
)

type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Sender performs one HTTP POST attempt and reports the response status.
type Sender interface {
	Post(ctx context.Context, req Request, timeout time.Duration) (int, error)
}

type Policy struct {
	MaxAttempts int
	RetryDelay  time.Duration
	Timeout     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, RetryDelay: time.Second, Timeout: 5 * time.Second}
}

// delay is the pause after a failed attempt; it grows linearly.
func (p Policy) delay(attempt int) time.Duration {
	return p.RetryDelay * time.Duration(attempt)
}

type Envelope struct {
	Event     EventKind      `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp int64          `json:"timestamp"`
}

type DispatcherConfig struct {
	Sender  Sender
	Policy  Policy
	Clock   quartz.Clock
	Logger  *log.Logger
	Metrics ports.DeliveryMetrics
}

type Dispatcher struct {
	sender   Sender
	policy   Policy
	clock    quartz.Clock
	logger   *log.Logger
	metrics  ports.DeliveryMetrics
	inflight errgroup.Group
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	policy := cfg.Policy
	if policy.MaxAttempts <= 0 {
		policy = DefaultPolicy()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{
		sender:  cfg.Sender,
		policy:  policy,
		clock:   clock,
		logger:  logger.WithPrefix("notify"),
		metrics: cfg.Metrics,
	}
}

// Notify schedules delivery of kind to the game's agent webhook and returns
// immediately. It reports whether anything was scheduled; games without an
// agent webhook are a no-op.
func (d *Dispatcher) Notify(st game.State, kind EventKind, payload map[string]any) bool {
	cfg, ok := agent.ConfigFor(st)
	if !ok || d.sender == nil {
		return false
	}
	env := d.envelope(cfg.GameID, kind, payload)
	body, err := json.Marshal(env)
	if err != nil {
		d.logger.Error("encode webhook event", "game", cfg.GameID, "event", kind, "err", err)
		return false
	}
	req := Request{
		URL: cfg.WebhookURL,
		Headers: map[string]string{
			"Content-Type":   contentTypeJSON,
			HeaderAgentKey:   cfg.APIKey,
			HeaderEvent:      string(kind),
			HeaderDeliveryID: uuid.NewString(),
		},
		Body: body,
	}
	logger := d.logger.With("game", cfg.GameID, "event", kind)
	d.inflight.Go(func() error {
		_, _ = d.deliver(context.Background(), logger, kind, req)
		return nil
	})
	return true
}

// Wait blocks until every scheduled delivery has finished.
func (d *Dispatcher) Wait() {
	_ = d.inflight.Wait()
}

func (d *Dispatcher) envelope(gameID string, kind EventKind, payload map[string]any) Envelope {
	merged := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		merged[k] = v
	}
	merged["gameid"] = gameID
	return Envelope{
		Event:     kind,
		Payload:   merged,
		Timestamp: d.clock.Now().UnixMilli(),
	}
}

// deliver runs the attempt loop for one event and returns how many attempts
// were made. The first success or the last failure ends the event.
func (d *Dispatcher) deliver(ctx context.Context, logger *log.Logger, kind EventKind, req Request) (int, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= d.policy.MaxAttempts; attempt++ {
		attempts = attempt
		lastErr = d.attempt(ctx, req)
		if lastErr == nil {
			logger.Debug("webhook delivered", "attempt", attempt)
			if d.metrics != nil {
				d.metrics.RecordDelivered(string(kind), attempt)
			}
			return attempt, nil
		}
		logger.Warn("webhook attempt failed", "attempt", attempt, "max", d.policy.MaxAttempts, "err", lastErr)
		if attempt == d.policy.MaxAttempts {
			break
		}
		if err := d.sleep(ctx, d.policy.delay(attempt)); err != nil {
			lastErr = err
			break
		}
	}
	logger.Error("webhook delivery abandoned", "attempts", attempts, "err", lastErr)
	if d.metrics != nil {
		d.metrics.RecordExhausted(string(kind), attempts)
	}
	return attempts, lastErr
}

func (d *Dispatcher) attempt(ctx context.Context, req Request) error {
	status, err := d.sender.Post(ctx, req, d.policy.Timeout)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("webhook responded with status %d", status)
	}
	return nil
}

func (d *Dispatcher) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := d.clock.NewTimer(delay, "notify", "retry")
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
