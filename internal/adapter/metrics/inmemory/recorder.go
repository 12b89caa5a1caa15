package inmemory

import (
	"sync"
)

type Snapshot struct {
	CommandTotal     uint64            `json:"command_total"`
	CommandSuccess   uint64            `json:"command_success"`
	CommandFailure   uint64            `json:"command_failure"`
	FailureByCommand map[string]uint64 `json:"failure_by_command"`
	WebhookDelivered uint64            `json:"webhook_delivered"`
	WebhookExhausted uint64            `json:"webhook_exhausted"`
	WebhookRetries   uint64            `json:"webhook_retries"`
	ExhaustedByEvent map[string]uint64 `json:"exhausted_by_event"`
	DeliveredByEvent map[string]uint64 `json:"delivered_by_event"`
}

// Recorder counts command outcomes and webhook deliveries for /ops/kpi.
type Recorder struct {
	mu               sync.Mutex
	success          uint64
	failure          uint64
	failureByCommand map[string]uint64
	delivered        uint64
	exhausted        uint64
	retries          uint64
	deliveredByEvent map[string]uint64
	exhaustedByEvent map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		failureByCommand: map[string]uint64{},
		deliveredByEvent: map[string]uint64{},
		exhaustedByEvent: map[string]uint64{},
	}
}

func (r *Recorder) RecordCommandSuccess(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
}

func (r *Recorder) RecordCommandFailure(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	r.failureByCommand[command]++
}

func (r *Recorder) RecordDelivered(event string, attempts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered++
	r.deliveredByEvent[event]++
	if attempts > 1 {
		r.retries += uint64(attempts - 1)
	}
}

func (r *Recorder) RecordExhausted(event string, attempts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exhausted++
	r.exhaustedByEvent[event]++
	if attempts > 1 {
		r.retries += uint64(attempts - 1)
	}
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		CommandTotal:     r.success + r.failure,
		CommandSuccess:   r.success,
		CommandFailure:   r.failure,
		FailureByCommand: copyCounts(r.failureByCommand),
		WebhookDelivered: r.delivered,
		WebhookExhausted: r.exhausted,
		WebhookRetries:   r.retries,
		DeliveredByEvent: copyCounts(r.deliveredByEvent),
		ExhaustedByEvent: copyCounts(r.exhaustedByEvent),
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
