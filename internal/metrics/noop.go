package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncSessionRejected is a no-op.
func (n *NoopRecorder) IncSessionRejected(reason string) {}

// IncEventCreated is a no-op.
func (n *NoopRecorder) IncEventCreated() {}

// IncEventUpdated is a no-op.
func (n *NoopRecorder) IncEventUpdated() {}

// IncEventDeleted is a no-op.
func (n *NoopRecorder) IncEventDeleted() {}

// IncEventJoin is a no-op.
func (n *NoopRecorder) IncEventJoin(outcome string) {}

// ObserveEventQueryDuration is a no-op.
func (n *NoopRecorder) ObserveEventQueryDuration(duration time.Duration) {}
