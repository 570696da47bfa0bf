// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels shared by recorders.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory for tests.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(outcome string) // outcome: "success" or "failure"
	IncSessionRejected(reason string)

	// Event management metrics
	IncEventCreated()
	IncEventUpdated()
	IncEventDeleted()
	IncEventJoin(outcome string) // outcome: "joined" or "already_joined"
	ObserveEventQueryDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
