package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered           uint64
	LoginsSucceeded           uint64
	LoginsFailed              uint64
	SessionsRejected          map[string]uint64
	EventsCreated             uint64
	EventsUpdated             uint64
	EventsDeleted             uint64
	EventJoins                map[string]uint64
	EventQueryDurationCount   uint64
	EventQueryDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered           uint64
	loginsSucceeded           uint64
	loginsFailed              uint64
	eventsCreated             uint64
	eventsUpdated             uint64
	eventsDeleted             uint64
	eventQueryDurationCount   uint64
	eventQueryDurationTotalNs int64

	mu               sync.Mutex
	sessionsRejected map[string]uint64
	eventJoins       map[string]uint64
}

var (
	_ Recorder    = (*InMemoryRecorder)(nil)
	_ Snapshotter = (*InMemoryRecorder)(nil)
)

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		sessionsRejected: make(map[string]uint64),
		eventJoins:       make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	rejected := make(map[string]uint64, len(m.sessionsRejected))
	for k, v := range m.sessionsRejected {
		rejected[k] = v
	}
	joins := make(map[string]uint64, len(m.eventJoins))
	for k, v := range m.eventJoins {
		joins[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		UsersRegistered:           atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:           atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:              atomic.LoadUint64(&m.loginsFailed),
		SessionsRejected:          rejected,
		EventsCreated:             atomic.LoadUint64(&m.eventsCreated),
		EventsUpdated:             atomic.LoadUint64(&m.eventsUpdated),
		EventsDeleted:             atomic.LoadUint64(&m.eventsDeleted),
		EventJoins:                joins,
		EventQueryDurationCount:   atomic.LoadUint64(&m.eventQueryDurationCount),
		EventQueryDurationTotalNs: atomic.LoadInt64(&m.eventQueryDurationTotalNs),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	if outcome == OutcomeSuccess {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncSessionRejected increments the rejection counter for reason.
func (m *InMemoryRecorder) IncSessionRejected(reason string) {
	m.mu.Lock()
	m.sessionsRejected[reason]++
	m.mu.Unlock()
}

// IncEventCreated increments event created counter.
func (m *InMemoryRecorder) IncEventCreated() {
	atomic.AddUint64(&m.eventsCreated, 1)
}

// IncEventUpdated increments event updated counter.
func (m *InMemoryRecorder) IncEventUpdated() {
	atomic.AddUint64(&m.eventsUpdated, 1)
}

// IncEventDeleted increments event deleted counter.
func (m *InMemoryRecorder) IncEventDeleted() {
	atomic.AddUint64(&m.eventsDeleted, 1)
}

// IncEventJoin increments the join counter for outcome.
func (m *InMemoryRecorder) IncEventJoin(outcome string) {
	m.mu.Lock()
	m.eventJoins[outcome]++
	m.mu.Unlock()
}

// ObserveEventQueryDuration records event listing duration.
func (m *InMemoryRecorder) ObserveEventQueryDuration(duration time.Duration) {
	atomic.AddUint64(&m.eventQueryDurationCount, 1)
	atomic.AddInt64(&m.eventQueryDurationTotalNs, duration.Nanoseconds())
}
