package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInMemoryRecorder_Snapshot(t *testing.T) {
	t.Parallel()

	rec := NewInMemory()
	rec.IncUserRegistered()
	rec.IncLogin(OutcomeSuccess)
	rec.IncLogin(OutcomeFailure)
	rec.IncLogin(OutcomeFailure)
	rec.IncSessionRejected("expired_token")
	rec.IncEventCreated()
	rec.IncEventUpdated()
	rec.IncEventDeleted()
	rec.IncEventJoin("joined")
	rec.IncEventJoin("joined")
	rec.IncEventJoin("already_joined")
	rec.ObserveEventQueryDuration(2 * time.Millisecond)

	snap := rec.Snapshot()
	if snap.UsersRegistered != 1 {
		t.Fatalf("expected 1 registration, got %d", snap.UsersRegistered)
	}
	if snap.LoginsSucceeded != 1 || snap.LoginsFailed != 2 {
		t.Fatalf("unexpected login counts: %+v", snap)
	}
	if snap.SessionsRejected["expired_token"] != 1 {
		t.Fatalf("expected 1 expired rejection, got %v", snap.SessionsRejected)
	}
	if snap.EventsCreated != 1 || snap.EventsUpdated != 1 || snap.EventsDeleted != 1 {
		t.Fatalf("unexpected mutation counts: %+v", snap)
	}
	if snap.EventJoins["joined"] != 2 || snap.EventJoins["already_joined"] != 1 {
		t.Fatalf("unexpected join counts: %v", snap.EventJoins)
	}
	if snap.EventQueryDurationCount != 1 || snap.EventQueryDurationTotalNs != int64(2*time.Millisecond) {
		t.Fatalf("unexpected query duration: %+v", snap)
	}

	// Snapshot maps are copies.
	snap.EventJoins["joined"] = 100
	if rec.Snapshot().EventJoins["joined"] != 2 {
		t.Fatal("snapshot should not alias recorder state")
	}
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	t.Parallel()

	rec := NewPrometheus()
	rec.IncEventCreated()
	rec.IncEventCreated()
	rec.IncEventJoin("joined")
	rec.IncLogin(OutcomeFailure)

	if got := testutil.ToFloat64(rec.eventMutations.WithLabelValues("create")); got != 2 {
		t.Fatalf("expected 2 creates, got %v", got)
	}
	if got := testutil.ToFloat64(rec.eventJoins.WithLabelValues("joined")); got != 1 {
		t.Fatalf("expected 1 join, got %v", got)
	}
	if got := testutil.ToFloat64(rec.logins.WithLabelValues(OutcomeFailure)); got != 1 {
		t.Fatalf("expected 1 failed login, got %v", got)
	}
}

func TestPrometheusRecorder_HTTPMiddlewareUsesRoutePattern(t *testing.T) {
	t.Parallel()

	rec := NewPrometheus()
	r := chi.NewRouter()
	r.Use(rec.HTTPMiddleware)
	r.Get("/event/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", rec.Handler())

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/event/events/"+id, nil))
	}

	if got := testutil.ToFloat64(rec.httpRequests.WithLabelValues(http.MethodGet, "/event/events/{id}", "404")); got != 3 {
		t.Fatalf("expected 3 requests on route pattern, got %v", got)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics endpoint, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "gatherly_http_requests_total") {
		t.Fatal("expected exposition to include gatherly_http_requests_total")
	}
}
