package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/thermal-cycler/internal/cycle"
	"github.com/sweeney/thermal-cycler/internal/runlog"
	"github.com/sweeney/thermal-cycler/internal/status"
	"github.com/sweeney/thermal-cycler/internal/trigger"
)

type fixture struct {
	server  *Server
	tracker *status.Tracker
	start   *trigger.Latch
	stop    *trigger.Latch
}

func newFixture() *fixture {
	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:    "tcp://broker.local:1883",
		HTTPAddr:  ":8080",
		NumCycles: 30,
	})
	start := &trigger.Latch{}
	stop := &trigger.Latch{}
	return &fixture{
		server:  New(":0", tracker, start, stop),
		tracker: tracker,
		start:   start,
		stop:    stop,
	}
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	f.server.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexHTML(t *testing.T) {
	f := newFixture()
	f.tracker.Emit(runlog.Record{
		Cycle: 7,
		Phase: cycle.PhaseDenaturing,
		TempC: 94.05,
	})

	rec := f.do(http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"DENATURING", "94.05", "7 / 30"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestIndexUnknownPath(t *testing.T) {
	f := newFixture()
	if rec := f.do(http.MethodGet, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestIndexJSON(t *testing.T) {
	f := newFixture()
	f.tracker.Emit(runlog.Record{
		Cycle: 2,
		Phase: cycle.PhaseHeating,
		TempC: 80.5,
	})

	rec := f.do(http.MethodGet, "/index.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var payload status.StatusJSON
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Status.Phase != "HEATING" {
		t.Errorf("phase: got %q", payload.Status.Phase)
	}
	if payload.Status.TempC != 80.5 {
		t.Errorf("temp: got %v", payload.Status.TempC)
	}
}

func TestStartArmsLatch(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/run/start")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: got %d, want 202", rec.Code)
	}
	if !f.start.Pending() {
		t.Error("start latch not armed")
	}
}

func TestStartRejectedWhileRunning(t *testing.T) {
	f := newFixture()
	f.tracker.SetRun("run-1", true)

	rec := f.do(http.MethodPost, "/run/start")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rec.Code)
	}
	if f.start.Pending() {
		t.Error("start latch must not be armed during an active run")
	}
}

func TestStartRequiresPost(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/run/start")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rec.Code)
	}
	if f.start.Pending() {
		t.Error("GET must not arm the latch")
	}
}

func TestStopArmsLatch(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/run/stop")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: got %d, want 202", rec.Code)
	}
	if !f.stop.Pending() {
		t.Error("stop latch not armed")
	}
}

func TestStopRequiresPost(t *testing.T) {
	f := newFixture()
	if rec := f.do(http.MethodGet, "/run/stop"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}
