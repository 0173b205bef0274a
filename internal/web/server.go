// Package web provides the HTTP status server and the textual
// start/stop command surface for the cycler daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/sweeney/thermal-cycler/internal/status"
	"github.com/sweeney/thermal-cycler/internal/trigger"
)

// Server serves the status page and run commands over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	start      *trigger.Latch
	stop       *trigger.Latch
}

// New creates a Server that reads state from the given tracker and
// arms the given latches on start/stop commands. The control loop
// decides whether an armed start is honored; commands arriving while a
// run is active are ignored there, not here.
func New(addr string, tracker *status.Tracker, start, stop *trigger.Latch) *Server {
	s := &Server{tracker: tracker, start: start, stop: stop}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/run/start", s.handleStart)
	mux.HandleFunc("/run/stop", s.handleStop)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut
// down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.tracker.Snapshot()
	if snap.Running {
		http.Error(w, "run already active\n", http.StatusConflict)
		return
	}
	s.start.Request()
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("start requested\n"))
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.stop.Request()
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("stop requested\n"))
}
