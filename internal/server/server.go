// Package server exposes the daemon's local HTTP API. Editor plugins and
// browser extensions report activity over it, and the same process serves
// aggregated stats back out.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-worktime-tracker/internal/core/recorder"
	"github.com/penwyp/go-worktime-tracker/internal/data/aggregator"
	"github.com/penwyp/go-worktime-tracker/internal/util"
)

type browseRequest struct {
	URL             string `json:"url"`
	DurationSeconds int64  `json:"duration"`
}

type focusRequest struct {
	Project string `json:"project"`
	File    string `json:"file"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server wires the recorder registry, browsing reporter, and aggregator
// behind a plain net/http mux. It binds to localhost; there is no auth.
type Server struct {
	registry *recorder.Registry
	browsing *recorder.BrowsingReporter
	agg      *aggregator.Aggregator
	httpSrv  *http.Server
}

func New(addr string, registry *recorder.Registry, browsing *recorder.BrowsingReporter, agg *aggregator.Aggregator) *Server {
	s := &Server{
		registry: registry,
		browsing: browsing,
		agg:      agg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/browse", s.handleBrowse)
	mux.HandleFunc("/api/input", s.handleInput)
	mux.HandleFunc("/api/focus", s.handleFocus)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/weekly", s.handleWeekly)
	mux.HandleFunc("/healthz", s.handleHealthz)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	util.LogInfof("HTTP API listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req browseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.browsing.ReportBrowsing(req.URL, req.DurationSeconds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	s.registry.ReportInputEvent()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req focusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.registry.ReportEditorFocus(req.Project, req.File); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStats serves the date -> project -> stat rollup for [from, to].
// Both bounds are dates; to is inclusive.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	tp := util.GetTimeProvider()

	from, err := parseDateParam(r, "from", tp.StartOfDay(tp.Now()))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDateParam(r, "to", from)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return
	}
	includeHidden := r.URL.Query().Get("hidden") == "1"

	days, err := s.agg.Rollup(from, to.AddDate(0, 0, 1), includeHidden)
	if err != nil {
		util.LogErrorf("Stats rollup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "rollup failed")
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// handleWeekly serves per-project totals for the ISO week containing the
// date parameter, defaulting to the current week.
func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	tp := util.GetTimeProvider()

	weekOf, err := parseDateParam(r, "date", tp.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeHidden := r.URL.Query().Get("hidden") == "1"

	totals, err := s.agg.WeeklyTotal(weekOf, includeHidden)
	if err != nil {
		util.LogErrorf("Weekly rollup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "rollup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"week":     tp.ISOWeekOf(weekOf),
		"projects": totals,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"tracked": s.registry.Tracked(),
	})
}

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := util.GetTimeProvider().ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", name, raw)
	}
	return t, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		util.LogErrorf("Failed to encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
