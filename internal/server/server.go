// Package server exposes the dashboard and journey views over HTTP. Each
// session (X-Session-ID) owns its own filter stores; the dataset is shared
// read-only.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pilgrim-insights-go/internal/dashboard"
	"pilgrim-insights-go/internal/dataset"
	"pilgrim-insights-go/internal/export"
	"pilgrim-insights-go/internal/filters"
	"pilgrim-insights-go/internal/journey"
	"pilgrim-insights-go/internal/logger"
	"pilgrim-insights-go/internal/types"
)

// SessionHeader identifies the caller's session.
const SessionHeader = "X-Session-ID"

// Options tune how views are computed.
type Options struct {
	StageMode    journey.Mode
	BookingMatch filters.BookingMatch
	Layout       journey.Layout

	// MaxSessions and SessionTTL bound the session registry; zero picks the defaults.
	MaxSessions int
	SessionTTL  time.Duration
}

// Server serves views over one immutable dataset.
type Server struct {
	records  []types.Pilgrim
	summary  dataset.Summary
	opts     Options
	sessions *Sessions
	log      *logger.Logger
	now      func() time.Time
}

func New(records []types.Pilgrim, opts Options, log *logger.Logger) *Server {
	if opts.Layout == (journey.Layout{}) {
		opts.Layout = journey.DefaultLayout()
	}
	return &Server{
		records:  records,
		summary:  dataset.Summarize(records),
		opts:     opts,
		sessions: NewSessions(opts.MaxSessions, opts.SessionTTL),
		log:      log.Component("server"),
		now:      time.Now,
	}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/journey", s.handleJourney)
	mux.HandleFunc("POST /api/{context}/filters/{op}", s.handleFilter)
	mux.HandleFunc("GET /api/{context}/export", s.handleExport)
	return mux
}

// JourneyView is the journey payload: per-stage series plus the laid-out graph.
type JourneyView struct {
	Total      int                   `json:"totalPilgrims"`
	Population int                   `json:"population"`
	Stages     []journey.StageSeries `json:"stages"`
	Graph      journey.Graph         `json:"graph"`
	Filters    filters.State         `json:"filters"`
	Active     []filters.Pair        `json:"activeFilters"`
}

type filterRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// session returns the caller's session, creating one if needed. Only filter
// mutations call it.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	sess := s.sessions.Get(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID)
	return sess
}

// snapshot returns the caller's filter state for context without creating a
// session; callers without a live session see the empty baseline.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, context string) (filters.State, bool) {
	schema, ok := filters.SchemaByName(context)
	if !ok {
		return filters.State{}, false
	}
	sess, ok := s.sessions.Lookup(r.Header.Get(SessionHeader))
	if !ok {
		return filters.Empty(schema), true
	}
	w.Header().Set(SessionHeader, sess.ID)
	store, _ := sess.Store(context)
	return store.Snapshot(), true
}

func (s *Server) bookingOpts() []filters.Option {
	return []filters.Option{filters.WithBookingMatch(s.opts.BookingMatch)}
}

func (s *Server) dashboardView(st filters.State) dashboard.View {
	return dashboard.Build(s.records, st, s.bookingOpts()...)
}

func (s *Server) journeyView(st filters.State) JourneyView {
	res := journey.Resolve(s.records, st, s.opts.StageMode, s.bookingOpts()...)
	return JourneyView{
		Total:      res.Total,
		Population: res.Population,
		Stages:     res.Stages,
		Graph:      journey.Build(res, s.opts.Layout),
		Filters:    st,
		Active:     st.Active(),
	}
}

func (s *Server) view(context string, st filters.State) any {
	if context == filters.Journey.Name() {
		return s.journeyView(st)
	}
	return s.dashboardView(st)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summary)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot(w, r, filters.Flat.Name())
	writeJSON(w, http.StatusOK, s.dashboardView(st))
}

func (s *Server) handleJourney(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot(w, r, filters.Journey.Name())
	writeJSON(w, http.StatusOK, s.journeyView(st))
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "filter")
	context := r.PathValue("context")
	op := r.PathValue("op")

	if _, ok := filters.SchemaByName(context); !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown context %q", context)})
		return
	}
	if op != "clear" && op != "sidebar" && op != "toggle" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown filter operation %q", op)})
		return
	}
	var req filterRequest
	if op != "clear" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
	}

	sess := s.session(w, r)
	store, _ := sess.Store(context)

	var (
		st  filters.State
		err error
	)
	switch op {
	case "clear":
		st = store.ClearAll()
	case "sidebar":
		st, err = store.SetSidebarFilter(filters.Key(req.Key), req.Value)
	case "toggle":
		if context == filters.Flat.Name() {
			err = dashboard.CheckToggle(filters.Key(req.Key), req.Value)
		}
		if err == nil {
			st, err = store.ToggleCrossFilter(filters.Key(req.Key), req.Value)
		}
	}
	if err != nil {
		if isBadFilter(err) {
			reqLog.WithError(err).Warn("rejected filter mutation")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		reqLog.WithError(err).Error("filter mutation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	reqLog.WithField("context", context).WithField("op", op).WithField("active", len(st.Active())).Info("filters updated")
	writeJSON(w, http.StatusOK, s.view(context, st))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "export")
	context := r.PathValue("context")

	st, ok := s.snapshot(w, r, context)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown context %q", context)})
		return
	}
	subset := filters.Apply(s.records, st, s.bookingOpts()...)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(s.now())))
	if err := export.WriteXLSX(w, subset); err != nil {
		reqLog.WithError(err).Error("export failed")
		return
	}
	reqLog.WithField("rows", len(subset)).Info("export written")
}

func isBadFilter(err error) bool {
	return errors.Is(err, filters.ErrUnknownKey) ||
		errors.Is(err, filters.ErrNotCrossFilter) ||
		errors.Is(err, filters.ErrNotSidebarFilter) ||
		errors.Is(err, dashboard.ErrFoldedValue)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
