// Package planview serves recorded plans over HTTP: JSON endpoints for
// submitting, listing, and inspecting planning cycle results, plus
// interactive chart pages rendered with go-echarts.
package planview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/lanecruise/internal/httputil"
	"github.com/banshee-data/lanecruise/internal/plandb"
	"github.com/banshee-data/lanecruise/internal/planner"
)

// Server exposes a plans database over HTTP.
type Server struct {
	address string
	db      *plandb.PlanDB
	server  *http.Server
}

// Config contains configuration options for the plan server.
type Config struct {
	Address string
	DB      *plandb.PlanDB
}

// NewServer creates a plan server with the provided configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		address: cfg.Address,
		db:      cfg.DB,
	}
	s.server = &http.Server{
		Addr:    s.address,
		Handler: s.setupRoutes(),
	}
	return s
}

// PlanSubmission is the POST /api/plans request body: one planning cycle
// result plus the scenario name it ran against.
type PlanSubmission struct {
	Scenario string        `json:"scenario"`
	Plan     *planner.Plan `json:"plan"`
}

// PlanDetail is the GET /api/plans/{id} response: the stored row plus its
// decoded sample sequences.
type PlanDetail struct {
	plandb.PlanRecord
	Sequences *plandb.PlanSequences `json:"sequences"`
}

// setupRoutes configures the HTTP routes and handlers.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/plans", s.handlePlans)
	mux.HandleFunc("/api/plans/", s.handlePlanByID)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/charts/plan", s.handlePlanChart)
	mux.HandleFunc("/charts/summary", s.handleSummaryChart)

	return mux
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		log.Printf("Starting plan server on %s", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start plan server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down plan server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Plan server shutdown error: %v", err)
		if err := s.server.Close(); err != nil {
			log.Printf("Plan server force close error: %v", err)
		}
	}

	log.Println("Plan server stopped")
	return nil
}

// Close shuts down the server immediately without waiting for in-flight
// requests.
func (s *Server) Close() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "planview", "timestamp": "%s"}`,
		time.Now().UTC().Format(time.RFC3339))
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPlans(w, r)
	case http.MethodPost:
		s.submitPlan(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	scenario := r.URL.Query().Get("scenario")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 1000 {
			httputil.BadRequest(w, "limit must be between 1 and 1000")
			return
		}
		limit = v
	}

	plans, err := s.db.ListPlans(scenario, limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list plans: %v", err))
		return
	}
	httputil.WriteJSONOK(w, plans)
}

func (s *Server) submitPlan(w http.ResponseWriter, r *http.Request) {
	var sub PlanSubmission
	if err := httputil.DecodeJSON(r, &sub); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("failed to decode submission: %v", err))
		return
	}
	if sub.Plan == nil || sub.Plan.ID == "" {
		httputil.BadRequest(w, "submission must carry a plan with an id")
		return
	}

	rec, err := plandb.RecordFromPlan(sub.Plan, sub.Scenario)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("failed to flatten plan: %v", err))
		return
	}
	if err := s.db.InsertPlan(rec); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to insert plan: %v", err))
		return
	}

	log.Printf("Recorded plan %s (scenario %q)", rec.PlanID, rec.Scenario)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"plan_id": rec.PlanID})
}

// handlePlanByID dispatches /api/plans/{id} by trimming the route prefix.
func (s *Server) handlePlanByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/plans/")
	if id == "" || strings.Contains(id, "/") {
		httputil.NotFound(w, "unknown plan path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getPlan(w, id)
	case http.MethodDelete:
		s.deletePlan(w, id)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) getPlan(w http.ResponseWriter, id string) {
	rec, err := s.db.GetPlan(id)
	if errors.Is(err, plandb.ErrPlanNotFound) {
		httputil.NotFound(w, fmt.Sprintf("no plan %q", id))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to get plan: %v", err))
		return
	}

	seqs, err := rec.Sequences()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to decode sequences: %v", err))
		return
	}

	httputil.WriteJSONOK(w, PlanDetail{PlanRecord: *rec, Sequences: seqs})
}

func (s *Server) deletePlan(w http.ResponseWriter, id string) {
	err := s.db.DeletePlan(id)
	if errors.Is(err, plandb.ErrPlanNotFound) {
		httputil.NotFound(w, fmt.Sprintf("no plan %q", id))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to delete plan: %v", err))
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "deleted", "plan_id": id})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	summary, err := s.db.SummarizePlans()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to summarize plans: %v", err))
		return
	}
	httputil.WriteJSONOK(w, summary)
}
