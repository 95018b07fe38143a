package planview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/lanecruise/internal/plandb"
	"github.com/banshee-data/lanecruise/internal/planner"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := plandb.New(filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("failed to open plans db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewServer(Config{Address: ":0", DB: db})
}

func testPlan(id string) *planner.Plan {
	return &planner.Plan{
		ID:         id,
		CreatedAt:  time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC),
		Samples:    []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		Yaws:       []float64{0, 0, 0},
		Curvatures: []float64{0, 0, 0},
		Speeds:     []float64{5, 5, 6},
		Elapsed:    1500 * time.Microsecond,
	}
}

func seedPlan(t *testing.T, s *Server, id, scenario string) {
	t.Helper()

	rec, err := plandb.RecordFromPlan(testPlan(id), scenario)
	if err != nil {
		t.Fatalf("failed to flatten plan: %v", err)
	}
	if err := s.db.InsertPlan(rec); err != nil {
		t.Fatalf("failed to insert plan: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %s, want application/json", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"status": "ok"`) || !strings.Contains(body, "planview") {
		t.Errorf("unexpected health body: %s", body)
	}
}

func TestListPlansEndpoint(t *testing.T) {
	server := newTestServer(t)
	seedPlan(t, server, "plan-a", "straight road")
	seedPlan(t, server, "plan-b", "gentle curve")

	req, _ := http.NewRequest("GET", "/api/plans", nil)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var plans []*plandb.PlanSummary
	if err := json.NewDecoder(rr.Body).Decode(&plans); err != nil {
		t.Fatalf("failed to decode plans: %v", err)
	}
	if len(plans) != 2 {
		t.Errorf("got %d plans, want 2", len(plans))
	}
}

func TestListPlansScenarioFilter(t *testing.T) {
	server := newTestServer(t)
	seedPlan(t, server, "plan-a", "straight road")
	seedPlan(t, server, "plan-b", "gentle curve")

	req, _ := http.NewRequest("GET", "/api/plans?scenario=gentle+curve", nil)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var plans []*plandb.PlanSummary
	if err := json.NewDecoder(rr.Body).Decode(&plans); err != nil {
		t.Fatalf("failed to decode plans: %v", err)
	}
	if len(plans) != 1 || plans[0].PlanID != "plan-b" {
		t.Errorf("unexpected filtered plans: %+v", plans)
	}
}

func TestListPlansBadLimit(t *testing.T) {
	server := newTestServer(t)

	for _, limit := range []string{"abc", "0", "-3", "5000"} {
		req, _ := http.NewRequest("GET", "/api/plans?limit="+limit, nil)
		rr := httptest.NewRecorder()
		server.setupRoutes().ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want %d", limit, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestSubmitPlanEndpoint(t *testing.T) {
	server := newTestServer(t)
	mux := server.setupRoutes()

	body, err := json.Marshal(PlanSubmission{Scenario: "merge test", Plan: testPlan("plan-post-1")})
	if err != nil {
		t.Fatalf("failed to marshal submission: %v", err)
	}

	req, _ := http.NewRequest("POST", "/api/plans", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var created map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created["plan_id"] != "plan-post-1" {
		t.Errorf("plan_id = %q, want %q", created["plan_id"], "plan-post-1")
	}

	// The stored plan is retrievable with its sequences intact.
	req, _ = http.NewRequest("GET", "/api/plans/plan-post-1", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rr.Code, http.StatusOK)
	}
	var detail PlanDetail
	if err := json.NewDecoder(rr.Body).Decode(&detail); err != nil {
		t.Fatalf("failed to decode detail: %v", err)
	}
	if detail.Scenario != "merge test" {
		t.Errorf("scenario = %q, want %q", detail.Scenario, "merge test")
	}
	if detail.Sequences == nil || len(detail.Sequences.Samples) != 3 {
		t.Errorf("unexpected sequences: %+v", detail.Sequences)
	}
}

func TestSubmitPlanRejectsBadBody(t *testing.T) {
	server := newTestServer(t)
	mux := server.setupRoutes()

	req, _ := http.NewRequest("POST", "/api/plans", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	req, _ = http.NewRequest("POST", "/api/plans", strings.NewReader(`{"scenario": "no plan"}`))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing plan: status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetPlanNotFound(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest("GET", "/api/plans/no-such-plan", nil)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDeletePlanEndpoint(t *testing.T) {
	server := newTestServer(t)
	seedPlan(t, server, "plan-del", "straight road")
	mux := server.setupRoutes()

	req, _ := http.NewRequest("DELETE", "/api/plans/plan-del", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	// Deleting again reports not found.
	req, _ = http.NewRequest("DELETE", "/api/plans/plan-del", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	server := newTestServer(t)
	seedPlan(t, server, "plan-a", "straight road")
	seedPlan(t, server, "plan-b", "straight road")
	seedPlan(t, server, "plan-c", "gentle curve")

	req, _ := http.NewRequest("GET", "/api/summary", nil)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var summary plandb.StoreSummary
	if err := json.NewDecoder(rr.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.TotalPlans != 3 {
		t.Errorf("total plans = %d, want 3", summary.TotalPlans)
	}
	if summary.ByScenario["straight road"] != 2 || summary.ByScenario["gentle curve"] != 1 {
		t.Errorf("unexpected scenario counts: %v", summary.ByScenario)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)
	seedPlan(t, server, "plan-a", "straight road")
	mux := server.setupRoutes()

	tests := []struct {
		method string
		path   string
	}{
		{"PUT", "/api/plans"},
		{"POST", "/api/plans/plan-a"},
		{"DELETE", "/health"},
		{"POST", "/api/summary"},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(tt.method, tt.path, nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rr.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestPlanChartEndpoint(t *testing.T) {
	server := newTestServer(t)
	seedPlan(t, server, "plan-chart", "gentle curve")
	mux := server.setupRoutes()

	req, _ := http.NewRequest("GET", "/charts/plan?id=plan-chart", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type = %s, want text/html", ct)
	}
	if !strings.Contains(rr.Body.String(), "echarts") {
		t.Error("chart page should reference echarts")
	}
}

func TestPlanChartRejectsMissingID(t *testing.T) {
	server := newTestServer(t)
	mux := server.setupRoutes()

	req, _ := http.NewRequest("GET", "/charts/plan", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing id: status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	req, _ = http.NewRequest("GET", "/charts/plan?id=ghost", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSummaryChartEndpoint(t *testing.T) {
	server := newTestServer(t)
	seedPlan(t, server, "plan-a", "straight road")

	req, _ := http.NewRequest("GET", "/charts/summary", nil)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "echarts") {
		t.Error("summary chart page should reference echarts")
	}
}

func TestArcLengths(t *testing.T) {
	samples := [][2]float64{{0, 0}, {3, 4}, {3, 4}, {6, 8}}
	arcs := arcLengths(samples)

	want := []float64{0, 5, 5, 10}
	for i := range want {
		if arcs[i] != want[i] {
			t.Errorf("arcs[%d] = %v, want %v", i, arcs[i], want[i])
		}
	}
}
