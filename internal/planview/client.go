package planview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/lanecruise/internal/httputil"
	"github.com/banshee-data/lanecruise/internal/plandb"
	"github.com/banshee-data/lanecruise/internal/planner"
)

// Client provides HTTP operations against a plan server.
type Client struct {
	HTTPClient httputil.HTTPClient
	BaseURL    string
}

// NewClient creates a plan server client. A nil httpClient falls back to a
// standard client with a 10 second timeout.
func NewClient(httpClient httputil.HTTPClient, baseURL string) *Client {
	if httpClient == nil {
		httpClient = httputil.NewStandardClient(&http.Client{Timeout: 10 * time.Second})
	}
	return &Client{
		HTTPClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SubmitPlan records a planning cycle result on the server and returns the
// stored plan ID.
func (c *Client) SubmitPlan(plan *planner.Plan, scenario string) (string, error) {
	data, err := json.Marshal(PlanSubmission{Scenario: scenario, Plan: plan})
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+"/api/plans", "application/json", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var created struct {
		PlanID string `json:"plan_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return created.PlanID, nil
}

// GetPlan fetches one recorded plan with its decoded sequences.
func (c *Client) GetPlan(id string) (*PlanDetail, error) {
	resp, err := c.HTTPClient.Get(fmt.Sprintf("%s/api/plans/%s", c.BaseURL, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, plandb.ErrPlanNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var detail PlanDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &detail, nil
}

// ListPlans fetches plan summaries, optionally filtered by scenario.
// A limit of zero uses the server default.
func (c *Client) ListPlans(scenario string, limit int) ([]*plandb.PlanSummary, error) {
	q := url.Values{}
	if scenario != "" {
		q.Set("scenario", scenario)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := c.BaseURL + "/api/plans"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	resp, err := c.HTTPClient.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var plans []*plandb.PlanSummary
	if err := json.NewDecoder(resp.Body).Decode(&plans); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return plans, nil
}

// Summary fetches aggregate statistics over all recorded plans.
func (c *Client) Summary() (*plandb.StoreSummary, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/summary")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var summary plandb.StoreSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &summary, nil
}

// DeletePlan removes one recorded plan from the server.
func (c *Client) DeletePlan(id string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/plans/%s", c.BaseURL, url.PathEscape(id)), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return plandb.ErrPlanNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
