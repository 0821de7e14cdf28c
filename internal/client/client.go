package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/simonvc/minipnl/internal/ledger"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API at baseURL. The timeout leaves room for
// insight generation.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// NotFound reports whether err is a 404 from the server, which the API uses
// for "no transactions loaded" and unknown rows.
func NotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type UploadResult struct {
	Batch     *ledger.Batch `json:"batch"`
	Encoding  string        `json:"encoding"`
	Separator string        `json:"separator"`
	Rows      int           `json:"rows"`
	Skipped   int           `json:"skipped"`
}

// Upload sends a CSV export as the raw request body, replacing the loaded
// transactions.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	params := url.Values{}
	params.Set("filename", filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/upload?"+params.Encode(), r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	var result UploadResult
	if err := c.doRequest(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CurrentBatch(ctx context.Context) (*ledger.Batch, error) {
	var result ledger.Batch
	if err := c.get(ctx, "/api/v1/batch", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type TxnQuery struct {
	Period     ledger.Period
	CostCenter string
	Limit      int
	Offset     int
}

func (c *Client) ListTransactions(ctx context.Context, q TxnQuery) ([]ledger.Transaction, error) {
	params := url.Values{}
	if q.Period != "" {
		params.Set("period", string(q.Period))
	}
	if q.CostCenter != "" {
		params.Set("cost_center", q.CostCenter)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	var result []ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Mappings(ctx context.Context) ([]ledger.MappingRule, error) {
	var result []ledger.MappingRule
	if err := c.get(ctx, "/api/v1/mappings", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ReplaceMappings(ctx context.Context, rules []ledger.MappingRule) ([]ledger.MappingRule, error) {
	var result []ledger.MappingRule
	if err := c.send(ctx, http.MethodPut, "/api/v1/mappings", rules, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ResetMappings(ctx context.Context) ([]ledger.MappingRule, error) {
	var result []ledger.MappingRule
	if err := c.send(ctx, http.MethodPost, "/api/v1/mappings/reset", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func windowParams(start, end string) url.Values {
	params := url.Values{}
	if start != "" {
		params.Set("start_date", start)
	}
	if end != "" {
		params.Set("end_date", end)
	}
	return params
}

// PnL fetches the statement for an inclusive YYYY-MM-DD window. Empty bounds
// are open.
func (c *Client) PnL(ctx context.Context, start, end string) (*ledger.Report, error) {
	var result ledger.Report
	if err := c.get(ctx, "/api/v1/pnl?"+windowParams(start, end).Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Dashboard(ctx context.Context, start, end string) (*ledger.Dashboard, error) {
	var result ledger.Dashboard
	if err := c.get(ctx, "/api/v1/dashboard?"+windowParams(start, end).Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) drillDown(ctx context.Context, params url.Values, period ledger.Period) (*ledger.DrillDown, error) {
	if period != "" {
		params.Set("period", string(period))
	}
	var result ledger.DrillDown
	if err := c.get(ctx, "/api/v1/drilldown?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DrillDownRow(ctx context.Context, row ledger.RowNumber, period ledger.Period) (*ledger.DrillDown, error) {
	return c.drillDown(ctx, url.Values{"row": {strconv.Itoa(int(row))}}, period)
}

func (c *Client) DrillDownLine(ctx context.Context, line ledger.Line, period ledger.Period) (*ledger.DrillDown, error) {
	return c.drillDown(ctx, url.Values{"line": {strconv.Itoa(int(line))}}, period)
}

func (c *Client) Unmatched(ctx context.Context, period ledger.Period) (*ledger.DrillDown, error) {
	return c.drillDown(ctx, url.Values{"unmatched": {"true"}}, period)
}

func (c *Client) Breakdown(ctx context.Context, metric ledger.Metric, period ledger.Period) (*ledger.Breakdown, error) {
	path := "/api/v1/breakdown/" + url.PathEscape(string(metric))
	if period != "" {
		path += "?period=" + url.QueryEscape(string(period))
	}
	var result ledger.Breakdown
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportXLSX streams the workbook for the window into w.
func (c *Client) ExportXLSX(ctx context.Context, start, end string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/export/pnl.xlsx?"+windowParams(start, end).Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, apiErrorFrom(resp.StatusCode, bodyBytes)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read workbook: %w", err)
	}
	return n, nil
}

type InsightsRequest struct {
	APIKey    string `json:"api_key,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type InsightsResult struct {
	AnchorPeriod ledger.Period `json:"anchor_period"`
	Insights     string        `json:"insights"`
}

func (c *Client) Insights(ctx context.Context, in InsightsRequest) (*InsightsResult, error) {
	var result InsightsResult
	if err := c.send(ctx, http.MethodPost, "/api/v1/insights", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Lines(ctx context.Context) ([]ledger.RowDef, error) {
	var result []ledger.RowDef
	if err := c.get(ctx, "/api/v1/lines", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Overrides(ctx context.Context) ([]ledger.Override, error) {
	var result []ledger.Override
	if err := c.get(ctx, "/api/v1/overrides", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func overridePath(row ledger.RowNumber, period ledger.Period) string {
	return fmt.Sprintf("/api/v1/overrides/%d/%s", row, url.PathEscape(string(period)))
}

func (c *Client) SetOverride(ctx context.Context, row ledger.RowNumber, period ledger.Period, value float64) (*ledger.Override, error) {
	var result ledger.Override
	if err := c.send(ctx, http.MethodPut, overridePath(row, period), map[string]float64{"value": value}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ClearOverride(ctx context.Context, row ledger.RowNumber, period ledger.Period) error {
	return c.del(ctx, overridePath(row, period), nil)
}

// ClearOverrides drops every override and returns how many were removed.
func (c *Client) ClearOverrides(ctx context.Context) (int64, error) {
	var result struct {
		Cleared int64 `json:"cleared"`
	}
	if err := c.del(ctx, "/api/v1/overrides", &result); err != nil {
		return 0, err
	}
	return result.Cleared, nil
}

func (c *Client) ReplaceOverrides(ctx context.Context, list []ledger.Override) ([]ledger.Override, error) {
	var result []ledger.Override
	if err := c.send(ctx, http.MethodPut, "/api/v1/overrides", list, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks if the server is reachable and its store answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/api/v1/health", nil)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) del(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

// send issues a request with body encoded as JSON. A nil body sends none.
func (c *Client) send(ctx context.Context, method, path string, body any, result any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func apiErrorFrom(status int, body []byte) error {
	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return &APIError{StatusCode: status, Message: e.Error}
	}
	return &APIError{StatusCode: status, Message: string(body)}
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiErrorFrom(resp.StatusCode, bodyBytes)
	}

	if result != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
