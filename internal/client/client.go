// ABOUTME: HTTP client for the Mnemo capacity broker API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/djmistretta15/Nnemo/models"
)

// Client is the API client for the Mnemo broker backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HealthResponse represents the /api/v1/health endpoint response
type HealthResponse struct {
	Status          string `json:"status"`
	Storage         string `json:"storage"`
	NodeCount       int    `json:"node_count"`
	ActiveNodeCount int    `json:"active_node_count"`
	StorageError    string `json:"storage_error,omitempty"`
}

// BrowsePage is one page of marketplace offers
type BrowsePage struct {
	Nodes []*models.Node `json:"nodes"`
	Total int            `json:"total"`
}

// BrowseOptions narrows a marketplace listing request
type BrowseOptions struct {
	NodeType  string
	Region    string
	MinRAMGB  int
	MinVRAMGB int
	Limit     int
}

// handleRequestError converts transport errors into CLI-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse decodes an API error body into an error value
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}

// get performs a GET request and decodes the response into out
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// post performs a POST request with a JSON body and decodes the response
func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.get(ctx, "/api/v1/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Match calls POST /api/v1/marketplace/match
func (c *Client) Match(ctx context.Context, req *models.ResourceRequest) (*models.MatchResponse, error) {
	var matches models.MatchResponse
	if err := c.post(ctx, "/api/v1/marketplace/match", req, &matches); err != nil {
		return nil, err
	}
	return &matches, nil
}

// Browse calls GET /api/v1/marketplace with the given filters
func (c *Client) Browse(ctx context.Context, opts BrowseOptions) (*BrowsePage, error) {
	q := url.Values{}
	if opts.NodeType != "" {
		q.Set("node_type", opts.NodeType)
	}
	if opts.Region != "" {
		q.Set("region", opts.Region)
	}
	if opts.MinRAMGB > 0 {
		q.Set("min_ram_gb", strconv.Itoa(opts.MinRAMGB))
	}
	if opts.MinVRAMGB > 0 {
		q.Set("min_vram_gb", strconv.Itoa(opts.MinVRAMGB))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/api/v1/marketplace"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page BrowsePage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetNode calls GET /api/v1/nodes/{id}
func (c *Client) GetNode(ctx context.Context, id string) (*models.Node, error) {
	var node models.Node
	if err := c.get(ctx, "/api/v1/nodes/"+url.PathEscape(id), &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// RegisterNode calls POST /api/v1/nodes
func (c *Client) RegisterNode(ctx context.Context, reg *models.NodeRegistration) (*models.Node, error) {
	var node models.Node
	if err := c.post(ctx, "/api/v1/nodes", reg, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// CreateContract calls POST /api/v1/contracts
func (c *Client) CreateContract(ctx context.Context, params *models.ContractCreate) (*models.Contract, error) {
	var contract models.Contract
	if err := c.post(ctx, "/api/v1/contracts", params, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetContract calls GET /api/v1/contracts/{id}
func (c *Client) GetContract(ctx context.Context, id string) (*models.Contract, error) {
	var contract models.Contract
	if err := c.get(ctx, "/api/v1/contracts/"+url.PathEscape(id), &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListContracts calls GET /api/v1/contracts with optional status filter
func (c *Client) ListContracts(ctx context.Context, status string) ([]*models.Contract, error) {
	path := "/api/v1/contracts"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var contracts []*models.Contract
	if err := c.get(ctx, path, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// ExtendContract calls POST /api/v1/contracts/{id}/extend
func (c *Client) ExtendContract(ctx context.Context, id string, additionalSec int) (*models.Contract, error) {
	body := models.ContractExtend{AdditionalDurationSec: additionalSec}
	var contract models.Contract
	if err := c.post(ctx, "/api/v1/contracts/"+url.PathEscape(id)+"/extend", body, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// SettleContract calls POST /api/v1/contracts/{id}/settle
func (c *Client) SettleContract(ctx context.Context, id string, egressGB float64) (*models.Contract, error) {
	body := models.ContractSettle{ActualEgressGB: decimal.NewFromFloat(egressGB)}
	var contract models.Contract
	if err := c.post(ctx, "/api/v1/contracts/"+url.PathEscape(id)+"/settle", body, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}
