package phorest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skinsociete/platform/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Client is a lightweight REST client for the Phorest third-party API.
type Client struct {
	baseURL    string
	businessID string
	branchID   string
	username   string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// Config holds Phorest connection settings.
type Config struct {
	BaseURL    string
	BusinessID string
	BranchID   string
	Username   string
	APIKey     string
}

// NewClient creates a new Phorest API client.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		businessID: cfg.BusinessID,
		branchID:   cfg.BranchID,
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// BranchID returns the configured branch.
func (c *Client) BranchID() string {
	return c.branchID
}

// GetBranch returns the clinic location record.
func (c *Client) GetBranch(ctx context.Context) (*Branch, error) {
	var out struct {
		Branch Branch `json:"branch"`
	}
	path := fmt.Sprintf("/business/%s/branch/%s", c.businessID, c.branchID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Branch, nil
}

// GetServices returns the treatment menu, normalized to the canonical shape.
func (c *Client) GetServices(ctx context.Context) ([]Service, error) {
	var out struct {
		Services []serviceEnvelope `json:"services"`
	}
	path := fmt.Sprintf("/business/%s/branch/%s/service", c.businessID, c.branchID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	services := make([]Service, 0, len(out.Services))
	for _, env := range out.Services {
		services = append(services, env.Normalize())
	}
	return services, nil
}

// GetStaff returns the staff roster for the branch.
func (c *Client) GetStaff(ctx context.Context) ([]Staff, error) {
	var out struct {
		Staff []Staff `json:"staff"`
	}
	path := fmt.Sprintf("/business/%s/branch/%s/staff", c.businessID, c.branchID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Staff, nil
}

// GetAvailability asks Phorest for open slots on the requested date.
func (c *Client) GetAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error) {
	payload := map[string]interface{}{
		"date":            req.Date.Format("2006-01-02"),
		"serviceId":       req.ServiceID,
		"branchId":        req.BranchID,
		"durationMinutes": req.DurationMinutes,
	}
	var out AvailabilityResponse
	path := fmt.Sprintf("/business/%s/branch/%s/availability", c.businessID, c.branchID)
	if err := c.do(ctx, http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAppointment creates the appointment. Failure messages from Phorest are
// preserved verbatim so callers can classify them.
func (c *Client) CreateAppointment(ctx context.Context, req AppointmentRequest) (*AppointmentConfirmation, error) {
	var out struct {
		Appointment AppointmentConfirmation `json:"appointment"`
	}
	path := fmt.Sprintf("/business/%s/branch/%s/booking", c.businessID, c.branchID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out.Appointment, nil
}

// UpsertClient creates or updates a clinic client record.
func (c *Client) UpsertClient(ctx context.Context, client ClientRecord) (*ClientRecord, error) {
	method := http.MethodPost
	path := fmt.Sprintf("/business/%s/client", c.businessID)
	if client.ClientID != "" {
		method = http.MethodPut
		path = fmt.Sprintf("/business/%s/client/%s", c.businessID, client.ClientID)
	}
	if client.CreatingBranchID == "" {
		client.CreatingBranchID = c.branchID
	}
	var out struct {
		Client ClientRecord `json:"client"`
	}
	if err := c.do(ctx, method, path, client, &out); err != nil {
		return nil, err
	}
	return &out.Client, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	if strings.TrimSpace(c.apiKey) == "" {
		return fmt.Errorf("phorest: missing api key")
	}
	if strings.TrimSpace(c.businessID) == "" {
		return fmt.Errorf("phorest: missing business id")
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("phorest: marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("phorest: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.username, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("phorest: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("phorest: read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := upstreamMessage(respBody)
		return fmt.Errorf("phorest: status %d: %s", resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("phorest: unmarshal response: %w", err)
		}
	}
	return nil
}

// upstreamMessage extracts the error detail Phorest puts in its failure
// envelopes, falling back to the raw (truncated) body.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Code    string `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Message != "" && envelope.Code != "":
			return envelope.Code + ": " + envelope.Message
		case envelope.Message != "":
			return envelope.Message
		case envelope.Detail != "":
			return envelope.Detail
		case envelope.Code != "":
			return envelope.Code
		}
	}
	msg := string(body)
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return msg
}
