// Package servicenow provides a client for the ServiceNow Table API: a
// query/mutation façade over case or incident records plus the encoded
// query grammar the API expects.
package servicenow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/drewelewis/ai-prod-support-assistant/internal/config"
)

// defaultLimit is applied when a list operation is called with limit <= 0.
const defaultLimit = 100

// Client handles communication with the ServiceNow Table API. Every call
// is stateless and single-attempt: transport failures surface as typed
// errors, never as retries.
type Client struct {
	instanceURL string
	baseURL     string
	table       string
	username    string
	password    string
	token       string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a new ServiceNow API client. A bearer token takes
// precedence over basic credentials when both are configured.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	instanceURL := cfg.ServiceNowInstance
	if !strings.HasPrefix(instanceURL, "http://") && !strings.HasPrefix(instanceURL, "https://") {
		instanceURL = "https://" + instanceURL
	}
	return &Client{
		instanceURL: instanceURL,
		baseURL:     instanceURL + "/api/now",
		table:       cfg.ServiceNowTable,
		username:    cfg.ServiceNowUsername,
		password:    cfg.ServiceNowPassword,
		token:       cfg.ServiceNowAPIToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Table returns the configured table name.
func (c *Client) Table() string {
	return c.table
}

// RecordURL returns the instance navigation URL for a record.
func (c *Client) RecordURL(sysID string) string {
	return fmt.Sprintf("%s/nav_to.do?uri=%s.do?sys_id=%s", c.instanceURL, c.table, sysID)
}

func (c *Client) tableURL() string {
	return c.baseURL + "/table/" + c.table
}

// ListOptions control a paged list request.
type ListOptions struct {
	// Query is the semantic filter; EncodedQuery overrides it when set.
	Query        *Query
	EncodedQuery string
	Limit        int
	Offset       int
	// OrderBy names the sort field; prefix with ^ (see Descending) to
	// sort descending.
	OrderBy string
	// Fields restricts the returned columns when non-empty.
	Fields []string
}

// list issues a single paged list request and normalizes the response.
func (c *Client) list(ctx context.Context, op string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	params := url.Values{}
	params.Set("sysparm_limit", strconv.Itoa(limit))
	params.Set("sysparm_offset", strconv.Itoa(offset))
	encoded := opts.EncodedQuery
	if encoded == "" && opts.Query != nil && !opts.Query.Empty() {
		encoded = opts.Query.Encode()
	}
	if encoded != "" {
		params.Set("sysparm_query", encoded)
	}
	if opts.OrderBy != "" {
		params.Set("sysparm_orderby", opts.OrderBy)
	}
	if len(opts.Fields) > 0 {
		params.Set("sysparm_fields", strings.Join(opts.Fields, ","))
	}

	var resp listResponse
	if err := c.do(ctx, op, http.MethodGet, c.tableURL()+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	return &ListResult{
		Records: resp.Result,
		Count:   len(resp.Result),
		Offset:  offset,
		Limit:   limit,
		HasMore: len(resp.Result) == limit,
	}, nil
}

// getByID fetches a single record by sys_id.
func (c *Client) getByID(ctx context.Context, op, sysID string) (Record, error) {
	if sysID == "" {
		return nil, newError(KindValidation, op, "sys_id is required")
	}
	var resp singleResponse
	if err := c.do(ctx, op, http.MethodGet, c.tableURL()+"/"+url.PathEscape(sysID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// create inserts a new record and returns the created row.
func (c *Client) create(ctx context.Context, op string, fields map[string]string) (Record, error) {
	var resp singleResponse
	if err := c.do(ctx, op, http.MethodPost, c.tableURL(), fields, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// patch updates an existing record and returns the updated row.
func (c *Client) patch(ctx context.Context, op, sysID string, fields map[string]string) (Record, error) {
	if sysID == "" {
		return nil, newError(KindValidation, op, "sys_id is required")
	}
	var resp singleResponse
	if err := c.do(ctx, op, http.MethodPatch, c.tableURL()+"/"+url.PathEscape(sysID), fields, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// do executes one request against the Table API. Non-2xx responses and
// network failures become transport errors; undecodable bodies become
// parse errors.
func (c *Client) do(ctx context.Context, op, method, rawURL string, body, out any) (err error) {
	defer func() { observeRequest(op, err) }()

	var reader io.Reader
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return newError(KindValidation, op, "failed to marshal request: %v", merr)
		}
		reader = bytes.NewReader(payload)
	}

	req, rerr := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if rerr != nil {
		return newError(KindTransport, op, "failed to create request: %v", rerr)
	}
	c.setHeaders(req)

	c.logger.Debug("servicenow request", "operation", op, "method", method, "url", rawURL)

	resp, derr := c.httpClient.Do(req)
	if derr != nil {
		return newError(KindTransport, op, "failed to send request: %v", derr)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return newError(KindNotFound, op, "record not found")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("ServiceNow API error",
			"operation", op,
			"status_code", resp.StatusCode,
			"response", string(respBody),
		)
		return newError(KindTransport, op, "ServiceNow API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		respBody, rerr := io.ReadAll(resp.Body)
		if rerr != nil {
			return newError(KindTransport, op, "failed to read response: %v", rerr)
		}
		if uerr := json.Unmarshal(respBody, out); uerr != nil {
			return newError(KindParse, op, "failed to unmarshal response: %v", uerr)
		}
	}

	return nil
}

// setHeaders sets auth and content headers for ServiceNow API requests.
func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
