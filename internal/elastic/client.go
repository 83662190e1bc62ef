// Package elastic provides a thin wrapper over the Elasticsearch search
// API for the assistant's log-search tool.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_elasticsearch_requests_total",
		Help: "Total number of requests to Elasticsearch",
	},
	[]string{"operation", "status"},
)

// Client issues search requests against a single Elasticsearch index.
type Client struct {
	baseURL    string
	index      string
	apiKey     string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Options configures a Client.
type Options struct {
	URL      string
	Index    string
	APIKey   string
	Username string
	Password string
}

// NewClient creates an Elasticsearch client. An API key takes precedence
// over basic credentials when both are set.
func NewClient(opts Options, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(opts.URL, "/"),
		index:      opts.Index,
		apiKey:     opts.APIKey,
		username:   opts.Username,
		password:   opts.Password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// SearchResult holds the hits of a search along with the reported total.
type SearchResult struct {
	Total int
	Hits  []map[string]any
}

// SearchLogs runs a query (an Elasticsearch query DSL fragment as JSON)
// against the index and returns up to size hits. The query is validated
// as JSON before anything is sent.
func (c *Client) SearchLogs(ctx context.Context, queryJSON string, size int) (res *SearchResult, err error) {
	const op = "search_logs"
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		requestsTotal.WithLabelValues(op, status).Inc()
	}()

	if !json.Valid([]byte(queryJSON)) {
		return nil, fmt.Errorf("query is not valid JSON")
	}
	if size <= 0 {
		size = 10
	}

	body, err := json.Marshal(map[string]any{
		"query": json.RawMessage(queryJSON),
		"size":  size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/_search", c.baseURL, c.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("elasticsearch request", "operation", op, "index", c.index, "size", size)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("Elasticsearch error",
			"status_code", resp.StatusCode,
			"response", string(respBody),
		)
		return nil, fmt.Errorf("Elasticsearch returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var searchResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	result := &SearchResult{Total: searchResp.Hits.Total.Value}
	for _, hit := range searchResp.Hits.Hits {
		result.Hits = append(result.Hits, hit.Source)
	}
	return result, nil
}
