// Package github provides a thin wrapper over the GitHub REST API for the
// assistant's source-hosting tools: listing repositories and files,
// reading file content, and creating issues.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assistant_github_requests_total",
		Help: "Total number of requests to the GitHub API",
	},
	[]string{"operation", "status"},
)

// Client issues authenticated requests against the GitHub REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a GitHub API client. baseURL overrides the public API
// endpoint when non-empty (used by tests and GitHub Enterprise).
func NewClient(token, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Issue is a created issue reference.
type Issue struct {
	Number int    `json:"number"`
	URL    string `json:"html_url"`
}

// ListRepos returns the full names of a user's repositories.
func (c *Client) ListRepos(ctx context.Context, user string) ([]string, error) {
	var repos []struct {
		FullName string `json:"full_name"`
	}
	path := fmt.Sprintf("/users/%s/repos?per_page=100", url.PathEscape(user))
	if err := c.do(ctx, "list_repos", http.MethodGet, path, nil, &repos); err != nil {
		return nil, err
	}
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.FullName
	}
	return names, nil
}

// ListFiles returns the blob paths of a repository's default branch,
// resolved via the repo metadata then the recursive git tree.
func (c *Client) ListFiles(ctx context.Context, repo string) ([]string, error) {
	var meta struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.do(ctx, "list_files", http.MethodGet, "/repos/"+repo, nil, &meta); err != nil {
		return nil, err
	}

	var tree struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
		} `json:"tree"`
	}
	path := fmt.Sprintf("/repos/%s/git/trees/%s?recursive=1", repo, url.PathEscape(meta.DefaultBranch))
	if err := c.do(ctx, "list_files", http.MethodGet, path, nil, &tree); err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range tree.Tree {
		if entry.Type == "blob" {
			files = append(files, entry.Path)
		}
	}
	return files, nil
}

// GetFileContent returns the decoded content of a file in a repository.
func (c *Client) GetFileContent(ctx context.Context, repo, path string) (string, error) {
	var file struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := c.do(ctx, "get_file_content", http.MethodGet, "/repos/"+repo+"/contents/"+path, nil, &file); err != nil {
		return "", err
	}
	if file.Encoding != "base64" {
		return file.Content, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode content of %s: %w", path, err)
	}
	return string(decoded), nil
}

// CreateIssue opens an issue in a repository.
func (c *Client) CreateIssue(ctx context.Context, repo, title, body string) (*Issue, error) {
	payload := map[string]string{"title": title}
	if body != "" {
		payload["body"] = body
	}
	var issue Issue
	if err := c.do(ctx, "create_issue", http.MethodPost, "/repos/"+repo+"/issues", payload, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		requestsTotal.WithLabelValues(op, status).Inc()
	}()

	var reader io.Reader
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("failed to marshal request: %w", merr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("github request", "operation", op, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("GitHub API error",
			"operation", op,
			"status_code", resp.StatusCode,
			"response", string(respBody),
		)
		return fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
