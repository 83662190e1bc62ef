package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drewelewis/ai-prod-support-assistant/internal/elastic"
)

// LogService defines the log-search operation the Elasticsearch tool needs.
type LogService interface {
	SearchLogs(ctx context.Context, queryJSON string, size int) (*elastic.SearchResult, error)
}

// ElasticTools builds the log-search tool set.
func ElasticTools(svc LogService) []Tool {
	return []Tool{
		{
			Name: "elasticsearch_search_logs",
			Description: "Search application logs in Elasticsearch. The query must be an Elasticsearch query DSL " +
				"fragment as JSON. Log documents carry fields like levelname (ERROR, WARNING, INFO, DEBUG), message, " +
				"host, timestamp, filename, funcName, and module. Examples: " +
				`{"match": {"levelname": "ERROR"}} finds all error logs; ` +
				`{"bool": {"must": [{"match": {"levelname": "ERROR"}}, {"match": {"host": "server-01"}}]}} combines conditions.`,
			Parameters: stringParams(map[string]string{
				"query": "The Elasticsearch query in JSON format",
				"size":  "Maximum number of log entries to return (default 10)",
			}, "query"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				query := args.String("query")
				if query == "" {
					return "Error: 'query' parameter is required", nil
				}
				size, err := args.Int("size", 10)
				if err != nil {
					return "Error: " + err.Error(), err
				}
				result, err := svc.SearchLogs(ctx, query, size)
				if err != nil {
					return fmt.Sprintf("Error searching logs: %v", err), err
				}
				if len(result.Hits) == 0 {
					return "No log entries found matching the query.", nil
				}
				var out strings.Builder
				fmt.Fprintf(&out, "Found %d log entries (showing %d):", result.Total, len(result.Hits))
				for _, hit := range result.Hits {
					entry, err := json.Marshal(hit)
					if err != nil {
						continue
					}
					out.WriteString("\n- " + string(entry))
				}
				return out.String(), nil
			},
		},
	}
}
