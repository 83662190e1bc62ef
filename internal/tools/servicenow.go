package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/drewelewis/ai-prod-support-assistant/internal/servicenow"
)

// CaseService defines the façade operations the ServiceNow tools need.
type CaseService interface {
	CreateCase(ctx context.Context, opts servicenow.CreateCaseOptions) (servicenow.Record, error)
	GetCase(ctx context.Context, sysID string) (servicenow.Record, error)
	GetCaseByNumber(ctx context.Context, number string) (servicenow.Record, error)
	UpdateCase(ctx context.Context, sysID string, updates map[string]string) (servicenow.Record, error)
	QueryCases(ctx context.Context, opts servicenow.ListOptions) (*servicenow.ListResult, error)
	OpenCases(ctx context.Context, limit, offset int) (*servicenow.ListResult, error)
	HighPriorityCases(ctx context.Context, limit, offset int) (*servicenow.ListResult, error)
	SearchCasesByText(ctx context.Context, text string, fields []string, limit, offset int) (*servicenow.ListResult, error)
	CasesByContact(ctx context.Context, contactID string, limit, offset int) (*servicenow.ListResult, error)
	CasesByAccount(ctx context.Context, accountID string, limit, offset int) (*servicenow.ListResult, error)
	AddComment(ctx context.Context, sysID, comment, commentType string) (servicenow.Record, error)
	AssignCase(ctx context.Context, sysID, assignedTo, assignmentGroup string) (servicenow.Record, error)
	ResolveCase(ctx context.Context, sysID, resolutionNotes, closeCode string) (servicenow.Record, error)
	CloseCase(ctx context.Context, sysID, closeNotes, closeCode string) (servicenow.Record, error)
	RecordURL(sysID string) string
}

const defaultQueryLimit = 50

// ServiceNowTools builds the case-management tool set over the given
// façade.
func ServiceNowTools(svc CaseService) []Tool {
	return []Tool{
		{
			Name:        "servicenow_create_case",
			Description: "Create a new ServiceNow case. Use this when a user wants to log a new support case or issue.",
			Parameters: stringParams(map[string]string{
				"short_description": "Brief summary of the case issue",
				"description":       "Detailed description of the case",
				"priority":          "Priority level: 1 (Critical), 2 (High), 3 (Moderate), 4 (Low), 5 (Planning)",
				"contact":           "Contact sys_id or email address",
				"account":           "Account sys_id",
				"category":          "Case category",
			}, "short_description"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				rec, err := svc.CreateCase(ctx, servicenow.CreateCaseOptions{
					ShortDescription: args.String("short_description"),
					Description:      args.String("description"),
					Priority:         args.String("priority"),
					Contact:          args.String("contact"),
					Account:          args.String("account"),
					Category:         args.String("category"),
				})
				if err != nil {
					return fmt.Sprintf("Failed to create case: %v", err), err
				}
				return fmt.Sprintf(
					"Case created successfully!\nCase Number: %s\nSys ID: %s\nPriority: %s\nState: %s\nURL: %s",
					rec.Field("number"),
					rec.Field("sys_id"),
					rec.Field("priority"),
					rec.Field("state"),
					svc.RecordURL(rec.Field("sys_id")),
				), nil
			},
		},
		{
			Name:        "servicenow_get_case",
			Description: "Retrieve details of a specific ServiceNow case by case number (e.g. 'CS0001001') or sys_id.",
			Parameters: stringParams(map[string]string{
				"case_number": "The case number (e.g. 'CS0001001')",
				"case_sys_id": "The sys_id of the case to retrieve",
			}),
			Handler: func(ctx context.Context, args Args) (string, error) {
				var (
					rec servicenow.Record
					err error
				)
				switch {
				case args.String("case_sys_id") != "":
					rec, err = svc.GetCase(ctx, args.String("case_sys_id"))
				case args.String("case_number") != "":
					rec, err = svc.GetCaseByNumber(ctx, args.String("case_number"))
				default:
					return "Please provide either a case_number or case_sys_id", nil
				}
				if err != nil {
					return fmt.Sprintf("Failed to retrieve case: %v", err), err
				}
				return renderCaseDetail(rec), nil
			},
		},
		{
			Name:        "servicenow_update_case",
			Description: "Update an existing ServiceNow case. Provide the case_sys_id and the fields to change: state, priority, short_description, description, assigned_to.",
			Parameters: stringParams(map[string]string{
				"case_sys_id":       "The sys_id of the case to update",
				"state":             "New case state code",
				"priority":          "Priority level: 1-5",
				"short_description": "Updated short description",
				"description":       "Updated description",
				"assigned_to":       "sys_id of the user to assign the case to",
			}, "case_sys_id"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				updates := map[string]string{}
				for _, field := range []string{"state", "priority", "short_description", "description", "assigned_to"} {
					if v := args.String(field); v != "" {
						updates[field] = v
					}
				}
				if len(updates) == 0 {
					return "No updates provided. Please specify at least one field to update.", nil
				}
				rec, err := svc.UpdateCase(ctx, args.String("case_sys_id"), updates)
				if err != nil {
					return fmt.Sprintf("Failed to update case: %v", err), err
				}
				fields := make([]string, 0, len(updates))
				for k := range updates {
					fields = append(fields, k)
				}
				sort.Strings(fields)
				return fmt.Sprintf(
					"Case updated successfully!\nCase Number: %s\nUpdated Fields: %s",
					rec.Field("number"),
					strings.Join(fields, ", "),
				), nil
			},
		},
		{
			Name: "servicenow_query_cases",
			Description: "Query ServiceNow cases. query_type selects the filter: 'open' (all open cases), " +
				"'high_priority' (open cases with priority 1 or 2), 'custom' (use the query parameter, a ServiceNow " +
				"encoded query like 'state=1^priority=1'), 'search' (text search in short_description and description), " +
				"'by_contact' (cases for a contact), 'by_account' (cases for an account). " +
				"Use page and page_size to fetch further pages of a large result.",
			Parameters: stringParams(map[string]string{
				"query_type":     "One of: open, high_priority, custom, search, by_contact, by_account",
				"query":          "Encoded query string, required when query_type is 'custom'",
				"search_text":    "Text to search for, required when query_type is 'search'",
				"contact_sys_id": "Contact sys_id, required when query_type is 'by_contact'",
				"account_sys_id": "Account sys_id, required when query_type is 'by_account'",
				"limit":          "Maximum number of cases to return (default 50)",
				"page":           "1-indexed page number (default 1)",
				"page_size":      "Page size; overrides limit when set",
			}, "query_type"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				limit, err := args.Int("limit", defaultQueryLimit)
				if err != nil {
					return "Error: " + err.Error(), err
				}
				page, err := args.Int("page", 1)
				if err != nil {
					return "Error: " + err.Error(), err
				}
				pageSize, err := args.Int("page_size", 0)
				if err != nil {
					return "Error: " + err.Error(), err
				}
				if pageSize > 0 {
					limit = pageSize
				}
				offset := servicenow.PageOffset(page, limit)

				var result *servicenow.ListResult
				switch args.String("query_type") {
				case "open":
					result, err = svc.OpenCases(ctx, limit, offset)
				case "high_priority":
					result, err = svc.HighPriorityCases(ctx, limit, offset)
				case "custom":
					if args.String("query") == "" {
						return "Error: 'query' parameter required for custom query type", nil
					}
					result, err = svc.QueryCases(ctx, servicenow.ListOptions{
						EncodedQuery: args.String("query"),
						Limit:        limit,
						Offset:       offset,
					})
				case "search":
					if args.String("search_text") == "" {
						return "Error: 'search_text' parameter required for search query type", nil
					}
					result, err = svc.SearchCasesByText(ctx, args.String("search_text"), nil, limit, offset)
				case "by_contact":
					if args.String("contact_sys_id") == "" {
						return "Error: 'contact_sys_id' parameter required for by_contact query type", nil
					}
					result, err = svc.CasesByContact(ctx, args.String("contact_sys_id"), limit, offset)
				case "by_account":
					if args.String("account_sys_id") == "" {
						return "Error: 'account_sys_id' parameter required for by_account query type", nil
					}
					result, err = svc.CasesByAccount(ctx, args.String("account_sys_id"), limit, offset)
				default:
					return fmt.Sprintf("Error: Unknown query_type %q", args.String("query_type")), nil
				}
				if err != nil {
					return fmt.Sprintf("Failed to query cases: %v", err), err
				}
				if result.Count == 0 {
					return "No cases found matching the query.", nil
				}
				return renderCaseList(fmt.Sprintf("Found %d case(s):\n", result.Count), result), nil
			},
		},
		{
			Name:        "servicenow_add_comment",
			Description: "Add a comment or work note to a ServiceNow case. Use 'work_notes' for internal comments or 'comments' for customer-visible comments.",
			Parameters: stringParams(map[string]string{
				"case_sys_id":  "The sys_id of the case",
				"comment":      "The comment text to add",
				"comment_type": "Comment type: 'work_notes' (internal, default) or 'comments' (customer-visible)",
			}, "case_sys_id", "comment"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				if args.String("comment") == "" {
					return "Error: 'comment' parameter is required", nil
				}
				_, err := svc.AddComment(ctx, args.String("case_sys_id"), args.String("comment"), args.String("comment_type"))
				if err != nil {
					return fmt.Sprintf("Failed to add comment: %v", err), err
				}
				return "Comment added successfully to case.", nil
			},
		},
		{
			Name:        "servicenow_assign_case",
			Description: "Assign a ServiceNow case to a user and optionally an assignment group.",
			Parameters: stringParams(map[string]string{
				"case_sys_id":      "The sys_id of the case",
				"assigned_to":      "sys_id of the user to assign the case to",
				"assignment_group": "Optional sys_id of the assignment group",
			}, "case_sys_id", "assigned_to"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				rec, err := svc.AssignCase(ctx, args.String("case_sys_id"), args.String("assigned_to"), args.String("assignment_group"))
				if err != nil {
					return fmt.Sprintf("Failed to assign case: %v", err), err
				}
				return fmt.Sprintf(
					"Case assigned successfully!\nCase Number: %s\nAssigned To: %s",
					rec.Field("number"),
					rec.Field("assigned_to"),
				), nil
			},
		},
		{
			Name:        "servicenow_resolve_case",
			Description: "Resolve a ServiceNow case. Use this when an issue has been fixed and the case can move to its resolved state.",
			Parameters: stringParams(map[string]string{
				"case_sys_id":      "The sys_id of the case to resolve",
				"resolution_notes": "Notes describing the resolution",
				"close_code":       "Close code/reason",
			}, "case_sys_id"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				rec, err := svc.ResolveCase(ctx, args.String("case_sys_id"), args.String("resolution_notes"), args.String("close_code"))
				if err != nil {
					return fmt.Sprintf("Failed to resolve case: %v", err), err
				}
				return fmt.Sprintf("Case %s resolved successfully!", rec.Field("number")), nil
			},
		},
		{
			Name:        "servicenow_close_case",
			Description: "Close a ServiceNow case that is fully dealt with. Optionally provide close notes and a close code.",
			Parameters: stringParams(map[string]string{
				"case_sys_id": "The sys_id of the case to close",
				"close_notes": "Notes recorded on closure",
				"close_code":  "Close code/reason",
			}, "case_sys_id"),
			Handler: func(ctx context.Context, args Args) (string, error) {
				rec, err := svc.CloseCase(ctx, args.String("case_sys_id"), args.String("close_notes"), args.String("close_code"))
				if err != nil {
					return fmt.Sprintf("Failed to close case: %v", err), err
				}
				return fmt.Sprintf("Case %s closed successfully!", rec.Field("number")), nil
			},
		},
	}
}
