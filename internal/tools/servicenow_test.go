package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/drewelewis/ai-prod-support-assistant/internal/agent"
	"github.com/drewelewis/ai-prod-support-assistant/internal/servicenow"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeCaseService records the last call it received and returns canned
// results.
type fakeCaseService struct {
	lastOp     string
	lastLimit  int
	lastOffset int
	lastQuery  string
	record     servicenow.Record
	list       *servicenow.ListResult
	err        error
}

func (f *fakeCaseService) CreateCase(_ context.Context, opts servicenow.CreateCaseOptions) (servicenow.Record, error) {
	f.lastOp = "create"
	return f.record, f.err
}

func (f *fakeCaseService) GetCase(_ context.Context, sysID string) (servicenow.Record, error) {
	f.lastOp = "get:" + sysID
	return f.record, f.err
}

func (f *fakeCaseService) GetCaseByNumber(_ context.Context, number string) (servicenow.Record, error) {
	f.lastOp = "get_by_number:" + number
	return f.record, f.err
}

func (f *fakeCaseService) UpdateCase(_ context.Context, sysID string, updates map[string]string) (servicenow.Record, error) {
	f.lastOp = "update:" + sysID
	return f.record, f.err
}

func (f *fakeCaseService) QueryCases(_ context.Context, opts servicenow.ListOptions) (*servicenow.ListResult, error) {
	f.lastOp = "query"
	f.lastQuery = opts.EncodedQuery
	f.lastLimit = opts.Limit
	f.lastOffset = opts.Offset
	return f.list, f.err
}

func (f *fakeCaseService) OpenCases(_ context.Context, limit, offset int) (*servicenow.ListResult, error) {
	f.lastOp = "open"
	f.lastLimit = limit
	f.lastOffset = offset
	return f.list, f.err
}

func (f *fakeCaseService) HighPriorityCases(_ context.Context, limit, offset int) (*servicenow.ListResult, error) {
	f.lastOp = "high_priority"
	f.lastLimit = limit
	f.lastOffset = offset
	return f.list, f.err
}

func (f *fakeCaseService) SearchCasesByText(_ context.Context, text string, fields []string, limit, offset int) (*servicenow.ListResult, error) {
	f.lastOp = "search:" + text
	f.lastLimit = limit
	f.lastOffset = offset
	return f.list, f.err
}

func (f *fakeCaseService) CasesByContact(_ context.Context, contactID string, limit, offset int) (*servicenow.ListResult, error) {
	f.lastOp = "by_contact:" + contactID
	return f.list, f.err
}

func (f *fakeCaseService) CasesByAccount(_ context.Context, accountID string, limit, offset int) (*servicenow.ListResult, error) {
	f.lastOp = "by_account:" + accountID
	return f.list, f.err
}

func (f *fakeCaseService) AddComment(_ context.Context, sysID, comment, commentType string) (servicenow.Record, error) {
	f.lastOp = fmt.Sprintf("comment:%s:%s:%s", sysID, comment, commentType)
	return f.record, f.err
}

func (f *fakeCaseService) AssignCase(_ context.Context, sysID, assignedTo, assignmentGroup string) (servicenow.Record, error) {
	f.lastOp = "assign:" + assignedTo
	return f.record, f.err
}

func (f *fakeCaseService) ResolveCase(_ context.Context, sysID, resolutionNotes, closeCode string) (servicenow.Record, error) {
	f.lastOp = "resolve:" + sysID
	return f.record, f.err
}

func (f *fakeCaseService) CloseCase(_ context.Context, sysID, closeNotes, closeCode string) (servicenow.Record, error) {
	f.lastOp = "close:" + sysID
	return f.record, f.err
}

func (f *fakeCaseService) RecordURL(sysID string) string {
	return "https://test/nav_to.do?uri=incident.do?sys_id=" + sysID
}

func newCaseRegistry(svc *fakeCaseService) *Registry {
	registry := NewRegistry(newTestLogger())
	registry.Register(ServiceNowTools(svc)...)
	return registry
}

func dispatch(t *testing.T, registry *Registry, name, arguments string) string {
	t.Helper()
	out, err := registry.Dispatch(context.Background(), agent.ToolCall{
		ID:        "call_1",
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		t.Fatalf("Dispatch(%s) error = %v", name, err)
	}
	return out
}

func TestCreateCaseTool_RendersResult(t *testing.T) {
	svc := &fakeCaseService{record: servicenow.Record{
		"number":   "INC0001234",
		"sys_id":   "abc123",
		"priority": "2",
		"state":    "1",
	}}
	registry := newCaseRegistry(svc)

	out := dispatch(t, registry, "servicenow_create_case",
		`{"short_description": "login page down", "priority": "2"}`)

	want := "Case created successfully!\n" +
		"Case Number: INC0001234\n" +
		"Sys ID: abc123\n" +
		"Priority: 2\n" +
		"State: 1\n" +
		"URL: https://test/nav_to.do?uri=incident.do?sys_id=abc123"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestCreateCaseTool_RendersFailure(t *testing.T) {
	svc := &fakeCaseService{err: fmt.Errorf("create_case: ServiceNow API returned status 403")}
	registry := newCaseRegistry(svc)

	out := dispatch(t, registry, "servicenow_create_case", `{"short_description": "x"}`)
	if !strings.HasPrefix(out, "Failed to create case:") {
		t.Errorf("expected failure rendering, got %q", out)
	}
}

func TestGetCaseTool_PrefersSysID(t *testing.T) {
	svc := &fakeCaseService{record: servicenow.Record{"number": "INC0001"}}
	registry := newCaseRegistry(svc)

	dispatch(t, registry, "servicenow_get_case", `{"case_sys_id": "abc123", "case_number": "INC0001"}`)
	if svc.lastOp != "get:abc123" {
		t.Errorf("expected sys_id lookup, got %q", svc.lastOp)
	}

	dispatch(t, registry, "servicenow_get_case", `{"case_number": "INC0001"}`)
	if svc.lastOp != "get_by_number:INC0001" {
		t.Errorf("expected number lookup, got %q", svc.lastOp)
	}

	out := dispatch(t, registry, "servicenow_get_case", `{}`)
	if out != "Please provide either a case_number or case_sys_id" {
		t.Errorf("expected parameter guidance, got %q", out)
	}
}

func TestUpdateCaseTool_EmptyStringsAreAbsent(t *testing.T) {
	svc := &fakeCaseService{record: servicenow.Record{"number": "INC0001"}}
	registry := newCaseRegistry(svc)

	out := dispatch(t, registry, "servicenow_update_case",
		`{"case_sys_id": "abc123", "state": "", "priority": ""}`)
	if out != "No updates provided. Please specify at least one field to update." {
		t.Errorf("expected no-updates message, got %q", out)
	}

	out = dispatch(t, registry, "servicenow_update_case",
		`{"case_sys_id": "abc123", "priority": "1", "state": "2"}`)
	if !strings.Contains(out, "Updated Fields: priority, state") {
		t.Errorf("expected sorted updated fields, got %q", out)
	}
}

func TestQueryCasesTool_PagingAndTypes(t *testing.T) {
	svc := &fakeCaseService{list: &servicenow.ListResult{
		Records: []servicenow.Record{{"number": "INC0001", "short_description": "x", "priority": "1", "state": "2", "sys_id": "s1"}},
		Count:   1, Limit: 20, Offset: 20,
	}}
	registry := newCaseRegistry(svc)

	dispatch(t, registry, "servicenow_query_cases",
		`{"query_type": "open", "page": "2", "page_size": "20"}`)
	if svc.lastOp != "open" || svc.lastLimit != 20 || svc.lastOffset != 20 {
		t.Errorf("open paging: op=%q limit=%d offset=%d", svc.lastOp, svc.lastLimit, svc.lastOffset)
	}

	dispatch(t, registry, "servicenow_query_cases",
		`{"query_type": "custom", "query": "state=1^priority=1"}`)
	if svc.lastOp != "query" || svc.lastQuery != "state=1^priority=1" {
		t.Errorf("custom query: op=%q query=%q", svc.lastOp, svc.lastQuery)
	}
	if svc.lastLimit != 50 || svc.lastOffset != 0 {
		t.Errorf("custom defaults: limit=%d offset=%d", svc.lastLimit, svc.lastOffset)
	}

	dispatch(t, registry, "servicenow_query_cases",
		`{"query_type": "search", "search_text": "login failure"}`)
	if svc.lastOp != "search:login failure" {
		t.Errorf("search dispatch: %q", svc.lastOp)
	}

	out := dispatch(t, registry, "servicenow_query_cases", `{"query_type": "custom"}`)
	if out != "Error: 'query' parameter required for custom query type" {
		t.Errorf("missing query param: %q", out)
	}

	out = dispatch(t, registry, "servicenow_query_cases", `{"query_type": "bogus"}`)
	if !strings.Contains(out, "Unknown query_type") {
		t.Errorf("unknown type: %q", out)
	}
}

func TestQueryCasesTool_LimitParseError(t *testing.T) {
	registry := newCaseRegistry(&fakeCaseService{})

	out := dispatch(t, registry, "servicenow_query_cases",
		`{"query_type": "open", "limit": "lots"}`)
	if !strings.HasPrefix(out, "Error: limit must be a number") {
		t.Errorf("expected parse error string, got %q", out)
	}
}

func TestQueryCasesTool_RendersList(t *testing.T) {
	records := make([]servicenow.Record, 12)
	for i := range records {
		records[i] = servicenow.Record{
			"number":            fmt.Sprintf("INC%04d", i+1),
			"short_description": "disk full",
			"priority":          "2",
			"state":             "2",
			"sys_id":            fmt.Sprintf("sys%d", i+1),
		}
	}
	svc := &fakeCaseService{list: &servicenow.ListResult{
		Records: records, Count: 12, Limit: 12, Offset: 0, HasMore: true,
	}}
	registry := newCaseRegistry(svc)

	out := dispatch(t, registry, "servicenow_query_cases", `{"query_type": "open"}`)
	if !strings.HasPrefix(out, "Found 12 case(s):") {
		t.Errorf("expected count header, got %q", out)
	}
	if strings.Count(out, "- Case INC") != 10 {
		t.Errorf("expected 10 displayed cases, got %d", strings.Count(out, "- Case INC"))
	}
	if !strings.Contains(out, "... and 2 more cases") {
		t.Errorf("expected overflow suffix, got %q", out)
	}
	if !strings.Contains(out, "More results may be available") {
		t.Errorf("expected has-more hint, got %q", out)
	}
}

func TestQueryCasesTool_EmptyResult(t *testing.T) {
	svc := &fakeCaseService{list: &servicenow.ListResult{Count: 0, Limit: 50}}
	registry := newCaseRegistry(svc)

	out := dispatch(t, registry, "servicenow_query_cases", `{"query_type": "open"}`)
	if out != "No cases found matching the query." {
		t.Errorf("expected empty-result message, got %q", out)
	}
}

func TestCommentAndLifecycleTools(t *testing.T) {
	svc := &fakeCaseService{record: servicenow.Record{"number": "INC0001", "assigned_to": "user42"}}
	registry := newCaseRegistry(svc)

	out := dispatch(t, registry, "servicenow_add_comment",
		`{"case_sys_id": "abc123", "comment": "looking into it"}`)
	if out != "Comment added successfully to case." {
		t.Errorf("comment output = %q", out)
	}
	if svc.lastOp != "comment:abc123:looking into it:" {
		t.Errorf("comment dispatch = %q", svc.lastOp)
	}

	out = dispatch(t, registry, "servicenow_assign_case",
		`{"case_sys_id": "abc123", "assigned_to": "user42"}`)
	if !strings.Contains(out, "Assigned To: user42") {
		t.Errorf("assign output = %q", out)
	}

	out = dispatch(t, registry, "servicenow_resolve_case", `{"case_sys_id": "abc123"}`)
	if out != "Case INC0001 resolved successfully!" {
		t.Errorf("resolve output = %q", out)
	}

	out = dispatch(t, registry, "servicenow_close_case", `{"case_sys_id": "abc123"}`)
	if out != "Case INC0001 closed successfully!" {
		t.Errorf("close output = %q", out)
	}
}
