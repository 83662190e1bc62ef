package servicenow

import "context"

// defaultSearchFields are the fields text search covers when the caller
// does not name any.
var defaultSearchFields = []string{"short_description", "description"}

// PageOffset converts a 1-indexed page number and page size to a record
// offset. Page numbers below 1 are treated as page 1.
func PageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// QueryCases issues a single paged list request with the given options.
func (c *Client) QueryCases(ctx context.Context, opts ListOptions) (*ListResult, error) {
	return c.list(ctx, "query_cases", opts)
}

// QueryCasesPage is QueryCases with page-number paging: page is 1-indexed
// and pageSize becomes the limit.
func (c *Client) QueryCasesPage(ctx context.Context, query *Query, page, pageSize int, orderBy string) (*ListResult, error) {
	if pageSize <= 0 {
		pageSize = defaultLimit
	}
	return c.list(ctx, "query_cases", ListOptions{
		Query:   query,
		Limit:   pageSize,
		Offset:  PageOffset(page, pageSize),
		OrderBy: orderBy,
	})
}

// GetCase retrieves a record by sys_id. A missing record is a typed
// not-found error, not a transport failure.
func (c *Client) GetCase(ctx context.Context, sysID string) (Record, error) {
	return c.getByID(ctx, "get_case", sysID)
}

// GetCaseByNumber retrieves a record by its human-facing number, issuing
// a filtered list query with limit 1.
func (c *Client) GetCaseByNumber(ctx context.Context, number string) (Record, error) {
	const op = "get_case_by_number"
	if number == "" {
		return nil, newError(KindValidation, op, "case number is required")
	}
	result, err := c.list(ctx, op, ListOptions{
		Query: NewQuery().Is("number", number),
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if result.Count == 0 {
		return nil, newError(KindNotFound, op, "case %s not found", number)
	}
	return result.Records[0], nil
}

// OpenCases lists records not in a terminal state, most recently updated
// first.
func (c *Client) OpenCases(ctx context.Context, limit, offset int) (*ListResult, error) {
	query := NewQuery()
	for _, state := range terminalStates(c.table) {
		query.IsNot("state", state)
	}
	return c.list(ctx, "get_open_cases", ListOptions{
		Query:   query,
		Limit:   limit,
		Offset:  offset,
		OrderBy: Descending("sys_updated_on"),
	})
}

// HighPriorityCases lists open records with one of the two top priority
// codes, most urgent first.
func (c *Client) HighPriorityCases(ctx context.Context, limit, offset int) (*ListResult, error) {
	query := NewQuery().AnyOf("priority", highPriorities...)
	for _, state := range terminalStates(c.table) {
		query.IsNot("state", state)
	}
	return c.list(ctx, "get_high_priority_cases", ListOptions{
		Query:   query,
		Limit:   limit,
		Offset:  offset,
		OrderBy: "priority",
	})
}

// SearchCasesByText lists records whose fields contain the given text.
// fields defaults to short_description and description when empty. The
// text is inserted into the encoded query verbatim.
func (c *Client) SearchCasesByText(ctx context.Context, text string, fields []string, limit, offset int) (*ListResult, error) {
	const op = "search_cases_by_text"
	if text == "" {
		return nil, newError(KindValidation, op, "search text is required")
	}
	if len(fields) == 0 {
		fields = defaultSearchFields
	}
	return c.list(ctx, op, ListOptions{
		Query:   NewQuery().Contains(text, fields...),
		Limit:   limit,
		Offset:  offset,
		OrderBy: Descending("sys_updated_on"),
	})
}

// CasesByContact lists records raised by a contact (caller_id on the
// incident table), most recently created first.
func (c *Client) CasesByContact(ctx context.Context, contactID string, limit, offset int) (*ListResult, error) {
	const op = "get_cases_by_contact"
	if contactID == "" {
		return nil, newError(KindValidation, op, "contact sys_id is required")
	}
	return c.list(ctx, op, ListOptions{
		Query:   NewQuery().Is(c.contactField(), contactID),
		Limit:   limit,
		Offset:  offset,
		OrderBy: Descending("sys_created_on"),
	})
}

// CasesByAccount lists records for an account, most recently created first.
func (c *Client) CasesByAccount(ctx context.Context, accountID string, limit, offset int) (*ListResult, error) {
	const op = "get_cases_by_account"
	if accountID == "" {
		return nil, newError(KindValidation, op, "account sys_id is required")
	}
	return c.list(ctx, op, ListOptions{
		Query:   NewQuery().Is("account", accountID),
		Limit:   limit,
		Offset:  offset,
		OrderBy: Descending("sys_created_on"),
	})
}

// contactField names the requester reference field, which differs between
// the incident and case tables.
func (c *Client) contactField() string {
	if c.table == TableIncident {
		return "caller_id"
	}
	return "contact"
}
