package servicenow

import "context"

// Comment field names on the target record. work_notes is internal,
// comments is customer-visible.
const (
	CommentTypeWorkNotes = "work_notes"
	CommentTypeComments  = "comments"
)

// CreateCaseOptions carries the fields set on creation. ShortDescription
// is the only required field; Priority defaults to "3". Field values are
// not validated locally, the external system rejects bad ones.
type CreateCaseOptions struct {
	ShortDescription string
	Description      string
	Priority         string
	Contact          string
	Account          string
	Category         string
	// Extra is merged into the payload last and may override the named
	// fields.
	Extra map[string]string
}

// CreateCase creates a new record and returns the created row.
func (c *Client) CreateCase(ctx context.Context, opts CreateCaseOptions) (Record, error) {
	const op = "create_case"
	if opts.ShortDescription == "" {
		return nil, newError(KindValidation, op, "short description is required")
	}
	priority := opts.Priority
	if priority == "" {
		priority = "3"
	}

	payload := map[string]string{
		"short_description": opts.ShortDescription,
		"priority":          priority,
	}
	if opts.Description != "" {
		payload["description"] = opts.Description
	}
	if opts.Contact != "" {
		payload[c.contactField()] = opts.Contact
	}
	if opts.Account != "" {
		payload["account"] = opts.Account
	}
	if opts.Category != "" {
		payload["category"] = opts.Category
	}
	for k, v := range opts.Extra {
		payload[k] = v
	}

	return c.create(ctx, op, payload)
}

// UpdateCase applies an arbitrary field mapping to a record. The named
// convenience mutations below are sugar over this call.
func (c *Client) UpdateCase(ctx context.Context, sysID string, updates map[string]string) (Record, error) {
	const op = "update_case"
	if len(updates) == 0 {
		return nil, newError(KindValidation, op, "no updates provided")
	}
	return c.patch(ctx, op, sysID, updates)
}

// AddComment appends a comment to a record. commentType defaults to
// work_notes and is passed through unvalidated.
func (c *Client) AddComment(ctx context.Context, sysID, comment, commentType string) (Record, error) {
	if commentType == "" {
		commentType = CommentTypeWorkNotes
	}
	return c.patch(ctx, "add_case_comment", sysID, map[string]string{commentType: comment})
}

// AssignCase assigns a record to a user and optionally a group.
func (c *Client) AssignCase(ctx context.Context, sysID, assignedTo, assignmentGroup string) (Record, error) {
	const op = "assign_case"
	if assignedTo == "" {
		return nil, newError(KindValidation, op, "assigned_to sys_id is required")
	}
	updates := map[string]string{"assigned_to": assignedTo}
	if assignmentGroup != "" {
		updates["assignment_group"] = assignmentGroup
	}
	return c.patch(ctx, op, sysID, updates)
}

// ResolveCase moves a record to its resolved state. The resolved_at value
// is a server-side expression evaluated by the instance.
func (c *Client) ResolveCase(ctx context.Context, sysID, resolutionNotes, closeCode string) (Record, error) {
	updates := map[string]string{
		"state":       resolvedState(c.table),
		"resolved_at": "javascript:gs.nowDateTime()",
	}
	if resolutionNotes != "" {
		updates["resolution_notes"] = resolutionNotes
	}
	if closeCode != "" {
		updates["close_code"] = closeCode
	}
	return c.patch(ctx, "resolve_case", sysID, updates)
}

// CloseCase moves a record to its closed state.
func (c *Client) CloseCase(ctx context.Context, sysID, closeNotes, closeCode string) (Record, error) {
	updates := map[string]string{
		"state": closedState(c.table),
	}
	if closeNotes != "" {
		updates["close_notes"] = closeNotes
	}
	if closeCode != "" {
		updates["close_code"] = closeCode
	}
	return c.patch(ctx, "close_case", sysID, updates)
}
