package servicenow

import "fmt"

// Record is a single Table API row. The façade treats it as an opaque
// mapping owned by the external schema and passes it through unchanged.
type Record map[string]any

// Field returns the value of key as a string. Reference fields come back
// from the Table API as {link, value} objects; for those the inner value
// is returned. A missing key yields "".
func (r Record) Field(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if inner, ok := t["value"].(string); ok {
			return inner
		}
		if inner, ok := t["display_value"].(string); ok {
			return inner
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// singleResponse is the Table API envelope for single-record endpoints.
type singleResponse struct {
	Result Record `json:"result"`
}

// listResponse is the Table API envelope for list queries.
type listResponse struct {
	Result []Record `json:"result"`
}

// ListResult is the normalized envelope for list operations.
type ListResult struct {
	Records []Record
	Count   int
	Offset  int
	Limit   int
	// HasMore is true iff Count equals the requested limit. This is a
	// heuristic: when the result set size lands exactly on a page
	// boundary it reports a further page that may be empty.
	HasMore bool
}
