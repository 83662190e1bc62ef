package servicenow

import "strings"

// Query builds ServiceNow encoded query strings: field/operator/value
// clauses joined by ^ (AND) or ^OR (OR). Clauses are emitted in the order
// they were added. Values are inserted verbatim; a ^ inside a value is
// treated as a clause separator by the server.
type Query struct {
	clauses []string
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Is adds a field=value clause.
func (q *Query) Is(field, value string) *Query {
	q.clauses = append(q.clauses, field+"="+value)
	return q
}

// IsNot adds a field!=value clause.
func (q *Query) IsNot(field, value string) *Query {
	q.clauses = append(q.clauses, field+"!="+value)
	return q
}

// AtMost adds a field<=value clause.
func (q *Query) AtMost(field, value string) *Query {
	q.clauses = append(q.clauses, field+"<="+value)
	return q
}

// AnyOf adds a single clause matching field against any of the given
// values, joined internally with ^OR. It combines with the other clauses
// via ^ like any other clause.
func (q *Query) AnyOf(field string, values ...string) *Query {
	if len(values) == 0 {
		return q
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = field + "=" + v
	}
	q.clauses = append(q.clauses, strings.Join(parts, "^OR"))
	return q
}

// Contains adds a text-search clause, fieldLIKEtext for each field joined
// with ^OR.
func (q *Query) Contains(text string, fields ...string) *Query {
	if len(fields) == 0 {
		return q
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + "LIKE" + text
	}
	q.clauses = append(q.clauses, strings.Join(parts, "^OR"))
	return q
}

// Raw appends an already-encoded fragment as a clause.
func (q *Query) Raw(encoded string) *Query {
	if encoded != "" {
		q.clauses = append(q.clauses, encoded)
	}
	return q
}

// Encode joins the clauses with ^ into the sysparm_query value.
func (q *Query) Encode() string {
	return strings.Join(q.clauses, "^")
}

// Empty reports whether no clauses have been added.
func (q *Query) Empty() bool {
	return len(q.clauses) == 0
}

// Descending prefixes an order-by field with ^, which the Table API
// interprets as descending sort. The prefix must be exactly one caret.
func Descending(field string) string {
	return "^" + field
}
