package tools

import (
	"fmt"
	"strings"

	"github.com/drewelewis/ai-prod-support-assistant/internal/servicenow"
)

// maxDisplayCases caps how many records a list rendering spells out; the
// remainder collapses into a count suffix.
const maxDisplayCases = 10

func renderCaseSummary(rec servicenow.Record) string {
	return fmt.Sprintf(
		"\n- Case %s: %s\n  Priority: %s, State: %s\n  Sys ID: %s",
		rec.Field("number"),
		rec.Field("short_description"),
		rec.Field("priority"),
		rec.Field("state"),
		rec.Field("sys_id"),
	)
}

func renderCaseList(header string, result *servicenow.ListResult) string {
	var out strings.Builder
	out.WriteString(header)
	for i, rec := range result.Records {
		if i == maxDisplayCases {
			break
		}
		out.WriteString(renderCaseSummary(rec))
	}
	if result.Count > maxDisplayCases {
		fmt.Fprintf(&out, "\n... and %d more cases", result.Count-maxDisplayCases)
	}
	if result.HasMore {
		out.WriteString("\nMore results may be available; request the next page to continue.")
	}
	return out.String()
}

func renderCaseDetail(rec servicenow.Record) string {
	return fmt.Sprintf(
		"Case Details:\n"+
			"Number: %s\n"+
			"Short Description: %s\n"+
			"Description: %s\n"+
			"State: %s\n"+
			"Priority: %s\n"+
			"Assigned To: %s\n"+
			"Created: %s\n"+
			"Updated: %s",
		rec.Field("number"),
		rec.Field("short_description"),
		rec.Field("description"),
		rec.Field("state"),
		rec.Field("priority"),
		rec.Field("assigned_to"),
		rec.Field("sys_created_on"),
		rec.Field("sys_updated_on"),
	)
}
