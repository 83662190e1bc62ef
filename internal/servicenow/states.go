package servicenow

// State codes are defined by the external system, not by this façade; the
// tables below carry the codes for the two supported table configurations.
//
// incident: 1=New, 2=In Progress, 3=On Hold, 6=Resolved, 7=Closed
// sn_customerservice_case: 1=Open, 2=Work in Progress, 3=Resolved, 4=Closed
const (
	TableIncident = "incident"
	TableCase     = "sn_customerservice_case"

	incidentStateResolved = "6"
	incidentStateClosed   = "7"

	caseStateResolved = "3"
	caseStateClosed   = "4"
)

// terminalStates returns the state codes excluded by "open" queries for
// the given table. Unknown tables use the case codes.
func terminalStates(table string) []string {
	if table == TableIncident {
		return []string{incidentStateResolved, incidentStateClosed}
	}
	return []string{caseStateResolved, caseStateClosed}
}

// resolvedState returns the code Resolve sets for the given table.
func resolvedState(table string) string {
	if table == TableIncident {
		return incidentStateResolved
	}
	return caseStateResolved
}

// closedState returns the code Close sets for the given table.
func closedState(table string) string {
	if table == TableIncident {
		return incidentStateClosed
	}
	return caseStateClosed
}

// highPriorities are the two top priority codes used by high-priority queries.
var highPriorities = []string{"1", "2"}
