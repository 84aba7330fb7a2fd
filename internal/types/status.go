package types

// Status is the lifecycle state of a report. One canonical vocabulary is
// used everywhere; the legacy names from older exports (Reported, Under
// Review, Assigned, Fixed) are folded in by CanonicalStatus at parse time.
type Status string

const (
	StatusSubmitted    Status = "Submitted"
	StatusAcknowledged Status = "Acknowledged"
	StatusInProgress   Status = "In Progress"
	StatusResolved     Status = "Resolved"
	StatusRejected     Status = "Rejected"
)

// StatusOrder is the fixed display order for boards and filters.
var StatusOrder = []Status{
	StatusSubmitted,
	StatusAcknowledged,
	StatusInProgress,
	StatusResolved,
	StatusRejected,
}

// legacyStatus maps the older vocabulary onto the canonical one.
var legacyStatus = map[string]Status{
	"Reported":     StatusSubmitted,
	"Under Review": StatusAcknowledged,
	"UnderReview":  StatusAcknowledged,
	"Assigned":     StatusInProgress,
	"Fixed":        StatusResolved,
}

// CanonicalStatus resolves a stored status string, accepting both the
// canonical and the legacy vocabulary. ok is false for unknown values.
func CanonicalStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusSubmitted, StatusAcknowledged, StatusInProgress, StatusResolved, StatusRejected:
		return Status(s), true
	}
	if c, ok := legacyStatus[s]; ok {
		return c, true
	}
	return "", false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// transitions is the intended forward-only lifecycle graph:
// Submitted -> Acknowledged -> In Progress -> {Resolved | Rejected}.
var transitions = map[Status][]Status{
	StatusSubmitted:    {StatusAcknowledged},
	StatusAcknowledged: {StatusInProgress},
	StatusInProgress:   {StatusResolved, StatusRejected},
}

// CanTransition reports whether from -> to is a legal forward transition.
// The store accepts any-to-any by default; this is only enforced when the
// store is opened with strict transitions.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
