package splitter

import "fmt"

// ClassificationError reports a trip that could not be tagged with exactly
// one direction of its route. It aborts the run.
type ClassificationError struct {
	Route  string
	TripID string
	Reason string
}

func (e *ClassificationError) Error() string {
	if e.TripID == "" {
		return fmt.Sprintf("classification: route %s: %s", e.Route, e.Reason)
	}

	return fmt.Sprintf("classification: route %s trip %s: %s", e.Route, e.TripID, e.Reason)
}
