package routespec

import "fmt"

// ConfigurationError reports route configuration that cannot be trusted to
// tag trips correctly. It always aborts the run.
type ConfigurationError struct {
	Route  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Route == "" {
		return fmt.Sprintf("configuration: %s", e.Reason)
	}

	return fmt.Sprintf("configuration: route %s: %s", e.Route, e.Reason)
}
