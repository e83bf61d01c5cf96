package util

import (
	"os"
	"strings"
)

const EnvironmentPrefix = "AGENCYFEED_"

// GetEnvironmentVariables returns the AGENCYFEED_ variables keyed by their
// name without the prefix.
func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		name, value, _ := strings.Cut(variable, "=")

		if key, found := strings.CutPrefix(name, EnvironmentPrefix); found {
			environmentVariables[key] = value
		}
	}

	return environmentVariables
}
