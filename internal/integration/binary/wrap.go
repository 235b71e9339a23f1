package binary

import (
	"os/exec"
)

// Available checks if a binary is available in the system PATH. Names containing a path
// separator are checked as-is.
func Available(binName string) (string, bool) {
	path, err := exec.LookPath(binName)

	return path, err == nil
}

// First returns the first of candidates that is available.
func First(candidates ...string) (string, string, bool) {
	for _, name := range candidates {
		if path, ok := Available(name); ok {
			return name, path, true
		}
	}

	return "", "", false
}
