// Package preflight validates required directories before a dump run.
package preflight

import (
	"fmt"
	"os"

	"github.com/veil-tools/veil/cmd/veil/internal/constants"
)

// Result reports the outcome of a single directory check.
type Result struct {
	Path    string
	Exists  bool
	Created bool
}

// EnsureDirs checks that every path exists as a directory, creating missing
// ones. It stops at the first failure and reports results for the checks
// that ran.
func EnsureDirs(paths []string) ([]Result, error) {
	var results []Result

	for _, path := range paths {
		result := Result{Path: path}

		info, err := os.Stat(path)
		switch {
		case err == nil:
			if !info.IsDir() {
				return append(results, result), fmt.Errorf("path exists but is not a directory: %s", path)
			}
			result.Exists = true

		case os.IsNotExist(err):
			if err := os.MkdirAll(path, constants.DirPermissions); err != nil {
				return append(results, result), fmt.Errorf("failed to create directory %s: %w", path, err)
			}
			result.Created = true

		default:
			return append(results, result), fmt.Errorf("failed to check path %s: %w", path, err)
		}

		results = append(results, result)
	}

	return results, nil
}
