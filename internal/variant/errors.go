package variant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned by Lookup for an unregistered identifier.
var ErrUnknownVariant = errors.New("unknown variant")

// Issue is a single structural problem in a variant table.
type Issue struct {
	Variant string
	Field   string
	Message string
}

// DefectError aggregates configuration defects found while building a
// registry. It is a deployment problem, not a request problem.
type DefectError struct {
	Issues []Issue
}

func (err *DefectError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "variant configuration defect"
	}
	lines := make([]string, 0, len(err.Issues)+1)
	lines = append(lines, fmt.Sprintf("variant configuration defect (%d issues):", len(err.Issues)))
	for _, is := range err.Issues {
		lines = append(lines, fmt.Sprintf("  %s: %s: %s", is.Variant, is.Field, is.Message))
	}
	return strings.Join(lines, "\n")
}
