package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports every violated field of a client-side pre-submission
// check, so a form can highlight all invalid fields at once. It is resolved
// locally and never sent to the server.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// NotFoundError reports a stale reference, e.g. a bookmarked portfolio that
// was deleted since. The reconciler resolves the selection deterministically
// before returning it.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ConflictError reports a uniqueness violation detected before submission,
// e.g. adding a symbol already present in a watchlist.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already contains %q", e.Resource, e.Key)
}

// PartialFailure reports a multi-step operation where some steps succeeded.
// Callers must refetch to learn the true resulting state; the client never
// reconstructs it locally.
type PartialFailure struct {
	Succeeded []string
	Failed    map[string]error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%d of %d steps failed", len(e.Failed), len(e.Failed)+len(e.Succeeded))
}
