// Package reconcile merges allow-list change requests against the list
// recovered from an existing configuration. It is pure value-in, value-out
// logic: the current list is never mutated, and the caller decides how to
// report the outcome.
package reconcile

import (
	"errors"

	"dantectl/pkg/addr"
)

var (
	// ErrNoEntries reports a run with no prior allow-list and no additions;
	// there is nothing to seed the configuration with.
	ErrNoEntries = errors.New("no allow list entries")

	// ErrWouldBeEmpty reports removals that would leave the allow-list
	// empty. A configuration that permits no one is never produced.
	ErrWouldBeEmpty = errors.New("allow list would be empty")
)

// Result describes one reconciliation outcome.
type Result struct {
	List    addr.List   // final entries: original order, additions appended
	Added   []addr.Spec // entries appended this run
	Removed []addr.Spec // entries deleted this run
	Skipped []addr.Spec // removal targets that were not present
}

// Apply merges toAdd and toRemove into current and returns the new list.
//
// Additions are appended in input order and deduplicated against the list;
// an entry that is already present is absorbed silently. Removals are then
// applied in input order; a target that is not present lands in Skipped for
// the caller to warn about and does not fail the run. The non-empty
// invariant is checked only after all changes are applied.
func Apply(current addr.List, toAdd, toRemove []addr.Spec) (Result, error) {
	if len(current) == 0 && len(toAdd) == 0 {
		return Result{}, ErrNoEntries
	}

	res := Result{List: current.Clone()}

	for _, spec := range toAdd {
		if res.List.Contains(spec) {
			continue
		}
		res.List = append(res.List, spec)
		res.Added = append(res.Added, spec)
	}

	for _, spec := range toRemove {
		i := res.List.Index(spec)
		if i < 0 {
			res.Skipped = append(res.Skipped, spec)
			continue
		}
		res.List = append(res.List[:i], res.List[i+1:]...)
		res.Removed = append(res.Removed, spec)
	}

	if len(res.List) == 0 {
		return Result{}, ErrWouldBeEmpty
	}
	return res, nil
}
