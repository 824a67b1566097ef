// internal/app/system/groupresolve/groupresolve.go

// Package groupresolve expands group selections into concrete recipient
// lists before a reminder is created or re-assigned.
package groupresolve

import (
	"context"

	groupstore "github.com/dalemusser/remindhub/internal/app/store/groups"
)

// Expand returns the deduplicated union of studentIDs and the member lists
// of every group in groupIDs, resolved with a single lookup of all groups.
// Unknown group ids are skipped silently: a stale reference yields a partial
// union rather than an error.
func Expand(ctx context.Context, groups *groupstore.Store, studentIDs, groupIDs []string) ([]string, error) {
	out := make([]string, 0, len(studentIDs))
	seen := make(map[string]struct{}, len(studentIDs))
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range studentIDs {
		add(id)
	}

	if len(groupIDs) == 0 {
		return out, nil
	}

	all, err := groups.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string][]string, len(all))
	for _, g := range all {
		byID[g.ID] = g.StudentIDs
	}

	for _, gid := range groupIDs {
		for _, member := range byID[gid] {
			add(member)
		}
	}
	return out, nil
}
