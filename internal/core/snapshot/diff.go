package snapshot

// HasChanges reports whether new content appeared between two canonical
// snapshots. It is a pure set-membership diff over folded identities:
// reordering unchanged items never triggers it, only genuinely novel
// identities (or a net size change) do.
//
// Policy cases:
//   - empty new: never a change — content disappearing is not "new
//     content" (deliberate; see DESIGN.md).
//   - empty old, non-empty new: a change. Whether that first observation
//     should notify the user is the check cycle's call, not the differ's.
//   - equal sizes with a differing identity set (an addition paired with
//     a removal): a change, caught by the membership scan below.
func HasChanges(oldSnap, newSnap Snapshot) bool {
	if len(newSnap) == 0 {
		return false
	}
	if len(oldSnap) == 0 {
		return true
	}

	oldSet := identitySet(oldSnap)
	newSet := identitySet(newSnap)
	if len(oldSet) != len(newSet) {
		return true
	}
	for key := range newSet {
		if _, ok := oldSet[key]; !ok {
			return true
		}
	}
	return false
}
