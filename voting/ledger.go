package voting

// NextDirection applies toggle semantics: requesting the direction already on
// record retracts it, anything else lands on the requested direction.
func NextDirection(prev, requested Direction) Direction {
	if prev == requested {
		return DirNone
	}
	return requested
}

// AppliedForDirection returns the score magnitude to snapshot on a record:
// the rounded weight for an upvote, unit for a downvote, zero otherwise.
func AppliedForDirection(dir Direction, weight float64) int {
	switch dir {
	case DirUp:
		return AppliedScore(weight)
	case DirDown:
		return 1
	default:
		return 0
	}
}

// ScoreDelta returns the aggregate score delta for a ledger transition.
// prevApplied is the magnitude snapshotted when the previous vote was cast,
// nextApplied the magnitude for the new record. Retracts and switches reverse
// exactly what was applied, so a retract always nets to zero against the
// original vote regardless of holdings changes in between.
func ScoreDelta(prev, next Direction, prevApplied, nextApplied int) int {
	switch {
	case prev == DirNone && next == DirUp:
		return nextApplied
	case prev == DirNone && next == DirDown:
		return -1
	case prev == DirUp && next == DirNone:
		return -prevApplied
	case prev == DirDown && next == DirNone:
		return 1
	case prev == DirUp && next == DirDown:
		return -(prevApplied + 1)
	case prev == DirDown && next == DirUp:
		return nextApplied + 1
	}
	return 0
}
