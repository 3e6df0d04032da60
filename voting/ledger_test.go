package voting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextDirection(t *testing.T) {
	assert.Equal(t, DirUp, NextDirection(DirNone, DirUp))
	assert.Equal(t, DirDown, NextDirection(DirNone, DirDown))
	assert.Equal(t, DirNone, NextDirection(DirUp, DirUp), "repeat retracts")
	assert.Equal(t, DirNone, NextDirection(DirDown, DirDown), "repeat retracts")
	assert.Equal(t, DirDown, NextDirection(DirUp, DirDown), "switch")
	assert.Equal(t, DirUp, NextDirection(DirDown, DirUp), "switch")
}

func TestAppliedForDirection(t *testing.T) {
	assert.Equal(t, 2, AppliedForDirection(DirUp, 1.5))
	assert.Equal(t, 5, AppliedForDirection(DirUp, 5))
	assert.Equal(t, 1, AppliedForDirection(DirDown, 5), "downvotes ignore weight")
	assert.Equal(t, 0, AppliedForDirection(DirNone, 5))
}

func TestScoreDelta(t *testing.T) {
	cases := []struct {
		name        string
		prev, next  Direction
		prevApplied int
		nextApplied int
		want        int
	}{
		{"new upvote", DirNone, DirUp, 0, 3, 3},
		{"new downvote", DirNone, DirDown, 0, 1, -1},
		{"retract upvote", DirUp, DirNone, 3, 0, -3},
		{"retract downvote", DirDown, DirNone, 1, 0, 1},
		{"switch up to down", DirUp, DirDown, 3, 1, -4},
		{"switch down to up", DirDown, DirUp, 1, 4, 5},
		{"no-op", DirNone, DirNone, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScoreDelta(tc.prev, tc.next, tc.prevApplied, tc.nextApplied))
		})
	}
}

// A retract must reverse the snapshotted magnitude even when the voter's
// holdings changed between cast and retract.
func TestRetractUsesSnapshotNotCurrentWeight(t *testing.T) {
	applied := AppliedForDirection(DirUp, 5) // cast as a whale
	score := 0
	score += ScoreDelta(DirNone, DirUp, 0, applied)
	assert.Equal(t, 5, score)

	// Holdings dropped to nothing; retract still removes exactly 5.
	score += ScoreDelta(DirUp, DirNone, applied, 0)
	assert.Equal(t, 0, score)
}

func TestMaxVotesForLevel(t *testing.T) {
	assert.Equal(t, 10, MaxVotesForLevel(1, 10, 3))
	assert.Equal(t, 13, MaxVotesForLevel(2, 10, 3))
	assert.Equal(t, 37, MaxVotesForLevel(10, 10, 3))
	assert.Equal(t, 10, MaxVotesForLevel(0, 10, 3), "levels below 1 clamp to 1")
	assert.Equal(t, 10, MaxVotesForLevel(-5, 10, 3))
}
