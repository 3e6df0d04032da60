package voting

// MaxVotesForLevel derives a voter's daily energy cap from their level.
// Levels below 1 are treated as level 1. The result is snapshotted onto the
// day's quota row when it is first created and frozen for that day.
func MaxVotesForLevel(level, base, perLevel int) int {
	if level < 1 {
		level = 1
	}
	return base + perLevel*(level-1)
}
