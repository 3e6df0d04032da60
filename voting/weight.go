package voting

import (
	"context"
	"math"
)

// WeightForHoldings maps a voter's fan-token balance for a target's entity to
// the upvote multiplier. Monotonic step function; downvotes ignore it.
func WeightForHoldings(count int64) float64 {
	switch {
	case count >= 100:
		return 5
	case count >= 50:
		return 4
	case count >= 20:
		return 3
	case count >= 5:
		return 2
	case count >= 1:
		return 1.5
	default:
		return 1
	}
}

// AppliedScore converts a weight to the integer charged against the target per
// vote. Rounding is to the nearest integer, so the 1.5 small-holder tier
// applies as 2. This is the single place the rounding rule lives.
func AppliedScore(weight float64) int {
	return int(math.Round(weight))
}

// WeightResolver derives the upvote multiplier from a holdings source. It is a
// best-effort amplifier: a nil source, a cold cache, or missing identifiers
// all degrade to weight 1, never to an error.
type WeightResolver struct {
	Source HoldingsSource
}

// Resolve returns the weight for a voter's wallet against an entity.
func (r *WeightResolver) Resolve(ctx context.Context, entitySlug, wallet string) float64 {
	if r == nil || r.Source == nil || entitySlug == "" || wallet == "" {
		return 1
	}
	balance, ok := r.Source.Balance(ctx, entitySlug, wallet)
	if !ok {
		return 1
	}
	return WeightForHoldings(balance)
}
