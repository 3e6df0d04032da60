package voting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightForHoldings(t *testing.T) {
	cases := []struct {
		name    string
		count   int64
		weight  float64
		applied int
	}{
		{"no holdings", 0, 1, 1},
		{"single token", 1, 1.5, 2},
		{"small holder upper edge", 4, 1.5, 2},
		{"tier two lower edge", 5, 2, 2},
		{"tier two upper edge", 19, 2, 2},
		{"tier three lower edge", 20, 3, 3},
		{"tier three upper edge", 49, 3, 3},
		{"tier four lower edge", 50, 4, 4},
		{"tier four upper edge", 99, 4, 4},
		{"whale", 100, 5, 5},
		{"mega whale", 100000, 5, 5},
		{"negative balance treated as none", -3, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := WeightForHoldings(tc.count)
			assert.Equal(t, tc.weight, w)
			assert.Equal(t, tc.applied, AppliedScore(w))
		})
	}
}

func TestWeightMonotonic(t *testing.T) {
	prev := 0.0
	for count := int64(0); count <= 200; count++ {
		w := WeightForHoldings(count)
		assert.GreaterOrEqual(t, w, prev, "weight must never decrease, count=%d", count)
		prev = w
	}
}

func TestWeightResolverDegradesToOne(t *testing.T) {
	ctx := context.Background()
	src := &fakeHoldings{balances: map[string]int64{"newjeans/0xabc": 50}}

	var nilResolver *WeightResolver
	assert.Equal(t, 1.0, nilResolver.Resolve(ctx, "newjeans", "0xabc"))

	r := &WeightResolver{}
	assert.Equal(t, 1.0, r.Resolve(ctx, "newjeans", "0xabc"), "nil source")

	r = &WeightResolver{Source: src}
	assert.Equal(t, 1.0, r.Resolve(ctx, "", "0xabc"), "empty entity")
	assert.Equal(t, 1.0, r.Resolve(ctx, "newjeans", ""), "empty wallet")
	assert.Equal(t, 1.0, r.Resolve(ctx, "aespa", "0xabc"), "cache miss")

	assert.Equal(t, 4.0, r.Resolve(ctx, "newjeans", "0xabc"))
}
