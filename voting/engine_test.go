package voting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanzhub/fanzhub/models"
)

type engineFixture struct {
	engine   *Engine
	voters   *fakeVoters
	targets  *fakeTargets
	ledger   *fakeLedger
	quota    *fakeQuota
	holdings *fakeHoldings
	rewards  *fakeRewards
	minter   *fakeMinter
	notifier *fakeNotifier
	notary   *fakeNotary
}

func newEngineFixture() *engineFixture {
	targets := map[uint]*models.Target{
		100: {ID: 100, Type: models.TargetTypePost, EntitySlug: "newjeans", EntityName: "NewJeans", Score: 0},
		101: {ID: 101, Type: models.TargetTypeWiki, EntitySlug: "aespa", EntityName: "aespa", Score: 0},
	}
	f := &engineFixture{
		voters: &fakeVoters{users: map[uint]models.User{
			1: {ID: 1, Username: "bunny", WalletAddress: "0xwallet1", Level: 1},
			2: {ID: 2, Username: "my", WalletAddress: "", Level: 2},
			3: {ID: 3, Username: "root", WalletAddress: "0xwallet3", Level: 1},
		}},
		targets:  &fakeTargets{targets: targets},
		ledger:   &fakeLedger{records: make(map[string]*models.VoteRecord), targets: targets},
		quota:    &fakeQuota{rows: make(map[string]*quotaRow)},
		holdings: &fakeHoldings{balances: map[string]int64{"newjeans/0xwallet1": 20}},
		rewards:  newFakeRewards(),
		minter:   &fakeMinter{txRef: "0xtx"},
		notifier: &fakeNotifier{},
		notary:   newFakeNotary(),
	}
	dispatcher := NewDispatcher(f.rewards, f.minter, f.notifier, 50, 5, 0, nil)
	dispatcher.schedule = func(_ time.Duration, fn func()) { fn() }
	f.engine = &Engine{
		Voters:         f.voters,
		Targets:        f.targets,
		Ledger:         f.ledger,
		Quota:          f.quota,
		Weights:        &WeightResolver{Source: f.holdings},
		Notary:         f.notary,
		Dispatcher:     dispatcher,
		BaseDailyVotes: 10,
		VotesPerLevel:  3,
		Exempt:         func(username string) bool { return username == "root" },
		Now:            func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *engineFixture) waitNotary(t *testing.T) {
	t.Helper()
	select {
	case <-f.notary.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notarization never happened")
	}
}

func TestCastWeightedUpvote(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	// bunny holds 20 newjeans tokens, weight 3
	res, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, DirUp, res.Direction)
	assert.Equal(t, int64(3), res.Score)
	assert.Equal(t, 1, res.Quota.Used)
	assert.Equal(t, 10, res.Quota.Max)
	f.waitNotary(t)
	assert.Equal(t, 1, f.notary.callCount())
}

func TestCastWithoutHoldingsDefaultsToWeightOne(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	// voter 2 has no wallet at all; weight degrades to 1
	res, err := f.engine.Cast(ctx, 2, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Score)
}

func TestCastDownvoteIgnoresWeight(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	res, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirDown)
	require.NoError(t, err)
	assert.Equal(t, DirDown, res.Direction)
	assert.Equal(t, int64(-1), res.Score)
	assert.Equal(t, 0, f.notary.callCount(), "downvotes are not notarized")
}

func TestRepeatVoteRetractsAndFreesNoQuota(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	_, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	f.waitNotary(t)

	res, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.Equal(t, DirNone, res.Direction)
	assert.Equal(t, int64(0), res.Score, "retract nets the score back to zero")
	assert.Equal(t, 1, res.Quota.Used, "retract does not refund quota")

	rec, err := f.ledger.CurrentVote(ctx, 1, 100, "2026-08-29")
	require.NoError(t, err)
	assert.Nil(t, rec, "retract deletes the record")
}

func TestSwitchDirectionIsQuotaFree(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	// weight 3 upvote, then switch to down: -(3+1) = -4 from the up-state
	res, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Score)
	f.waitNotary(t)

	res, err = f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirDown)
	require.NoError(t, err)
	assert.Equal(t, DirDown, res.Direction)
	assert.Equal(t, int64(-1), res.Score)
	assert.Equal(t, 1, res.Quota.Used, "switch consumes no quota")

	// switch back up: +(3+1)
	res, err = f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Score)
	assert.Equal(t, 1, res.Quota.Used)
	f.waitNotary(t)
	assert.Equal(t, 2, f.notary.callCount(), "switch to up notarizes again")
}

func TestQuotaExhaustedDeniesFreshTarget(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	// burn the whole quota
	f.quota.rows["1/2026-08-29"] = &quotaRow{used: 10, max: 10, claimed: true}

	res, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, DirNone, res.Direction)
	assert.True(t, res.Quota.Completed)

	rec, err := f.ledger.CurrentVote(ctx, 1, 100, "2026-08-29")
	require.NoError(t, err)
	assert.Nil(t, rec, "denied cast leaves no record")
	assert.Equal(t, int64(0), f.ledger.targets[100].Score)
}

func TestCompletionEdgeFiresDispatcherOnce(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	// one unit left
	f.quota.rows["1/2026-08-29"] = &quotaRow{used: 9, max: 10}

	res, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.True(t, res.Quota.Completed)

	assert.Equal(t, 50, f.rewards.grants["1/2026-08-29"])
	assert.Equal(t, models.MintDone, f.rewards.outcomes["1/2026-08-29"])

	// the next fresh-target attempt is denied and must not re-fire
	res, err = f.engine.Cast(ctx, 1, models.TargetTypeWiki, 101, DirUp)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Len(t, f.minter.calls, 1)
}

func TestExemptVoterSkipsNotarization(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	res, err := f.engine.Cast(ctx, 3, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, f.notary.callCount())
}

func TestTargetTypeMismatchRejected(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	_, err := f.engine.Cast(ctx, 1, models.TargetTypeWiki, 100, DirUp)
	assert.ErrorIs(t, err, ErrTargetTypeMismatch)
}

func TestUnknownVoterAndTarget(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	_, err := f.engine.Cast(ctx, 99, models.TargetTypePost, 100, DirUp)
	assert.ErrorIs(t, err, ErrVoterNotFound)

	_, err = f.engine.Cast(ctx, 1, models.TargetTypePost, 999, DirUp)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestInvalidDirectionRejected(t *testing.T) {
	f := newEngineFixture()
	_, err := f.engine.Cast(context.Background(), 1, models.TargetTypePost, 100, DirNone)
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = f.engine.Cast(context.Background(), 1, models.TargetTypePost, 100, Direction("sideways"))
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestLedgerFailureReleasesReservation(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	f.ledger.failErr = errTransient
	_, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	assert.ErrorIs(t, err, errTransient)

	used, _, err := f.quota.Status(ctx, 1, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 0, used, "failed transition must give the unit back")

	// and a reservation that claimed completion must un-claim it
	f.quota.rows["1/2026-08-29"] = &quotaRow{used: 9, max: 10}
	f.ledger.failErr = errTransient
	_, err = f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	assert.ErrorIs(t, err, errTransient)
	assert.False(t, f.quota.rows["1/2026-08-29"].claimed)
	assert.Empty(t, f.rewards.grants, "dispatcher must not fire on a rolled-back completion")
}

func TestMintDelayedAfterCompletion(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	var delays []time.Duration
	f.engine.Dispatcher.MintDelay = 3 * time.Second
	f.engine.Dispatcher.schedule = func(d time.Duration, fn func()) {
		delays = append(delays, d)
		fn()
	}

	f.quota.rows["1/2026-08-29"] = &quotaRow{used: 9, max: 10}
	_, err := f.engine.Cast(ctx, 1, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)

	require.Len(t, delays, 1)
	assert.Equal(t, 3*time.Second, delays[0])
}

func TestQuotaToday(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	// no row yet: cap comes from level
	status, err := f.engine.QuotaToday(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, QuotaStatus{Used: 0, Max: 13, Completed: false}, status)

	_, err = f.engine.Cast(ctx, 2, models.TargetTypePost, 100, DirUp)
	require.NoError(t, err)

	status, err = f.engine.QuotaToday(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, QuotaStatus{Used: 1, Max: 13, Completed: false}, status)
}
