package voting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanzhub/fanzhub/models"
)

func newTestDispatcher(rewards *fakeRewards, minter *fakeMinter, notifier *fakeNotifier) *Dispatcher {
	d := NewDispatcher(rewards, minter, notifier, 50, 5, time.Millisecond, nil)
	// run the mint step inline so tests stay deterministic
	d.schedule = func(_ time.Duration, f func()) { f() }
	return d
}

func TestDispatcherGrantsBonusAndMints(t *testing.T) {
	rewards := newFakeRewards()
	minter := &fakeMinter{txRef: "0xdeadbeef"}
	notifier := &fakeNotifier{}
	d := newTestDispatcher(rewards, minter, notifier)

	d.Fire(7, "0xwallet", "2026-08-29")

	assert.Equal(t, 50, rewards.grants["7/2026-08-29"])
	require.Len(t, minter.calls, 1)
	assert.Equal(t, mintCall{voterID: 7, wallet: "0xwallet", amount: 5}, minter.calls[0])
	assert.Equal(t, models.MintDone, rewards.outcomes["7/2026-08-29"])
	assert.Equal(t, "0xdeadbeef", rewards.txRefs["7/2026-08-29"])
	assert.Equal(t, []string{models.NotifyRewardGranted, models.NotifyMintDone}, notifier.kinds())
}

func TestDispatcherDuplicateFireIsNoop(t *testing.T) {
	rewards := newFakeRewards()
	minter := &fakeMinter{txRef: "0x1"}
	notifier := &fakeNotifier{}
	d := newTestDispatcher(rewards, minter, notifier)

	d.Fire(7, "0xwallet", "2026-08-29")
	d.Fire(7, "0xwallet", "2026-08-29")
	d.Fire(7, "0xwallet", "2026-08-29")

	assert.Len(t, minter.calls, 1, "mint must run once per voter per day")
	assert.Equal(t, []string{models.NotifyRewardGranted, models.NotifyMintDone}, notifier.kinds())
}

func TestDispatcherNoWallet(t *testing.T) {
	rewards := newFakeRewards()
	minter := &fakeMinter{} // empty wallet returns ErrNoWallet
	notifier := &fakeNotifier{}
	d := newTestDispatcher(rewards, minter, notifier)

	d.Fire(9, "", "2026-08-29")

	assert.Equal(t, 50, rewards.grants["9/2026-08-29"], "bonus survives the mint failure")
	assert.Equal(t, models.MintNoWallet, rewards.outcomes["9/2026-08-29"])
	assert.Equal(t, []string{models.NotifyRewardGranted, models.NotifyWalletNeeded}, notifier.kinds())
}

func TestDispatcherTransientMintFailure(t *testing.T) {
	rewards := newFakeRewards()
	minter := &fakeMinter{err: errTransient}
	notifier := &fakeNotifier{}
	d := newTestDispatcher(rewards, minter, notifier)

	d.Fire(9, "0xwallet", "2026-08-29")

	assert.Equal(t, models.MintFailed, rewards.outcomes["9/2026-08-29"])
	assert.Equal(t, []string{models.NotifyRewardGranted, models.NotifyRewardPending}, notifier.kinds())
	assert.Len(t, minter.calls, 1, "no automatic retry")
}

func TestDispatcherGrantErrorSkipsMint(t *testing.T) {
	rewards := newFakeRewards()
	rewards.grantErr = errTransient
	minter := &fakeMinter{}
	notifier := &fakeNotifier{}
	d := newTestDispatcher(rewards, minter, notifier)

	d.Fire(9, "0xwallet", "2026-08-29")

	assert.Empty(t, minter.calls)
	assert.Empty(t, notifier.kinds())
}
