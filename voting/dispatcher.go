package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fanzhub/fanzhub/models"
)

// Dispatcher fires the one-time daily completion reward: an immediate bonus
// points grant, then a delayed fanz token mint. It is safe to invoke more than
// once per (voter, day); the grant row's uniqueness turns duplicates into
// no-ops.
type Dispatcher struct {
	Rewards     RewardStore
	Minter      Minter
	Notifier    Notifier
	BonusPoints int
	MintAmount  int
	MintDelay   time.Duration
	Log         *zap.SugaredLogger

	// schedule defers the mint step; replaced in tests to run inline.
	schedule func(d time.Duration, f func())
}

// NewDispatcher wires a dispatcher with the production scheduler.
func NewDispatcher(rewards RewardStore, minter Minter, notifier Notifier, bonus, mintAmount int, mintDelay time.Duration, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		Rewards:     rewards,
		Minter:      minter,
		Notifier:    notifier,
		BonusPoints: bonus,
		MintAmount:  mintAmount,
		MintDelay:   mintDelay,
		Log:         log,
		schedule:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Fire grants the bonus and schedules the mint. Called on the completion edge;
// runs detached from the originating request's lifecycle, so it uses its own
// contexts.
func (d *Dispatcher) Fire(voterID uint, wallet, day string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	granted, err := d.Rewards.GrantBonus(ctx, voterID, day, d.BonusPoints)
	if err != nil {
		if d.Log != nil {
			d.Log.Errorf("completion bonus grant failed voter=%d day=%s: %v", voterID, day, err)
		}
		return
	}
	if !granted {
		// Duplicate trigger for a day already rewarded.
		return
	}

	if d.Notifier != nil {
		d.Notifier.Notify(ctx, voterID, models.NotifyRewardGranted,
			fmt.Sprintf("Daily energy complete! %d bonus points added.", d.BonusPoints))
	}

	sched := d.schedule
	if sched == nil {
		sched = func(delay time.Duration, f func()) { time.AfterFunc(delay, f) }
	}
	sched(d.MintDelay, func() { d.mint(voterID, wallet, day) })
}

// mint performs the delayed token mint. A step-2 failure never undoes the
// already-granted bonus; outcomes are recorded on the grant row and surfaced
// as notifications.
func (d *Dispatcher) mint(voterID uint, wallet, day string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	txRef, err := d.Minter.MintDaily(ctx, voterID, wallet, d.MintAmount)
	switch {
	case errors.Is(err, ErrNoWallet):
		if serr := d.Rewards.SetMintOutcome(ctx, voterID, day, models.MintNoWallet, ""); serr != nil && d.Log != nil {
			d.Log.Warnf("record mint outcome failed voter=%d: %v", voterID, serr)
		}
		if d.Notifier != nil {
			d.Notifier.Notify(ctx, voterID, models.NotifyWalletNeeded,
				"Your daily fanz reward is waiting. Set up a wallet to receive it.")
		}
	case err != nil:
		if d.Log != nil {
			d.Log.Warnf("daily mint failed voter=%d day=%s: %v", voterID, day, err)
		}
		if serr := d.Rewards.SetMintOutcome(ctx, voterID, day, models.MintFailed, ""); serr != nil && d.Log != nil {
			d.Log.Warnf("record mint outcome failed voter=%d: %v", voterID, serr)
		}
		if d.Notifier != nil {
			d.Notifier.Notify(ctx, voterID, models.NotifyRewardPending,
				"Your daily fanz reward is pending and will be delivered later.")
		}
	default:
		if serr := d.Rewards.SetMintOutcome(ctx, voterID, day, models.MintDone, txRef); serr != nil && d.Log != nil {
			d.Log.Warnf("record mint outcome failed voter=%d: %v", voterID, serr)
		}
		if d.Notifier != nil {
			d.Notifier.Notify(ctx, voterID, models.NotifyMintDone,
				fmt.Sprintf("%d fanz minted to your wallet.", d.MintAmount))
		}
	}
}
