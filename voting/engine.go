package voting

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

// Engine orchestrates one cast-vote action: weight resolution, quota
// reservation, the ledger transition, notarization and reward dispatch.
// All collaborators are injected so the engine is testable without MySQL,
// Redis or live external services.
type Engine struct {
	Voters     VoterStore
	Targets    TargetStore
	Ledger     LedgerStore
	Quota      QuotaStore
	Weights    *WeightResolver
	Notary     Notary
	Dispatcher *Dispatcher

	BaseDailyVotes int
	VotesPerLevel  int

	// Exempt reports whether a voter is privileged and skipped for
	// notarization (admins, staff accounts).
	Exempt func(username string) bool

	Log *zap.SugaredLogger

	// Now is the server clock; overridable in tests for day-rollover cases.
	Now func() time.Time
}

func (e *Engine) today() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().Format(dayLayout)
}

// Cast applies one vote action for voterID on (targetType, targetID).
// The returned CastResult is the authoritative post-state; Allowed=false with
// a nil error is the normal "daily limit reached" outcome.
func (e *Engine) Cast(ctx context.Context, voterID uint, targetType string, targetID uint, requested Direction) (CastResult, error) {
	if requested != DirUp && requested != DirDown {
		return CastResult{}, ErrInvalidDirection
	}

	voter, err := e.Voters.Voter(ctx, voterID)
	if err != nil {
		return CastResult{}, err
	}
	target, err := e.Targets.Target(ctx, targetID)
	if err != nil {
		return CastResult{}, err
	}
	if target.Type != targetType {
		return CastResult{}, ErrTargetTypeMismatch
	}

	day := e.today()

	prevRec, err := e.Ledger.CurrentVote(ctx, voterID, targetID, day)
	if err != nil {
		return CastResult{}, err
	}
	prev := DirNone
	prevApplied := 0
	if prevRec != nil {
		prev = Direction(prevRec.Direction)
		prevApplied = prevRec.AppliedScore
	}

	var res Reservation
	if prevRec == nil {
		// First vote on this target today: the only metered path.
		maxVotes := MaxVotesForLevel(voter.Level, e.BaseDailyVotes, e.VotesPerLevel)
		res, err = e.Quota.Reserve(ctx, voterID, day, maxVotes)
		if err != nil {
			return CastResult{}, err
		}
		if !res.Allowed {
			return CastResult{
				Allowed:   false,
				Direction: DirNone,
				Score:     target.Score,
				Quota:     QuotaStatus{Used: res.VotesUsed, Max: res.MaxVotes, Completed: res.VotesUsed >= res.MaxVotes},
			}, nil
		}
	} else {
		// Switches and retracts bypass the quota entirely.
		used, max, serr := e.Quota.Status(ctx, voterID, day)
		if serr != nil {
			return CastResult{}, serr
		}
		if max == 0 {
			max = MaxVotesForLevel(voter.Level, e.BaseDailyVotes, e.VotesPerLevel)
		}
		res = Reservation{Allowed: true, VotesUsed: used, MaxVotes: max}
	}

	next := NextDirection(prev, requested)
	weight := 1.0
	if next == DirUp {
		weight = e.Weights.Resolve(ctx, target.EntitySlug, voter.WalletAddress)
	}
	nextApplied := AppliedForDirection(next, weight)
	delta := ScoreDelta(prev, next, prevApplied, nextApplied)

	newScore, err := e.Ledger.ApplyTransition(ctx, Change{
		VoterID:      voterID,
		TargetID:     targetID,
		TargetType:   targetType,
		Day:          day,
		Prev:         prev,
		Next:         next,
		AppliedScore: nextApplied,
		ScoreDelta:   delta,
	})
	if err != nil {
		if prevRec == nil {
			// Give back the unit we reserved so the failure is all-or-nothing.
			if rerr := e.Quota.Release(ctx, voterID, day, res.CompletionClaimed); rerr != nil && e.Log != nil {
				e.Log.Errorf("quota release failed voter=%d day=%s: %v", voterID, day, rerr)
			}
			res.CompletionClaimed = false
		}
		return CastResult{}, err
	}

	// Best-effort provenance for a voter's first upvote on this target today.
	if next == DirUp && prev != DirUp && e.Notary != nil && !e.isExempt(voter.Username) {
		go e.notarize(voterID, target.EntityName)
	}

	if res.CompletionClaimed && e.Dispatcher != nil {
		e.Dispatcher.Fire(voterID, voter.WalletAddress, day)
	}

	return CastResult{
		Allowed:   true,
		Direction: next,
		Score:     newScore,
		Quota:     QuotaStatus{Used: res.VotesUsed, Max: res.MaxVotes, Completed: res.VotesUsed >= res.MaxVotes},
	}, nil
}

// QuotaToday returns the voter's current energy status, deriving the
// prospective cap from level when no votes were cast yet today.
func (e *Engine) QuotaToday(ctx context.Context, voterID uint) (QuotaStatus, error) {
	voter, err := e.Voters.Voter(ctx, voterID)
	if err != nil {
		return QuotaStatus{}, err
	}
	used, max, err := e.Quota.Status(ctx, voterID, e.today())
	if err != nil {
		return QuotaStatus{}, err
	}
	if max == 0 {
		max = MaxVotesForLevel(voter.Level, e.BaseDailyVotes, e.VotesPerLevel)
	}
	return QuotaStatus{Used: used, Max: max, Completed: used >= max}, nil
}

func (e *Engine) isExempt(username string) bool {
	return e.Exempt != nil && e.Exempt(username)
}

func (e *Engine) notarize(voterID uint, entityName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Notary.Record(ctx, voterID, entityName, 1); err != nil && e.Log != nil {
		// Provenance only; swallowed without surfacing to the voter.
		e.Log.Debugf("vote notarization failed voter=%d entity=%s: %v", voterID, entityName, err)
	}
}
