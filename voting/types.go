package voting

import (
	"context"
	"errors"

	"github.com/fanzhub/fanzhub/models"
)

// Direction is a vote direction. The zero value means "no vote".
type Direction string

const (
	DirNone Direction = ""
	DirUp   Direction = "up"
	DirDown Direction = "down"
)

var (
	// ErrInvalidDirection is returned when a cast request carries neither up nor down.
	ErrInvalidDirection = errors.New("invalid vote direction")
	// ErrVoterNotFound is returned when the voter id does not resolve to an account.
	ErrVoterNotFound = errors.New("voter not found")
	// ErrTargetNotFound is returned when the target id does not resolve.
	ErrTargetNotFound = errors.New("target not found")
	// ErrTargetTypeMismatch is returned when the request's target type does not match the stored one.
	ErrTargetTypeMismatch = errors.New("target type mismatch")
	// ErrNoWallet is the distinguishable mint failure for voters without a provisioned wallet.
	ErrNoWallet = errors.New("no wallet provisioned")
)

// HoldingsSource provides cached fan-token balances for (entity, wallet) pairs.
// The boolean reports whether a balance was actually found; callers must treat
// a miss as "unknown", not zero.
type HoldingsSource interface {
	Balance(ctx context.Context, entitySlug, wallet string) (int64, bool)
}

// Minter mints the daily fanz allotment for a voter. Implementations return
// ErrNoWallet (possibly wrapped) when the voter has no wallet provisioned.
type Minter interface {
	MintDaily(ctx context.Context, voterID uint, wallet string, amount int) (txRef string, err error)
}

// Notary receives best-effort vote provenance events. Failures are logged by
// the caller and never affect the vote itself.
type Notary interface {
	Record(ctx context.Context, voterID uint, entityName string, votes int) error
}

// VoterStore resolves voter accounts.
type VoterStore interface {
	Voter(ctx context.Context, id uint) (models.User, error)
}

// TargetStore resolves vote targets.
type TargetStore interface {
	Target(ctx context.Context, id uint) (models.Target, error)
}

// LedgerStore owns vote records and the target aggregate score. ApplyTransition
// must mutate the record and the score as one atomic unit.
type LedgerStore interface {
	CurrentVote(ctx context.Context, voterID, targetID uint, day string) (*models.VoteRecord, error)
	ApplyTransition(ctx context.Context, ch Change) (newScore int64, err error)
}

// QuotaStore owns the per-(voter, day) energy counter. Reserve must be atomic
// with respect to concurrent calls for the same voter and day: at most one
// caller wins the last unit, and at most one caller ever observes
// CompletionClaimed for a given day.
type QuotaStore interface {
	Reserve(ctx context.Context, voterID uint, day string, maxVotes int) (Reservation, error)
	// Release undoes a reservation after a failed ledger mutation. When unclaim
	// is true the completion flag taken by that reservation is cleared too.
	Release(ctx context.Context, voterID uint, day string, unclaim bool) error
	// Status returns the current counter; (0, 0, nil) when no row exists yet.
	Status(ctx context.Context, voterID uint, day string) (used, max int, err error)
}

// RewardStore persists completion rewards. GrantBonus returns granted=false
// when the (voter, day) bonus already exists, which makes duplicate dispatch a
// no-op.
type RewardStore interface {
	GrantBonus(ctx context.Context, voterID uint, day string, points int) (granted bool, err error)
	SetMintOutcome(ctx context.Context, voterID uint, day, status, txRef string) error
}

// Notifier delivers out-of-band messages to users. Best-effort.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind, message string)
}

// Reservation is the outcome of a quota check-and-reserve.
type Reservation struct {
	Allowed           bool
	FirstVoteToday    bool
	CompletionClaimed bool
	VotesUsed         int
	MaxVotes          int
}

// Change describes one ledger transition: the record mutation plus the score
// delta to apply to the target, executed atomically by the store.
type Change struct {
	VoterID      uint
	TargetID     uint
	TargetType   string
	Day          string
	Prev         Direction
	Next         Direction // DirNone deletes the record (retract)
	AppliedScore int       // snapshot stored on the new record; 0 on retract
	ScoreDelta   int
}

// QuotaStatus reports today's energy for a voter.
type QuotaStatus struct {
	Used      int  `json:"used"`
	Max       int  `json:"max"`
	Completed bool `json:"completed"`
}

// CastResult is the authoritative post-state returned for every vote action.
type CastResult struct {
	Allowed   bool        `json:"allowed"`
	Direction Direction   `json:"direction"`
	Score     int64       `json:"score"`
	Quota     QuotaStatus `json:"quota"`
}
