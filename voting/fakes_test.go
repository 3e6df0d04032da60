package voting

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fanzhub/fanzhub/models"
)

// In-memory collaborators for engine and dispatcher tests.

type fakeHoldings struct {
	balances map[string]int64 // key: entitySlug + "/" + wallet
}

func (f *fakeHoldings) Balance(_ context.Context, entitySlug, wallet string) (int64, bool) {
	b, ok := f.balances[entitySlug+"/"+wallet]
	return b, ok
}

type fakeVoters struct {
	users map[uint]models.User
}

func (f *fakeVoters) Voter(_ context.Context, id uint) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, ErrVoterNotFound
	}
	return u, nil
}

type fakeTargets struct {
	targets map[uint]*models.Target
}

func (f *fakeTargets) Target(_ context.Context, id uint) (models.Target, error) {
	t, ok := f.targets[id]
	if !ok {
		return models.Target{}, ErrTargetNotFound
	}
	return *t, nil
}

type fakeLedger struct {
	mu      sync.Mutex
	records map[string]*models.VoteRecord // key: voter/target/day
	targets map[uint]*models.Target
	failMu  sync.Mutex
	failErr error // next ApplyTransition fails with this
}

func ledgerKey(voterID, targetID uint, day string) string {
	return fmt.Sprintf("%d/%d/%s", voterID, targetID, day)
}

func (f *fakeLedger) CurrentVote(_ context.Context, voterID, targetID uint, day string) (*models.VoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[ledgerKey(voterID, targetID, day)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeLedger) ApplyTransition(_ context.Context, ch Change) (int64, error) {
	f.failMu.Lock()
	if f.failErr != nil {
		err := f.failErr
		f.failErr = nil
		f.failMu.Unlock()
		return 0, err
	}
	f.failMu.Unlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	key := ledgerKey(ch.VoterID, ch.TargetID, ch.Day)
	switch ch.Next {
	case DirNone:
		delete(f.records, key)
	default:
		f.records[key] = &models.VoteRecord{
			VoterID:      ch.VoterID,
			TargetID:     ch.TargetID,
			VoteDate:     ch.Day,
			TargetType:   ch.TargetType,
			Direction:    string(ch.Next),
			AppliedScore: ch.AppliedScore,
		}
	}
	tgt := f.targets[ch.TargetID]
	tgt.Score += int64(ch.ScoreDelta)
	return tgt.Score, nil
}

type quotaRow struct {
	used    int
	max     int
	claimed bool
}

type fakeQuota struct {
	mu   sync.Mutex
	rows map[string]*quotaRow // key: voter/day
}

func quotaKey(voterID uint, day string) string {
	return fmt.Sprintf("%d/%s", voterID, day)
}

func (f *fakeQuota) Reserve(_ context.Context, voterID uint, day string, maxVotes int) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[quotaKey(voterID, day)]
	if !ok {
		row = &quotaRow{max: maxVotes}
		f.rows[quotaKey(voterID, day)] = row
	}
	res := Reservation{MaxVotes: row.max, FirstVoteToday: row.used == 0}
	if row.used >= row.max {
		res.VotesUsed = row.used
		return res, nil
	}
	row.used++
	res.Allowed = true
	res.VotesUsed = row.used
	if row.used >= row.max && !row.claimed {
		row.claimed = true
		res.CompletionClaimed = true
	}
	return res, nil
}

func (f *fakeQuota) Release(_ context.Context, voterID uint, day string, unclaim bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[quotaKey(voterID, day)]
	if !ok || row.used == 0 {
		return nil
	}
	row.used--
	if unclaim {
		row.claimed = false
	}
	return nil
}

func (f *fakeQuota) Status(_ context.Context, voterID uint, day string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[quotaKey(voterID, day)]
	if !ok {
		return 0, 0, nil
	}
	return row.used, row.max, nil
}

type mintCall struct {
	voterID uint
	wallet  string
	amount  int
}

type fakeRewards struct {
	mu       sync.Mutex
	grants   map[string]int    // voter/day -> points
	outcomes map[string]string // voter/day -> status
	txRefs   map[string]string
	grantErr error
}

func newFakeRewards() *fakeRewards {
	return &fakeRewards{
		grants:   make(map[string]int),
		outcomes: make(map[string]string),
		txRefs:   make(map[string]string),
	}
}

func (f *fakeRewards) GrantBonus(_ context.Context, voterID uint, day string, points int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grantErr != nil {
		return false, f.grantErr
	}
	key := quotaKey(voterID, day)
	if _, exists := f.grants[key]; exists {
		return false, nil
	}
	f.grants[key] = points
	return true, nil
}

func (f *fakeRewards) SetMintOutcome(_ context.Context, voterID uint, day, status, txRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := quotaKey(voterID, day)
	f.outcomes[key] = status
	f.txRefs[key] = txRef
	return nil
}

type fakeMinter struct {
	mu    sync.Mutex
	calls []mintCall
	err   error
	txRef string
}

func (f *fakeMinter) MintDaily(_ context.Context, voterID uint, wallet string, amount int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, mintCall{voterID: voterID, wallet: wallet, amount: amount})
	if f.err != nil {
		return "", f.err
	}
	if wallet == "" {
		return "", ErrNoWallet
	}
	return f.txRef, nil
}

type notice struct {
	userID  uint
	kind    string
	message string
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (f *fakeNotifier) Notify(_ context.Context, userID uint, kind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice{userID: userID, kind: kind, message: message})
}

func (f *fakeNotifier) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.notices))
	for _, n := range f.notices {
		out = append(out, n.kind)
	}
	return out
}

type fakeNotary struct {
	mu    sync.Mutex
	calls []string // entity names
	done  chan struct{}
	err   error
}

func newFakeNotary() *fakeNotary {
	return &fakeNotary{done: make(chan struct{}, 16)}
}

func (f *fakeNotary) Record(_ context.Context, _ uint, entityName string, _ int) error {
	f.mu.Lock()
	f.calls = append(f.calls, entityName)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func (f *fakeNotary) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var errTransient = errors.New("upstream unavailable")
