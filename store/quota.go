package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/voting"
)

// Reserve performs the atomic check-and-increment of the voter's daily energy.
// The quota row is created lazily with the cap frozen at maxVotes; the
// increment is a conditional UPDATE so two requests can never spend the same
// unit, and the completion flag is claimed with a second conditional UPDATE so
// at most one request per day observes CompletionClaimed.
func (s *Store) Reserve(ctx context.Context, voterID uint, day string, maxVotes int) (voting.Reservation, error) {
	db := s.db.WithContext(ctx)

	// Lazy row creation; a concurrent creator wins silently.
	row := models.DailyQuota{VoterID: voterID, QuotaDate: day, VotesUsed: 0, MaxVotes: maxVotes}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return voting.Reservation{}, err
	}

	res := db.Model(&models.DailyQuota{}).
		Where("voter_id = ? AND quota_date = ? AND votes_used < max_votes", voterID, day).
		UpdateColumn("votes_used", gorm.Expr("votes_used + 1"))
	if res.Error != nil {
		return voting.Reservation{}, res.Error
	}
	allowed := res.RowsAffected == 1

	var current models.DailyQuota
	if err := db.Where("voter_id = ? AND quota_date = ?", voterID, day).First(&current).Error; err != nil {
		return voting.Reservation{}, err
	}

	reservation := voting.Reservation{
		Allowed:        allowed,
		FirstVoteToday: true,
		VotesUsed:      current.VotesUsed,
		MaxVotes:       current.MaxVotes,
	}

	if allowed && current.VotesUsed >= current.MaxVotes {
		claim := db.Model(&models.DailyQuota{}).
			Where("voter_id = ? AND quota_date = ? AND reward_granted = ?", voterID, day, false).
			UpdateColumn("reward_granted", true)
		if claim.Error != nil {
			return voting.Reservation{}, claim.Error
		}
		reservation.CompletionClaimed = claim.RowsAffected == 1
	}

	return reservation, nil
}

// Release gives back one reserved unit after a failed ledger mutation.
func (s *Store) Release(ctx context.Context, voterID uint, day string, unclaim bool) error {
	updates := map[string]interface{}{
		"votes_used": gorm.Expr("votes_used - 1"),
	}
	if unclaim {
		updates["reward_granted"] = false
	}
	return s.db.WithContext(ctx).Model(&models.DailyQuota{}).
		Where("voter_id = ? AND quota_date = ? AND votes_used > 0", voterID, day).
		Updates(updates).Error
}

// Status returns the current counter; (0, 0, nil) when no row exists yet.
func (s *Store) Status(ctx context.Context, voterID uint, day string) (used, max int, err error) {
	var row models.DailyQuota
	if err := s.db.WithContext(ctx).Where("voter_id = ? AND quota_date = ?", voterID, day).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return row.VotesUsed, row.MaxVotes, nil
}
