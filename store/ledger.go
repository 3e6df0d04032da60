package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/voting"
)

// CurrentVote returns the voter's record for (target, day), or nil when none.
func (s *Store) CurrentVote(ctx context.Context, voterID, targetID uint, day string) (*models.VoteRecord, error) {
	var rec models.VoteRecord
	err := s.db.WithContext(ctx).
		Where("voter_id = ? AND target_id = ? AND vote_date = ?", voterID, targetID, day).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ApplyTransition mutates the vote record and the target's aggregate score in
// one transaction, so a crash can never leave them inconsistent.
func (s *Store) ApplyTransition(ctx context.Context, ch voting.Change) (int64, error) {
	var newScore int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key := tx.Model(&models.VoteRecord{}).
			Where("voter_id = ? AND target_id = ? AND vote_date = ?", ch.VoterID, ch.TargetID, ch.Day)

		switch {
		case ch.Next == voting.DirNone:
			// Retract: delete the record.
			if err := tx.Where("voter_id = ? AND target_id = ? AND vote_date = ?", ch.VoterID, ch.TargetID, ch.Day).
				Delete(&models.VoteRecord{}).Error; err != nil {
				return err
			}
		case ch.Prev == voting.DirNone:
			rec := models.VoteRecord{
				VoterID:      ch.VoterID,
				TargetID:     ch.TargetID,
				TargetType:   ch.TargetType,
				VoteDate:     ch.Day,
				Direction:    string(ch.Next),
				AppliedScore: ch.AppliedScore,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		default:
			// Switch: rewrite direction and the applied snapshot.
			if err := key.Updates(map[string]interface{}{
				"direction":     string(ch.Next),
				"applied_score": ch.AppliedScore,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Target{}).
			Where("id = ?", ch.TargetID).
			UpdateColumn("score", gorm.Expr("score + ?", ch.ScoreDelta)).Error; err != nil {
			return err
		}

		var target models.Target
		if err := tx.Select("score").First(&target, ch.TargetID).Error; err != nil {
			return err
		}
		newScore = target.Score
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newScore, nil
}

// VotesForVoter returns the voter's current ledger rows for a day, optionally
// filtered by target type. Used by the client to hydrate its vote state.
func (s *Store) VotesForVoter(ctx context.Context, voterID uint, day, targetType string) ([]models.VoteRecord, error) {
	q := s.db.WithContext(ctx).Where("voter_id = ? AND vote_date = ?", voterID, day)
	if targetType != "" {
		q = q.Where("target_type = ?", targetType)
	}
	var recs []models.VoteRecord
	if err := q.Order("updated_at DESC").Limit(200).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
