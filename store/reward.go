package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fanzhub/fanzhub/models"
	"github.com/fanzhub/fanzhub/utils"
)

// GrantBonus inserts the daily completion bonus and credits the voter's
// points. The unique (voter, day) index on reward_grants makes a duplicate
// attempt insert nothing, in which case granted=false and nothing is credited.
func (s *Store) GrantBonus(ctx context.Context, voterID uint, day string, points int) (bool, error) {
	granted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		grant := models.RewardGrant{
			VoterID:    voterID,
			GrantDate:  day,
			Points:     points,
			MintStatus: models.MintPending,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		granted = true
		return tx.Model(&models.User{}).
			Where("id = ?", voterID).
			UpdateColumn("points", gorm.Expr("points + ?", points)).Error
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

// SetMintOutcome records the mint step's result on the day's grant row.
func (s *Store) SetMintOutcome(ctx context.Context, voterID uint, day, status, txRef string) error {
	return s.db.WithContext(ctx).Model(&models.RewardGrant{}).
		Where("voter_id = ? AND grant_date = ?", voterID, day).
		Updates(map[string]interface{}{
			"mint_status": status,
			"mint_tx_ref": txRef,
			"updated_at":  time.Now(),
		}).Error
}

// Notify writes an out-of-band notification row. Best-effort: failures are
// logged and dropped.
func (s *Store) Notify(ctx context.Context, userID uint, kind, message string) {
	n := models.Notification{UserID: userID, Kind: kind, Message: message}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("notification write failed user=%d kind=%s: %v", userID, kind, err)
	}
}
