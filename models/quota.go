package models

import "time"

// DailyQuota tracks a voter's energy for one calendar day. MaxVotes is a
// snapshot of the level-derived cap taken when the row is lazily created,
// frozen for the day so a mid-day level-up cannot stretch the cap.
// RewardGranted is the completion flag: the single request that both fills
// VotesUsed to MaxVotes and flips this flag owns the reward dispatch.
type DailyQuota struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VoterID       uint      `gorm:"uniqueIndex:idx_quota_voter_day;not null" json:"voter_id"`
	QuotaDate     string    `gorm:"uniqueIndex:idx_quota_voter_day;size:10;not null" json:"quota_date"`
	VotesUsed     int       `gorm:"not null;default:0" json:"votes_used"`
	MaxVotes      int       `gorm:"not null" json:"max_votes"`
	RewardGranted bool      `gorm:"not null;default:false" json:"reward_granted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
