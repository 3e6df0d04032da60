package models

import "time"

// Vote directions as stored in the ledger. A missing row means "no vote".
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// VoteRecord is the per-(voter, target, day) ledger entry. The unique index
// guarantees at most one row per key; a repeated action on the same day is a
// switch or retract of this row, never a second row. AppliedScore snapshots
// the weighted magnitude charged to the target at vote time so retracts and
// switches reverse exactly what was applied, even if holdings changed since.
type VoteRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	VoterID      uint      `gorm:"uniqueIndex:idx_vote_voter_target_day;not null" json:"voter_id"`
	TargetID     uint      `gorm:"uniqueIndex:idx_vote_voter_target_day;index;not null" json:"target_id"`
	TargetType   string    `gorm:"size:16;not null" json:"target_type"`
	VoteDate     string    `gorm:"uniqueIndex:idx_vote_voter_target_day;size:10;not null" json:"vote_date"`
	Direction    string    `gorm:"size:8;not null" json:"direction"`
	AppliedScore int       `gorm:"not null" json:"applied_score"`
	TxRef        string    `gorm:"size:128" json:"tx_ref"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
