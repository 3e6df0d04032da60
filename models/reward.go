package models

import "time"

// Mint outcome states recorded on a RewardGrant.
const (
	MintPending  = "pending"
	MintDone     = "minted"
	MintNoWallet = "no_wallet"
	MintFailed   = "failed"
)

// RewardGrant records the one-time daily completion bonus for a voter.
// The unique (voter, day) index doubles as the idempotency barrier for the
// reward dispatcher: a duplicate grant attempt inserts nothing.
type RewardGrant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VoterID    uint      `gorm:"uniqueIndex:idx_grant_voter_day;not null" json:"voter_id"`
	GrantDate  string    `gorm:"uniqueIndex:idx_grant_voter_day;size:10;not null" json:"grant_date"`
	Points     int       `gorm:"not null" json:"points"`
	MintStatus string    `gorm:"size:16;not null;default:'pending'" json:"mint_status"`
	MintTxRef  string    `gorm:"size:128" json:"mint_tx_ref"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
