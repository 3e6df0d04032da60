package models

import "time"

// Notification kinds emitted by the reward dispatcher.
const (
	NotifyRewardGranted = "reward_granted"
	NotifyMintDone      = "mint_done"
	NotifyWalletNeeded  = "wallet_needed"
	NotifyRewardPending = "reward_pending"
)

// Notification is an out-of-band message to a user, written by background
// flows (reward dispatch, mint outcomes) and read by the client.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Message   string    `gorm:"size:255;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
