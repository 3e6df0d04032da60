package models

import "time"

// Target types eligible to receive votes.
const (
	TargetTypePost = "post"
	TargetTypeWiki = "wiki"
)

// Target is a votable entity: a feed post or a wiki-style entry, always tied
// to a fandom entity (artist or group) via its slug. Score is the running
// aggregate maintained by the vote ledger, never recomputed from scratch.
type Target struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Type       string    `gorm:"size:16;index;not null" json:"type"`
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	EntitySlug string    `gorm:"size:64;index" json:"entity_slug"`
	EntityName string    `gorm:"size:128" json:"entity_name"`
	Score      int64     `gorm:"not null;default:0" json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Author     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// ValidTargetType reports whether t is a known target type.
func ValidTargetType(t string) bool {
	return t == TargetTypePost || t == TargetTypeWiki
}
