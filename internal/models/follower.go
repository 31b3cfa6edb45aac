package models

import "time"

// Follower is one directed edge: UserFrom follows UserTo.
//
// Both columns point into users, so each side has its own named relationship:
// User.Following resolves through user_from_id and User.Followers through user_to_id.
// A user following themselves is allowed; the same edge twice is not.
type Follower struct {
	ID         uint      `gorm:"primaryKey" json:"id" mapstructure:"id"`
	UserFromID uint      `gorm:"not null;uniqueIndex:idx_followers_edge;index" json:"user_from_id" mapstructure:"user_from_id"`
	UserToID   uint      `gorm:"not null;uniqueIndex:idx_followers_edge;index" json:"user_to_id" mapstructure:"user_to_id"`
	CreatedAt  time.Time `json:"created_at" mapstructure:"created_at"`

	// Relationships
	UserFrom *User `gorm:"foreignKey:UserFromID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
	UserTo   *User `gorm:"foreignKey:UserToID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "followers"
}

// NewFollower builds an unsaved "from follows to" edge.
func NewFollower(fromID, toID uint) *Follower {
	return &Follower{
		UserFromID: fromID,
		UserToID:   toID,
	}
}

// Serialize projects the edge's scalar columns.
func (f *Follower) Serialize() map[string]any {
	return map[string]any{
		"id":           f.ID,
		"user_from_id": f.UserFromID,
		"user_to_id":   f.UserToID,
		"created_at":   f.CreatedAt,
	}
}
