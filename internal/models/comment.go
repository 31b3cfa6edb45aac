package models

import "time"

// Comment is written by one user on one post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id" mapstructure:"id"`
	Text      string    `gorm:"column:comment_text;type:text;not null;check:comment_text <> ''" json:"comment_text" mapstructure:"comment_text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id" mapstructure:"author_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id" mapstructure:"post_id"`
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// NewComment builds an unsaved comment by authorID on postID.
func NewComment(authorID, postID uint, text string) *Comment {
	return &Comment{
		Text:     text,
		AuthorID: authorID,
		PostID:   postID,
	}
}

// Serialize projects the comment's scalar columns.
func (c *Comment) Serialize() map[string]any {
	return map[string]any{
		"id":           c.ID,
		"comment_text": c.Text,
		"author_id":    c.AuthorID,
		"post_id":      c.PostID,
		"created_at":   c.CreatedAt,
	}
}
