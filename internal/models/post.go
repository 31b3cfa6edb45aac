package models

import "time"

// Post is owned by exactly one user and may carry comments and media attachments.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id" mapstructure:"id"`
	Title     string    `gorm:"column:titulo;size:200;not null;check:titulo <> ''" json:"titulo" mapstructure:"titulo"`
	Link      string    `gorm:"column:enlace;size:500;not null;check:enlace <> ''" json:"enlace" mapstructure:"enlace"`
	UserID    uint      `gorm:"not null;index" json:"user_id" mapstructure:"user_id"`
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"updated_at"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
	Media    []Media   `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// NewPost builds an unsaved post owned by userID.
func NewPost(userID uint, title, link string) *Post {
	return &Post{
		Title:  title,
		Link:   link,
		UserID: userID,
	}
}

// Serialize projects the post's scalar columns.
func (p *Post) Serialize() map[string]any {
	return map[string]any{
		"id":         p.ID,
		"titulo":     p.Title,
		"enlace":     p.Link,
		"user_id":    p.UserID,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}
