// Package models contains the persisted entities of the fotogram schema.
package models

import "time"

// User is an account. Username and email are globally unique.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id" mapstructure:"id"`
	Username  string    `gorm:"size:120;uniqueIndex:idx_users_username;not null;check:username <> ''" json:"username" mapstructure:"username"`
	FirstName string    `gorm:"column:firstname;not null;check:firstname <> ''" json:"firstname" mapstructure:"firstname"`
	LastName  string    `gorm:"column:lastname;not null;check:lastname <> ''" json:"lastname" mapstructure:"lastname"`
	Email     string    `gorm:"size:120;uniqueIndex:idx_users_email;not null;check:email <> ''" json:"email" mapstructure:"email"`
	Password  string    `gorm:"not null;check:password <> ''" json:"-" mapstructure:"-"`
	IsActive  bool      `gorm:"not null" json:"is_active" mapstructure:"is_active"`
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"updated_at"`

	// Relationships
	Posts     []Post     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
	Comments  []Comment  `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
	Following []Follower `gorm:"foreignKey:UserFromID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
	Followers []Follower `gorm:"foreignKey:UserToID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser builds an active, unsaved user. password must already be hashed.
func NewUser(username, firstName, lastName, email, password string) *User {
	return &User{
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		IsActive:  true,
	}
}

// Serialize projects the user's scalar columns. The password hash is never included.
func (u *User) Serialize() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"firstname":  u.FirstName,
		"lastname":   u.LastName,
		"email":      u.Email,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}
