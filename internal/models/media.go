package models

// MediaType names the kind of attachment. The column is free text; these are the
// values the application writes.
type MediaType string

const (
	// MediaTypeImage is a still image.
	MediaTypeImage MediaType = "image"
	// MediaTypeVideo is a video clip.
	MediaTypeVideo MediaType = "video"
	// MediaTypeAudio is an audio clip.
	MediaTypeAudio MediaType = "audio"
)

// Media is an attachment of a post.
type Media struct {
	ID     uint      `gorm:"primaryKey" json:"id" mapstructure:"id"`
	Type   MediaType `gorm:"type:varchar(50);not null;check:type <> ''" json:"type" mapstructure:"type"`
	URL    string    `gorm:"not null;check:url <> ''" json:"url" mapstructure:"url"`
	PostID uint      `gorm:"not null;index" json:"post_id" mapstructure:"post_id"`

	Post *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-" mapstructure:"-"`
}

// TableName specifies the table name for GORM
func (Media) TableName() string {
	return "media"
}

// NewMedia builds an unsaved attachment for postID.
func NewMedia(postID uint, mediaType MediaType, url string) *Media {
	return &Media{
		Type:   mediaType,
		URL:    url,
		PostID: postID,
	}
}

// Serialize projects the attachment's scalar columns.
func (m *Media) Serialize() map[string]any {
	return map[string]any{
		"id":      m.ID,
		"type":    string(m.Type),
		"url":     m.URL,
		"post_id": m.PostID,
	}
}
