package post

import (
	"time"
)

// PostStatusEvent represents a status change event for a freight post
type PostStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for post relationship
	PostID string      `gorm:"type:uuid;not null;index" json:"post_id"`
	Post   FreightPost `gorm:"foreignKey:PostID" json:"post"`

	FromStatus PostStatus `gorm:"type:varchar(30);not null" json:"from_status"`
	ToStatus   PostStatus `gorm:"type:varchar(30);not null" json:"to_status"`
	CreatedBy  string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the PostStatusEvent model
func (PostStatusEvent) TableName() string {
	return "post_status_events"
}
