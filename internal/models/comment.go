package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ArticleID uint64    `gorm:"not null;index" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Article *Article `gorm:"foreignKey:ArticleID" json:"-"`
}
