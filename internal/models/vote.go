package models

import "time"

const (
	Upvote   = 1
	Downvote = -1
)

// Vote is a single user's +1 or -1 on an article. One row per (user, article).
type Vote struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:idx_votes_user_article" json:"user_id"`
	ArticleID uint64    `gorm:"not null;index;uniqueIndex:idx_votes_user_article" json:"article_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
