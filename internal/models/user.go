package models

import "time"

// User is created on the first successful authentication callback. UID is
// the external auth subject.
type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UID       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
