package models

import "time"

// Weekly update threads for managers/admins. Plain request/response
// feature, no coupling to the checkout pipeline.

type UpdateThread struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	WeekKey   string          `gorm:"size:10;index;not null" json:"week_key"` // e.g. 2026-W35
	Title     string          `gorm:"size:200;not null" json:"title"`
	AuthorID  uint            `gorm:"not null" json:"author_id"`
	Author    User            `json:"author"`
	Messages  []UpdateMessage `gorm:"foreignKey:ThreadID" json:"messages"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type UpdateMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"index;not null" json:"thread_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Author    User      `json:"author"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
