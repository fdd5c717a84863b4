package model

import "time"

// Agent is the professional record of a user holding the agent role.
// The unique index on user_id is the store-level guarantee that at most
// one agent record ever exists per user, no matter how many concurrent
// provisioning attempts race for it.
type Agent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)"`
	Bio       string    `json:"bio" gorm:"type:text"`
	Company   string    `json:"company" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
