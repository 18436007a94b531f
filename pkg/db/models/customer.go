package models

import "time"

// Customer mirrors a remote-platform customer. The primary key is the
// platform's own customer id, so webhook upserts stay idempotent.
type Customer struct {
	ID        string    `gorm:"column:id;type:text;primaryKey"`
	FullName  string    `gorm:"column:full_name;type:text;not null"`
	Email     string    `gorm:"column:email;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
