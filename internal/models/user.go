package models

import (
	"time"
)

// DefaultStatus is the status message every account starts with.
const DefaultStatus = "I am new!"

// User represents a registered account. The password field holds a bcrypt
// hash, never plaintext, and is excluded from JSON output.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Status    string    `gorm:"not null" json:"status"`
	Posts     []Post    `gorm:"foreignKey:CreatorID" json:"posts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
