package models

import "time"

// RevokedToken is the id of a token that must not be accepted anymore.
// Rows are kept until the token would have expired anyway.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
