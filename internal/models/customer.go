package models

import (
	"time"
)

// Customer is identified by an opaque code supplied by the upstream system.
// The code is stored verbatim as the primary key.
type Customer struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Email     string
	CreatedAt time.Time
}
