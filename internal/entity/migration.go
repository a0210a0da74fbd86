package entity

import "time"

// Migration records a versioned migrator which has been applied.
type Migration struct {
	Version   string `gorm:"primaryKey"`
	CreatedAt time.Time
}
