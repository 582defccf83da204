// models/highscore.go
package models

import "time"

// HighScore is the single best score ever recorded. One row; ties never
// displace the current holder.
type HighScore struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"-"`
}
