// models/question.go
package models

import "time"

const (
	// SourceAPI marks a question generated by this process's model call.
	SourceAPI = "API"
	// SourceStored marks a question reloaded from prior persisted state.
	SourceStored = "Stored"
)

// QuestionRecord is one generated trivia question with its canonical answer.
// The answer may hold several acceptable variants separated by "/".
// Source is bookkeeping only and never affects answer matching.
type QuestionRecord struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Question  string    `json:"question" gorm:"not null"`
	Answer    string    `json:"answer" gorm:"not null"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
