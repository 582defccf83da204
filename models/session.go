// models/session.go
package models

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	CategoryVideoGames = "videojuegos"
	CategoryCulture    = "cultura salvadoreña"
)

const (
	// RoundLength is how many questions one round serves before ending.
	RoundLength = 5

	// ScorePerAnswer is the award for a correct answer.
	ScorePerAnswer = 100

	// MaxRecentTopics bounds the per-session topic history used to avoid
	// asking about the same subject twice in a row.
	MaxRecentTopics = 5
)

// PendingQuestion is the server-held question the player must answer next.
// Its Answer field is authoritative for verification regardless of what the
// client echoes back.
type PendingQuestion struct {
	Question string
	Answer   string
}

// GameSession is the per-player state of one trivia conversation. Instances
// are owned exclusively by the session store; handlers must hold the session
// lock for the whole request, including the question-generation call, so that
// two requests for the same session never interleave.
type GameSession struct {
	ID              string
	PlayerName      string
	Category        string // "" until the player picks one
	Score           int
	QuestionsAsked  int
	RecentTopics    []string
	Pending         *PendingQuestion
	AwaitingRestart bool

	mu         sync.Mutex
	lastActive atomic.Int64 // unix nanos, readable by the sweeper without the lock
}

// NewGameSession returns a fresh session with the given id, already touched.
func NewGameSession(id string) *GameSession {
	s := &GameSession{ID: id}
	s.Touch()
	return s
}

func (s *GameSession) Lock()   { s.mu.Lock() }
func (s *GameSession) Unlock() { s.mu.Unlock() }

// Touch records activity now.
func (s *GameSession) Touch() {
	s.MarkActiveAt(time.Now())
}

// MarkActiveAt sets the last-activity timestamp explicitly.
func (s *GameSession) MarkActiveAt(t time.Time) {
	s.lastActive.Store(t.UnixNano())
}

// LastActive returns the last-activity timestamp.
func (s *GameSession) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// RoundComplete reports whether the round has served its full question count.
func (s *GameSession) RoundComplete() bool {
	return s.QuestionsAsked >= RoundLength
}

// ResetRound clears everything a new round needs cleared. The player name
// survives a "mismo" restart and is wiped on "nuevo".
func (s *GameSession) ResetRound(keepName bool) {
	if !keepName {
		s.PlayerName = ""
	}
	s.Category = ""
	s.Score = 0
	s.QuestionsAsked = 0
	s.RecentTopics = nil
	s.Pending = nil
	s.AwaitingRestart = false
}

// ValidCategory reports whether input names one of the two fixed categories.
// Matching is case-insensitive after trimming; the caller normalizes.
func ValidCategory(category string) bool {
	return category == CategoryVideoGames || category == CategoryCulture
}
