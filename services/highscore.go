// services/highscore.go
package services

import (
	"log"
	"sync"

	"trivia-chat-server/models"

	"gorm.io/gorm"
)

// HighScoreStore loads and saves the single best-score record. Like the
// question bank it degrades on persistence failure: a failed load reads as
// "no record yet", a failed save is logged and skipped.
type HighScoreStore interface {
	Load() (models.HighScore, bool)
	Save(record models.HighScore)
}

// GormHighScoreStore keeps the record in SQLite.
type GormHighScoreStore struct {
	DB *gorm.DB
}

func NewGormHighScoreStore(db *gorm.DB) *GormHighScoreStore {
	return &GormHighScoreStore{DB: db}
}

func (s *GormHighScoreStore) Load() (models.HighScore, bool) {
	if s.DB == nil {
		return models.HighScore{}, false
	}

	var record models.HighScore
	if err := s.DB.First(&record).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("⚠️  Failed to load high score, treating as unset: %v", err)
		}
		return models.HighScore{}, false
	}
	return record, true
}

func (s *GormHighScoreStore) Save(record models.HighScore) {
	if s.DB == nil {
		log.Println("⚠️  High score store unavailable, save skipped")
		return
	}

	var existing models.HighScore
	err := s.DB.First(&existing).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		err = s.DB.Create(&record).Error
	case err == nil:
		existing.Name = record.Name
		existing.Score = record.Score
		err = s.DB.Save(&existing).Error
	}
	if err != nil {
		log.Printf("⚠️  Failed to save high score: %v", err)
	}
}

// HighScoreTracker applies the strict-improvement rule on top of a store:
// a new score replaces the record only when it beats it outright, so ties
// keep the current holder.
type HighScoreTracker struct {
	mu    sync.Mutex
	store HighScoreStore
}

func NewHighScoreTracker(store HighScoreStore) *HighScoreTracker {
	return &HighScoreTracker{store: store}
}

// Record submits a finished round's score.
func (t *HighScoreTracker) Record(playerName string, score int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, _ := t.store.Load()
	if score > current.Score {
		t.store.Save(models.HighScore{Name: playerName, Score: score})
		log.Printf("🏆 New high score: %s with %d points", playerName, score)
		return
	}
	log.Printf("High score unchanged: %s keeps it with %d points", current.Name, current.Score)
}

// Best returns the stored record, defaulting to an empty name and zero score.
func (t *HighScoreTracker) Best() models.HighScore {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.store.Load()
	if !ok {
		return models.HighScore{Name: "", Score: 0}
	}
	return models.HighScore{Name: record.Name, Score: record.Score}
}
