// services/question_bank.go
package services

import (
	"log"

	"trivia-chat-server/models"

	"gorm.io/gorm"
)

// QuestionBank stores every question ever served so newly generated ones can
// be checked for uniqueness. Persistence problems are not the player's
// problem: implementations log and degrade (fewer dedup candidates, skipped
// saves) instead of surfacing errors.
type QuestionBank interface {
	All() []models.QuestionRecord
	Save(q models.QuestionRecord)
}

// GormQuestionBank is the SQLite-backed bank.
type GormQuestionBank struct {
	DB *gorm.DB
}

func NewGormQuestionBank(db *gorm.DB) *GormQuestionBank {
	return &GormQuestionBank{DB: db}
}

// All returns every stored question. Rows persisted before provenance
// tracking existed are reported as "Stored".
func (b *GormQuestionBank) All() []models.QuestionRecord {
	if b.DB == nil {
		return nil
	}

	var records []models.QuestionRecord
	if err := b.DB.Find(&records).Error; err != nil {
		log.Printf("⚠️  Failed to load question bank, continuing without stored questions: %v", err)
		return nil
	}
	for i := range records {
		if records[i].Source == "" {
			records[i].Source = models.SourceStored
		}
	}
	return records
}

// Save appends q unless a stored question is already too similar to it.
func (b *GormQuestionBank) Save(q models.QuestionRecord) {
	if b.DB == nil {
		log.Println("⚠️  Question bank unavailable, save skipped")
		return
	}

	for _, existing := range b.All() {
		if QuestionsAlike(q.Question, existing.Question) {
			log.Println("Question already in the bank or too similar, not saving")
			return
		}
	}

	if err := b.DB.Create(&q).Error; err != nil {
		log.Printf("⚠️  Failed to save question to the bank: %v", err)
	}
}
