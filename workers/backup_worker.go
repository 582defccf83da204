// workers/backup_worker.go
package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"trivia-chat-server/models"
	"trivia-chat-server/services"
	"trivia-chat-server/utils"
)

// BackupData is the snapshot layout uploaded to the backup bucket.
type BackupData struct {
	Version    string                  `json:"version"`
	ExportedAt time.Time               `json:"exported_at"`
	Questions  []models.QuestionRecord `json:"questions"`
}

// BankBackupWorker periodically snapshots the question bank to S3-compatible
// storage. Purely belt-and-braces for the local SQLite file; the game never
// depends on it.
type BankBackupWorker struct {
	bank     services.QuestionBank
	interval time.Duration
}

func NewBankBackupWorker(bank services.QuestionBank, interval time.Duration) *BankBackupWorker {
	return &BankBackupWorker{bank: bank, interval: interval}
}

func (w *BankBackupWorker) Start(ctx context.Context) {
	log.Printf("🔁 Starting question bank backup worker (every %v)", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Question bank backup worker stopped")
			return
		case <-ticker.C:
			if err := w.backupOnce(ctx); err != nil {
				log.Printf("❌ Question bank backup failed: %v", err)
			}
		}
	}
}

func (w *BankBackupWorker) backupOnce(ctx context.Context) error {
	questions := w.bank.All()
	if len(questions) == 0 {
		log.Println("➡️ Question bank empty, nothing to back up")
		return nil
	}

	snapshot := BackupData{
		Version:    "1",
		ExportedAt: time.Now().UTC(),
		Questions:  questions,
	}

	key := fmt.Sprintf("backups/trivia_questions_%s.json", snapshot.ExportedAt.Format("20060102T150405Z"))
	if err := utils.UploadJSON(ctx, key, snapshot); err != nil {
		return err
	}

	log.Printf("✅ Backed up %d question(s) to %s", len(questions), key)
	return nil
}
