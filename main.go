package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trivia-chat-server/ai"
	"trivia-chat-server/handlers"
	"trivia-chat-server/models"
	"trivia-chat-server/services"
	"trivia-chat-server/utils"
	"trivia-chat-server/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "trivia-chat-server",
	})

	// CORS for the browser chat client
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOriginsList, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Persistence is best-effort: if the database cannot be opened the game
	// still runs, it just forgets questions and high scores between restarts.
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "trivia.db"
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Printf("⚠️  Failed to open database %s, running without persistence: %v", dbPath, err)
		db = nil
	} else if err := db.AutoMigrate(&models.QuestionRecord{}, &models.HighScore{}); err != nil {
		log.Printf("⚠️  Failed to migrate database, running without persistence: %v", err)
		db = nil
	}

	bank := services.NewGormQuestionBank(db)
	scores := services.NewHighScoreTracker(services.NewGormHighScoreStore(db))

	client := ai.NewClientFromEnv()
	topics := services.NewTopicSelector(nil)
	generator := services.NewQuestionGenerator(client, topics, bank)

	store := services.NewSessionStore()
	store.StartSweepScheduler(services.DefaultMaxIdle, services.DefaultMaxIdle)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if utils.BackupEnabled() {
		if err := utils.InitBackupStorage(); err != nil {
			log.Printf("⚠️  Backup storage disabled: %v", err)
		} else {
			backupWorker := workers.NewBankBackupWorker(bank, 24*time.Hour)
			go backupWorker.Start(ctx)
		}
	}

	gameService := services.NewGameService(store, generator, bank, scores)
	handlers.SetupTriviaRoutes(app, gameService)

	app.Static("/", "./public")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Session sweep scheduled (hourly)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
