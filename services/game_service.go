// services/game_service.go
package services

import (
	"fmt"
	"log"
	"strings"

	"trivia-chat-server/models"

	"github.com/gofiber/fiber/v2"
)

// Player-facing messages. The whole conversation is in Spanish.
const (
	msgAskName         = "Por favor, ingresa tu nombre para comenzar."
	msgInvalidCategory = "Categoría no válida. Escribe 'videojuegos' o 'cultura salvadoreña'."
	msgNoQuestion      = "No se pudo generar una nueva pregunta."
	msgEmptyAnswer     = "La respuesta no puede estar vacía."
	msgUnknownSession  = "Sesión no válida o expirada."
	msgInvalidRestart  = "Opción no válida. Responde 'mismo', 'nuevo' o 'no'."
	msgInternalError   = "Hubo un error procesando la solicitud."
)

func msgAskCategory(name string) string {
	return fmt.Sprintf("¡Hola, %s! Elige una categoría para comenzar: videojuegos o cultura salvadoreña.", name)
}

func msgEndGame(name string, score int) string {
	return fmt.Sprintf("¡Juego terminado, %s! Tu puntuación final es: %d puntos.", name, score)
}

func msgNewRound(name string) string {
	return fmt.Sprintf("¡Perfecto, %s! Elige una categoría para la nueva ronda: videojuegos o cultura salvadoreña.", name)
}

func msgGoodbye(name string) string {
	return fmt.Sprintf("¡Gracias por jugar, %s! Hasta la próxima.", name)
}

// GameService drives the per-session trivia state machine and owns the HTTP
// surface: name entry, category selection, the five-question loop, answer
// checking, end-game and the restart decision.
type GameService struct {
	Store  *SessionStore
	Gen    Generator
	Bank   QuestionBank
	Scores *HighScoreTracker
}

func NewGameService(store *SessionStore, gen Generator, bank QuestionBank, scores *HighScoreTracker) *GameService {
	return &GameService{Store: store, Gen: gen, Bank: bank, Scores: scores}
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type answerRequest struct {
	SessionID     string `json:"sessionId"`
	UserInput     string `json:"userInput"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Chat advances a session through name entry, category selection and the
// question loop. A request without a known session id starts a new session.
func (s *GameService) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInternalError})
	}

	session, ok := s.Store.Resolve(req.SessionID)
	if !ok {
		session = s.Store.Create()
		return c.JSON(fiber.Map{
			"type":      "askName",
			"content":   msgAskName,
			"sessionId": session.ID,
		})
	}

	session.Lock()
	defer session.Unlock()
	session.Touch()

	message := strings.TrimSpace(req.Message)

	// Name entry gate: empty input re-prompts, anything else is the name.
	if session.PlayerName == "" {
		if message == "" {
			return c.JSON(fiber.Map{
				"type":      "askName",
				"content":   msgAskName,
				"sessionId": session.ID,
			})
		}
		session.PlayerName = message
		log.Printf("Session %s: player name set to %q", session.ID, session.PlayerName)
		return c.JSON(fiber.Map{
			"type":      "askCategory",
			"content":   msgAskCategory(session.PlayerName),
			"sessionId": session.ID,
		})
	}

	// Category gate: only the two fixed labels advance the state; a valid
	// pick generates the first question in the same request.
	if session.Category == "" {
		category := strings.ToLower(message)
		if !models.ValidCategory(category) {
			return c.JSON(fiber.Map{
				"type":      "askCategory",
				"content":   msgInvalidCategory,
				"sessionId": session.ID,
			})
		}
		session.Category = category
		log.Printf("Session %s: category set to %q", session.ID, category)
		return s.serveQuestion(c, session)
	}

	// Round complete: no more questions until one of the restart tokens
	// arrives on /api/restart.
	if session.RoundComplete() {
		session.AwaitingRestart = true
		s.Scores.Record(session.PlayerName, session.Score)
		return c.JSON(fiber.Map{
			"type":      "endGame",
			"content":   msgEndGame(session.PlayerName, session.Score),
			"sessionId": session.ID,
		})
	}

	return s.serveQuestion(c, session)
}

// serveQuestion generates one question and hands it to the player. The
// question counter counts questions served, so it moves here and nowhere
// else. Callers hold the session lock.
func (s *GameService) serveQuestion(c *fiber.Ctx, session *models.GameSession) error {
	record, recent, err := s.Gen.Generate(c.UserContext(), session.Category, session.RecentTopics)
	session.RecentTopics = recent
	if err != nil {
		log.Printf("⚠️  Session %s: %v", session.ID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msgNoQuestion})
	}

	session.QuestionsAsked++
	session.Pending = &models.PendingQuestion{Question: record.Question, Answer: record.Answer}
	s.Bank.Save(record)

	return c.JSON(fiber.Map{
		"type":      "question",
		"content":   record.Question,
		"answer":    record.Answer,
		"sessionId": session.ID,
	})
}

// Answer verifies the player's reply to the current question. The canonical
// answer held server-side wins over whatever the client echoes back; the
// echoed field only serves sessions whose pending question is gone (the
// response keeps the original wire shape either way).
func (s *GameService) Answer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInternalError})
	}

	session, ok := s.Store.Resolve(req.SessionID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgUnknownSession})
	}
	if strings.TrimSpace(req.UserInput) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgEmptyAnswer})
	}

	session.Lock()
	defer session.Unlock()
	session.Touch()

	canonical := req.CorrectAnswer
	if session.Pending != nil {
		canonical = session.Pending.Answer
	}

	correct := IsCorrect(req.UserInput, canonical)
	if correct {
		session.Score += models.ScorePerAnswer
	}
	session.Pending = nil
	log.Printf("Session %s: answer %q judged %v (score %d)", session.ID, req.UserInput, correct, session.Score)

	return c.JSON(fiber.Map{
		"type":          "answer",
		"correct":       correct,
		"next":          session.QuestionsAsked < models.RoundLength,
		"correctAnswer": canonical,
		"sessionId":     session.ID,
	})
}

// Restart handles the end-of-round decision: "mismo" keeps the player and
// starts a new round, "nuevo" starts over from name entry, "no" ends the
// session for good.
func (s *GameService) Restart(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInternalError})
	}

	session, ok := s.Store.Resolve(req.SessionID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgUnknownSession})
	}

	session.Lock()
	defer session.Unlock()
	session.Touch()

	// The client may skip the end-game chat request and come straight here,
	// so a completed round records its score now if it hasn't already.
	if session.RoundComplete() {
		s.Scores.Record(session.PlayerName, session.Score)
	}

	switch strings.ToLower(strings.TrimSpace(req.Message)) {
	case "mismo":
		session.ResetRound(true)
		log.Printf("Session %s: new round for %q", session.ID, session.PlayerName)
		return c.JSON(fiber.Map{
			"type":      "greeting",
			"content":   msgNewRound(session.PlayerName),
			"sessionId": session.ID,
		})

	case "nuevo":
		name := session.PlayerName
		session.ResetRound(false)
		log.Printf("Session %s: %q handed over to a new player", session.ID, name)
		return c.JSON(fiber.Map{
			"type":      "askName",
			"content":   msgAskName,
			"sessionId": session.ID,
		})

	case "no":
		name := session.PlayerName
		s.Store.Delete(session.ID)
		return c.JSON(fiber.Map{
			"type":    "endGame",
			"content": msgGoodbye(name),
		})

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidRestart})
	}
}

// HighScore returns the global best record, {"", 0} when nobody has played.
func (s *GameService) HighScore(c *fiber.Ctx) error {
	best := s.Scores.Best()
	return c.JSON(fiber.Map{
		"name":  best.Name,
		"score": best.Score,
	})
}
