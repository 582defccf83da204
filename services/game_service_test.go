package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trivia-chat-server/models"

	"github.com/gofiber/fiber/v2"
)

// stubGenerator serves a canned question and records how often it was asked.
type stubGenerator struct {
	record models.QuestionRecord
	err    error
	calls  int
}

func (g *stubGenerator) Generate(ctx context.Context, category string, recent []string) (models.QuestionRecord, []string, error) {
	g.calls++
	recent = append(recent, "topic")
	if g.err != nil {
		return models.QuestionRecord{}, recent, g.err
	}
	return g.record, recent, nil
}

func newTestApp(gen Generator) (*fiber.App, *GameService) {
	svc := NewGameService(
		NewSessionStore(),
		gen,
		&memoryBank{},
		NewHighScoreTracker(&memoryScoreStore{}),
	)
	app := fiber.New()
	app.Post("/api/chat", svc.Chat)
	app.Post("/api/answer", svc.Answer)
	app.Post("/api/restart", svc.Restart)
	app.Get("/api/highscore", svc.HighScore)
	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response from %s: %v", path, err)
	}
	return resp.StatusCode, decoded
}

// startRound walks a fresh session through name and category and returns its id.
func startRound(t *testing.T, app *fiber.App) string {
	t.Helper()

	status, resp := postJSON(t, app, "/api/chat", map[string]any{})
	if status != http.StatusOK || resp["type"] != "askName" {
		t.Fatalf("initial chat: status %d, resp %v", status, resp)
	}
	id, _ := resp["sessionId"].(string)
	if id == "" {
		t.Fatal("no sessionId in askName response")
	}

	_, resp = postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "Ana"})
	if resp["type"] != "askCategory" {
		t.Fatalf("after name: resp %v", resp)
	}

	_, resp = postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "videojuegos"})
	if resp["type"] != "question" {
		t.Fatalf("after category: resp %v", resp)
	}
	return id
}

func TestChatCreatesSessionForUnknownID(t *testing.T) {
	app, _ := newTestApp(&stubGenerator{})

	status, resp := postJSON(t, app, "/api/chat", map[string]any{"sessionId": "long-gone"})
	if status != http.StatusOK || resp["type"] != "askName" {
		t.Fatalf("status %d, resp %v", status, resp)
	}
	if resp["sessionId"] == "long-gone" {
		t.Error("stale session id was resurrected instead of replaced")
	}
}

func TestChatRejectsInvalidCategory(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "x"}}
	app, svc := newTestApp(gen)

	_, resp := postJSON(t, app, "/api/chat", map[string]any{})
	id := resp["sessionId"].(string)
	postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "Ana"})

	for _, bad := range []string{"deportes", "cultura", "video juegos", ""} {
		_, resp = postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": bad})
		if resp["type"] != "askCategory" {
			t.Errorf("category %q: got type %v, want askCategory re-prompt", bad, resp["type"])
		}
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times before a valid category", gen.calls)
	}

	session, _ := svc.Store.Resolve(id)
	if session.Category != "" {
		t.Errorf("category advanced to %q on invalid input", session.Category)
	}
}

func TestChatAcceptsCategoriesCaseInsensitive(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "x"}}
	app, _ := newTestApp(gen)

	_, resp := postJSON(t, app, "/api/chat", map[string]any{})
	id := resp["sessionId"].(string)
	postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "Ana"})

	_, resp = postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "  Cultura Salvadoreña  "})
	if resp["type"] != "question" {
		t.Fatalf("mixed-case category rejected: %v", resp)
	}
}

func TestRoundProgression(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿Pregunta?", Answer: "respuesta"}}
	app, _ := newTestApp(gen)

	id := startRound(t, app) // question 1 served

	for i := 2; i <= models.RoundLength; i++ {
		_, resp := postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "nueva pregunta"})
		if resp["type"] != "question" {
			t.Fatalf("question %d: resp %v", i, resp)
		}
	}

	// The 6th request ends the round no matter what the message says.
	_, resp := postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "otra más por favor"})
	if resp["type"] != "endGame" {
		t.Fatalf("after %d questions: resp %v", models.RoundLength, resp)
	}
	if gen.calls != models.RoundLength {
		t.Errorf("generator called %d times, want %d", gen.calls, models.RoundLength)
	}
}

func TestAnswerScoring(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿Juego de bloques?", Answer: "Minecraft"}}
	app, svc := newTestApp(gen)

	id := startRound(t, app)

	status, resp := postJSON(t, app, "/api/answer", map[string]any{
		"sessionId": id, "userInput": "minecraft", "correctAnswer": "Minecraft",
	})
	if status != http.StatusOK {
		t.Fatalf("answer status %d: %v", status, resp)
	}
	if resp["correct"] != true {
		t.Errorf("correct = %v, want true", resp["correct"])
	}
	if resp["next"] != true {
		t.Errorf("next = %v, want true with %d questions left", resp["next"], models.RoundLength-1)
	}

	session, _ := svc.Store.Resolve(id)
	if session.Score != models.ScorePerAnswer {
		t.Errorf("score = %d, want %d", session.Score, models.ScorePerAnswer)
	}

	// Wrong answer leaves the score alone.
	postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "nueva pregunta"})
	_, resp = postJSON(t, app, "/api/answer", map[string]any{
		"sessionId": id, "userInput": "fortnite", "correctAnswer": "Minecraft",
	})
	if resp["correct"] != false {
		t.Errorf("correct = %v, want false", resp["correct"])
	}
	if session.Score != models.ScorePerAnswer {
		t.Errorf("score moved to %d on a wrong answer", session.Score)
	}
}

func TestAnswerIgnoresClientEchoWhenQuestionPending(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿Juego de bloques?", Answer: "Minecraft"}}
	app, _ := newTestApp(gen)

	id := startRound(t, app)

	// The client claims its own input is the canonical answer; the server
	// still judges against the question it actually asked.
	_, resp := postJSON(t, app, "/api/answer", map[string]any{
		"sessionId": id, "userInput": "fortnite", "correctAnswer": "fortnite",
	})
	if resp["correct"] != false {
		t.Errorf("self-reported answer was accepted: %v", resp)
	}
	if resp["correctAnswer"] != "Minecraft" {
		t.Errorf("correctAnswer = %v, want the server-held answer", resp["correctAnswer"])
	}
}

func TestAnswerValidation(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "x"}}
	app, _ := newTestApp(gen)
	id := startRound(t, app)

	status, resp := postJSON(t, app, "/api/answer", map[string]any{
		"sessionId": "missing", "userInput": "hola", "correctAnswer": "x",
	})
	if status != http.StatusBadRequest {
		t.Errorf("unknown session: status %d, resp %v", status, resp)
	}

	status, resp = postJSON(t, app, "/api/answer", map[string]any{
		"sessionId": id, "userInput": "   ", "correctAnswer": "x",
	})
	if status != http.StatusBadRequest {
		t.Errorf("empty input: status %d, resp %v", status, resp)
	}
	if _, hasErr := resp["error"]; !hasErr {
		t.Errorf("empty input: no error field in %v", resp)
	}
}

func TestGenerationFailureLeavesStateUnchanged(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "x"}}
	app, svc := newTestApp(gen)
	id := startRound(t, app)

	gen.err = errors.New("model unavailable")
	status, resp := postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "nueva pregunta"})
	if status != http.StatusNotFound {
		t.Fatalf("status %d, resp %v", status, resp)
	}

	session, _ := svc.Store.Resolve(id)
	if session.QuestionsAsked != 1 {
		t.Errorf("questionsAsked = %d after failed generation, want 1", session.QuestionsAsked)
	}

	// The caller can simply retry.
	gen.err = nil
	_, resp = postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "nueva pregunta"})
	if resp["type"] != "question" {
		t.Errorf("retry after failure: resp %v", resp)
	}
}

func finishRound(t *testing.T, app *fiber.App, id string) {
	t.Helper()
	for i := 2; i <= models.RoundLength; i++ {
		postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "nueva pregunta"})
	}
	_, resp := postJSON(t, app, "/api/chat", map[string]any{"sessionId": id, "message": "listo"})
	if resp["type"] != "endGame" {
		t.Fatalf("round did not end: %v", resp)
	}
}

func TestRestartMismoKeepsName(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "Minecraft"}}
	app, svc := newTestApp(gen)

	id := startRound(t, app)
	postJSON(t, app, "/api/answer", map[string]any{"sessionId": id, "userInput": "minecraft", "correctAnswer": "Minecraft"})
	finishRound(t, app, id)

	_, resp := postJSON(t, app, "/api/restart", map[string]any{"sessionId": id, "message": "MISMO"})
	if resp["type"] != "greeting" {
		t.Fatalf("mismo: resp %v", resp)
	}

	session, _ := svc.Store.Resolve(id)
	if session.PlayerName != "Ana" {
		t.Errorf("playerName = %q after mismo, want Ana", session.PlayerName)
	}
	if session.Score != 0 || session.QuestionsAsked != 0 || session.Category != "" {
		t.Errorf("round state not reset: %+v", session)
	}
}

func TestRestartNuevoResetsName(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "x"}}
	app, svc := newTestApp(gen)

	id := startRound(t, app)
	finishRound(t, app, id)

	_, resp := postJSON(t, app, "/api/restart", map[string]any{"sessionId": id, "message": "nuevo"})
	if resp["type"] != "askName" {
		t.Fatalf("nuevo: resp %v", resp)
	}

	session, _ := svc.Store.Resolve(id)
	if session.PlayerName != "" {
		t.Errorf("playerName = %q after nuevo, want empty", session.PlayerName)
	}
}

func TestRestartNoDeletesSession(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "x"}}
	app, svc := newTestApp(gen)

	id := startRound(t, app)
	finishRound(t, app, id)

	_, resp := postJSON(t, app, "/api/restart", map[string]any{"sessionId": id, "message": "no"})
	if resp["type"] != "endGame" {
		t.Fatalf("no: resp %v", resp)
	}
	if _, hasID := resp["sessionId"]; hasID {
		t.Error("endGame after 'no' should not carry a sessionId")
	}
	if _, ok := svc.Store.Resolve(id); ok {
		t.Error("session still resolvable after 'no'")
	}

	// The dead id behaves like any unknown session from here on.
	status, _ := postJSON(t, app, "/api/answer", map[string]any{"sessionId": id, "userInput": "hola", "correctAnswer": "x"})
	if status != http.StatusBadRequest {
		t.Errorf("answer on deleted session: status %d, want 400", status)
	}
}

func TestRestartRejectsUnknownToken(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "x"}}
	app, svc := newTestApp(gen)

	id := startRound(t, app)
	finishRound(t, app, id)

	status, resp := postJSON(t, app, "/api/restart", map[string]any{"sessionId": id, "message": "quizás"})
	if status != http.StatusBadRequest {
		t.Errorf("status %d, resp %v", status, resp)
	}
	if _, ok := svc.Store.Resolve(id); !ok {
		t.Error("session lost on an invalid restart token")
	}
}

func TestEndGameUpdatesHighScore(t *testing.T) {
	gen := &stubGenerator{record: models.QuestionRecord{Question: "¿?", Answer: "Minecraft"}}
	app, _ := newTestApp(gen)

	id := startRound(t, app)
	postJSON(t, app, "/api/answer", map[string]any{"sessionId": id, "userInput": "minecraft", "correctAnswer": "Minecraft"})
	finishRound(t, app, id)

	req := httptest.NewRequest(http.MethodGet, "/api/highscore", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("highscore request: %v", err)
	}
	defer resp.Body.Close()

	var best struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&best); err != nil {
		t.Fatalf("decode highscore: %v", err)
	}
	if best.Name != "Ana" || best.Score != models.ScorePerAnswer {
		t.Errorf("highscore = %+v, want Ana with %d", best, models.ScorePerAnswer)
	}
}
