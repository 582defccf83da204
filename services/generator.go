// services/generator.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"trivia-chat-server/models"
)

// ChatClient is the opaque question-generation collaborator: one bounded
// system+user completion call.
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Generator is what the game service depends on; the question generator
// below is its production implementation.
type Generator interface {
	Generate(ctx context.Context, category string, recent []string) (models.QuestionRecord, []string, error)
}

var (
	// ErrDuplicateQuestion means the model produced something too close to a
	// question already in the bank. The caller may simply ask again.
	ErrDuplicateQuestion = errors.New("generated question too similar to an existing one")

	// ErrBadReply means the model reply did not follow the Question/Answer
	// format.
	ErrBadReply = errors.New("could not parse question and answer from model reply")
)

// questionReplyRe extracts the two fields from a "Question: ... Answer: ..."
// reply; (?s) lets the answer span line breaks.
var questionReplyRe = regexp.MustCompile(`(?s)Question:\s*(.*?)\s*Answer:\s*(.*)`)

// QuestionGenerator orchestrates topic selection, the external model call and
// the uniqueness check. It never retries on its own: one request, one
// attempt, and the caller decides whether to try again.
type QuestionGenerator struct {
	Client ChatClient
	Topics *TopicSelector
	Bank   QuestionBank
}

func NewQuestionGenerator(client ChatClient, topics *TopicSelector, bank QuestionBank) *QuestionGenerator {
	return &QuestionGenerator{Client: client, Topics: topics, Bank: bank}
}

// Generate produces one fresh question for the category. The returned slice
// is the updated recent-topic history; it is valid even when generation
// fails, because the topic was consumed either way.
func (g *QuestionGenerator) Generate(ctx context.Context, category string, recent []string) (models.QuestionRecord, []string, error) {
	topic, recent := g.Topics.Select(category, recent)
	if topic == "" {
		return models.QuestionRecord{}, recent, fmt.Errorf("no topics for category %q", category)
	}

	system, prompt := promptFor(category, topic)
	log.Printf("Generating question about %q (%s)", topic, category)

	reply, err := g.Client.Complete(ctx, system, prompt)
	if err != nil {
		return models.QuestionRecord{}, recent, fmt.Errorf("question generation failed: %w", err)
	}

	match := questionReplyRe.FindStringSubmatch(reply)
	if match == nil {
		log.Printf("⚠️  Unparsable model reply: %.120s", reply)
		return models.QuestionRecord{}, recent, ErrBadReply
	}

	record := models.QuestionRecord{
		Question: strings.TrimSpace(match[1]),
		Answer:   strings.TrimSpace(match[2]),
		Source:   models.SourceAPI,
	}

	for _, existing := range g.Bank.All() {
		if QuestionsAlike(record.Question, existing.Question) {
			log.Printf("Generated question rejected as duplicate: %q", record.Question)
			return models.QuestionRecord{}, recent, ErrDuplicateQuestion
		}
	}

	log.Printf("Generated question: %q (answer: %q)", record.Question, record.Answer)
	return record, recent, nil
}

// promptFor builds the category-specific instruction. Questions and answers
// stay in Spanish; the Question/Answer scaffolding stays in English because
// that is what the reply parser expects.
func promptFor(category, topic string) (system, prompt string) {
	switch category {
	case models.CategoryCulture:
		system = "Eres un asistente de trivia especializado en la cultura salvadoreña."
		prompt = fmt.Sprintf("Genera una pregunta de trivia fácil sobre %s. "+
			"La pregunta debe ser adecuada para jugadores casuales y centrarse en hechos generales de la cultura de El Salvador. "+
			"Evita repetir preguntas o similares a las ya generadas. "+
			"Incluye tanto la pregunta como la respuesta correcta. "+
			"Formatea como 'Question: <texto de la pregunta> Answer: <texto de la respuesta>'.", topic)
	default:
		system = "Eres un asistente de trivia especializado en videojuegos."
		prompt = fmt.Sprintf("Genera una pregunta de trivia fácil sobre el videojuego '%s'. "+
			"La pregunta debe ser adecuada para jugadores casuales y centrarse en hechos generales como años de lanzamiento, personajes famosos o directores de juegos conocidos. "+
			"Evita repetir preguntas o similares a las ya generadas. "+
			"Incluye tanto la pregunta como la respuesta correcta. "+
			"Formatea como 'Question: <texto de la pregunta> Answer: <texto de la respuesta>'.", topic)
	}
	return system, prompt
}
