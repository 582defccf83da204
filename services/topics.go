// services/topics.go
package services

import (
	"math/rand"
	"sync"
	"time"

	"trivia-chat-server/models"
)

// videoGameTopics keeps question variety up by rotating through well-known
// titles instead of letting the model pick its favorites every time.
var videoGameTopics = []string{
	"The Legend of Zelda", "Super Mario Bros", "Sonic the Hedgehog", "Minecraft",
	"The Witcher 3", "Red Dead Redemption 2", "Overwatch", "Fortnite",
	"Call of Duty", "Halo", "Street Fighter", "Mortal Kombat", "Final Fantasy",
	"Dark Souls", "Elden Ring", "Assassin's Creed", "Grand Theft Auto",
	"Mass Effect", "Portal", "Half-Life", "Skyrim", "Animal Crossing",
	"Fallout", "Resident Evil",
}

var cultureTopics = []string{
	"las pupusas", "las Fiestas Agostinas", "el Torito Pinto", "el Cipitío",
	"la Siguanaba", "el Cadejo", "Joya de Cerén", "el Tazumal",
	"la Ruta de las Flores", "el Lago de Coatepeque", "la playa El Tunco",
	"el Monumento al Divino Salvador del Mundo", "monseñor Óscar Romero",
	"las artesanías de La Palma", "el torogoz", "el Día de los Farolitos",
}

// TopicsFor returns the fixed topic pool for a category.
func TopicsFor(category string) []string {
	switch category {
	case models.CategoryVideoGames:
		return videoGameTopics
	case models.CategoryCulture:
		return cultureTopics
	}
	return nil
}

// TopicSelector picks a random topic from a category's pool while avoiding
// anything in the caller's recent-topic history. The random source is
// injectable so selection is deterministic under test.
type TopicSelector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTopicSelector builds a selector; pass nil to seed from the clock.
func NewTopicSelector(rnd *rand.Rand) *TopicSelector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TopicSelector{rnd: rnd}
}

// Select returns a topic not present in recent, plus the updated history.
// When the whole pool has been used recently the history is discarded and
// selection starts over from the full pool. The chosen topic is appended to
// the history, which is trimmed from the front at its bound.
func (ts *TopicSelector) Select(category string, recent []string) (string, []string) {
	pool := TopicsFor(category)
	if len(pool) == 0 {
		return "", recent
	}

	available := make([]string, 0, len(pool))
	for _, topic := range pool {
		if !containsTopic(recent, topic) {
			available = append(available, topic)
		}
	}
	if len(available) == 0 {
		recent = nil
		available = append(available, pool...)
	}

	ts.mu.Lock()
	topic := available[ts.rnd.Intn(len(available))]
	ts.mu.Unlock()

	recent = append(recent, topic)
	if len(recent) > models.MaxRecentTopics {
		recent = recent[len(recent)-models.MaxRecentTopics:]
	}
	return topic, recent
}

func containsTopic(list []string, topic string) bool {
	for _, t := range list {
		if t == topic {
			return true
		}
	}
	return false
}
