package services

import (
	"math/rand"
	"testing"

	"trivia-chat-server/models"
)

func TestSelectAvoidsRecentTopics(t *testing.T) {
	ts := NewTopicSelector(rand.New(rand.NewSource(42)))

	recent := []string{}
	for i := 0; i < 50; i++ {
		var topic string
		before := append([]string(nil), recent...)
		topic, recent = ts.Select(models.CategoryVideoGames, recent)

		if topic == "" {
			t.Fatal("Select returned empty topic")
		}
		if containsTopic(before, topic) {
			t.Fatalf("iteration %d: topic %q was already in recent history %v", i, topic, before)
		}
		if len(recent) > models.MaxRecentTopics {
			t.Fatalf("iteration %d: history grew past bound: %d", i, len(recent))
		}
	}
}

func TestSelectResetsWhenPoolExhausted(t *testing.T) {
	ts := NewTopicSelector(rand.New(rand.NewSource(7)))

	// Every topic of the smaller category is "recent", forcing the reset.
	recent := append([]string(nil), TopicsFor(models.CategoryCulture)...)

	topic, updated := ts.Select(models.CategoryCulture, recent)
	if topic == "" {
		t.Fatal("Select returned empty topic after forced reset")
	}
	if !containsTopic(TopicsFor(models.CategoryCulture), topic) {
		t.Fatalf("topic %q not in the category pool", topic)
	}
	if len(updated) != 1 || updated[0] != topic {
		t.Fatalf("history after reset = %v, want just [%q]", updated, topic)
	}
}

func TestSelectDeterministicWithSeededSource(t *testing.T) {
	a := NewTopicSelector(rand.New(rand.NewSource(99)))
	b := NewTopicSelector(rand.New(rand.NewSource(99)))

	var recentA, recentB []string
	for i := 0; i < 10; i++ {
		var ta, tb string
		ta, recentA = a.Select(models.CategoryVideoGames, recentA)
		tb, recentB = b.Select(models.CategoryVideoGames, recentB)
		if ta != tb {
			t.Fatalf("iteration %d: selectors with equal seeds diverged: %q vs %q", i, ta, tb)
		}
	}
}

func TestSelectUnknownCategory(t *testing.T) {
	ts := NewTopicSelector(rand.New(rand.NewSource(1)))
	topic, recent := ts.Select("deportes", []string{"algo"})
	if topic != "" {
		t.Errorf("expected empty topic for unknown category, got %q", topic)
	}
	if len(recent) != 1 {
		t.Errorf("history should be untouched, got %v", recent)
	}
}
