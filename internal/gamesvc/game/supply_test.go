package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

func newTestSupply(nQuestions, nAnswers int) *cardSupply {
	return newCardSupply(makeCatalog(nQuestions, 1, nAnswers), rand.New(rand.NewSource(3)))
}

func TestPickQuestionNeverRepeats(t *testing.T) {
	s := newTestSupply(10, 0)
	decks := []string{"base"}

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		q, err := s.pickQuestion(context.Background(), decks)
		if err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
		if seen[q.ID] {
			t.Fatalf("question %s drawn twice", q.ID)
		}
		seen[q.ID] = true
		s.commit(&q, nil)
	}

	if _, err := s.pickQuestion(context.Background(), decks); !errors.Is(err, ErrNoCardsAvailable) {
		t.Errorf("exhausted pool: got %v, want ErrNoCardsAvailable", err)
	}
}

func TestPickAnswersWithoutReplacement(t *testing.T) {
	s := newTestSupply(0, 12)
	decks := []string{"base"}

	cards, err := s.pickAnswers(context.Background(), decks, 8)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if len(cards) != 8 {
		t.Fatalf("got %d cards, want 8", len(cards))
	}
	seen := make(map[string]bool)
	for _, c := range cards {
		if seen[c.ID] {
			t.Fatalf("card %s drawn twice in one deal", c.ID)
		}
		seen[c.ID] = true
	}
	s.commit(nil, cards)

	if _, err := s.pickAnswers(context.Background(), decks, 5); !errors.Is(err, ErrInsufficientCards) {
		t.Errorf("over-draw: got %v, want ErrInsufficientCards", err)
	}

	rest, err := s.pickAnswers(context.Background(), decks, 4)
	if err != nil {
		t.Fatalf("pick remainder: %v", err)
	}
	for _, c := range rest {
		if seen[c.ID] {
			t.Errorf("card %s drawn again after commit", c.ID)
		}
	}
}

func TestPickWithoutCommitDoesNotBurnCards(t *testing.T) {
	s := newTestSupply(1, 1)
	decks := []string{"base"}

	if _, err := s.pickQuestion(context.Background(), decks); err != nil {
		t.Fatalf("first pick: %v", err)
	}
	// not committed, so the same card is still available
	if _, err := s.pickQuestion(context.Background(), decks); err != nil {
		t.Errorf("second pick after uncommitted draw: %v", err)
	}
}

func TestSupplyReset(t *testing.T) {
	s := newTestSupply(1, 2)
	decks := []string{"base"}

	q, err := s.pickQuestion(context.Background(), decks)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	s.commit(&q, nil)
	if _, err := s.pickQuestion(context.Background(), decks); !errors.Is(err, ErrNoCardsAvailable) {
		t.Fatalf("expected exhaustion, got %v", err)
	}

	s.reset()
	if _, err := s.pickQuestion(context.Background(), decks); err != nil {
		t.Errorf("pick after reset: %v", err)
	}
}
