package game

import (
	"context"
	"math/rand"
)

// Catalog is the read-only card source consumed by rooms. Implementations
// live outside this package (deck files, Mongo); queries are keyed by deck
// id and return full card lists for the given decks.
type Catalog interface {
	ListQuestions(ctx context.Context, deckIDs []string) ([]QuestionCard, error)
	ListAnswers(ctx context.Context, deckIDs []string) ([]AnswerCard, error)
}

// cardSupply hands out random cards from the selected decks without
// repeats. Drawn card ids go into per-room exclusion sets that live until
// the session is reset; pools are not auto-recycled when exhausted.
//
// Draws are two-phase: pickQuestion/pickAnswers select candidates without
// touching the exclusion sets, and commit records them once the caller's
// whole transition has succeeded. That keeps a failed deal from burning
// the question that was drawn alongside it.
type cardSupply struct {
	catalog       Catalog
	rng           *rand.Rand
	usedQuestions map[string]bool
	usedAnswers   map[string]bool
}

func newCardSupply(catalog Catalog, rng *rand.Rand) *cardSupply {
	return &cardSupply{
		catalog:       catalog,
		rng:           rng,
		usedQuestions: make(map[string]bool),
		usedAnswers:   make(map[string]bool),
	}
}

// pickQuestion uniformly selects one question card from the union of the
// given decks minus the exclusion set.
func (s *cardSupply) pickQuestion(ctx context.Context, deckIDs []string) (QuestionCard, error) {
	all, err := s.catalog.ListQuestions(ctx, deckIDs)
	if err != nil {
		return QuestionCard{}, err
	}

	candidates := make([]QuestionCard, 0, len(all))
	for _, card := range all {
		if !s.usedQuestions[card.ID] {
			candidates = append(candidates, card)
		}
	}
	if len(candidates) == 0 {
		return QuestionCard{}, ErrNoCardsAvailable
	}

	return candidates[s.rng.Intn(len(candidates))], nil
}

// pickAnswers selects count answer cards without replacement from the
// union of the given decks minus the exclusion set.
func (s *cardSupply) pickAnswers(ctx context.Context, deckIDs []string, count int) ([]AnswerCard, error) {
	all, err := s.catalog.ListAnswers(ctx, deckIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]AnswerCard, 0, len(all))
	for _, card := range all {
		if !s.usedAnswers[card.ID] {
			candidates = append(candidates, card)
		}
	}
	if len(candidates) < count {
		return nil, wrapf(ErrInsufficientCards, "need %d, have %d", count, len(candidates))
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:count], nil
}

// commit adds the drawn cards to the exclusion sets.
func (s *cardSupply) commit(question *QuestionCard, answers []AnswerCard) {
	if question != nil {
		s.usedQuestions[question.ID] = true
	}
	for _, card := range answers {
		s.usedAnswers[card.ID] = true
	}
}

func (s *cardSupply) reset() {
	s.usedQuestions = make(map[string]bool)
	s.usedAnswers = make(map[string]bool)
}
