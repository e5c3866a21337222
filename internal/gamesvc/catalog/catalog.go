package catalog

import (
	"context"

	"github.com/ccc-cards/card-services/internal/gamesvc/game"
)

// Deck is a named set of question and answer cards.
type Deck struct {
	ID          string              `json:"id" bson:"id"`
	Name        string              `json:"name" bson:"name"`
	Language    string              `json:"language" bson:"language"`
	Description string              `json:"description" bson:"description"`
	Questions   []game.QuestionCard `json:"questions" bson:"questions"`
	Answers     []game.AnswerCard   `json:"answers" bson:"answers"`
}

// Summary is the listing view of a deck, without card bodies.
type Summary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Language      string `json:"language"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
	AnswerCount   int    `json:"answerCount"`
}

// Catalog serves decks to rooms and deck summaries to the HTTP layer.
type Catalog interface {
	game.Catalog
	ListDecks(ctx context.Context) ([]Summary, error)
}

func summarize(d Deck) Summary {
	return Summary{
		ID:            d.ID,
		Name:          d.Name,
		Language:      d.Language,
		Description:   d.Description,
		QuestionCount: len(d.Questions),
		AnswerCount:   len(d.Answers),
	}
}
