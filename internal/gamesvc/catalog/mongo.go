package catalog

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ccc-cards/card-services/internal/gamesvc/game"
)

// MongoCatalog serves decks from the "decks" collection.
type MongoCatalog struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoCatalog(ctx context.Context, uri, database string) (*MongoCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Infof("mongo catalog: connected to %s", database)
	return &MongoCatalog{
		client: client,
		col:    client.Database(database).Collection("decks"),
	}, nil
}

func (c *MongoCatalog) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *MongoCatalog) ListDecks(ctx context.Context) ([]Summary, error) {
	cur, err := c.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer cur.Close(ctx)

	var out []Summary
	for cur.Next(ctx) {
		var d Deck
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode deck: %w", err)
		}
		out = append(out, summarize(d))
	}
	return out, cur.Err()
}

func (c *MongoCatalog) findDecks(ctx context.Context, deckIDs []string) ([]Deck, error) {
	cur, err := c.col.Find(ctx, bson.M{"id": bson.M{"$in": deckIDs}})
	if err != nil {
		return nil, fmt.Errorf("find decks: %w", err)
	}
	defer cur.Close(ctx)

	var out []Deck
	for cur.Next(ctx) {
		var d Deck
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode deck: %w", err)
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

func (c *MongoCatalog) ListQuestions(ctx context.Context, deckIDs []string) ([]game.QuestionCard, error) {
	decks, err := c.findDecks(ctx, deckIDs)
	if err != nil {
		return nil, err
	}
	var out []game.QuestionCard
	for _, d := range decks {
		out = append(out, d.Questions...)
	}
	return out, nil
}

func (c *MongoCatalog) ListAnswers(ctx context.Context, deckIDs []string) ([]game.AnswerCard, error) {
	decks, err := c.findDecks(ctx, deckIDs)
	if err != nil {
		return nil, err
	}
	var out []game.AnswerCard
	for _, d := range decks {
		out = append(out, d.Answers...)
	}
	return out, nil
}
