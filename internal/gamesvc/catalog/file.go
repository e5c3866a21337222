package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ccc-cards/card-services/internal/gamesvc/game"
)

// FileCatalog serves decks from a directory of JSON files named
// <language>_deck_<id>.json. Files are loaded once at startup; a file
// whose id disagrees with its name is indexed under the name's id.
type FileCatalog struct {
	decks map[string]Deck
}

func NewFileCatalog(dir string) (*FileCatalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read deck dir: %w", err)
	}

	c := &FileCatalog{decks: make(map[string]Deck)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		lang, id, ok := parseDeckFileName(e.Name())
		if !ok {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read deck %s: %w", e.Name(), err)
		}
		var d Deck
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("parse deck %s: %w", e.Name(), err)
		}
		d.ID = id
		if d.Language == "" {
			d.Language = lang
		}
		c.decks[id] = d
	}

	log.Infof("file catalog: loaded %d decks from %s", len(c.decks), dir)
	return c, nil
}

func parseDeckFileName(name string) (lang, id string, ok bool) {
	base := strings.TrimSuffix(name, ".json")
	lang, rest, found := strings.Cut(base, "_deck_")
	if !found || lang == "" || rest == "" {
		return "", "", false
	}
	return lang, rest, true
}

func (c *FileCatalog) ListDecks(ctx context.Context) ([]Summary, error) {
	out := make([]Summary, 0, len(c.decks))
	for _, d := range c.decks {
		out = append(out, summarize(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *FileCatalog) ListQuestions(ctx context.Context, deckIDs []string) ([]game.QuestionCard, error) {
	var out []game.QuestionCard
	for _, id := range deckIDs {
		if d, ok := c.decks[id]; ok {
			out = append(out, d.Questions...)
		}
	}
	return out, nil
}

func (c *FileCatalog) ListAnswers(ctx context.Context, deckIDs []string) ([]game.AnswerCard, error) {
	var out []game.AnswerCard
	for _, id := range deckIDs {
		if d, ok := c.decks[id]; ok {
			out = append(out, d.Answers...)
		}
	}
	return out, nil
}
