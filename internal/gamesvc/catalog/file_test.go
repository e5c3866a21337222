package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeDeckFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestCatalog(t *testing.T) *FileCatalog {
	t.Helper()
	dir := t.TempDir()
	writeDeckFile(t, dir, "en_deck_base.json", `{
		"name": "Base Set",
		"description": "starter deck",
		"questions": [
			{"id": "q1", "text": "Why __?", "spaces": 1},
			{"id": "q2", "text": "__ plus __", "spaces": 2}
		],
		"answers": [
			{"id": "a1", "text": "one"},
			{"id": "a2", "text": "two"},
			{"id": "a3", "text": "three"}
		]
	}`)
	writeDeckFile(t, dir, "pt_deck_festa.json", `{
		"name": "Festa",
		"questions": [{"id": "q3", "text": "Cadê __?", "spaces": 1}],
		"answers": [{"id": "a4", "text": "quatro"}]
	}`)
	writeDeckFile(t, dir, "notes.txt", "not a deck")
	writeDeckFile(t, dir, "malformed-name.json", `{}`)

	c, err := NewFileCatalog(dir)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestFileCatalogListDecks(t *testing.T) {
	c := newTestCatalog(t)

	decks, err := c.ListDecks(context.Background())
	if err != nil {
		t.Fatalf("list decks: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("got %d decks, want 2", len(decks))
	}
	base := decks[0]
	if base.ID != "base" || base.Language != "en" || base.Name != "Base Set" {
		t.Errorf("unexpected summary %+v", base)
	}
	if base.QuestionCount != 2 || base.AnswerCount != 3 {
		t.Errorf("counts = %d/%d, want 2/3", base.QuestionCount, base.AnswerCount)
	}
	if decks[1].ID != "festa" || decks[1].Language != "pt" {
		t.Errorf("unexpected summary %+v", decks[1])
	}
}

func TestFileCatalogListCards(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	questions, err := c.ListQuestions(ctx, []string{"base", "festa"})
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("questions = %d, want 3", len(questions))
	}

	answers, err := c.ListAnswers(ctx, []string{"base"})
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 3 {
		t.Errorf("answers = %d, want 3", len(answers))
	}

	none, err := c.ListAnswers(ctx, []string{"unknown"})
	if err != nil {
		t.Fatalf("list unknown deck: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown deck returned %d cards", len(none))
	}
}

func TestParseDeckFileName(t *testing.T) {
	tests := []struct {
		in       string
		lang, id string
		ok       bool
	}{
		{"en_deck_base.json", "en", "base", true},
		{"pt_deck_festa.json", "pt", "festa", true},
		{"deck_base.json", "", "", false},
		{"en_base.json", "", "", false},
		{"_deck_base.json", "", "", false},
	}
	for _, tt := range tests {
		lang, id, ok := parseDeckFileName(tt.in)
		if lang != tt.lang || id != tt.id || ok != tt.ok {
			t.Errorf("parseDeckFileName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, lang, id, ok, tt.lang, tt.id, tt.ok)
		}
	}
}
