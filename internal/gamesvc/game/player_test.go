package game

import (
	"math/rand"
	"testing"
)

func handOf(ids ...string) []AnswerCard {
	var hand []AnswerCard
	for _, id := range ids {
		hand = append(hand, AnswerCard{ID: id})
	}
	return hand
}

func TestTakeFromHand(t *testing.T) {
	tests := []struct {
		name   string
		hand   []string
		take   []string
		wantOK bool
		remain int
	}{
		{"single", []string{"a", "b", "c"}, []string{"b"}, true, 2},
		{"multiple ordered", []string{"a", "b", "c"}, []string{"c", "a"}, true, 1},
		{"missing card", []string{"a", "b"}, []string{"x"}, false, 2},
		{"repeated id", []string{"a", "b"}, []string{"a", "a"}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Player{Hand: handOf(tt.hand...)}
			taken, ok := p.takeFromHand(tt.take)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if len(p.Hand) != tt.remain {
				t.Errorf("remaining hand = %d, want %d", len(p.Hand), tt.remain)
			}
			if !ok {
				return
			}
			for i, id := range tt.take {
				if taken[i].ID != id {
					t.Errorf("taken[%d] = %q, want %q (requested order)", i, taken[i].ID, id)
				}
			}
		})
	}
}

func TestRandomAnswerIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := &Player{Hand: handOf("a", "b", "c", "d")}

	ids := p.randomAnswerIDs(rng, 2)
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	if ids[0] == ids[1] {
		t.Error("picked the same card twice")
	}
	if len(p.Hand) != 4 {
		t.Error("randomAnswerIDs mutated the hand")
	}

	if got := p.randomAnswerIDs(rng, 5); got != nil {
		t.Errorf("short hand: got %v, want nil", got)
	}
}

func TestAbsorb(t *testing.T) {
	old := &Player{ID: "old", Score: 4, Status: StatusDone, HasSubmitted: true, Hand: handOf("a", "b")}
	p := &Player{ID: "new", Username: "fresh"}

	p.absorb(old)

	if p.Score != 4 || p.Status != StatusDone || !p.HasSubmitted || len(p.Hand) != 2 {
		t.Errorf("merge lost state: %+v", p)
	}
	if p.Username != "fresh" {
		t.Errorf("merge overwrote the new identity: %q", p.Username)
	}
}
