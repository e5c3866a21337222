package game

import "testing"

func TestRevealFollowsSubmissionOrder(t *testing.T) {
	r := newRound(QuestionCard{ID: "q1", Spaces: 1}, "judge")
	r.submit("b", []AnswerCard{{ID: "a1"}})
	r.submit("a", []AnswerCard{{ID: "a2"}})
	r.submit("c", []AnswerCard{{ID: "a3"}})

	want := []string{"b", "a", "c"}
	for i, id := range want {
		if !r.revealNext() {
			t.Fatalf("revealNext returned false at step %d", i)
		}
		if r.CurrentRevealedID != id {
			t.Fatalf("reveal %d = %q, want %q", i, r.CurrentRevealedID, id)
		}
	}
	if r.AllRevealed {
		t.Error("AllRevealed set before the closing call")
	}
	if r.revealNext() {
		t.Error("revealNext reported progress past the last submission")
	}
	if !r.AllRevealed {
		t.Error("AllRevealed not set after the closing call")
	}
}

func TestResubmitOverwritesWithoutDuplicateOrder(t *testing.T) {
	r := newRound(QuestionCard{ID: "q1"}, "judge")
	r.submit("a", []AnswerCard{{ID: "a1"}})
	r.submit("a", []AnswerCard{{ID: "a2"}})

	if got := len(r.submitters()); got != 1 {
		t.Errorf("submitters = %d, want 1", got)
	}
	if got := r.Answers["a"]; len(got) != 1 || got[0].ID != "a2" {
		t.Errorf("answers = %v, want the later submission", got)
	}
}

func TestReplacePlayerID(t *testing.T) {
	r := newRound(QuestionCard{ID: "q1"}, "old")
	r.submit("old", []AnswerCard{{ID: "a1"}})
	r.submit("other", []AnswerCard{{ID: "a2"}})
	r.revealNext()
	r.Winner = "old"

	r.ReplacePlayerID("old", "new")

	if r.Judge != "new" {
		t.Errorf("judge = %q, want new", r.Judge)
	}
	if r.Winner != "new" {
		t.Errorf("winner = %q, want new", r.Winner)
	}
	if r.CurrentRevealedID != "new" {
		t.Errorf("current revealed = %q, want new", r.CurrentRevealedID)
	}
	if r.Revealed[0] != "new" {
		t.Errorf("revealed[0] = %q, want new", r.Revealed[0])
	}
	if r.hasSubmission("old") {
		t.Error("answers still keyed by old id")
	}
	if got := r.Answers["new"]; len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("answers[new] = %v, want the original submission", got)
	}
	if got := r.submitters(); got[0] != "new" || got[1] != "other" {
		t.Errorf("submission order = %v, want [new other]", got)
	}
}
