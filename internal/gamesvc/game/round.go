package game

// Round is one judged question cycle. Rounds form an append-only ledger on
// the room; only the latest round is ever mutated, and nothing is deleted.
// The judge never appears as a key in Answers.
type Round struct {
	QuestionCard      QuestionCard            `json:"questionCard"`
	Answers           map[string][]AnswerCard `json:"answerCards"`
	Judge             string                  `json:"judge"`
	Winner            string                  `json:"winner"`
	Revealed          []string                `json:"revealedCards"` // player ids, reveal order
	CurrentRevealedID string                  `json:"currentRevealedId"`
	AllRevealed       bool                    `json:"allCardsRevealed"`

	// submission order, so reveals do not depend on map iteration
	order []string
}

func newRound(question QuestionCard, judgeID string) *Round {
	return &Round{
		QuestionCard: question,
		Answers:      make(map[string][]AnswerCard),
		Judge:        judgeID,
	}
}

func (r *Round) submit(playerID string, cards []AnswerCard) {
	if _, ok := r.Answers[playerID]; !ok {
		r.order = append(r.order, playerID)
	}
	r.Answers[playerID] = cards
}

// revealNext advances the reveal pointer by one submission, in submission
// order. Once every submission is revealed it sets AllRevealed and returns
// false; the judge reviews before deciding, no phase change happens here.
func (r *Round) revealNext() bool {
	revealed := make(map[string]bool, len(r.Revealed))
	for _, id := range r.Revealed {
		revealed[id] = true
	}

	for _, id := range r.order {
		if revealed[id] {
			continue
		}
		r.Revealed = append(r.Revealed, id)
		r.CurrentRevealedID = id
		return true
	}

	r.AllRevealed = true
	return false
}

func (r *Round) submitters() []string {
	return append([]string(nil), r.order...)
}

func (r *Round) hasSubmission(playerID string) bool {
	_, ok := r.Answers[playerID]
	return ok
}

// ReplacePlayerID rewrites every typed reference to oldID so the ledger
// stays consistent after a reconnect handed the player a new identifier.
func (r *Round) ReplacePlayerID(oldID, newID string) {
	if r.Judge == oldID {
		r.Judge = newID
	}
	if r.Winner == oldID {
		r.Winner = newID
	}
	if r.CurrentRevealedID == oldID {
		r.CurrentRevealedID = newID
	}
	for i, id := range r.Revealed {
		if id == oldID {
			r.Revealed[i] = newID
		}
	}
	for i, id := range r.order {
		if id == oldID {
			r.order[i] = newID
		}
	}
	if cards, ok := r.Answers[oldID]; ok {
		delete(r.Answers, oldID)
		r.Answers[newID] = cards
	}
}
