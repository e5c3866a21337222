package game

// QuestionCard is a round prompt. Spaces is the number of answer cards each
// submission must contain, always >= 1.
type QuestionCard struct {
	ID     string `json:"id" bson:"id"`
	Text   string `json:"text" bson:"text"`
	Spaces int    `json:"spaces" bson:"spaces"`
}

type AnswerCard struct {
	ID   string `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
}
