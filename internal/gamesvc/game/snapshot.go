package game

// GameState is the full room snapshot broadcast to every member after a
// committed change. Players are ordered by join sequence so clients render
// a stable roster.
type GameState struct {
	Config     RoomConfig   `json:"config"`
	Players    []Player     `json:"players"`
	Rounds     []*Round     `json:"rounds"`
	RoomStatus Phase        `json:"roomStatus"`
	Judge      string       `json:"judge"`
	Question   QuestionCard `json:"currentQuestionCard"`
	Leader     string       `json:"leader"`
}

// Snapshot returns a copy of the current room state.
func (r *Room) Snapshot() *GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() *GameState {
	state := &GameState{
		Config:     r.config,
		RoomStatus: r.phase,
		Judge:      r.judgeID,
		Question:   r.question,
		Leader:     r.leaderID,
		Rounds:     r.rounds,
	}
	for _, p := range r.playersInJoinOrder() {
		state.Players = append(state.Players, *p)
	}
	return state
}
