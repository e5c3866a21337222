package models

import "time"

// MatchRecord is one finished game archived for later listing.
type MatchRecord struct {
	Id         int64     `json:"id"`
	RoomId     string    `json:"room_id"`
	Champion   string    `json:"champion"`
	Rounds     int       `json:"rounds"`
	Players    int       `json:"players"`
	Scores     []Score   `json:"scores"`
	FinishedAt time.Time `json:"finished_at"`
}

// Score is one player's final tally inside a match record.
type Score struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}
