package game

import "time"

const (
	// MinimumHandSize is the base number of answer cards a player keeps in
	// hand; the dealing target is this plus the question's blank count.
	MinimumHandSize = 5

	// lobbyPurgeDelay is the grace window before a player who dropped in
	// the lobby is removed from the room.
	lobbyPurgeDelay = 15 * time.Second

	// autoplaySlack is added to the configured round time before the
	// autoplay timer fires, giving clients time to render the transition.
	autoplaySlack = 1 * time.Second
)

// RoomConfig is the admin-tunable room setup. Decks holds the selected
// deck ids; draws run against the union of those decks' catalogs.
type RoomConfig struct {
	RoomSize   int      `json:"roomSize"`
	ScoreToWin int      `json:"scoreToWin"`
	RoundTime  int      `json:"roundTime"` // seconds
	Decks      []string `json:"decks"`
}

func DefaultConfig() RoomConfig {
	return RoomConfig{
		RoomSize:   14,
		ScoreToWin: 8,
		RoundTime:  20,
	}
}

// ConfigUpdate is a partial configuration change; nil fields keep their
// current values.
type ConfigUpdate struct {
	RoomSize   *int
	ScoreToWin *int
	RoundTime  *int
	Decks      []string
}

func (c *RoomConfig) apply(u ConfigUpdate) error {
	if u.RoomSize != nil {
		if *u.RoomSize < 4 || *u.RoomSize > 20 {
			return wrapf(ErrConfigOutOfRange, "roomSize %d not in [4,20]", *u.RoomSize)
		}
		c.RoomSize = *u.RoomSize
	}
	if u.ScoreToWin != nil {
		if *u.ScoreToWin < 1 || *u.ScoreToWin > 20 {
			return wrapf(ErrConfigOutOfRange, "scoreToWin %d not in [1,20]", *u.ScoreToWin)
		}
		c.ScoreToWin = *u.ScoreToWin
	}
	if u.RoundTime != nil {
		if *u.RoundTime < 10 || *u.RoundTime > 60 {
			return wrapf(ErrConfigOutOfRange, "roundTime %d not in [10,60]", *u.RoundTime)
		}
		c.RoundTime = *u.RoundTime
	}
	if u.Decks != nil {
		c.Decks = append([]string(nil), u.Decks...)
	}
	return nil
}
