package game

// Phase is the coarse room state driving which commands are accepted.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseStarting Phase = "starting"
	PhasePlaying  Phase = "playing"
	PhaseJudging  Phase = "judging"
	PhaseResults  Phase = "results"
	PhaseFinished Phase = "finished"
)

// autoplayArmed reports whether the room keeps an autoplay timer running
// while sitting in this phase.
func (p Phase) autoplayArmed() bool {
	switch p {
	case PhasePlaying, PhaseJudging, PhaseResults:
		return true
	}
	return false
}

// PlayerStatus is the per-round role of a player as shown to clients.
type PlayerStatus string

const (
	StatusJudge   PlayerStatus = "judge"
	StatusPending PlayerStatus = "pending"
	StatusDone    PlayerStatus = "done"
	StatusNone    PlayerStatus = "none"
	StatusWinner  PlayerStatus = "winner"
	StatusWaiting PlayerStatus = "waiting"
)
