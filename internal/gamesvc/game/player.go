package game

import (
	"math/rand"

	"github.com/jonboulle/clockwork"
)

// Player is one identity inside a room. The three presence flags are
// orthogonal: IsOffline tracks connectivity, IsBot marks an offline player
// kept in the round so it does not stall, and IsWaitingForNextRound parks a
// (re)joining player until the next round deals them in.
type Player struct {
	ID                    string       `json:"id"`
	Username              string       `json:"username"`
	PictureUrl            string       `json:"pictureUrl"`
	Score                 int          `json:"score"`
	Status                PlayerStatus `json:"status"`
	HasSubmitted          bool         `json:"hasSubmittedCards"`
	Hand                  []AnswerCard `json:"cards"`
	IsOffline             bool         `json:"isOffline"`
	IsBot                 bool         `json:"isBot"`
	IsWaitingForNextRound bool         `json:"isWaitingForNextRound"`

	joinSeq    int
	purgeTimer clockwork.Timer
}

func (p *Player) addCards(cards []AnswerCard) {
	p.Hand = append(p.Hand, cards...)
}

// takeFromHand removes the given card ids from the hand and returns the
// removed cards in the requested order. It fails without mutating the hand
// if any id is missing or repeated.
func (p *Player) takeFromHand(cardIDs []string) ([]AnswerCard, bool) {
	taken := make([]AnswerCard, 0, len(cardIDs))
	used := make(map[int]bool, len(cardIDs))

	for _, id := range cardIDs {
		found := -1
		for i, card := range p.Hand {
			if card.ID == id && !used[i] {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		used[found] = true
		taken = append(taken, p.Hand[found])
	}

	remaining := make([]AnswerCard, 0, len(p.Hand)-len(taken))
	for i, card := range p.Hand {
		if !used[i] {
			remaining = append(remaining, card)
		}
	}
	p.Hand = remaining
	return taken, true
}

// randomAnswerIDs picks count distinct card ids from the hand, used by the
// autoplay path to submit for players who ran out of time.
func (p *Player) randomAnswerIDs(rng *rand.Rand, count int) []string {
	if count > len(p.Hand) {
		return nil
	}
	perm := rng.Perm(len(p.Hand))
	ids := make([]string, count)
	for i := 0; i < count; i++ {
		ids[i] = p.Hand[perm[i]].ID
	}
	return ids
}

// absorb copies the game-relevant state of a previous record onto this
// player during a reconnect merge. Presence flags are decided by the
// caller based on the room phase.
func (p *Player) absorb(old *Player) {
	p.Score = old.Score
	p.Status = old.Status
	p.HasSubmitted = old.HasSubmitted
	p.Hand = old.Hand
	old.cancelPurge()
}

func (p *Player) cancelPurge() {
	if p.purgeTimer != nil {
		p.purgeTimer.Stop()
		p.purgeTimer = nil
	}
}

func (p *Player) resetForLobby() {
	p.Score = 0
	p.Status = StatusPending
	p.HasSubmitted = false
	p.Hand = nil
	p.IsWaitingForNextRound = false
}
