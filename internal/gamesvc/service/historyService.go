package service

import (
	"context"
	"time"

	"github.com/ccc-cards/card-services/internal/gamesvc/game"
	"github.com/ccc-cards/card-services/internal/gamesvc/models"
	"github.com/ccc-cards/card-services/internal/gamesvc/store"
)

type HistoryService struct {
	store *store.HistoryStore
}

func NewHistoryService(store *store.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// RecordFromState builds an archive record from a finished game snapshot.
func RecordFromState(roomID string, state *game.GameState) *models.MatchRecord {
	rec := &models.MatchRecord{
		RoomId:     roomID,
		Rounds:     len(state.Rounds),
		Players:    len(state.Players),
		FinishedAt: time.Now().UTC(),
	}
	for _, p := range state.Players {
		rec.Scores = append(rec.Scores, models.Score{Username: p.Username, Score: p.Score})
		if p.Status == game.StatusWinner {
			rec.Champion = p.Username
		}
	}
	return rec
}

func (s *HistoryService) ArchiveFinished(ctx context.Context, rec *models.MatchRecord) error {
	return s.store.InsertMatch(ctx, rec)
}

func (s *HistoryService) ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListRecent(ctx, limit)
}
