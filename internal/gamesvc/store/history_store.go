package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccc-cards/card-services/internal/gamesvc/models"
)

type HistoryStore struct {
	db *pgxpool.Pool
}

func NewHistoryStore(db *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{db: db}
}

// InsertMatch archives one finished game.
func (s *HistoryStore) InsertMatch(ctx context.Context, rec *models.MatchRecord) error {
	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}

	query := `
		INSERT INTO match_history (room_id, champion, rounds, players, scores, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = s.db.QueryRow(ctx, query,
		rec.RoomId,
		rec.Champion,
		rec.Rounds,
		rec.Players,
		scores,
		rec.FinishedAt,
	).Scan(&rec.Id)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

// ListRecent returns the most recently finished matches, newest first.
func (s *HistoryStore) ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error) {
	query := `
		SELECT id, room_id, champion, rounds, players, scores, finished_at
		FROM match_history
		ORDER BY finished_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []models.MatchRecord
	for rows.Next() {
		var rec models.MatchRecord
		var scores []byte
		err := rows.Scan(
			&rec.Id,
			&rec.RoomId,
			&rec.Champion,
			&rec.Rounds,
			&rec.Players,
			&scores,
			&rec.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal(scores, &rec.Scores); err != nil {
			return nil, fmt.Errorf("failed to decode scores: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
