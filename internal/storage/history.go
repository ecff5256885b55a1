package storage

import (
	"fmt"
	"time"

	"nuclight.org/parkraffle/internal/raffle"
)

// HistoryRepository journals finished raffles. The live raffle state is
// deliberately never persisted; only outcomes land here, for the owner's
// /history command and post-hoc disputes.
type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// RecordOutcome implements raffle.Recorder.
func (r *HistoryRepository) RecordOutcome(o raffle.Outcome) error {
	_, err := r.db.db.Exec(`
		INSERT INTO raffle_history (raffle_id, chat_id, place_number, participants, winner_id, winner_name, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.RaffleID, o.ChatID, o.PlaceNumber, o.Participants, o.WinnerID, o.WinnerName,
		o.FinishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert raffle outcome: %w", err)
	}
	return nil
}

// WinsOn returns the outcomes recorded on the given calendar date (local
// time), oldest first.
func (r *HistoryRepository) WinsOn(day time.Time) ([]raffle.Outcome, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	rows, err := r.db.db.Query(`
		SELECT raffle_id, chat_id, place_number, participants, winner_id, winner_name, finished_at
		FROM raffle_history
		WHERE finished_at >= ? AND finished_at < ?
		ORDER BY finished_at ASC`,
		start.Format(time.RFC3339), end.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query raffle history: %w", err)
	}
	defer rows.Close()

	var outcomes []raffle.Outcome
	for rows.Next() {
		var (
			o          raffle.Outcome
			finishedAt string
		)
		if err := rows.Scan(&o.RaffleID, &o.ChatID, &o.PlaceNumber, &o.Participants,
			&o.WinnerID, &o.WinnerName, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan raffle outcome: %w", err)
		}
		o.FinishedAt, err = time.Parse(time.RFC3339, finishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
