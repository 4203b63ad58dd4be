// Package storage persists battle results in SQLite through the pure
// Go modernc.org/sqlite driver, so builds stay cgo-free.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/vovakirdan/tui-armada/internal/multiplayer"
)

// Store is the SQLite-backed battle record book.
type Store struct {
	db *sql.DB
}

// BattleRecord represents one finished local battle.
type BattleRecord struct {
	ID        int64
	GameID    string
	Won       bool // True if the player sank the whole enemy fleet
	Hits      int
	Shots     int
	CreatedAt time.Time
}

// OnlineMatchResult is one stored online PvP battle.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty when nobody won (lobby closed before the first shot)
	EndReason      string // "Fleet destroyed", "Opponent conceded", ...
	Duration       int    // seconds
	CreatedAt      time.Time
}

// Open opens (creating if needed) the database at dbPath, with parent
// directories and schema taken care of. A leading ~ means the home
// directory.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// sql.Open is lazy; ping so a bad path fails here, not mid-battle
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate applies the schema. Every statement is idempotent.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS battles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			shots INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_battles_game_id ON battles(game_id);
		CREATE INDEX IF NOT EXISTS idx_battles_recent ON battles(game_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_game_id ON online_matches(game_id);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player1 ON online_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player2 ON online_matches(player2_session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTimestamp converts a scanned created_at value to time.Time.
// The driver may hand back either a time.Time or a string.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveBattle records a finished local battle for the given game and
// returns the new row's ID.
func (s *Store) SaveBattle(gameID string, won bool, hits, shots int) (int64, error) {
	wonInt := 0
	if won {
		wonInt = 1
	}

	result, err := s.db.Exec(
		"INSERT INTO battles (game_id, won, hits, shots) VALUES (?, ?, ?, ?)",
		gameID, wonInt, hits, shots,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save battle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentBattles retrieves the most recent battles for the given game.
// Results are ordered newest first.
func (s *Store) RecentBattles(gameID string, limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, won, hits, shots, created_at
		 FROM battles
		 WHERE game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query battles: %w", err)
	}
	defer rows.Close()

	var records []BattleRecord
	for rows.Next() {
		var r BattleRecord
		var won int
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &won, &r.Hits, &r.Shots, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Won = won != 0
		r.CreatedAt = parseTimestamp(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ClearBattles deletes all battle records for the given game.
func (s *Store) ClearBattles(gameID string) error {
	_, err := s.db.Exec("DELETE FROM battles WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear battles: %w", err)
	}
	return nil
}

// BattleStats contains aggregated statistics for one battle mode.
type BattleStats struct {
	GameID       string
	Battles      int
	Wins         int
	BestAccuracy float64 // Percent, best single-battle hit rate
	AvgShots     float64
	LastPlayed   time.Time
}

// BattleStats retrieves aggregated statistics for a specific battle mode.
func (s *Store) BattleStats(gameID string) (*BattleStats, error) {
	stats := &BattleStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(won), 0),
		        COALESCE(MAX(CASE WHEN shots > 0 THEN hits * 100.0 / shots ELSE 0 END), 0),
		        COALESCE(AVG(shots), 0)
		 FROM battles WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Battles, &stats.Wins, &stats.BestAccuracy, &stats.AvgShots)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get battle stats: %w", err)
	}

	// Newest battle timestamp, when any battles exist
	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM battles WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// AllBattleStats retrieves statistics for every battle mode that has
// recorded battles.
func (s *Store) AllBattleStats() (map[string]*BattleStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id,
		        COUNT(*),
		        SUM(won),
		        MAX(CASE WHEN shots > 0 THEN hits * 100.0 / shots ELSE 0 END),
		        AVG(shots),
		        MAX(created_at)
		 FROM battles
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get battle stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BattleStats)
	for rows.Next() {
		var st BattleStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.Battles, &st.Wins, &st.BestAccuracy, &st.AvgShots, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTimestamp(lastPlayed)
		stats[st.GameID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// SaveOnlineMatch writes one finished online battle and returns the
// new row's ID.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, player1_session, player2_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.GameID,
		result.Player1Session,
		result.Player2Session,
		result.Score1,
		result.Score2,
		result.WinnerSession,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// scanOnlineMatch reads one online_matches row into a result struct.
func scanOnlineMatch(rows interface {
	Scan(dest ...any) error
}) (OnlineMatchResult, error) {
	var result OnlineMatchResult
	var createdAt any
	var winnerSession sql.NullString

	err := rows.Scan(
		&result.ID,
		&result.MatchID,
		&result.GameID,
		&result.Player1Session,
		&result.Player2Session,
		&result.Score1,
		&result.Score2,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)
	if err != nil {
		return result, err
	}

	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseTimestamp(createdAt)
	return result, nil
}

// OnlineMatchByID looks one online battle up by its match ID.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	row := s.db.QueryRow(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM online_matches
		 WHERE match_id = ?`,
		matchID,
	)

	result, err := scanOnlineMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}

	return &result, nil
}

// RecentOnlineMatches lists the latest online battles, newest first.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM online_matches
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanOnlineMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerMatchHistory lists matches where the session held either seat.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanOnlineMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver, mapping the
// coordinator's result into an online match row.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	result := OnlineMatchResult{
		MatchID:        data.MatchID,
		GameID:         data.GameID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	}
	_, err := s.SaveOnlineMatch(result)
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)
