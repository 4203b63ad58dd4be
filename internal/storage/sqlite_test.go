package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-armada/internal/multiplayer"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// The database file must exist on disk
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRecentBattles(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some battles
	if _, err := store.SaveBattle("battle", true, 20, 44); err != nil {
		t.Fatalf("SaveBattle() failed: %v", err)
	}
	if _, err := store.SaveBattle("battle", false, 7, 31); err != nil {
		t.Fatalf("SaveBattle() failed: %v", err)
	}
	if _, err := store.SaveBattle("battle", true, 20, 28); err != nil {
		t.Fatalf("SaveBattle() failed: %v", err)
	}

	// Different mode
	if _, err := store.SaveBattle("battle_streak", true, 20, 35); err != nil {
		t.Fatalf("SaveBattle() failed: %v", err)
	}

	records, err := store.RecentBattles("battle", 10)
	if err != nil {
		t.Fatalf("RecentBattles() failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 battles, got %d", len(records))
	}

	// Newest first; all three land in the same timestamp second, so the
	// id tiebreaker decides
	if records[0].Shots != 28 {
		t.Errorf("Expected newest battle first (28 shots), got %d", records[0].Shots)
	}
	if records[2].Shots != 44 {
		t.Errorf("Expected oldest battle last (44 shots), got %d", records[2].Shots)
	}

	if !records[0].Won || records[0].Hits != 20 {
		t.Errorf("Battle fields not round-tripped: %+v", records[0])
	}
	if records[1].Won {
		t.Errorf("Lost battle came back as won: %+v", records[1])
	}

	streak, err := store.RecentBattles("battle_streak", 10)
	if err != nil {
		t.Fatalf("RecentBattles() failed: %v", err)
	}
	if len(streak) != 1 {
		t.Errorf("Expected 1 streak battle, got %d", len(streak))
	}
}

func TestStoreRecentBattlesLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		store.SaveBattle("battle", false, i, i*2)
	}

	records, err := store.RecentBattles("battle", 3)
	if err != nil {
		t.Fatalf("RecentBattles() failed: %v", err)
	}

	if len(records) != 3 {
		t.Errorf("Expected 3 battles with limit, got %d", len(records))
	}
}

func TestStoreBattleStats(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No battles yet
	stats, err := store.BattleStats("battle")
	if err != nil {
		t.Fatalf("BattleStats() failed: %v", err)
	}
	if stats.Battles != 0 || stats.Wins != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	// Accuracies per battle: 50%, 20%, 40%
	store.SaveBattle("battle", true, 20, 40)
	store.SaveBattle("battle", false, 5, 25)
	store.SaveBattle("battle", true, 20, 50)

	stats, err = store.BattleStats("battle")
	if err != nil {
		t.Fatalf("BattleStats() failed: %v", err)
	}

	if stats.Battles != 3 {
		t.Errorf("Expected 3 battles, got %d", stats.Battles)
	}
	if stats.Wins != 2 {
		t.Errorf("Expected 2 wins, got %d", stats.Wins)
	}
	if diff := stats.BestAccuracy - 50.0; diff > 0.001 || diff < -0.001 {
		t.Errorf("Expected best accuracy 50%%, got %.2f", stats.BestAccuracy)
	}
	wantAvg := (40.0 + 25.0 + 50.0) / 3.0
	if diff := stats.AvgShots - wantAvg; diff > 0.001 || diff < -0.001 {
		t.Errorf("Expected avg shots %.2f, got %.2f", wantAvg, stats.AvgShots)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set after battles were saved")
	}
}

func TestStoreAllBattleStats(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveBattle("battle", true, 20, 40)
	store.SaveBattle("battle", false, 3, 10)
	store.SaveBattle("battle_streak", true, 20, 30)

	all, err := store.AllBattleStats()
	if err != nil {
		t.Fatalf("AllBattleStats() failed: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("Expected stats for 2 modes, got %d", len(all))
	}
	if all["battle"].Battles != 2 || all["battle"].Wins != 1 {
		t.Errorf("Unexpected classic stats: %+v", all["battle"])
	}
	if all["battle_streak"].Battles != 1 || all["battle_streak"].Wins != 1 {
		t.Errorf("Unexpected streak stats: %+v", all["battle_streak"])
	}
}

func TestStoreClearBattles(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveBattle("battle", true, 20, 40)
	store.SaveBattle("battle", false, 5, 20)
	store.SaveBattle("battle_streak", true, 20, 33)

	if err := store.ClearBattles("battle"); err != nil {
		t.Fatalf("ClearBattles() failed: %v", err)
	}

	// Classic should be empty
	records, _ := store.RecentBattles("battle", 10)
	if len(records) != 0 {
		t.Errorf("Expected 0 classic battles after clear, got %d", len(records))
	}

	// Streak records survive
	streak, _ := store.RecentBattles("battle_streak", 10)
	if len(streak) != 1 {
		t.Errorf("Streak battles should not be affected by clearing classic")
	}
}

func TestStoreOnlineMatches(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	result := OnlineMatchResult{
		MatchID:        "match-1",
		GameID:         "battle",
		Player1Session: "alice-1",
		Player2Session: "bob-2",
		Score1:         20,
		Score2:         14,
		WinnerSession:  "alice-1",
		EndReason:      "Fleet destroyed",
		Duration:       312,
	}

	if _, err := store.SaveOnlineMatch(result); err != nil {
		t.Fatalf("SaveOnlineMatch() failed: %v", err)
	}

	got, err := store.OnlineMatchByID("match-1")
	if err != nil {
		t.Fatalf("OnlineMatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("OnlineMatchByID() returned nil for existing match")
	}
	if got.Score1 != 20 || got.Score2 != 14 {
		t.Errorf("Scores not round-tripped: %d:%d", got.Score1, got.Score2)
	}
	if got.WinnerSession != "alice-1" {
		t.Errorf("Expected winner alice-1, got %q", got.WinnerSession)
	}
	if got.Duration != 312 {
		t.Errorf("Expected duration 312, got %d", got.Duration)
	}

	missing, err := store.OnlineMatchByID("no-such-match")
	if err != nil {
		t.Fatalf("OnlineMatchByID() failed for missing match: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown match ID")
	}

	recent, err := store.RecentOnlineMatches(10)
	if err != nil {
		t.Fatalf("RecentOnlineMatches() failed: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("Expected 1 recent match, got %d", len(recent))
	}

	// History is visible from both seats
	for _, session := range []string{"alice-1", "bob-2"} {
		history, err := store.PlayerMatchHistory(session, 10)
		if err != nil {
			t.Fatalf("PlayerMatchHistory(%s) failed: %v", session, err)
		}
		if len(history) != 1 {
			t.Errorf("Expected 1 match in %s history, got %d", session, len(history))
		}
	}

	history, err := store.PlayerMatchHistory("stranger", 10)
	if err != nil {
		t.Fatalf("PlayerMatchHistory() failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty history for uninvolved session, got %d", len(history))
	}
}

func TestStoreSaveMatchResultAdapter(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	data := multiplayer.MatchResultData{
		MatchID:        "match-coord",
		GameID:         "battle_streak",
		Player1Session: "host-9",
		Player2Session: "guest-4",
		Score1:         12,
		Score2:         20,
		WinnerSession:  "guest-4",
		EndReason:      "Fleet destroyed",
		DurationSecs:   145,
	}

	if err := store.SaveMatchResult(data); err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.OnlineMatchByID("match-coord")
	if err != nil {
		t.Fatalf("OnlineMatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Match saved through the adapter was not found")
	}
	if got.GameID != "battle_streak" || got.WinnerSession != "guest-4" {
		t.Errorf("Adapter did not map fields: %+v", got)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Verify nested directories are created for the database file
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
