package storage

import (
	"os"
	"testing"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSavedGameRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	loaded, err := s.LoadGame()
	if err != nil {
		t.Fatalf("LoadGame failed: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected no saved game in a fresh store")
	}

	game := &SavedGame{
		FEN:        "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		Moves:      []string{"e2e4"},
		HumanColor: "white",
		Difficulty: "hard",
		AIEnabled:  true,
	}
	if err := s.SaveGame(game); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}

	loaded, err = s.LoadGame()
	if err != nil {
		t.Fatalf("LoadGame failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("saved game not found")
	}
	if loaded.FEN != game.FEN || len(loaded.Moves) != 1 || loaded.Moves[0] != "e2e4" {
		t.Errorf("wrong game loaded: %+v", loaded)
	}
	if loaded.Difficulty != "hard" || !loaded.AIEnabled {
		t.Errorf("settings not preserved: %+v", loaded)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt not stamped on save")
	}

	if err := s.ClearGame(); err != nil {
		t.Fatalf("ClearGame failed: %v", err)
	}
	loaded, err = s.LoadGame()
	if err != nil || loaded != nil {
		t.Errorf("game still present after clear: %+v, %v", loaded, err)
	}
}

func TestClearGameWithoutSave(t *testing.T) {
	s := openTestStorage(t)
	if err := s.ClearGame(); err != nil {
		t.Errorf("clearing an empty store should succeed: %v", err)
	}
}

func TestPreferences(t *testing.T) {
	s := openTestStorage(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs.Difficulty != "medium" || prefs.HumanColor != "white" || !prefs.AIEnabled {
		t.Errorf("wrong defaults: %+v", prefs)
	}

	prefs.Difficulty = "easy"
	prefs.HumanColor = "black"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if loaded.Difficulty != "easy" || loaded.HumanColor != "black" {
		t.Errorf("preferences not preserved: %+v", loaded)
	}
	if loaded.LastPlayed.IsZero() {
		t.Error("LastPlayed not stamped on save")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTestStorage(t)

	records := []GameRecord{
		{Won: true, Difficulty: "medium"},
		{Won: true, Difficulty: "medium"},
		{Draw: true, Difficulty: "medium"},
		{Won: false, Difficulty: "hard"},
	}
	for _, rec := range records {
		if err := s.RecordGame(rec); err != nil {
			t.Fatalf("RecordGame failed: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if stats.GamesPlayed != 4 || stats.Wins != 2 || stats.Draws != 1 || stats.Losses != 1 {
		t.Errorf("wrong totals: %+v", stats)
	}
	if stats.WinsByDiff["medium"] != 2 {
		t.Errorf("wins by difficulty not tracked: %+v", stats.WinsByDiff)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks wrong: %+v", stats)
	}
	if rate := stats.WinRate(); rate != 50 {
		t.Errorf("want 50%% win rate, got %.2f%%", rate)
	}
}

func TestStatsWinRateEmpty(t *testing.T) {
	if rate := NewStats().WinRate(); rate != 0 {
		t.Errorf("empty stats should have 0 win rate, got %.2f", rate)
	}
}

func TestDataPaths(t *testing.T) {
	tmp := t.TempDir()
	dbDir, err := DatabaseDir(tmp)
	if err != nil {
		t.Fatalf("DatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); err != nil {
		t.Errorf("database directory was not created: %v", err)
	}
	t.Logf("Database directory: %s", dbDir)
}
