package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keySavedGame   = "saved_game"
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// SavedGame is a snapshot of an in-progress game, enough to continue it
// after a restart.
type SavedGame struct {
	FEN        string    `json:"fen"`
	Moves      []string  `json:"moves"` // UCI notation, in play order
	HumanColor string    `json:"human_color"`
	Difficulty string    `json:"difficulty"`
	AIEnabled  bool      `json:"ai_enabled"`
	SavedAt    time.Time `json:"saved_at"`
}

// Preferences stores user settings that outlive a single game.
type Preferences struct {
	Difficulty string    `json:"difficulty"`
	HumanColor string    `json:"human_color"`
	AIEnabled  bool      `json:"ai_enabled"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns the out-of-the-box settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Difficulty: "medium",
		HumanColor: "white",
		AIEnabled:  true,
	}
}

// Stats stores game statistics.
type Stats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewStats returns empty game statistics.
func NewStats() *Stats {
	return &Stats{WinsByDiff: make(map[string]int)}
}

// WinRate returns the win rate as a percentage (0-100).
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// GameRecord describes one completed game for the statistics.
type GameRecord struct {
	Won        bool
	Draw       bool
	Difficulty string
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database under dataDir; an empty dataDir
// means the platform default.
func Open(dataDir string) (*Storage, error) {
	dbDir, err := DatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON unmarshals the value at key into v; found is false when the
// key does not exist.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SaveGame persists the in-progress game snapshot.
func (s *Storage) SaveGame(game *SavedGame) error {
	game.SavedAt = time.Now()
	return s.setJSON(keySavedGame, game)
}

// LoadGame returns the saved game, or nil when there is none.
func (s *Storage) LoadGame() (*SavedGame, error) {
	var game SavedGame
	found, err := s.getJSON(keySavedGame, &game)
	if err != nil || !found {
		return nil, err
	}
	return &game, nil
}

// ClearGame discards the saved game, e.g. when the player starts over.
func (s *Storage) ClearGame() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keySavedGame))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// SavePreferences saves user preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.setJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returning defaults when none
// are stored.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.getJSON(keyPreferences, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// LoadStats loads game statistics, returning empty stats when none are
// stored.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	if _, err := s.getJSON(keyStats, stats); err != nil {
		return nil, err
	}
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates the statistics.
func (s *Storage) RecordGame(rec GameRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch {
	case rec.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case rec.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByDiff[rec.Difficulty]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.setJSON(keyStats, stats)
}
