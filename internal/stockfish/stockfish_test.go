package stockfish

import (
	"os"
	"testing"
)

func TestCandidatePaths(t *testing.T) {
	t.Setenv("STOCKFISH_PATH", "/env/stockfish")

	paths := CandidatePaths("/configured/stockfish")
	if len(paths) == 0 {
		t.Fatal("no candidate paths")
	}
	if paths[0] != "/configured/stockfish" {
		t.Errorf("configured path must come first, got %q", paths[0])
	}
	if paths[1] != "/env/stockfish" {
		t.Errorf("$STOCKFISH_PATH must come second, got %q", paths[1])
	}
	if paths[len(paths)-1] != "stockfish" {
		t.Errorf("bare binary name must come last, got %q", paths[len(paths)-1])
	}
}

func TestCandidatePathsDeduplicates(t *testing.T) {
	t.Setenv("STOCKFISH_PATH", "/usr/bin/stockfish")

	paths := CandidatePaths("/usr/bin/stockfish")
	seen := make(map[string]int)
	for _, p := range paths {
		seen[p]++
	}
	if seen["/usr/bin/stockfish"] != 1 {
		t.Errorf("duplicate paths not removed: %v", paths)
	}
}

func TestCandidatePathsSkipEmpty(t *testing.T) {
	t.Setenv("STOCKFISH_PATH", "")

	for _, p := range CandidatePaths("") {
		if p == "" {
			t.Error("empty candidate path not skipped")
		}
	}
}

func TestProbeWithNoEngine(t *testing.T) {
	for _, p := range []string{"/usr/bin/stockfish", "/usr/local/bin/stockfish"} {
		if _, err := os.Stat(p); err == nil {
			t.Skip("system stockfish installed")
		}
	}
	t.Setenv("STOCKFISH_PATH", "/nonexistent/stockfish")
	t.Setenv("PATH", t.TempDir())

	// No engine anywhere: Probe must return nil rather than fail, so
	// the host can fall back to the embedded searcher.
	if eng := Probe("/also/nonexistent", nil); eng != nil {
		eng.Close()
		t.Error("Probe found an engine where none exists")
	}
}
