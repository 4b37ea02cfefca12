// Package store reads the team config and reads and writes the two
// published artifacts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/commit-race/internal/domain"
)

// Artifact file names, relative to the data directory.
const (
	LeaderboardFile = "leaderboard.json"
	HistoryFile     = "history.json"
)

// Store reads and writes state under a single data directory.
// Read failures never surface: a missing file is an empty structure and a
// malformed one is logged and treated as empty.
type Store struct {
	dir    string
	logger *log.Logger
}

// New creates a Store rooted at dir.
func New(dir string, logger *log.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// LeaderboardPath returns the path of the leaderboard artifact.
func (s *Store) LeaderboardPath() string {
	return filepath.Join(s.dir, LeaderboardFile)
}

// HistoryPath returns the path of the history artifact.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.dir, HistoryFile)
}

// LoadTeams reads the team config. Both the JSON array form and YAML are accepted.
func (s *Store) LoadTeams(path string) []domain.Team {
	data, ok := s.read(path)
	if !ok {
		return []domain.Team{}
	}
	var teams []domain.Team
	if err := yaml.Unmarshal(data, &teams); err != nil {
		s.logger.Printf("store: failed to parse team config %s: %v (using no teams)\n", path, err)
		return []domain.Team{}
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	return teams
}

// LoadLeaderboard reads the leaderboard artifact.
func (s *Store) LoadLeaderboard() domain.Leaderboard {
	var board domain.Leaderboard
	if !s.loadJSON(s.LeaderboardPath(), &board) || board == nil {
		return domain.Leaderboard{}
	}
	return board
}

// LoadHistory reads the history artifact.
func (s *Store) LoadHistory() domain.History {
	var history domain.History
	if !s.loadJSON(s.HistoryPath(), &history) || history == nil {
		return domain.History{}
	}
	return history
}

// Save writes both artifacts. The second write is attempted even if the
// first fails; the first error is returned.
func (s *Store) Save(board domain.Leaderboard, history domain.History) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}
	errBoard := writeJSON(s.LeaderboardPath(), board)
	errHistory := writeJSON(s.HistoryPath(), history)
	return errors.Join(errBoard, errHistory)
}

func (s *Store) read(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Printf("store: failed to read %s: %v (using empty)\n", path, err)
		}
		return nil, false
	}
	return data, true
}

func (s *Store) loadJSON(path string, v any) bool {
	data, ok := s.read(path)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Printf("store: failed to parse %s: %v (using empty)\n", path, err)
		return false
	}
	return true
}

// writeJSON writes through a temporary file and a rename so readers never
// see a half written artifact.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
