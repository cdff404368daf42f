// Package highscore persists the best score as a single decimal integer in a
// plain text file.
package highscore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Store reads and writes the high score file. It is safe for concurrent use
// by sessions that share one file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store backed by path. The file need not exist.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored high score. A missing or unreadable file counts
// as 0.
func (s *Store) Load() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return n
}

// Record compares score against the stored value and overwrites the file
// when score is strictly greater. It returns the high score to display,
// which is the larger of the two even if the write fails.
func (s *Store) Record(score int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := s.load()
	if score <= best {
		return best, nil
	}
	if err := s.write(score); err != nil {
		return score, err
	}
	return score, nil
}

func (s *Store) write(score int) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".highscore-*")
	if err != nil {
		return fmt.Errorf("create temp high score file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(strconv.Itoa(score)); err != nil {
		tmp.Close()
		return fmt.Errorf("write high score: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close high score file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace high score file: %w", err)
	}
	return nil
}
