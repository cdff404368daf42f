package highscore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, contents *string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "highscore.txt")
	if contents != nil {
		require.NoError(t, os.WriteFile(path, []byte(*contents), 0o644))
	}
	return NewStore(path)
}

func ptr(s string) *string { return &s }

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		contents *string
		want     int
	}{
		{"missing file", nil, 0},
		{"plain integer", ptr("42"), 42},
		{"trailing newline", ptr("17\n"), 17},
		{"garbage", ptr("abc"), 0},
		{"empty", ptr(""), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, tt.contents)
			assert.Equal(t, tt.want, s.Load())
		})
	}
}

func TestRecordHigherOverwrites(t *testing.T) {
	s := newTestStore(t, ptr("50"))

	best, err := s.Record(80)
	require.NoError(t, err)
	assert.Equal(t, 80, best)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "80", string(data))
}

func TestRecordLowerKeepsFile(t *testing.T) {
	s := newTestStore(t, ptr("50"))

	best, err := s.Record(30)
	require.NoError(t, err)
	assert.Equal(t, 50, best)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "50", string(data))
}

func TestRecordEqualDoesNotWrite(t *testing.T) {
	s := newTestStore(t, ptr("50\n"))

	best, err := s.Record(50)
	require.NoError(t, err)
	assert.Equal(t, 50, best)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "50\n", string(data))
}

func TestRecordCreatesMissingFile(t *testing.T) {
	s := newTestStore(t, nil)

	best, err := s.Record(7)
	require.NoError(t, err)
	assert.Equal(t, 7, best)
	assert.Equal(t, 7, s.Load())
}

func TestRecordCorruptFile(t *testing.T) {
	s := newTestStore(t, ptr("not a number"))

	best, err := s.Record(3)
	require.NoError(t, err)
	assert.Equal(t, 3, best)
	assert.Equal(t, 3, s.Load())
}

func TestRecordWriteFailure(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing-dir", "highscore.txt"))

	best, err := s.Record(12)
	assert.Error(t, err)
	assert.Equal(t, 12, best)
	assert.Equal(t, 0, s.Load())
}

func TestRecordConcurrent(t *testing.T) {
	s := newTestStore(t, nil)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := s.Record(score)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, s.Load())
}
