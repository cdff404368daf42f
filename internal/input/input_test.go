package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEdgeEvents(t *testing.T) {
	now := time.Unix(100, 0)
	tests := []struct {
		name string
		buf  string
		want Input
	}{
		{"space fires", " ", Input{Fire: true}},
		{"bare escape pauses", "\x1b", Input{Pause: true}},
		{"p pauses", "p", Input{Pause: true}},
		{"r restarts", "R", Input{Restart: true}},
		{"q quits", "q", Input{Quit: true}},
		{"ctrl-c quits", "\x03", Input{Quit: true}},
		{"arrow is not escape", "\x1b[A", Input{Up: true}},
		{"ss3 arrow", "\x1bOD", Input{Left: true}},
		{"unknown csi ignored", "\x1b[1;5Z", Input{}},
		{"combined", "\x1b[C \x1b", Input{Right: true, Fire: true, Pause: true}},
		{"wasd", "wasd", Input{Up: true, Left: true, Down: true, Right: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream()
			assert.Equal(t, tt.want, s.parse([]byte(tt.buf), now))
		})
	}
}

func TestParseHoldWindow(t *testing.T) {
	s := newStream()
	start := time.Unix(100, 0)

	in := s.parse([]byte("\x1b[D"), start)
	assert.True(t, in.Left)

	in = s.parse(nil, start.Add(keyHoldDuration-time.Millisecond))
	assert.True(t, in.Left)

	in = s.parse(nil, start.Add(keyHoldDuration))
	assert.False(t, in.Left)
}

func TestParseEdgeEventsDoNotPersist(t *testing.T) {
	s := newStream()
	now := time.Unix(100, 0)

	assert.True(t, s.parse([]byte(" "), now).Fire)
	assert.False(t, s.parse(nil, now).Fire)
}

func TestReadInputClosedStreamQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("")))

	assert.Eventually(t, func() bool {
		return ReadInput(s).Quit
	}, time.Second, 5*time.Millisecond)
	assert.True(t, s.Closed())
}
