// Package input defines the per-frame controls shared by every frontend and
// the terminal byte stream that produces them.
package input

import (
	"io"
	"time"
)

// keyHoldDuration is how long a movement key counts as held after its last
// byte. Terminals only report key repeats, so the window has to bridge the
// gap between the first press and the first auto-repeat.
const keyHoldDuration = 120 * time.Millisecond

// Input is one frame's controls. Movement keys are level triggered; the
// remaining fields are edge events that are true for a single frame.
type Input struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool

	Fire    bool
	Pause   bool
	Restart bool
	Quit    bool
}

// keyState tracks the last time each movement key was seen.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers terminal bytes via a channel and keeps movement key state
// between frames.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
	now    func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.ByteReader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream without blocking and
// returns this frame's Input. A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, s.now())
	if s.closed {
		in.Quit = true
	}
	return in
}

// parse applies buf to the key state and builds the frame input at now.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			// ESC [ X and ESC O X are arrow keys; a bare ESC is the pause key.
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				if s.applyArrow(buf[i+2], now) {
					i += 2
					continue
				}
			}
			if i+1 < len(buf) && buf[i+1] == '[' {
				// Unknown CSI sequence: skip to its final byte.
				j := i + 2
				for j < len(buf) && (buf[j] < 0x40 || buf[j] > 0x7e) {
					j++
				}
				i = j
				continue
			}
			in.Pause = true
			continue
		}

		applyByte(&s.state, &in, b, now)
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	return in
}

func (s *Stream) applyArrow(code byte, now time.Time) bool {
	switch code {
	case 'A':
		s.state.up = now
	case 'B':
		s.state.down = now
	case 'C':
		s.state.right = now
	case 'D':
		s.state.left = now
	default:
		return false
	}
	return true
}

// applyByte handles a single non-escape byte.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		in.Fire = true
	case 'p', 'P':
		in.Pause = true
	case 'r', 'R':
		in.Restart = true
	}
}
