// Package game runs one space shooter session: the mode state machine,
// entity updates, collisions, meteor spawning and scoring. It knows nothing
// about windows or terminals; frontends feed it input and draw what it
// exposes.
package game

import (
	"cmp"
	"errors"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spaceshooter/internal/assets"
	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/input"
	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// Mode is the session state.
type Mode int

const (
	ModeRunning Mode = iota
	ModePaused
	ModeGameOver
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModePaused:
		return "paused"
	case ModeGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// ScoreKeeper persists the best score. Record returns the high score to
// show for a finished session.
type ScoreKeeper interface {
	Record(score int) (best int, err error)
}

// Options configures a Session. Only Sprites is required.
type Options struct {
	Sprites *assets.Sprites
	Sounds  audio.Player
	Scores  ScoreKeeper
	Clock   Clock
	Rand    *rand.Rand
	Logger  *log.Logger
	// OnGameOver is called once per finished session.
	OnGameOver func(score, best int)
}

// Session is the whole state of one game.
type Session struct {
	sprites    *assets.Sprites
	sounds     audio.Player
	scores     ScoreKeeper
	clock      Clock
	rng        *rand.Rand
	log        *log.Logger
	onGameOver func(score, best int)

	screen  object.Screen
	arena   *object.Arena
	player  object.Handle
	toSpawn []object.Entity
	grid    *physics.SpatialGrid

	mode       Mode
	running    bool
	start      time.Duration
	pauseScore int
	nextMeteor time.Duration
	overlay    *GameOver
}

// NewSession creates a running session: the player in the middle of the
// screen, the background stars, music playing and the meteor timer armed.
func NewSession(opts Options) (*Session, error) {
	if opts.Sprites == nil {
		return nil, errors.New("game: sprites are required")
	}

	s := &Session{
		sprites:    opts.Sprites,
		sounds:     opts.Sounds,
		scores:     opts.Scores,
		clock:      opts.Clock,
		rng:        opts.Rand,
		log:        opts.Logger,
		onGameOver: opts.OnGameOver,
		screen:     object.Screen{Width: ScreenWidth, Height: ScreenHeight},
		arena:      object.NewArena(),
		running:    true,
	}
	if s.sounds == nil {
		s.sounds = audio.Nop{}
	}
	if s.clock == nil {
		s.clock = NewRealClock()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = log.Default()
	}

	now := s.clock.Now()
	s.start = now
	s.nextMeteor = now + MeteorInterval

	s.spawnStars(now)
	cx, cy := s.screen.Center()
	s.player = s.arena.Insert(object.NewPlayer(s.sprites.Player, cx, cy, MaxHealth, now))
	s.sounds.StartMusic()

	s.log.Debug("session started")
	return s, nil
}

// Update runs one frame: input events, the meteor timer, entity updates and
// collisions while running, and the overlay fade while game over.
func (s *Session) Update(in input.Input, dt time.Duration) {
	if !s.running {
		return
	}
	if in.Quit {
		s.Stop()
		return
	}

	now := s.clock.Now()
	s.tickMeteorTimer(now)

	if in.Pause {
		s.TogglePause()
	}
	if in.Restart {
		s.Restart()
	}

	if s.mode == ModeRunning {
		s.updateEntities(now, dt, in)
		s.collide(now)
	}

	if s.mode == ModeGameOver {
		s.overlay.Update()
		s.sounds.StopMusic()
	}
}

// tickMeteorTimer fires one meteor event per elapsed interval. Events are
// always generated but only spawn a meteor while running.
func (s *Session) tickMeteorTimer(now time.Duration) {
	for now >= s.nextMeteor {
		s.nextMeteor += MeteorInterval
		if s.mode == ModeRunning {
			s.arena.Insert(object.NewMeteor(s.sprites.Meteor, s.rng, s.screen, now))
		}
	}
}

// Spawn queues an entity to be added after the current update pass.
func (s *Session) Spawn(e object.Entity) {
	s.toSpawn = append(s.toSpawn, e)
}

// flushSpawned moves queued entities into the arena.
func (s *Session) flushSpawned() {
	for _, e := range s.toSpawn {
		s.arena.Insert(e)
	}
	s.toSpawn = s.toSpawn[:0]
}

func (s *Session) updateEntities(now, dt time.Duration, in input.Input) {
	ctx := &object.UpdateContext{
		Now:     now,
		Delta:   dt,
		Input:   in,
		Screen:  s.screen,
		Spawner: s,
		Sounds:  s.sounds,
		Sprites: s.sprites,
	}
	for _, h := range s.arena.All() {
		e, ok := s.arena.Get(h)
		if !ok {
			continue
		}
		if object.Update(e, ctx) {
			s.arena.Remove(h)
		}
	}
	s.flushSpawned()
}

// TogglePause switches between running and paused. It does nothing after
// game over.
func (s *Session) TogglePause() {
	now := s.clock.Now()
	switch s.mode {
	case ModeRunning:
		s.mode = ModePaused
		s.pauseScore = s.score(now)
		s.sounds.StopMusic()
		s.log.Debug("paused", "score", s.pauseScore)
	case ModePaused:
		s.mode = ModeRunning
		s.sounds.StartMusic()
		s.log.Debug("resumed")
	case ModeGameOver:
	}
}

// Restart begins a new round after game over. Player position and timers
// carry over; everything else is reset.
func (s *Session) Restart() {
	if s.mode != ModeGameOver {
		return
	}
	now := s.clock.Now()

	if p, ok := s.arena.Get(s.player); ok {
		p.Player.Health = MaxHealth
	}
	s.start = now
	s.pauseScore = 0
	s.arena.RemoveIf(func(e *object.Entity) bool {
		return e.Kind != object.KindPlayer
	})
	s.toSpawn = s.toSpawn[:0]
	s.spawnStars(now)
	s.overlay = nil
	s.mode = ModeRunning
	s.sounds.StartMusic()

	s.log.Debug("restarted")
}

// gameOver ends the round and records the final score.
func (s *Session) gameOver(now time.Duration) {
	final := s.score(now)
	best := final
	if s.scores != nil {
		b, err := s.scores.Record(final)
		if err != nil {
			s.log.Error("failed to save high score", "err", err)
		}
		best = b
	}

	s.mode = ModeGameOver
	s.overlay = &GameOver{Score: final, HighScore: best}
	s.log.Info("game over", "score", final, "high_score", best)

	if s.onGameOver != nil {
		s.onGameOver(final, best)
	}
}

func (s *Session) spawnStars(now time.Duration) {
	for i := 0; i < StarCount; i++ {
		s.arena.Insert(object.NewStar(s.sprites.Star, s.rng, s.screen, now))
	}
}

func (s *Session) spawnExplosion(x, y float64, now time.Duration) {
	s.arena.Insert(object.NewExplosion(s.sprites.Explosion, x, y, now))
	s.sounds.Play(audio.CueExplosion)
}

func (s *Session) score(now time.Duration) int {
	return int((now - s.start) / ScoreUnit)
}

// Stop ends the session; Running reports false afterwards.
func (s *Session) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.sounds.StopMusic()
	s.log.Debug("session stopped")
}

// Running reports whether the session is still active.
func (s *Session) Running() bool {
	return s.running
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Score returns the score to display: live while running, frozen while
// paused and final after game over.
func (s *Session) Score() int {
	switch s.mode {
	case ModePaused:
		return s.pauseScore
	case ModeGameOver:
		return s.overlay.Score
	default:
		return s.score(s.clock.Now())
	}
}

// Health returns the player's remaining health.
func (s *Session) Health() int {
	if p, ok := s.arena.Get(s.player); ok {
		return p.Player.Health
	}
	return 0
}

// Player returns the player entity.
func (s *Session) Player() *object.Entity {
	p, _ := s.arena.Get(s.player)
	return p
}

// Overlay returns the game-over overlay, or nil unless the mode is
// ModeGameOver.
func (s *Session) Overlay() *GameOver {
	return s.overlay
}

// Screen returns the playfield size.
func (s *Session) Screen() object.Screen {
	return s.screen
}

// Count returns the number of live entities of a kind.
func (s *Session) Count(kind object.Kind) int {
	return s.arena.Count(kind)
}

// Entities returns the live entities of a kind in spawn order. The pointers
// are valid until the next Update.
func (s *Session) Entities(kind object.Kind) []*object.Entity {
	hs := s.arena.Handles(kind)
	out := make([]*object.Entity, 0, len(hs))
	for _, h := range hs {
		if e, ok := s.arena.Get(h); ok {
			out = append(out, e)
		}
	}
	return out
}

// Drawables returns every entity in draw order: by layer, then spawn order.
func (s *Session) Drawables() []*object.Entity {
	hs := s.arena.All()
	out := make([]*object.Entity, 0, len(hs))
	for _, h := range hs {
		if e, ok := s.arena.Get(h); ok {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b *object.Entity) int {
		return cmp.Compare(object.Layer(a.Kind), object.Layer(b.Kind))
	})
	return out
}
