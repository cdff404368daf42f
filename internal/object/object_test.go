package object

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/spaceshooter/internal/assets"
	"github.com/tomz197/spaceshooter/internal/audio"
	"github.com/tomz197/spaceshooter/internal/input"
)

var testScreen = Screen{Width: 1280, Height: 720}

func solid(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	return img
}

func testSprites() *assets.Sprites {
	frames := make([]image.Image, assets.ExplosionFrames)
	for i := range frames {
		frames[i] = solid(30+5*i, 30+5*i)
	}
	return &assets.Sprites{
		Player:    solid(40, 40),
		Laser:     solid(4, 20),
		Meteor:    solid(30, 20),
		Star:      solid(2, 2),
		Explosion: frames,
	}
}

type spawnRecorder struct {
	spawned []Entity
}

func (s *spawnRecorder) Spawn(e Entity) {
	s.spawned = append(s.spawned, e)
}

func newCtx(now, dt time.Duration, in input.Input) (*UpdateContext, *spawnRecorder, *audio.Recorder) {
	sp := &spawnRecorder{}
	snd := &audio.Recorder{}
	return &UpdateContext{
		Now:     now,
		Delta:   dt,
		Input:   in,
		Screen:  testScreen,
		Spawner: sp,
		Sounds:  snd,
		Sprites: testSprites(),
	}, sp, snd
}

func TestArenaInsertGetRemove(t *testing.T) {
	a := NewArena()
	h1 := a.Insert(Entity{Kind: KindStar})
	h2 := a.Insert(Entity{Kind: KindMeteor})

	e, ok := a.Get(h1)
	require.True(t, ok)
	assert.Equal(t, uint64(1), e.Seq)
	assert.Equal(t, 2, a.Len())

	assert.True(t, a.Remove(h1))
	assert.False(t, a.Remove(h1))
	_, ok = a.Get(h1)
	assert.False(t, ok)

	// The freed slot is reused but the old handle stays stale.
	h3 := a.Insert(Entity{Kind: KindLaser})
	assert.Equal(t, h1.index, h3.index)
	_, ok = a.Get(h1)
	assert.False(t, ok)
	e, ok = a.Get(h3)
	require.True(t, ok)
	assert.Equal(t, KindLaser, e.Kind)
	assert.Equal(t, uint64(3), e.Seq)

	_, ok = a.Get(Handle{})
	assert.False(t, ok)
	_, ok = a.Get(h2)
	assert.True(t, ok)
}

func TestArenaHandlesOrderedBySeq(t *testing.T) {
	a := NewArena()
	m1 := a.Insert(Entity{Kind: KindMeteor})
	a.Insert(Entity{Kind: KindStar})
	m2 := a.Insert(Entity{Kind: KindMeteor})
	a.Remove(m1)
	m3 := a.Insert(Entity{Kind: KindMeteor}) // reuses m1's slot

	assert.Equal(t, []Handle{m2, m3}, a.Handles(KindMeteor))
	assert.Equal(t, 2, a.Count(KindMeteor))
	assert.Equal(t, 1, a.Count(KindStar))
	assert.Len(t, a.All(), 3)
}

func TestArenaRemoveIf(t *testing.T) {
	a := NewArena()
	a.Insert(Entity{Kind: KindPlayer})
	for i := 0; i < 5; i++ {
		a.Insert(Entity{Kind: KindStar})
	}
	a.Insert(Entity{Kind: KindMeteor})

	n := a.RemoveIf(func(e *Entity) bool { return e.Kind != KindPlayer })
	assert.Equal(t, 6, n)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, a.Count(KindPlayer))
}

func TestLayerOrder(t *testing.T) {
	assert.Less(t, Layer(KindStar), Layer(KindMeteor))
	assert.Less(t, Layer(KindMeteor), Layer(KindLaser))
	assert.Less(t, Layer(KindLaser), Layer(KindPlayer))
	assert.Less(t, Layer(KindPlayer), Layer(KindExplosion))
}

func TestPlayerMovesNormalized(t *testing.T) {
	p := NewPlayer(solid(40, 40), 640, 360, 3, 0)
	ctx, _, _ := newCtx(0, time.Second/10, input.Input{Right: true, Down: true})

	Update(&p, ctx)

	step := PlayerSpeed * 0.1 / 1.4142135623730951
	assert.InDelta(t, 640+step, p.X, 1e-9)
	assert.InDelta(t, 360+step, p.Y, 1e-9)
}

func TestPlayerOpposingKeysCancel(t *testing.T) {
	p := NewPlayer(solid(40, 40), 640, 360, 3, 0)
	ctx, _, _ := newCtx(0, time.Second, input.Input{Left: true, Right: true})

	Update(&p, ctx)

	assert.Equal(t, 640.0, p.X)
	assert.Equal(t, 0.0, p.DirX)
}

func TestPlayerClampedToScreen(t *testing.T) {
	p := NewPlayer(solid(40, 40), 10, 710, 3, 0)
	ctx, _, _ := newCtx(0, time.Second, input.Input{Left: true, Down: true})

	Update(&p, ctx)

	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, 720.0, p.Y)
}

func TestPlayerFireAndCooldown(t *testing.T) {
	p := NewPlayer(solid(40, 40), 640, 360, 3, 0)

	ctx, sp, snd := newCtx(1000*time.Millisecond, 0, input.Input{Fire: true})
	Update(&p, ctx)
	require.Len(t, sp.spawned, 1)
	laser := sp.spawned[0]
	assert.Equal(t, KindLaser, laser.Kind)
	assert.InDelta(t, 640, laser.X, 1e-9)
	assert.InDelta(t, 340, laser.Rect().Bottom(), 1e-9) // player's top edge
	assert.Equal(t, 1, snd.Count(audio.CueLaser))
	assert.False(t, p.Player.CanShoot)

	// Still cooling down 199 ms later.
	ctx, sp, _ = newCtx(1199*time.Millisecond, 0, input.Input{Fire: true})
	Update(&p, ctx)
	assert.Empty(t, sp.spawned)
	assert.False(t, p.Player.CanShoot)

	// At 200 ms the cooldown clears at the end of the update.
	ctx, sp, _ = newCtx(1200*time.Millisecond, 0, input.Input{Fire: true})
	Update(&p, ctx)
	assert.Empty(t, sp.spawned)
	assert.True(t, p.Player.CanShoot)

	ctx, sp, _ = newCtx(1201*time.Millisecond, 0, input.Input{Fire: true})
	Update(&p, ctx)
	assert.Len(t, sp.spawned, 1)
}

func TestPlayerInvincibilityExpiry(t *testing.T) {
	p := NewPlayer(solid(40, 40), 640, 360, 3, 0)
	assert.Equal(t, 2, p.Hit(500*time.Millisecond))
	assert.True(t, p.Player.Invincible)

	ctx, _, _ := newCtx(1499*time.Millisecond, 0, input.Input{})
	Update(&p, ctx)
	assert.True(t, p.Player.Invincible)

	ctx, _, _ = newCtx(1500*time.Millisecond, 0, input.Input{})
	Update(&p, ctx)
	assert.False(t, p.Player.Invincible)
}

func TestLaserRemovedAboveTop(t *testing.T) {
	l := NewLaser(solid(4, 20), 100, 30, 0)
	ctx, _, _ := newCtx(0, 50*time.Millisecond, input.Input{})

	// Bottom goes 30 -> 10: still visible.
	assert.False(t, Update(&l, ctx))
	assert.InDelta(t, 10, l.Rect().Bottom(), 1e-9)

	// Bottom goes 10 -> -10: gone.
	assert.True(t, Update(&l, ctx))
}

func TestLaserAtExactlyZeroStays(t *testing.T) {
	l := NewLaser(solid(4, 20), 100, 20, 0)
	ctx, _, _ := newCtx(0, 50*time.Millisecond, input.Input{})

	assert.False(t, Update(&l, ctx))
	assert.InDelta(t, 0, l.Rect().Bottom(), 1e-9)
}

func TestNewMeteorRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		m := NewMeteor(solid(30, 20), rng, testScreen, 0)
		assert.GreaterOrEqual(t, m.X, 0.0)
		assert.LessOrEqual(t, m.X, 1280.0)
		assert.GreaterOrEqual(t, m.Y, -200.0)
		assert.LessOrEqual(t, m.Y, -100.0)
		assert.GreaterOrEqual(t, m.DirX, -0.5)
		assert.Less(t, m.DirX, 0.5)
		assert.Equal(t, 1.0, m.DirY)
		assert.GreaterOrEqual(t, m.Speed, 200.0)
		assert.LessOrEqual(t, m.Speed, 300.0)
		assert.Equal(t, m.Speed, float64(int(m.Speed)))
		assert.GreaterOrEqual(t, m.Meteor.RotationSpeed, 20.0)
		assert.LessOrEqual(t, m.Meteor.RotationSpeed, 40.0)
		assert.Equal(t, MeteorLifetime, m.Lifetime)
	}
}

func meteorAt(top float64) Entity {
	return Entity{
		Kind:   KindMeteor,
		X:      100,
		Y:      top + 10,
		DirY:   1,
		Source: solid(30, 20),
		Image:  solid(30, 20),
	}
}

func TestMeteorRemovedOnlyStrictlyBelowBottom(t *testing.T) {
	ctx, _, _ := newCtx(0, 0, input.Input{})

	m := meteorAt(720)
	assert.False(t, Update(&m, ctx), "top == height stays")

	m = meteorAt(721)
	assert.True(t, Update(&m, ctx), "top > height is removed")
}

func TestMeteorMovesAndRotates(t *testing.T) {
	m := meteorAt(100)
	m.Speed = 200
	m.DirX = 0.5
	m.Meteor.RotationSpeed = 30
	ctx, _, _ := newCtx(0, time.Second/2, input.Input{})

	require.False(t, Update(&m, ctx))
	assert.InDelta(t, 150, m.X, 1e-9)
	assert.InDelta(t, 210, m.Y, 1e-9)
	assert.InDelta(t, 15, m.Meteor.Angle, 1e-9)
	assert.NotSame(t, m.Source, m.Image)
	require.NotNil(t, m.Mask)
}

func TestRotateBounds(t *testing.T) {
	src := solid(30, 20)

	r := Rotate(src, 90)
	assert.Equal(t, 20, r.Bounds().Dx())
	assert.Equal(t, 30, r.Bounds().Dy())

	r = Rotate(src, 0)
	assert.Equal(t, 30, r.Bounds().Dx())
	assert.Equal(t, 20, r.Bounds().Dy())

	r = Rotate(src, 45)
	assert.Equal(t, 36, r.Bounds().Dx()) // ceil((30+20)/sqrt2)
}

func TestRotateCounterClockwise(t *testing.T) {
	// A bar in the right half of the image ends up in the top half after
	// a quarter turn counter-clockwise.
	src := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 8; y < 12; y++ {
		for x := 12; x < 20; x++ {
			src.Set(x, y, color.NRGBA{G: 255, A: 255})
		}
	}

	r := Rotate(src, 90)
	_, _, _, top := r.At(10, 3).RGBA()
	_, _, _, bottom := r.At(10, 16).RGBA()
	assert.Greater(t, top, uint32(0x8000))
	assert.Zero(t, bottom)
}

func TestStarWithinScreen(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		s := NewStar(solid(2, 2), rng, testScreen, 0)
		assert.GreaterOrEqual(t, s.X, 0.0)
		assert.LessOrEqual(t, s.X, 1280.0)
		assert.GreaterOrEqual(t, s.Y, 0.0)
		assert.LessOrEqual(t, s.Y, 720.0)

		before := s
		ctx, _, _ := newCtx(0, time.Second, input.Input{})
		assert.False(t, Update(&s, ctx))
		assert.Equal(t, before.X, s.X)
		assert.Equal(t, before.Y, s.Y)
	}
}

func TestExplosionFramesAndOverrun(t *testing.T) {
	frames := testSprites().Explosion
	e := NewExplosion(frames, 50, 50, 0)
	assert.Same(t, frames[0], e.Image)

	// 0.5 s at 20 fps is frame 10.
	ctx, _, _ := newCtx(0, 500*time.Millisecond, input.Input{})
	require.False(t, Update(&e, ctx))
	assert.Same(t, frames[10], e.Image)

	// 20 -> frame 20, the last one.
	require.False(t, Update(&e, ctx))
	assert.Same(t, frames[20], e.Image)

	// Past the end: removed.
	ctx, _, _ = newCtx(0, 50*time.Millisecond, input.Input{})
	assert.True(t, Update(&e, ctx))
}

func TestExplosionLargeDeltaRemoves(t *testing.T) {
	e := NewExplosion(testSprites().Explosion, 0, 0, 0)
	ctx, _, _ := newCtx(0, 2*time.Second, input.Input{})
	assert.True(t, Update(&e, ctx))
}
