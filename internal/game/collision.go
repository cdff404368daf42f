package game

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/tomz197/spaceshooter/internal/object"
	"github.com/tomz197/spaceshooter/internal/physics"
)

// minGridCell keeps the broad-phase grid from degenerating into tiny cells.
const minGridCell = 64.0

// collide resolves player-vs-meteor and then laser-vs-meteor hits.
func (s *Session) collide(now time.Duration) {
	s.collidePlayer(now)
	s.collideLasers(now)
}

// collidePlayer tests the player against every meteor with pixel masks.
// Any number of hits in one frame costs a single point of health; every
// meteor that hit is destroyed.
func (s *Session) collidePlayer(now time.Duration) {
	p, ok := s.arena.Get(s.player)
	if !ok || p.Player.Invincible {
		return
	}

	meteors := s.arena.Handles(object.KindMeteor)
	if len(meteors) == 0 {
		return
	}
	grid := s.populateGrid(p, meteors)

	var hits []object.Handle
	grid.QueryAround(p.X, p.Y, func(i int) bool {
		m, ok := s.arena.Get(meteors[i])
		if ok && masksOverlap(p, m) {
			hits = append(hits, meteors[i])
		}
		return false
	})
	if len(hits) == 0 {
		return
	}

	// Grid order is spatial; resolve in spawn order.
	slices.SortFunc(hits, func(a, b object.Handle) int {
		ea, _ := s.arena.Get(a)
		eb, _ := s.arena.Get(b)
		return cmp.Compare(ea.Seq, eb.Seq)
	})

	health := p.Hit(now)
	for _, h := range hits {
		m, _ := s.arena.Get(h)
		s.spawnExplosion(m.X, m.Y, now)
		s.arena.Remove(h)
	}
	s.log.Debug("player hit", "meteors", len(hits), "health", health)

	if health <= 0 {
		s.gameOver(now)
	}
}

// populateGrid indexes meteors by centre. The cell size covers the largest
// centre distance at which the player and a meteor can still touch.
func (s *Session) populateGrid(p *object.Entity, meteors []object.Handle) *physics.SpatialGrid {
	pr := p.Rect()
	cell := minGridCell
	for _, h := range meteors {
		m, _ := s.arena.Get(h)
		mr := m.Rect()
		cell = math.Max(cell, (pr.W+mr.W)/2)
		cell = math.Max(cell, (pr.H+mr.H)/2)
	}
	cell = math.Ceil(cell)

	if s.grid == nil || s.grid.CellSize() < cell {
		s.grid = physics.NewSpatialGrid(float64(s.screen.Width), float64(s.screen.Height), cell)
	}
	s.grid.Clear()
	for i, h := range meteors {
		m, _ := s.arena.Get(h)
		s.grid.Insert(m.X, m.Y, i)
	}
	return s.grid
}

// masksOverlap is the narrow phase: bounding boxes first, then pixels.
func masksOverlap(a, b *object.Entity) bool {
	if a.Mask == nil || b.Mask == nil {
		return false
	}
	ar, br := a.Rect(), b.Rect()
	if !ar.Overlaps(br) {
		return false
	}
	dx := int(math.Floor(br.X) - math.Floor(ar.X))
	dy := int(math.Floor(br.Y) - math.Floor(ar.Y))
	return a.Mask.Overlap(b.Mask, dx, dy)
}

// collideLasers removes each laser together with the earliest-spawned
// meteor its box overlaps.
func (s *Session) collideLasers(now time.Duration) {
	lasers := s.arena.Handles(object.KindLaser)
	if len(lasers) == 0 {
		return
	}
	meteors := s.arena.Handles(object.KindMeteor)

	for _, lh := range lasers {
		l, ok := s.arena.Get(lh)
		if !ok {
			continue
		}
		lr := l.Rect()
		for _, mh := range meteors {
			m, ok := s.arena.Get(mh)
			if !ok || !lr.Overlaps(m.Rect()) {
				continue
			}
			x, y := lr.MidTop()
			s.arena.Remove(mh)
			s.arena.Remove(lh)
			s.spawnExplosion(x, y, now)
			break
		}
	}
}
