package object

import (
	"cmp"
	"slices"
)

// Handle refers to an entity in an Arena. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

type slot struct {
	entity Entity
	gen    uint32
	live   bool
}

// Arena stores entities in reusable slots. Removed slots go on a free list;
// their generation is bumped so stale handles stop resolving.
type Arena struct {
	slots []slot
	free  []uint32
	seq   uint64
	count [kindCount]int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Insert stores e, stamps its spawn sequence and returns its handle.
func (a *Arena) Insert(e Entity) Handle {
	a.seq++
	e.Seq = a.seq

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{gen: 1})
		idx = uint32(len(a.slots) - 1)
	}

	s := &a.slots[idx]
	s.entity = e
	s.live = true
	a.count[e.Kind]++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the entity for h, or false if h is stale.
func (a *Arena) Get(h Handle) (*Entity, bool) {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.entity, true
}

// Remove deletes the entity for h. Removing a stale handle reports false.
func (a *Arena) Remove(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	a.count[s.entity.Kind]--
	s.entity = Entity{}
	s.live = false
	s.gen++
	a.free = append(a.free, h.index)
	return true
}

// Handles returns the live handles of one kind ordered by spawn sequence.
func (a *Arena) Handles(kind Kind) []Handle {
	out := make([]Handle, 0, a.count[kind])
	for i := range a.slots {
		s := &a.slots[i]
		if s.live && s.entity.Kind == kind {
			out = append(out, Handle{index: uint32(i), gen: s.gen})
		}
	}
	a.sortBySeq(out)
	return out
}

// All returns every live handle ordered by spawn sequence.
func (a *Arena) All() []Handle {
	out := make([]Handle, 0, a.Len())
	for i := range a.slots {
		if a.slots[i].live {
			out = append(out, Handle{index: uint32(i), gen: a.slots[i].gen})
		}
	}
	a.sortBySeq(out)
	return out
}

func (a *Arena) sortBySeq(hs []Handle) {
	slices.SortFunc(hs, func(x, y Handle) int {
		return cmp.Compare(a.slots[x.index].entity.Seq, a.slots[y.index].entity.Seq)
	})
}

// Count returns the number of live entities of a kind.
func (a *Arena) Count(kind Kind) int {
	return a.count[kind]
}

// Len returns the number of live entities.
func (a *Arena) Len() int {
	n := 0
	for _, c := range a.count {
		n += c
	}
	return n
}

// RemoveIf removes every entity for which fn returns true and reports how
// many were removed.
func (a *Arena) RemoveIf(fn func(e *Entity) bool) int {
	removed := 0
	for _, h := range a.All() {
		e, _ := a.Get(h)
		if fn(e) {
			a.Remove(h)
			removed++
		}
	}
	return removed
}
