package merrymem

// SequentialTable is the single-threaded Robin Hood reference engine: no
// atomics, no locks, classic linear-probing-with-backward-shift-delete and
// resize-on-load. It is a separate type from Table: Table never switches to
// it, even when only one goroutine is active. cmd/merrybench runs it as the
// single-threaded baseline, and tests check it against a map oracle in
// the same way as Table.
//
// A SequentialTable is not safe for concurrent use; see Table for the
// concurrent engine.
type SequentialTable struct {
	buckets       []seqCell
	length        int
	capacity      int
	growThreshold float64
}

type seqCell struct {
	key      uint32
	value    uint32
	occupied bool
}

// NewSequentialTable constructs a SequentialTable. Only Capacity and
// LoadFactorGrowThreshold from Config are meaningful here; the other
// fields configure the parallel engine.
func NewSequentialTable(opts ...Option) (*SequentialTable, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SequentialTable{
		buckets:       make([]seqCell, cfg.Capacity),
		capacity:      cfg.Capacity,
		growThreshold: cfg.LoadFactorGrowThreshold,
	}, nil
}

func (s *SequentialTable) Len() int      { return s.length }
func (s *SequentialTable) Capacity() int { return s.capacity }

func (s *SequentialTable) loadFactor() float64 {
	return float64(s.length) / float64(s.capacity)
}

// distanceMod returns key's probe distance from idx, wrapping modulo
// capacity — unlike the parallel engine's bucketStore.distance, the
// sequential engine has no overflow tail and wraps at the end of the
// array, so distance must wrap too.
func (s *SequentialTable) distanceMod(idx int, key uint32) int {
	h := keyHome(key, s.capacity)
	d := idx - h
	if d < 0 {
		d += s.capacity
	}
	return d
}

// Insert maps key to value, overwriting any existing mapping for key.
// Growing the table (doubling capacity and reinserting every occupied
// cell) happens first if the load factor exceeds growThreshold or the
// table is one slot short of full.
func (s *SequentialTable) Insert(key, value uint32) int {
	assertInvariant(key != emptyKey, "sequential insert: key must be non-zero")
	if s.loadFactor() > s.growThreshold || s.length >= s.capacity-1 {
		s.grow(s.capacity * 2)
	}
	return s.insertNoResize(key, value)
}

// insertNoResize runs the Robin Hood probe/displacement loop assuming the
// table already has room; it returns 1 if a new key was inserted, 0 if an
// existing key's value was overwritten.
func (s *SequentialTable) insertNoResize(key, value uint32) int {
	idx := keyHome(key, s.capacity)
	pendingKey, pendingValue := key, value
	for {
		c := &s.buckets[idx]
		if !c.occupied {
			c.key, c.value, c.occupied = pendingKey, pendingValue, true
			s.length++
			return 1
		}
		if c.key == pendingKey {
			c.value = pendingValue
			return 0
		}
		pendingDist := s.distanceMod(idx, pendingKey)
		residentDist := s.distanceMod(idx, c.key)
		if residentDist < pendingDist {
			// Rob from the rich: the resident has a shorter probe
			// distance than the pending entry, so it gets evicted and
			// carried forward while the pending entry takes its slot.
			pendingKey, pendingValue, c.key, c.value = c.key, c.value, pendingKey, pendingValue
		}
		idx++
		if idx == s.capacity {
			idx = 0
		}
	}
}

func (s *SequentialTable) grow(newCapacity int) {
	old := s.buckets
	s.buckets = make([]seqCell, newCapacity)
	s.capacity = newCapacity
	s.length = 0
	for _, c := range old {
		if c.occupied {
			s.insertNoResize(c.key, c.value)
		}
	}
}

// Search returns the value mapped to key, or (0, false) if key is absent.
func (s *SequentialTable) Search(key uint32) (uint32, bool) {
	idx := keyHome(key, s.capacity)
	for offset := 0; ; offset++ {
		c := s.buckets[idx]
		if !c.occupied {
			return 0, false
		}
		if c.key == key {
			return c.value, true
		}
		if s.distanceMod(idx, c.key) < offset {
			// Robin Hood invariant: anything stored past here would
			// have displaced this shorter-distance resident already.
			return 0, false
		}
		idx++
		if idx == s.capacity {
			idx = 0
		}
	}
}

// Remove deletes key if present, backward-shifting its probe chain's
// successors to close the hole it leaves, and reports whether a removal
// occurred.
func (s *SequentialTable) Remove(key uint32) bool {
	idx := keyHome(key, s.capacity)
	found := false
	for offset := 0; ; offset++ {
		c := s.buckets[idx]
		if !c.occupied {
			break
		}
		if c.key == key {
			found = true
			break
		}
		if s.distanceMod(idx, c.key) < offset {
			break
		}
		idx++
		if idx == s.capacity {
			idx = 0
		}
	}
	if !found {
		return false
	}

	cur := idx
	next := cur + 1
	if next == s.capacity {
		next = 0
	}
	for s.buckets[next].occupied && s.distanceMod(next, s.buckets[next].key) > 0 {
		s.buckets[cur] = s.buckets[next]
		cur = next
		next++
		if next == s.capacity {
			next = 0
		}
	}
	s.buckets[cur] = seqCell{}
	s.length--
	return true
}
