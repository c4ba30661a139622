package merrymem

// Remove deletes key if present and reports whether a removal occurred.
// The fast path elides locking entirely when the key sits at distance zero
// from its home and deleting it cannot orphan a right-neighbor's probe
// chain (spec §4.7); otherwise it falls back to a locked backward-shift
// delete.
func (t *Table) Remove(key uint32) bool {
	assertInvariant(key != emptyKey, "remove: key must be non-zero")

	state := opIdle.transition(opFastTry)
	home := keyHome(key, t.cfg.Capacity)
	homeCell := t.buckets.load(home)

	rightIdx := home + 1
	rightOK := rightIdx >= t.buckets.total()
	var rightCell kv
	if !rightOK {
		rightCell = t.buckets.load(rightIdx)
		rightOK = rightCell.empty() || t.buckets.distance(rightIdx, rightCell.key) == 0
	}

	if homeCell.key == key && rightOK {
		if t.buckets.compareAndSwap(home, homeCell.key, homeCell.value, emptyKey, 0) {
			t.length.Add(-1)
			state = state.transition(opCommitted)
			state.transition(opIdle)
			return true
		}
	}

	state = state.transition(opSlowEnter)
	tm := t.newThreadManager()
	defer tm.releaseAll()
	found := t.lockedRemove(key, home, tm)
	state = state.transition(opCommitted)
	state.transition(opIdle)
	return found
}

// lockedRemove locates key via a locked forward walk and, if found,
// backward-shifts every subsequent entry in its probe chain left by one
// slot until it reaches an entry already at distance zero or an empty
// cell, then clears the trailing slot.
func (t *Table) lockedRemove(key uint32, home int, tm *threadManager) bool {
	idx := home
	victim := -1
	for offset := 0; ; offset++ {
		assertInvariant(idx < t.buckets.total(), "remove: capacity exhausted")
		tm.lock(idx)
		c := t.buckets.load(idx)
		if c.empty() {
			break
		}
		if c.key == key {
			victim = idx
			break
		}
		if t.buckets.distance(idx, c.key) < offset {
			break
		}
		idx++
	}
	if victim < 0 {
		return false
	}

	cur := victim
	next := victim + 1
	for {
		assertInvariant(next < t.buckets.total(), "remove: capacity exhausted during shift")
		tm.lock(next)
		nc := t.buckets.load(next)
		if nc.empty() {
			break
		}
		if t.buckets.distance(next, nc.key) == 0 {
			break
		}
		moved := t.buckets.swap(next, emptyKey, 0)
		t.buckets.store(cur, moved.key, moved.value)
		cur = next
		next++
	}
	t.buckets.storeEmpty(cur)
	t.length.Add(-1)
	return true
}
