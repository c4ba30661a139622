package merrymem

// Find returns the value currently mapped to key, or (0, false) if key is
// absent. It never blocks in the common case: it either resolves on the
// home-cell fast path or via an optimistic, lock-free probe; only after
// OptimisticFindRetries failed validations does it fall back to a locked
// walk (spec §4.6).
func (t *Table) Find(key uint32) (uint32, bool) {
	assertInvariant(key != emptyKey, "find: key must be non-zero")

	state := opIdle.transition(opFastTry)
	home := keyHome(key, t.cfg.Capacity)

	homeCell := t.buckets.load(home)
	if homeCell.key == key {
		state = state.transition(opCommitted)
		state.transition(opIdle)
		return homeCell.value, true
	}
	if homeCell.empty() {
		// Robin Hood invariant I3: if the home cell is empty, nothing
		// hashing to this home can be stored anywhere in the table —
		// an earlier insert would have landed here first.
		state = state.transition(opCommitted)
		state.transition(opIdle)
		return 0, false
	}

	tm := t.newThreadManager()
	for try := 0; try < t.cfg.OptimisticFindRetries; try++ {
		value, found, valid := t.trySpeculativeFind(key, home, tm)
		if valid {
			state = state.transition(opCommitted)
			state.transition(opIdle)
			return value, found
		}
	}

	state = state.transition(opSlowEnter)
	defer tm.releaseAll()
	value, found := t.lockedFind(key, home, tm)
	state = state.transition(opCommitted)
	state.transition(opIdle)
	return value, found
}

// trySpeculativeFind walks the probe chain from home without acquiring any
// stripe lock, recording the version of every stripe it visits. It reports
// valid=false if any visited stripe's version changed during the walk (or
// was self-held), meaning the caller must retry or fall back to a locked
// find.
func (t *Table) trySpeculativeFind(key uint32, home int, tm *threadManager) (value uint32, found, valid bool) {
	idx := home
	for offset := 0; idx < t.buckets.total(); offset++ {
		if !tm.speculate(idx) {
			tm.finishSpeculate()
			return 0, false, false
		}
		c := t.buckets.load(idx)
		if c.empty() {
			break
		}
		dist := t.buckets.distance(idx, c.key)
		if dist < offset {
			break
		}
		if c.key == key {
			value = c.value
			found = true
			break
		}
		idx++
	}
	valid = tm.finishSpeculate()
	return
}

// lockedFind repeats the same forward walk as trySpeculativeFind, but with
// each visited slot's stripe locked, guaranteeing a linearizable read.
func (t *Table) lockedFind(key uint32, home int, tm *threadManager) (uint32, bool) {
	idx := home
	for offset := 0; ; offset++ {
		assertInvariant(idx < t.buckets.total(), "find: capacity exhausted")
		tm.lock(idx)
		c := t.buckets.load(idx)
		if c.empty() {
			return 0, false
		}
		if c.key == key {
			return c.value, true
		}
		if t.buckets.distance(idx, c.key) < offset {
			return 0, false
		}
		idx++
	}
}
