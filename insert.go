package merrymem

// Insert maps key to value, overwriting any existing mapping for key. It
// always succeeds short of the fatal capacity-exhaustion case (spec §4.5,
// §4.9): there is no "table full" return value, only an InvariantViolation
// panic if a locked walk runs off the end of the bucket store.
func (t *Table) Insert(key, value uint32) bool {
	assertInvariant(key != emptyKey, "insert: key must be non-zero")

	state := opIdle.transition(opFastTry)
	home := keyHome(key, t.cfg.Capacity)

	// Fast path: distance-zero insert/update directly on the home cell,
	// no stripe lock taken. Falls through on any CAS failure, including
	// the case where the home cell holds neither an empty cell nor key.
	homeCell := t.buckets.load(home)
	if homeCell.empty() {
		if t.buckets.compareAndSwap(home, emptyKey, 0, key, value) {
			t.length.Add(1)
			state = state.transition(opCommitted)
			state.transition(opIdle)
			return true
		}
	} else if homeCell.key == key {
		if t.buckets.compareAndSwap(home, homeCell.key, homeCell.value, key, value) {
			state = state.transition(opCommitted)
			state.transition(opIdle)
			return true
		}
	}

	state = state.transition(opSlowEnter)
	tm := t.newThreadManager()
	defer tm.releaseAll()
	return t.lockedInsert(key, value, home, tm, state)
}

// lockedInsert performs the locked Robin Hood walk: acquire the stripe
// containing each newly entered slot, and either land the pending entry in
// an empty cell, overwrite an existing cell holding the same key, or
// displace a resident with a smaller probe distance and keep walking with
// the displaced entry as the new pending value.
func (t *Table) lockedInsert(key, value uint32, home int, tm *threadManager, state opState) bool {
	idx := home
	pendingKey, pendingValue := key, value
	for {
		assertInvariant(idx < t.buckets.total(), "insert: capacity exhausted")
		tm.lock(idx)

		cur := t.buckets.load(idx)
		if cur.empty() {
			t.buckets.store(idx, pendingKey, pendingValue)
			t.length.Add(1)
			state = state.transition(opCommitted)
			state.transition(opIdle)
			return true
		}
		if cur.key == pendingKey {
			t.buckets.store(idx, pendingKey, pendingValue)
			state = state.transition(opCommitted)
			state.transition(opIdle)
			return true
		}

		pendingDist := idx - keyHome(pendingKey, t.cfg.Capacity)
		residentDist := t.buckets.distance(idx, cur.key)
		if residentDist < pendingDist {
			evicted := t.buckets.swap(idx, pendingKey, pendingValue)
			pendingKey, pendingValue = evicted.key, evicted.value
		}
		idx++
	}
}
