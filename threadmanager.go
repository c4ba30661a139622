package merrymem

// threadManager is the per-operation lock bookkeeping the spec calls the
// "per-thread lock manager": which stripes the current operation holds, and
// which (stripe, version) pairs it has sampled during an optimistic read.
//
// The original design keeps one of these per OS thread, reused across
// operations, because C++ has real thread-local storage. Go has no
// equivalent goroutine-local storage, and fabricating one (e.g. keying a map
// by runtime goroutine id) would need unsafe/runtime tricks not used
// anywhere in the pack. Instead every exported table operation constructs a
// fresh threadManager on its own stack and threads it through the call tree
// for that one operation; since a threadManager never outlives the
// operation that created it, this is equivalent to "private to its thread,
// no synchronization on its internals" (spec §5) without needing TLS.
type threadManager struct {
	stripes *stripeTable

	// held lists stripe indices this operation currently holds, in
	// acquisition order, so release can unwind them in reverse order.
	held []int
	// heldSet lets lock() test membership without a linear scan.
	heldSet map[int]struct{}

	// observed holds (stripe index, version sampled) pairs recorded by
	// speculate, validated by finishSpeculate.
	observed []versionObservation
}

type versionObservation struct {
	stripeIdx int
	version   stripeVersion
}

func newThreadManager(stripes *stripeTable) *threadManager {
	return &threadManager{
		stripes: stripes,
		heldSet: make(map[int]struct{}),
	}
}

// lock acquires the stripe containing slotIndex, unless this operation
// already holds it. Idempotent per spec §4.3.
func (tm *threadManager) lock(slotIndex int) {
	s := tm.stripes.indexOf(slotIndex)
	if _, already := tm.heldSet[s]; already {
		return
	}
	tm.stripes.lock(s)
	tm.heldSet[s] = struct{}{}
	tm.held = append(tm.held, s)
}

// releaseAll releases every stripe this operation holds, in reverse
// acquisition order, and clears both the held list and the observed-version
// list.
func (tm *threadManager) releaseAll() {
	for i := len(tm.held) - 1; i >= 0; i-- {
		tm.stripes.unlock(tm.held[i])
	}
	tm.held = tm.held[:0]
	tm.heldSet = make(map[int]struct{})
	tm.observed = tm.observed[:0]
}

// speculate snapshots the version of the stripe containing slotIndex and
// records it for later validation by finishSpeculate. It returns false,
// refusing to record anything, if this operation itself already holds the
// stripe — in that case the read is not speculative at all (the data can
// change under the reader without a version bump the reader would see,
// since the reader both holds and models the writer in the same operation;
// more simply, this operation already owns the cell it is about to read and
// should just read it directly).
//
// The version is read before the held-stripe check is consulted, so that if
// another writer locks the stripe between the two steps, finishSpeculate
// will observe the resulting version bump rather than silently missing it.
func (tm *threadManager) speculate(slotIndex int) bool {
	s := tm.stripes.indexOf(slotIndex)
	version := tm.stripes.loadVersion(s)
	if _, alreadyHeld := tm.heldSet[s]; alreadyHeld {
		return false
	}
	tm.observed = append(tm.observed, versionObservation{stripeIdx: s, version: version})
	return true
}

// finishSpeculate re-reads every stripe version sampled since the last call
// and reports whether all of them are unchanged. Either way, it clears the
// observed list: a failed validation must be followed by retry or locked
// fallback, never a second call to finishSpeculate against the same sample.
func (tm *threadManager) finishSpeculate() bool {
	ok := true
	for _, o := range tm.observed {
		if tm.stripes.loadVersion(o.stripeIdx) != o.version {
			ok = false
			break
		}
	}
	tm.observed = tm.observed[:0]
	return ok
}
