package merrymem

import "sync/atomic"

// opState enumerates the per-operation state machine from spec §4.8:
// Idle -> FastTry -> {Committed | SlowEnter} -> ... -> Commit -> Idle. It
// exists purely for internal bookkeeping assertions (see transition); it is
// never part of the public API.
type opState int

const (
	opIdle opState = iota
	opFastTry
	opSlowEnter
	opCommitted
)

// transition asserts that moving from s to next is a legal edge of the
// operation state machine documented in spec §4.8, then returns next. Every
// exported Table operation (Insert/Find/Remove) threads its local opState
// through its fast/slow paths via this method.
func (s opState) transition(next opState) opState {
	valid := false
	switch s {
	case opIdle:
		valid = next == opFastTry
	case opFastTry:
		valid = next == opCommitted || next == opSlowEnter
	case opSlowEnter:
		valid = next == opCommitted
	case opCommitted:
		valid = next == opIdle
	}
	assertInvariant(valid, "invalid operation state transition")
	return next
}

// Table is a concurrent, fixed-capacity Robin Hood hash table over uint32
// keys and values. The zero value is not usable; construct one with
// NewTable.
//
// A Table is safe for concurrent use by any number of goroutines calling
// Insert, Find, and Remove. It does not grow: construct it with enough
// capacity and overflow slots up front (spec §1 Non-goals).
type Table struct {
	cfg     Config
	buckets *bucketStore
	stripes *stripeTable

	// length is an approximate occupancy counter, maintained with atomic
	// increments/decrements whenever a new key is inserted or a key is
	// removed, on the fast and slow paths alike. It is not used by any
	// invariant check inside the table; it exists so callers have an O(1)
	// occupancy estimate without scanning the table. Tests compare it
	// against the oracle's exact count once all writers have finished.
	length atomic.Int64
}

// NewTable constructs a Table. Capacity defaults to 1024 and must be a
// power of two; overflow defaults to 10 slots. Use the With* options to
// override any Config field.
func NewTable(opts ...Option) (*Table, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	buckets := newBucketStore(cfg.Capacity, cfg.OverflowSlots)
	stripes := newStripeTable(buckets.total(), cfg.StripeWidth)

	return &Table{
		cfg:     cfg,
		buckets: buckets,
		stripes: stripes,
	}, nil
}

// Len returns the approximate number of occupied cells. It is safe to call
// concurrently with other operations but may be stale by the time it
// returns.
func (t *Table) Len() int {
	return int(t.length.Load())
}

// Capacity returns the table's fixed home-slot capacity (excluding the
// overflow tail).
func (t *Table) Capacity() int {
	return t.cfg.Capacity
}

func (t *Table) newThreadManager() *threadManager {
	return newThreadManager(t.stripes)
}
