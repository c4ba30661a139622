package merrymem

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestParallelEngineMatchesMapOracleSingleThreaded replays a random
// insert/find/remove sequence against both the concurrent Table (used here
// from a single goroutine) and a plain Go map, and checks every Find
// against the map's own answer. This is the spec §8 oracle check.
func TestParallelEngineMatchesMapOracleSingleThreaded(t *testing.T) {
	seed := time.Now().UTC().UnixNano()
	rng := rand.New(rand.NewSource(seed))

	tbl, err := NewTable(WithCapacity(256), WithOverflowSlots(64))
	assert.NoError(t, err)
	oracle := make(map[uint32]uint32)

	const ops = 5000
	const keySpace = 100
	for i := 0; i < ops; i++ {
		key := uint32(rng.Intn(keySpace)) + 1
		switch rng.Intn(3) {
		case 0:
			value := rng.Uint32()
			tbl.Insert(key, value)
			oracle[key] = value
		case 1:
			delete(oracle, key)
			tbl.Remove(key)
		default:
			want, wantOK := oracle[key]
			got, gotOK := tbl.Find(key)
			assert.Equal(t, wantOK, gotOK, "seed %d: key %d presence mismatch", seed, key)
			if wantOK {
				assert.Equal(t, want, got, "seed %d: key %d value mismatch", seed, key)
			}
		}
	}

	for key, want := range oracle {
		got, ok := tbl.Find(key)
		assert.True(t, ok, "seed %d: key %d missing from table at end of trace", seed, key)
		assert.Equal(t, want, got, "seed %d: key %d final value mismatch", seed, key)
	}
}

// TestSequentialEngineMatchesMapOracle is the same differential check
// against the single-threaded reference engine.
func TestSequentialEngineMatchesMapOracle(t *testing.T) {
	seed := time.Now().UTC().UnixNano()
	rng := rand.New(rand.NewSource(seed))

	s, err := NewSequentialTable(WithCapacity(32))
	assert.NoError(t, err)
	oracle := make(map[uint32]uint32)

	const ops = 5000
	const keySpace = 300
	for i := 0; i < ops; i++ {
		key := uint32(rng.Intn(keySpace)) + 1
		switch rng.Intn(3) {
		case 0:
			value := rng.Uint32()
			s.Insert(key, value)
			oracle[key] = value
		case 1:
			delete(oracle, key)
			s.Remove(key)
		default:
			want, wantOK := oracle[key]
			got, gotOK := s.Search(key)
			assert.Equal(t, wantOK, gotOK, "seed %d: key %d presence mismatch", seed, key)
			if wantOK {
				assert.Equal(t, want, got, "seed %d: key %d value mismatch", seed, key)
			}
		}
	}

	assert.Equal(t, len(oracle), s.Len())
	for key, want := range oracle {
		got, ok := s.Search(key)
		assert.True(t, ok, "seed %d: key %d missing at end of trace", seed, key)
		assert.Equal(t, want, got, "seed %d: key %d final value mismatch", seed, key)
	}
}

// TestParallelEngineDisjointKeysetsConcurrent gives each goroutine its own
// private key range so the final state is still checkable against a single
// combined oracle despite concurrent execution: no two goroutines ever
// race on the same key, but they do race on shared stripes and bucket
// slots, since hashing scatters every range across the whole table.
func TestParallelEngineDisjointKeysetsConcurrent(t *testing.T) {
	tbl, err := NewTable(WithCapacity(8192), WithOverflowSlots(128))
	assert.NoError(t, err)

	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	var mu sync.Mutex
	oracle := make(map[uint32]uint32)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			base := uint32(w*perWorker + 1)
			for i := uint32(0); i < perWorker; i++ {
				key := base + i
				value := key * 10
				tbl.Insert(key, value)
				mu.Lock()
				oracle[key] = value
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, len(oracle), tbl.Len())
	for key, want := range oracle {
		got, ok := tbl.Find(key)
		assert.True(t, ok, "key %d missing after concurrent disjoint inserts", key)
		assert.Equal(t, want, got)
	}
}
