package merrymem

// mix64 applies a two-round xorshift-multiply bit mix to key, producing a
// well-distributed 64-bit code. The input is widened by value (never
// reinterpreted through a pointer cast), resolving the spec's draft
// disagreement between a value-preserving cast and a reinterpret cast in
// favor of the former: a reinterpret cast of a 32-bit key into a wider hash
// code would read uninitialized bits on some platforms and is not portable
// Go besides.
//
// Source: the splitmix64-family finalizer, the same family the original
// C++ cites via the stackoverflow thread on integer hash functions.
func mix64(key uint32) uint64 {
	x := uint64(key)
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// home returns the ideal slot for a hash code in a table of the given
// capacity. capacity must be a power of two; home uses a mask rather than a
// modulo to keep the common path branch-free.
func home(code uint64, capacity int) int {
	return int(code & uint64(capacity-1))
}

func keyHome(key uint32, capacity int) int {
	return home(mix64(key), capacity)
}
