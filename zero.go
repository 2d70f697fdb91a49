package wsc

// secret is a byte slice wrapper that zeroes its backing array on Zero.
// Shared secrets and derived keys are zeroed immediately after use rather
// than left for the garbage collector.
type secret []byte

// Zero overwrites every byte of s with zero. Safe to call more than once
// and on a nil/empty secret.
func (s secret) Zero() {
	for i := range s {
		s[i] = 0
	}
}

// zeroAll zeroes every secret given, in argument order.
func zeroAll(ss ...secret) {
	for _, s := range ss {
		s.Zero()
	}
}
