package chacha

// carryCap is the largest carry-over buffer any batch implementation can
// fill in one call: 8 blocks of 64 bytes, the widest batch this package
// supports (spec.md §4.3, "Carry-over buffer sizing").
const carryCap = 8 * BlockSize

// Stream is a stateful, seekable ChaCha keystream generator. A Stream is
// not safe for concurrent use; callers needing parallelism should use one
// Stream per goroutine, seeked to disjoint counter ranges (see package
// pipeline).
type Stream struct {
	state  [StateSize]uint32
	rounds Rounds
	batch  batchFunc

	carry    [carryCap]byte
	off, end int
}

// NewStream creates a Stream seeded with key and iv (the first 8 bytes of
// iv set the initial 64-bit counter, normally zero; the last 8 bytes are
// the nonce) running the given round count. It probes the running CPU
// once and binds the fastest available batch implementation for the
// lifetime of the Stream.
func NewStream(key [KeySize]byte, iv [IVSize]byte, rounds Rounds) *Stream {
	s := &Stream{}
	s.Init(key, iv, rounds)
	return s
}

// Init (re)initializes s in place, as if newly constructed. Any carry-over
// keystream from a prior use is discarded.
func (s *Stream) Init(key [KeySize]byte, iv [IVSize]byte, rounds Rounds) {
	initState(&s.state, key, iv)
	s.rounds = rounds
	s.batch = selectBatch()
	s.off, s.end = 0, 0
}

// Update fills out with the next len(out) bytes of the keystream. len(out)
// may be zero (a no-op), smaller than a block, or arbitrarily larger than
// a batch: the batch function is always invoked at most twice, regardless
// of len(out), so the common case of a large request runs at peak
// throughput instead of looping in BATCH_BYTES-sized chunks.
func (s *Stream) Update(out []byte) {
	if len(out) == 0 {
		return
	}

	pos := 0
	if s.off < s.end {
		pos = copy(out, s.carry[s.off:s.end])
		s.off += pos
	}
	if pos == len(out) {
		return
	}
	rest := out[pos:]

	batchBytes := s.batch.width * BlockSize
	full := (len(rest) / batchBytes) * batchBytes
	if full > 0 {
		s.batch.fn(&s.state, s.rounds, rest[:full])
	}
	tail := rest[full:]
	if len(tail) == 0 {
		return
	}

	s.batch.fn(&s.state, s.rounds, s.carry[:batchBytes])
	copy(tail, s.carry[:len(tail)])
	s.off = len(tail)
	s.end = batchBytes
}

// Seek adds delta (positive forward, negative backward) to the 64-bit block
// counter, wrapping modulo 2^64. It discards any buffered carry-over, so the
// next byte delivered is the first byte of the block the counter now names;
// when carry-over was pending, that is not delta blocks past the last byte
// delivered. It never generates keystream, so it is effectively constant
// time.
func (s *Stream) Seek(delta int64) {
	setCounter(&s.state, counter(&s.state)+uint64(delta))
	s.off, s.end = 0, 0
}

// Wipe zeroes the Stream's state and any residual carry-over bytes,
// removing the key material from the struct's memory.
func (s *Stream) Wipe() {
	for i := range s.state {
		s.state[i] = 0
	}
	for i := range s.carry {
		s.carry[i] = 0
	}
	s.off, s.end = 0, 0
}

// ImplementationName identifies the batch path this Stream bound at Init
// (e.g. "avx2-8block", "ssse3-4block", "scalar"); exposed for diagnostics.
func (s *Stream) ImplementationName() string {
	return s.batch.name
}
