package chacha

import "golang.org/x/sys/cpu"

// batchFunc fills out with as many whole batches of width blocks as fit,
// advances s's counter by the number of blocks emitted, and returns the
// number of bytes written. It never touches the tail remainder of out.
type batchFunc struct {
	name  string
	width int
	fn    func(s *[StateSize]uint32, rounds Rounds, out []byte) int
}

// selectBatch picks the widest batch implementation the running CPU
// supports, per spec.md §4.2's selection policy: probe AVX2 first, then
// SSSE3/NEON, else fall back to the scalar block function one block at a
// time. The result is resolved once (at Stream.Init) and stored as a bound
// function, never re-probed inside Update.
func selectBatch() batchFunc {
	if hasAVX2() {
		return batchFunc{name: "avx2-8block", width: 8, fn: blocks8}
	}
	if hasVectorByteShuffle() {
		return batchFunc{name: "ssse3-4block", width: 4, fn: blocks4}
	}
	return batchFunc{name: "scalar", width: 1, fn: blocksScalar}
}

func hasAVX2() bool {
	return cpu.X86.HasAVX2
}

func hasVectorByteShuffle() bool {
	return cpu.X86.HasSSSE3 || cpu.ARM64.HasASIMD
}

// blocksScalar advances the state one block at a time using the reference
// block function. Used when no wide batch path is available, and as the
// equivalence baseline that the 4-wide and 8-wide paths are tested against.
func blocksScalar(s *[StateSize]uint32, rounds Rounds, out []byte) int {
	n := len(out) / BlockSize
	var buf [BlockSize]byte
	for i := 0; i < n; i++ {
		block(s, rounds, &buf)
		copy(out[i*BlockSize:(i+1)*BlockSize], buf[:])
	}
	return n * BlockSize
}

// blocksN runs width independent lanes of the ChaCha round function in
// lockstep, one lane per counter offset 0..width-1, then transposes the
// lanes into output order (lane 0's block first, lane 1's second, ...).
// This is the software equivalent of the SIMD batch: the original C
// reference processes the same lanes with SSE/AVX registers and
// byte-shuffle rotations (see src/u4-stream.h, src/u8-stream.h); here the
// lanes are plain Go arrays, since this module carries no assembly.
func blocksN(width int, s *[StateSize]uint32, rounds Rounds, out []byte) int {
	batchBytes := width * BlockSize
	nBatches := len(out) / batchBytes
	if nBatches == 0 {
		return 0
	}

	base := counter(s)
	x := make([][16]uint32, width)
	var buf [BlockSize]byte

	for b := 0; b < nBatches; b++ {
		for lane := 0; lane < width; lane++ {
			copy(x[lane][:], s[:])
			setCounter(&x[lane], base+uint64(lane))
		}
		for lane := 0; lane < width; lane++ {
			lx := &x[lane]
			x0, x1, x2, x3 := lx[0], lx[1], lx[2], lx[3]
			x4, x5, x6, x7 := lx[4], lx[5], lx[6], lx[7]
			x8, x9, x10, x11 := lx[8], lx[9], lx[10], lx[11]
			x12, x13, x14, x15 := lx[12], lx[13], lx[14], lx[15]

			for i := int(rounds); i > 0; i -= 2 {
				x0, x4, x8, x12 = quarterRound(x0, x4, x8, x12)
				x1, x5, x9, x13 = quarterRound(x1, x5, x9, x13)
				x2, x6, x10, x14 = quarterRound(x2, x6, x10, x14)
				x3, x7, x11, x15 = quarterRound(x3, x7, x11, x15)

				x0, x5, x10, x15 = quarterRound(x0, x5, x10, x15)
				x1, x6, x11, x12 = quarterRound(x1, x6, x11, x12)
				x2, x7, x8, x13 = quarterRound(x2, x7, x8, x13)
				x3, x4, x9, x14 = quarterRound(x3, x4, x9, x14)
			}

			buf32 := [16]uint32{
				x0 + lx[0], x1 + lx[1], x2 + lx[2], x3 + lx[3],
				x4 + lx[4], x5 + lx[5], x6 + lx[6], x7 + lx[7],
				x8 + lx[8], x9 + lx[9], x10 + lx[10], x11 + lx[11],
				x12 + lx[12], x13 + lx[13], x14 + lx[14], x15 + lx[15],
			}
			writeWords(&buf, &buf32)
			copy(out[(b*width+lane)*BlockSize:(b*width+lane+1)*BlockSize], buf[:])
		}
		setCounter(s, base+uint64(width))
		base += uint64(width)
	}
	return nBatches * batchBytes
}

func writeWords(out *[BlockSize]byte, words *[16]uint32) {
	for i, w := range words {
		out[4*i] = byte(w)
		out[4*i+1] = byte(w >> 8)
		out[4*i+2] = byte(w >> 16)
		out[4*i+3] = byte(w >> 24)
	}
}

func blocks4(s *[StateSize]uint32, rounds Rounds, out []byte) int {
	return blocksN(4, s, rounds, out)
}

func blocks8(s *[StateSize]uint32, rounds Rounds, out []byte) int {
	return blocksN(8, s, rounds, out)
}
