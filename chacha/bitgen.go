package chacha

import "encoding/binary"

// adapterBufSize is the size of the BitGenerator's refill buffer: one full
// batch, so integer draws only invoke Stream.Update once per 512 bytes
// consumed rather than once per draw (spec.md §4.4).
const adapterBufSize = 512

// BitGenerator adapts a Stream into fixed-width integer and uniform-double
// draws suitable as a numerical-library bit-generator back-end. Like the
// underlying Stream, a BitGenerator is not safe for concurrent use.
type BitGenerator struct {
	stream *Stream
	buf    [adapterBufSize]byte
	pos    int
}

// NewBitGenerator wraps stream in a bit-generator adapter.
func NewBitGenerator(stream *Stream) *BitGenerator {
	return &BitGenerator{stream: stream, pos: adapterBufSize}
}

func (g *BitGenerator) ensure(n int) {
	if g.pos+n > adapterBufSize {
		kept := copy(g.buf[:], g.buf[g.pos:])
		g.stream.Update(g.buf[kept:])
		g.pos = 0
	}
}

// Uint32 returns the next 4 bytes of keystream as a little-endian uint32.
func (g *BitGenerator) Uint32() uint32 {
	g.ensure(4)
	v := binary.LittleEndian.Uint32(g.buf[g.pos : g.pos+4])
	g.pos += 4
	return v
}

// Uint64 returns the next 8 bytes of keystream as a little-endian uint64.
func (g *BitGenerator) Uint64() uint64 {
	g.ensure(8)
	v := binary.LittleEndian.Uint64(g.buf[g.pos : g.pos+8])
	g.pos += 8
	return v
}

// Float64 draws a uint64 and returns its top 53 bits scaled into [0, 1),
// the conversion numpy's bit generators use for uniform doubles.
func (g *BitGenerator) Float64() float64 {
	return float64(g.Uint64()>>11) * (1.0 / (1 << 53))
}
