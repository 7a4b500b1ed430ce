// Package pipeline drives a fixed pool of ChaCha keystream producers and a
// single writer, reconstructing one continuous keystream out of their
// round-robin output at multi-GB/s (spec.md §4.5).
package pipeline

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/randquik/randquik/chacha"
)

// DefaultWorkers is the producer pool size used when Config.Workers is
// left at zero.
const DefaultWorkers = 8

// DefaultBlockBytes is the per-slot buffer size: 2 MiB, the throughput
// sweet spot spec.md §4.5 calls out.
const DefaultBlockBytes = 1 << 21

// Config describes a keystream and how to partition it across workers.
type Config struct {
	Key    [chacha.KeySize]byte
	IV     [chacha.IVSize]byte
	Rounds chacha.Rounds

	// Workers is the producer pool size W. Zero means DefaultWorkers.
	Workers int
	// BlockBytes is the per-slot buffer size; must be a positive
	// multiple of chacha.BlockSize. Zero means DefaultBlockBytes.
	BlockBytes int
	// MaxBytes caps total bytes written; zero means unlimited.
	MaxBytes uint64
}

func (c *Config) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.BlockBytes <= 0 {
		c.BlockBytes = DefaultBlockBytes
	}
	if !c.Rounds.Valid() {
		c.Rounds = chacha.Rounds20
	}
}

// slot is one producer's buffer and the mutex+condition pair that
// mediates hand-off with the writer (spec.md §3, "Producer slot").
type slot struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ready  bool
	buf    []byte
	stream *chacha.Stream
}

// Writer coordinates the producer pool and performs the actual I/O.
type Writer struct {
	cfg   Config
	slots []*slot
	quit  atomic.Bool
	wg    sync.WaitGroup
}

// New builds a Writer whose slots are pre-seeked per spec.md §4.5's
// counter-partitioning rule: slot i starts at block i·(BlockBytes/64).
func New(cfg Config) *Writer {
	cfg.setDefaults()
	w := &Writer{cfg: cfg}

	blocksPerBuffer := int64(cfg.BlockBytes / chacha.BlockSize)
	w.slots = make([]*slot, cfg.Workers)
	for i := range w.slots {
		s := &slot{buf: make([]byte, cfg.BlockBytes)}
		s.cond = sync.NewCond(&s.mu)
		s.stream = chacha.NewStream(cfg.Key, cfg.IV, cfg.Rounds)
		s.stream.Seek(int64(i) * blocksPerBuffer)
		w.slots[i] = s
	}
	return w
}

// RequestStop sets the quit flag and releases every slot's condition
// variable so producers and the writer observe it promptly instead of
// waiting for their next scheduled wake-up. Safe to call from a signal
// handler goroutine.
func (w *Writer) RequestStop() {
	w.quit.Store(true)
	w.releaseAll()
}

func (w *Writer) releaseAll() {
	for _, s := range w.slots {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// produce is one worker's loop: wait for its slot to drain, fill it, seek
// ahead to the position it will own on its next turn, repeat. Generation
// itself never blocks or fails; the only suspension point is the
// condition variable (spec.md §5).
func (w *Writer) produce(i int) {
	defer w.wg.Done()

	s := w.slots[i]
	blocksPerBuffer := int64(w.cfg.BlockBytes / chacha.BlockSize)
	stride := blocksPerBuffer * int64(w.cfg.Workers)
	next := int64(i) * blocksPerBuffer

	for {
		s.mu.Lock()
		for s.ready && !w.quit.Load() {
			s.cond.Wait()
		}
		if w.quit.Load() {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.stream.Update(s.buf)
		if w.cfg.Workers > 1 {
			// Update's tail refill can leave the counter up to a whole
			// batch past the buffer, so reposition to the absolute block
			// of the next turn rather than seeking relative to it.
			next += stride
			s.stream.Init(w.cfg.Key, w.cfg.IV, w.cfg.Rounds)
			s.stream.Seek(next)
		}

		s.mu.Lock()
		s.ready = true
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// Run starts the producer pool and drains slots in strict round-robin
// order into out until the quit flag is set (by RequestStop, a write
// failure, or the byte cap being reached), then tears the pool down. It
// returns the total bytes written and the error that caused the stop, if
// any stop was caused by an error.
func (w *Writer) Run(out io.Writer) (uint64, error) {
	w.wg.Add(len(w.slots))
	for i := range w.slots {
		go w.produce(i)
	}
	defer func() {
		w.quit.Store(true)
		w.releaseAll()
		w.wg.Wait()
	}()

	var written uint64
	idx := 0
	for !w.quit.Load() {
		s := w.slots[idx]

		s.mu.Lock()
		for !s.ready && !w.quit.Load() {
			s.cond.Wait()
		}
		if w.quit.Load() {
			s.mu.Unlock()
			break
		}

		toWrite := s.buf
		if w.cfg.MaxBytes > 0 {
			remaining := w.cfg.MaxBytes - written
			if remaining <= uint64(len(toWrite)) {
				toWrite = s.buf[:remaining]
			}
		}

		n, err := out.Write(toWrite)
		written += uint64(n)
		s.ready = false
		s.cond.Broadcast()
		s.mu.Unlock()

		if err != nil {
			w.quit.Store(true)
			return written, fmt.Errorf("pipeline: write failed after %d bytes: %w", written, err)
		}
		if n < len(toWrite) {
			w.quit.Store(true)
			return written, fmt.Errorf("pipeline: short write after %d bytes", written)
		}
		if w.cfg.MaxBytes > 0 && written >= w.cfg.MaxBytes {
			w.quit.Store(true)
			break
		}

		idx = (idx + 1) % len(w.slots)
	}

	return written, nil
}
