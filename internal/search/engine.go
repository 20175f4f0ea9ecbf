package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultChunkSize is the size of each read issued while scanning.
	DefaultChunkSize = 1 << 20
	// MaxChunkSize bounds a single read, and with it the whole-file fast path.
	MaxChunkSize = 64 << 20
	// DefaultQueueDepth is the number of reads kept in flight by the pipelined strategy.
	DefaultQueueDepth = 32
	// MaxPipelineBytes bounds the buffer memory the pipelined strategy may hold.
	MaxPipelineBytes = 256 << 20
)

var (
	ErrEmptyPattern       = errors.New("search: empty pattern")
	ErrBackendUnavailable = errors.New("search: pipelined backend unavailable")
	ErrIncomplete         = errors.New("search: incomplete")
)

// Strategy selects how the file is read while scanning.
type Strategy int

const (
	StrategyAuto Strategy = iota
	StrategySequential
	StrategyPipelined
)

func (s Strategy) String() string {
	switch s {
	case StrategySequential:
		return "sequential"
	case StrategyPipelined:
		return "pipelined"
	default:
		return "auto"
	}
}

// ParseStrategy maps a configuration value onto a Strategy.
func ParseStrategy(value string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return StrategyAuto, nil
	case "sequential":
		return StrategySequential, nil
	case "pipelined":
		return StrategyPipelined, nil
	default:
		return StrategyAuto, fmt.Errorf("unknown search strategy %q", value)
	}
}

// Stats summarises a finished search.
type Stats struct {
	Matches  int
	Scanned  int64
	Strategy Strategy
}

// Engine scans files for exact byte patterns using bounded memory.
type Engine struct {
	chunkSize  int
	queueDepth int
	strategy   Strategy
	logger     *zap.Logger
}

type Option func(*Engine)

func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = min(n, MaxChunkSize)
		}
	}
}

func WithQueueDepth(n int) Option {
	return func(e *Engine) {
		e.queueDepth = n
	}
}

func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an engine with the default chunk size and queue depth.
func New(opts ...Option) *Engine {
	e := &Engine{
		chunkSize:  DefaultChunkSize,
		queueDepth: DefaultQueueDepth,
		strategy:   StrategyAuto,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// chunkFor keeps the overlap advance positive for long needles.
func (e *Engine) chunkFor(needleLen int) int {
	if e.chunkSize < 2*needleLen {
		return 2 * needleLen
	}
	return e.chunkSize
}

// SearchFile searches an open file, using its current size.
func (e *Engine) SearchFile(ctx context.Context, f *os.File, needle []byte, onMatch func(uint64)) (Stats, error) {
	info, err := f.Stat()
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	return e.Search(ctx, f, info.Size(), needle, onMatch)
}

// Search reports, through onMatch, every offset in r[0:size) where needle
// occurs, in strictly increasing order. Overlapping occurrences are all
// reported. Matches delivered before an error still stand.
func (e *Engine) Search(ctx context.Context, r io.ReaderAt, size int64, needle []byte, onMatch func(uint64)) (Stats, error) {
	if len(needle) == 0 {
		return Stats{}, ErrEmptyPattern
	}
	finder := NewFinder(needle)
	chunk := e.chunkFor(len(needle))
	em := &emitter{fn: onMatch}

	if size <= int64(chunk) {
		scanned, err := e.whole(r, size, finder, em)
		return Stats{Matches: em.count, Scanned: scanned, Strategy: StrategySequential}, err
	}

	switch e.strategy {
	case StrategySequential:
		scanned, err := e.sequential(ctx, r, finder, chunk, em)
		return Stats{Matches: em.count, Scanned: scanned, Strategy: StrategySequential}, err
	case StrategyPipelined:
		scanned, err := e.pipelined(ctx, r, size, finder, chunk, em)
		return Stats{Matches: em.count, Scanned: scanned, Strategy: StrategyPipelined}, err
	}

	scanned, err := e.pipelined(ctx, r, size, finder, chunk, em)
	if err == nil || ctx.Err() != nil {
		return Stats{Matches: em.count, Scanned: scanned, Strategy: StrategyPipelined}, err
	}
	if errors.Is(err, ErrBackendUnavailable) {
		e.logger.Debug("pipelined search unavailable, scanning sequentially", zap.Error(err))
	} else {
		e.logger.Warn("pipelined search failed, restarting sequentially",
			zap.Error(err), zap.Int("delivered", em.count))
	}
	scanned, err = e.sequential(ctx, r, finder, chunk, em)
	return Stats{Matches: em.count, Scanned: scanned, Strategy: StrategySequential}, err
}

func (e *Engine) whole(r io.ReaderAt, size int64, finder *Finder, em *emitter) (int64, error) {
	if size <= 0 {
		return 0, nil
	}
	buf := make([]byte, size)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return int64(n), fmt.Errorf("%w: read at offset 0: %w", ErrIncomplete, err)
	}
	finder.Scan(buf[:n], func(p int) {
		em.emit(uint64(p))
	})
	return int64(n), nil
}

// sequential reads one chunk at a time. After a chunk of n bytes it advances
// by n-(m-1) so the tail is re-read and straddling matches are seen whole.
func (e *Engine) sequential(ctx context.Context, r io.ReaderAt, finder *Finder, chunk int, em *emitter) (int64, error) {
	m := finder.Len()
	buf := make([]byte, chunk)
	var pos, scanned int64
	for {
		if err := ctx.Err(); err != nil {
			return scanned, err
		}
		n, err := r.ReadAt(buf, pos)
		if err != nil && !errors.Is(err, io.EOF) {
			e.logger.Warn("search read failed", zap.Int64("offset", pos), zap.Error(err))
			return scanned, fmt.Errorf("%w: read at offset %d: %w", ErrIncomplete, pos, err)
		}
		scanned += int64(n)
		if n >= m {
			base := uint64(pos)
			finder.Scan(buf[:n], func(p int) {
				em.emit(base + uint64(p))
			})
		}
		if n < len(buf) || n < m {
			return scanned, nil
		}
		pos += int64(n - (m - 1))
	}
}

// emitter drops offsets at or below the last delivered one, which keeps
// delivery strictly increasing when a fallback rescans from the start.
type emitter struct {
	fn    func(uint64)
	last  uint64
	any   bool
	count int
}

func (em *emitter) emit(offset uint64) {
	if em.any && offset <= em.last {
		return
	}
	em.any = true
	em.last = offset
	em.count++
	if em.fn != nil {
		em.fn(offset)
	}
}
