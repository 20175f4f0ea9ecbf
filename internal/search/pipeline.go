package search

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type readResult struct {
	n   int
	err error
}

type readRequest struct {
	pos  int64
	buf  []byte
	done chan readResult
}

// pipelined keeps up to queueDepth reads in flight at increasing offsets and
// drains them in submission order, so scanning and callbacks stay on the
// calling goroutine while the kernel works ahead.
func (e *Engine) pipelined(ctx context.Context, r io.ReaderAt, size int64, finder *Finder, chunk int, em *emitter) (int64, error) {
	depth := e.queueDepth
	if depth < 2 {
		return 0, fmt.Errorf("%w: queue depth %d", ErrBackendUnavailable, depth)
	}
	if int64(depth)*int64(chunk) > MaxPipelineBytes {
		return 0, fmt.Errorf("%w: %d buffers of %d bytes exceed the memory bound", ErrBackendUnavailable, depth, chunk)
	}

	m := finder.Len()
	stride := int64(chunk - (m - 1))
	var g errgroup.Group

	queue := make([]*readRequest, 0, depth)
	var next int64
	submit := func(buf []byte) {
		req := &readRequest{pos: next, buf: buf, done: make(chan readResult, 1)}
		next += stride
		g.Go(func() error {
			n, err := r.ReadAt(req.buf, req.pos)
			req.done <- readResult{n: n, err: err}
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		})
		queue = append(queue, req)
	}

	for i := 0; i < depth && next < size; i++ {
		submit(make([]byte, chunk))
	}
	e.logger.Debug("pipelined search started",
		zap.Int("depth", len(queue)), zap.Int("chunk", chunk), zap.Int64("size", size))

	var scanned int64
	var failure error
	for len(queue) > 0 {
		req := queue[0]
		queue = queue[1:]

		res := <-req.done
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			failure = fmt.Errorf("read at offset %d: %w", req.pos, res.err)
			break
		}
		if err := ctx.Err(); err != nil {
			failure = err
			break
		}

		scanned += int64(res.n)
		if res.n >= m {
			base := uint64(req.pos)
			finder.Scan(req.buf[:res.n], func(p int) {
				em.emit(base + uint64(p))
			})
		}
		if res.n == len(req.buf) && next < size {
			submit(req.buf)
		}
	}

	// Outstanding reads still own their buffers; let them finish.
	waitErr := g.Wait()
	if failure == nil && waitErr != nil {
		failure = waitErr
	}
	return scanned, failure
}
