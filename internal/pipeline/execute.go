package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// bandRows is the number of rows processed per work item.
const bandRows = 32

// Execute runs Adjust, Sharpen and Quantize(+Dither) over src on the CPU
// and returns a new buffer. src is never modified.
//
// Rows are processed in bands across at most workers goroutines
// (GOMAXPROCS when workers <= 0); every pixel depends only on the previous
// stage's fully materialized buffer, so the result does not depend on the
// worker count. ctx is checked before every band.
func Execute(ctx context.Context, cfg Config, src []uint8, w, h, workers int) ([]uint8, error) {
	if err := checkBuffer(src, w, h); err != nil {
		return nil, err
	}
	q, err := NewQuantizer(cfg.Palette, cfg.Metric)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	work := make([]uint8, len(src))
	copy(work, src)

	if adj := cfg.Adjuster(); !adj.IsIdentity() {
		err := forEachBand(ctx, h, workers, func(y0, y1 int) {
			AdjustRows(work, w, adj, y0, y1)
		})
		if err != nil {
			return nil, err
		}
	}

	if s := cfg.SharpenStrength(); s > 0 {
		out := make([]uint8, len(work))
		err := forEachBand(ctx, h, workers, func(y0, y1 int) {
			SharpenRows(out, work, w, h, s, y0, y1)
		})
		if err != nil {
			return nil, err
		}
		work = out
	}

	err = forEachBand(ctx, h, workers, func(y0, y1 int) {
		QuantizeRows(work, w, q, cfg.Dither, y0, y1)
	})
	if err != nil {
		return nil, err
	}
	return work, nil
}

// forEachBand calls fn for consecutive row bands covering [0,h).
func forEachBand(ctx context.Context, h, workers int, fn func(y0, y1 int)) error {
	if workers == 1 {
		for y0 := 0; y0 < h; y0 += bandRows {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(y0, min(y0+bandRows, h))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += bandRows {
		y1 := min(y0+bandRows, h)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
