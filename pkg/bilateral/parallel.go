package bilateral

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// rowWorkers returns how many row ranges an image of height h is split into.
func rowWorkers(h, workers int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// forEachRowRange splits [0, h) into contiguous row ranges and runs fn on
// each, at most workers at a time. fn must only write rows inside its own
// range. It returns once every range is done.
func forEachRowRange(h, workers int, fn func(y0, y1 int)) {
	workers = rowWorkers(h, workers)
	if workers == 1 {
		fn(0, h)
		return
	}
	rowsPerWorker := (h + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += rowsPerWorker {
		y0, y1 := y0, min(y0+rowsPerWorker, h)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
