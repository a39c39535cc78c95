package main

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/labelmultiset/datatype/common/labels"
	"github.com/janelia-flyem/labelmultiset/dvid"
)

// buildLevel0 constructs the finest-resolution multiset of a dense label volume.  If a
// chunk shape is given, each chunk is constructed independently and the chunks are
// merged on their grid, the way multisets arrive from chunked storage.
func buildLevel0(lbls []uint64, shape, chunk dvid.PointNd, workers int) (*labels.Multiset, error) {
	if chunk == nil {
		return labels.Construct(lbls, shape)
	}
	blocking, err := dvid.NewBlocking(shape, chunk)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	timedLog := dvid.NewTimeLog()

	numChunks := blocking.NumBlocks()
	chunks := make([]*labels.Multiset, numChunks)
	positions := make([]dvid.PointNd, numChunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for blockID := 0; blockID < numChunks; blockID++ {
		blockID := blockID
		g.Go(func() error {
			begin, end, err := blocking.Block(blockID)
			if err != nil {
				return err
			}
			sub, err := dvid.CopyBox(lbls, shape, begin, end)
			if err != nil {
				return err
			}
			if chunks[blockID], err = labels.Construct(sub, end.Sub(begin)); err != nil {
				return err
			}
			positions[blockID] = blocking.GridCoord(blockID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	timedLog.Debugf("Constructed %d chunks of shape %s", numChunks, chunk)

	return labels.Merger{Workers: workers}.Merge(chunks, positions, shape, chunk)
}
