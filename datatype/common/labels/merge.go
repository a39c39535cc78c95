package labels

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/labelmultiset/dvid"
)

// Merger combines multisets that tile a larger region on a regular grid.
type Merger struct {
	// Workers bounds the number of goroutines scattering chunk voxels.  If <= 0,
	// runtime.NumCPU() is used.
	Workers int
}

// MergeGrid merges multisets tiling a region of the given shape with a Merger using
// all CPUs.  See Merger.Merge.
func MergeGrid(multisets []*Multiset, positions []dvid.PointNd, shape, chunk dvid.PointNd) (*Multiset, error) {
	return Merger{}.Merge(multisets, positions, shape, chunk)
}

// Merge combines the given multisets, the i-th located at grid coordinate positions[i]
// of the blocking of shape into chunks of the nominal chunk shape, into a single
// multiset over shape.  Chunks at the upper boundary must have the clipped shape of
// their grid cell.  Entry tables are folded in C order of the grid cells, so the
// result does not depend on the order of the arguments.
//
// All arguments are checked before any output is allocated, and errors wrap
// ErrInvalidArgument.
func (mg Merger) Merge(multisets []*Multiset, positions []dvid.PointNd, shape, chunk dvid.PointNd) (*Multiset, error) {
	ordered, blocking, err := arrangeGrid(multisets, positions, shape, chunk)
	if err != nil {
		return nil, err
	}
	timedLog := dvid.NewTimeLog()

	table := NewEntryTable()
	mappings := make([][]uint32, len(ordered))
	for blockID, m := range ordered {
		blockID, m := blockID, m
		if mappings[blockID], err = table.Update(m); err != nil {
			return nil, err
		}
	}

	numVoxels := int(shape.Prod())
	argmax := make([]uint64, numVoxels)
	offsets := make([]uint32, numVoxels)

	workers := mg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for blockID, m := range ordered {
		blockID, m := blockID, m
		g.Go(func() error {
			begin, end, err := blocking.Block(blockID)
			if err != nil {
				return err
			}
			mapping := mappings[blockID]
			var k int
			dvid.ForEachIndex(shape, begin, end, func(i int) {
				argmax[i] = m.argmax[k]
				offsets[i] = mapping[m.offsets[k]]
				k++
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := table.Build(shape, argmax, offsets)
	if err != nil {
		return nil, err
	}
	timedLog.Debugf("Merged %d chunks of nominal shape %s into %s", len(ordered), chunk, merged)
	return merged, nil
}

// arrangeGrid checks the grid arguments and returns the multisets in C order of
// their grid cells.
func arrangeGrid(multisets []*Multiset, positions []dvid.PointNd, shape, chunk dvid.PointNd) ([]*Multiset, *dvid.Blocking, error) {
	if len(positions) != len(multisets) {
		return nil, nil, dvid.InvalidArgumentf("got %d grid positions for %d multisets", len(positions), len(multisets))
	}
	blocking, err := dvid.NewBlocking(shape, chunk)
	if err != nil {
		return nil, nil, err
	}
	numBlocks := blocking.NumBlocks()
	if numBlocks != len(multisets) {
		return nil, nil, dvid.InvalidArgumentf("grid of shape %s with chunk %s has %d cells, got %d multisets",
			shape, chunk, numBlocks, len(multisets))
	}

	ordered := make([]*Multiset, numBlocks)
	for i, pos := range positions {
		blockID, err := blocking.BlockID(pos)
		if err != nil {
			return nil, nil, dvid.InvalidArgumentf("grid position %d %s is not within grid %s", i, pos, blocking.BlocksPerAxis())
		}
		if ordered[blockID] != nil {
			return nil, nil, dvid.InvalidArgumentf("grid position %d %s fills an already filled cell", i, pos)
		}
		m := multisets[i]
		if err := m.Validate(); err != nil {
			return nil, nil, fmt.Errorf("multiset %d at %s: %w", i, pos, err)
		}
		blockShape, err := blocking.BlockShape(blockID)
		if err != nil {
			return nil, nil, err
		}
		if !m.Shape().Equals(blockShape) {
			return nil, nil, dvid.InvalidArgumentf("multiset %d at %s has shape %s, expected %s", i, pos, m.Shape(), blockShape)
		}
		ordered[blockID] = m
	}
	for blockID, m := range ordered {
		blockID, m := blockID, m
		if m == nil {
			return nil, nil, dvid.InvalidArgumentf("grid cell %s not filled", blocking.GridCoord(blockID))
		}
	}
	return ordered, blocking, nil
}
