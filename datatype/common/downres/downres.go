/*
	Package downres computes lower-resolution label multisets.  Each output voxel
	summarizes a block of input voxels by merging their label histograms, and all
	distinct histograms of a scale are stored once in a deduplicated entry table.
	Pyramid repeats the process to produce all scales of a multi-resolution volume.
*/
package downres

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/labelmultiset/datatype/common/labels"
	"github.com/janelia-flyem/labelmultiset/dvid"
)

// Unrestricted keeps every label of a downsampled histogram.
const Unrestricted = -1

// rangesPerWorker is the number of contiguous output ranges handed to each worker,
// which evens out blocks of very different label complexity.
const rangesPerWorker = 4

// Downsampler computes downsampled multisets with a bounded pool of goroutines.
// Results are identical for any number of workers.
type Downsampler struct {
	// Workers bounds the number of concurrent goroutines.  If <= 0, runtime.NumCPU()
	// is used.
	Workers int
}

// Downsample downsamples a multiset using all CPUs.  See Downsampler.Downsample.
func Downsample(m *labels.Multiset, scale dvid.PointNd, restrictSet int) (*labels.Multiset, error) {
	return Downsampler{}.Downsample(m, scale, restrictSet)
}

func (ds Downsampler) workers() int {
	if ds.Workers <= 0 {
		return runtime.NumCPU()
	}
	return ds.Workers
}

// Downsample returns a multiset of shape ceil(shape / scale) where each voxel holds the
// combined histogram of the corresponding, possibly clipped, block of input voxels.
// If restrictSet is not Unrestricted, histograms keep only the restrictSet labels with
// the highest counts, ties going to the smaller label, and the dropped counts are lost.
//
// Errors wrapping labels.ErrInvalidArgument are returned for an invalid multiset, a
// scale that does not match its dimensions or is not positive, or a restrictSet that is
// neither positive nor Unrestricted.
func (ds Downsampler) Downsample(m *labels.Multiset, scale dvid.PointNd, restrictSet int) (*labels.Multiset, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	shape := m.Shape()
	if len(scale) != len(shape) {
		return nil, dvid.InvalidArgumentf("scale %s has %d dims but multiset has %d", scale, len(scale), len(shape))
	}
	if !scale.AllPositive() {
		return nil, dvid.InvalidArgumentf("scale %s must be positive along all axes", scale)
	}
	if restrictSet == 0 || restrictSet < Unrestricted {
		return nil, dvid.InvalidArgumentf("restrict set must be positive or %d, got %d", Unrestricted, restrictSet)
	}
	blocking, err := dvid.NewBlocking(shape, scale)
	if err != nil {
		return nil, err
	}
	timedLog := dvid.NewTimeLog()

	numBlocks := blocking.NumBlocks()
	workers := ds.workers()
	numRanges := workers * rangesPerWorker
	if numRanges > numBlocks {
		numRanges = numBlocks
	}
	rangeSize := (numBlocks + numRanges - 1) / numRanges
	numRanges = (numBlocks + rangeSize - 1) / rangeSize

	argmax := make([]uint64, numBlocks)
	offsets := make([]uint32, numBlocks)
	tables := make([]*labels.EntryTable, numRanges)

	var g errgroup.Group
	g.SetLimit(workers)
	for r := range tables {
		r := r
		tables[r] = labels.NewEntryTable()
		beg := r * rangeSize
		end := min(beg+rangeSize, numBlocks)
		g.Go(func() error {
			return downsampleRange(m, blocking, beg, end, restrictSet, tables[r], argmax, offsets)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Fold the per-range tables in order so entry numbering matches a serial pass.
	global := labels.NewEntryTable()
	for r, table := range tables {
		mapping, err := global.Fold(table)
		if err != nil {
			return nil, err
		}
		beg := r * rangeSize
		end := min(beg+rangeSize, numBlocks)
		for b := beg; b < end; b++ {
			offsets[b] = mapping[offsets[b]]
		}
	}

	lores, err := global.Build(blocking.BlocksPerAxis(), argmax, offsets)
	if err != nil {
		return nil, err
	}
	timedLog.Debugf("Downsampled %s by %s (restrict %d) into %s", m, scale, restrictSet, lores)
	return lores, nil
}

// downsampleRange computes output voxels [beg, end) into a range-local entry table.
func downsampleRange(m *labels.Multiset, blocking *dvid.Blocking, beg, end, restrictSet int,
	table *labels.EntryTable, argmax []uint64, offsets []uint32) error {

	shape := m.Shape()
	hiresOffsets := m.Offsets()
	tally := make(map[uint32]uint32, 8)
	hist := labels.NewHistogram()
	for b := beg; b < end; b++ {
		blockBeg, blockEnd, err := blocking.Block(b)
		if err != nil {
			return err
		}
		// voxels sharing an entry are added once with multiplicity
		clear(tally)
		dvid.ForEachIndex(shape, blockBeg, blockEnd, func(i int) {
			tally[hiresOffsets[i]]++
		})
		hist.Reset()
		for e, mult := range tally {
			entry, err := m.Entry(int(e))
			if err != nil {
				return fmt.Errorf("block %d: %v", b, err)
			}
			hist.Add(entry, mult)
		}
		entry := hist.Entry(restrictSet)
		index, err := table.Add(entry.IDs, entry.Counts)
		if err != nil {
			return err
		}
		argmax[b] = entry.Argmax()
		offsets[b] = index
	}
	return nil
}

// Pyramid returns the given level 0 multiset followed by one multiset per scale, each
// downsampled from the previous level.
func (ds Downsampler) Pyramid(level0 *labels.Multiset, scales []dvid.PointNd, restrictSet int) ([]*labels.Multiset, error) {
	if err := level0.Validate(); err != nil {
		return nil, err
	}
	levels := make([]*labels.Multiset, 0, len(scales)+1)
	levels = append(levels, level0)
	for i, scale := range scales {
		timedLog := dvid.NewTimeLog()
		lores, err := ds.Downsample(levels[i], scale, restrictSet)
		if err != nil {
			return nil, fmt.Errorf("scale %d: %w", i+1, err)
		}
		levels = append(levels, lores)
		if dvid.LogMode() <= dvid.InfoMode {
			timedLog.Infof("Finished down-resolution processing at scale %d, shape %s: %s",
				i+1, lores.Shape(), lores.Stats())
		}
	}
	return levels, nil
}

// Pyramid computes a multi-scale pyramid using all CPUs.  See Downsampler.Pyramid.
func Pyramid(level0 *labels.Multiset, scales []dvid.PointNd, restrictSet int) ([]*labels.Multiset, error) {
	return Downsampler{}.Pyramid(level0, scales, restrictSet)
}
