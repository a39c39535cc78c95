package labels

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/janelia-flyem/labelmultiset/dvid"
)

// ErrInvalidArgument is wrapped by all argument validation errors of this package.
var ErrInvalidArgument = dvid.ErrInvalidArgument

// NoEntry marks a local entry that is not referenced by any voxel.
const NoEntry = ^uint32(0)

// Multiset is a compressed representation of a label volume region where each voxel
// refers to a histogram (an entry) of label ids and their voxel counts at the finest
// resolution.  Voxels with identical histograms share one entry.  Each voxel also
// keeps its argmax, the most frequent label within its entry, for fast approximate
// reconstruction.
//
// A Multiset is immutable.  Accessors return the backing slices, which must not be
// modified by callers.
type Multiset struct {
	shape dvid.PointNd

	argmax  []uint64 // per voxel, C order
	offsets []uint32 // per voxel index into the entry table

	// flattened entry table
	entryOffsets []uint32 // start of each entry in ids and counts
	entrySizes   []uint32 // number of ids in each entry
	ids          []uint64
	counts       []uint32
}

// NewMultiset returns a Multiset from its component slices after checking all
// invariants.  The slices are used without copying.
func NewMultiset(shape dvid.PointNd, argmax []uint64, offsets, entryOffsets, entrySizes []uint32, ids []uint64, counts []uint32) (*Multiset, error) {
	m := &Multiset{
		shape:        shape.Duplicate(),
		argmax:       argmax,
		offsets:      offsets,
		entryOffsets: entryOffsets,
		entrySizes:   entrySizes,
		ids:          ids,
		counts:       counts,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Multiset) String() string {
	if m == nil {
		return "nil multiset"
	}
	return fmt.Sprintf("multiset %s with %d entries, %d id/count pairs", m.shape, len(m.entrySizes), len(m.ids))
}

// Shape returns the extents of the multiset in C order.
func (m *Multiset) Shape() dvid.PointNd {
	return m.shape
}

// NumVoxels returns the number of voxels, i.e., the product of the shape.
func (m *Multiset) NumVoxels() int {
	return len(m.offsets)
}

// NumEntries returns the number of distinct histograms in the entry table.
func (m *Multiset) NumEntries() int {
	return len(m.entrySizes)
}

// Argmax returns the representative label of each voxel in C order.
func (m *Multiset) Argmax() []uint64 {
	return m.argmax
}

// Offsets returns the entry index of each voxel in C order.
func (m *Multiset) Offsets() []uint32 {
	return m.offsets
}

// EntryOffsets returns the start of each entry within IDs() and Counts().
func (m *Multiset) EntryOffsets() []uint32 {
	return m.entryOffsets
}

// EntrySizes returns the number of ids in each entry.
func (m *Multiset) EntrySizes() []uint32 {
	return m.entrySizes
}

// IDs returns the concatenated label ids of all entries.
func (m *Multiset) IDs() []uint64 {
	return m.ids
}

// Counts returns the concatenated counts of all entries, parallel to IDs().
func (m *Multiset) Counts() []uint32 {
	return m.counts
}

// Entry returns the i-th histogram of the entry table.
func (m *Multiset) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(m.entrySizes) {
		return Entry{}, dvid.InvalidArgumentf("entry %d out of range [0, %d)", i, len(m.entrySizes))
	}
	return m.entry(i), nil
}

func (m *Multiset) entry(i int) Entry {
	beg := m.entryOffsets[i]
	end := beg + m.entrySizes[i]
	return Entry{IDs: m.ids[beg:end], Counts: m.counts[beg:end]}
}

// VoxelEntry returns the histogram for the voxel at the given coordinate.
func (m *Multiset) VoxelEntry(coord dvid.PointNd) (Entry, error) {
	i, err := dvid.RavelIndex(coord, m.shape)
	if err != nil {
		return Entry{}, err
	}
	return m.entry(int(m.offsets[i])), nil
}

// Value returns the argmax label at the given coordinate.
func (m *Multiset) Value(coord dvid.PointNd) (uint64, error) {
	i, err := dvid.RavelIndex(coord, m.shape)
	if err != nil {
		return 0, err
	}
	return m.argmax[i], nil
}

// Labels returns the set of all label ids present in the entry table.
func (m *Multiset) Labels() *roaring64.Bitmap {
	lbls := roaring64.New()
	lbls.AddMany(m.ids)
	return lbls
}

// Validate checks all invariants of the multiset.  Any violation returns an error
// wrapping ErrInvalidArgument.
func (m *Multiset) Validate() error {
	if m == nil {
		return dvid.InvalidArgumentf("multiset is nil")
	}
	if len(m.shape) == 0 || !m.shape.AllPositive() {
		return dvid.InvalidArgumentf("multiset shape %s must be positive along all axes", m.shape)
	}
	numVoxels := m.shape.Prod()
	if int64(len(m.offsets)) != numVoxels || int64(len(m.argmax)) != numVoxels {
		return dvid.InvalidArgumentf("multiset shape %s needs %d voxels, got %d offsets and %d argmax",
			m.shape, numVoxels, len(m.offsets), len(m.argmax))
	}
	if len(m.entryOffsets) != len(m.entrySizes) {
		return dvid.InvalidArgumentf("%d entry offsets but %d entry sizes", len(m.entryOffsets), len(m.entrySizes))
	}
	if len(m.ids) != len(m.counts) {
		return dvid.InvalidArgumentf("%d ids but %d counts", len(m.ids), len(m.counts))
	}

	var pos uint64
	seen := make(map[string]struct{}, len(m.entrySizes))
	var key []byte
	for i, size := range m.entrySizes {
		if uint64(m.entryOffsets[i]) != pos {
			return dvid.InvalidArgumentf("entry %d starts at %d, expected %d", i, m.entryOffsets[i], pos)
		}
		if size == 0 {
			return dvid.InvalidArgumentf("entry %d is empty", i)
		}
		pos += uint64(size)
		if pos > uint64(len(m.ids)) {
			return dvid.InvalidArgumentf("entry %d extends past %d ids", i, len(m.ids))
		}
		e := m.entry(i)
		for j, count := range e.Counts {
			if count == 0 {
				return dvid.InvalidArgumentf("entry %d has zero count for label %d", i, e.IDs[j])
			}
			if j > 0 && e.IDs[j] <= e.IDs[j-1] {
				return dvid.InvalidArgumentf("entry %d ids are not unique and ascending", i)
			}
		}
		key = appendEntryKey(key[:0], e.IDs, e.Counts)
		if _, found := seen[string(key)]; found {
			return dvid.InvalidArgumentf("entry %d duplicates an earlier entry", i)
		}
		seen[string(key)] = struct{}{}
	}
	if pos != uint64(len(m.ids)) {
		return dvid.InvalidArgumentf("entries cover %d ids but there are %d", pos, len(m.ids))
	}

	entryArgmax := make([]uint64, len(m.entrySizes))
	for i := range m.entrySizes {
		entryArgmax[i] = m.entry(i).Argmax()
	}
	numEntries := uint32(len(m.entrySizes))
	for v, offset := range m.offsets {
		if offset >= numEntries {
			return dvid.InvalidArgumentf("voxel %d references entry %d of %d", v, offset, numEntries)
		}
		if m.argmax[v] != entryArgmax[offset] {
			return dvid.InvalidArgumentf("voxel %d argmax %d differs from entry %d argmax %d",
				v, m.argmax[v], offset, entryArgmax[offset])
		}
	}
	return nil
}
