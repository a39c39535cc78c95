package labels

import (
	"fmt"
	"math"
	"sync"

	"github.com/janelia-flyem/labelmultiset/dvid"
)

// EntryTable builds a deduplicated entry table.  Each distinct histogram is stored
// once and is found again through its canonical signature.  Add is safe for
// concurrent use.
type EntryTable struct {
	sync.Mutex
	index map[string]uint32

	entryOffsets []uint32
	entrySizes   []uint32
	ids          []uint64
	counts       []uint32

	key []byte // scratch signature, guarded by the mutex
}

// NewEntryTable returns an empty EntryTable.
func NewEntryTable() *EntryTable {
	return &EntryTable{index: make(map[string]uint32)}
}

// NumEntries returns the number of distinct entries added so far.
func (t *EntryTable) NumEntries() int {
	t.Lock()
	defer t.Unlock()
	return len(t.entrySizes)
}

// Add returns the index of the entry with the given ids and counts, appending it to
// the table if no identical entry exists.  The ids must be ascending with positive
// counts; the slices are copied.
func (t *EntryTable) Add(ids []uint64, counts []uint32) (uint32, error) {
	if len(ids) != len(counts) {
		return 0, dvid.InvalidArgumentf("entry has %d ids but %d counts", len(ids), len(counts))
	}
	if len(ids) == 0 {
		return 0, dvid.InvalidArgumentf("entry must have at least one id")
	}
	t.Lock()
	defer t.Unlock()
	return t.add(ids, counts)
}

func (t *EntryTable) add(ids []uint64, counts []uint32) (uint32, error) {
	t.key = appendEntryKey(t.key[:0], ids, counts)
	if i, found := t.index[string(t.key)]; found {
		return i, nil
	}
	n := len(t.entrySizes)
	if uint64(n) >= math.MaxUint32 || uint64(len(t.ids))+uint64(len(ids)) > math.MaxUint32 {
		return 0, fmt.Errorf("entry table full: %d entries, %d id/count pairs", n, len(t.ids))
	}
	t.entryOffsets = append(t.entryOffsets, uint32(len(t.ids)))
	t.entrySizes = append(t.entrySizes, uint32(len(ids)))
	t.ids = append(t.ids, ids...)
	t.counts = append(t.counts, counts...)
	t.index[string(t.key)] = uint32(n)
	return uint32(n), nil
}

// Update folds the entries referenced by the multiset's voxels into the table, in
// entry order, and returns for each local entry its index in this table.  Local
// entries not referenced by any voxel map to NoEntry.
func (t *EntryTable) Update(m *Multiset) ([]uint32, error) {
	used := make([]bool, m.NumEntries())
	for _, offset := range m.offsets {
		used[offset] = true
	}
	mapping := make([]uint32, m.NumEntries())

	t.Lock()
	defer t.Unlock()
	for i := range mapping {
		if !used[i] {
			mapping[i] = NoEntry
			continue
		}
		e := m.entry(i)
		global, err := t.add(e.IDs, e.Counts)
		if err != nil {
			return nil, err
		}
		mapping[i] = global
	}
	return mapping, nil
}

// Fold adds all entries of another table, in order, returning for each of its
// entries the index in this table.
func (t *EntryTable) Fold(other *EntryTable) ([]uint32, error) {
	other.Lock()
	defer other.Unlock()
	mapping := make([]uint32, len(other.entrySizes))

	t.Lock()
	defer t.Unlock()
	for i, size := range other.entrySizes {
		beg := other.entryOffsets[i]
		global, err := t.add(other.ids[beg:beg+size], other.counts[beg:beg+size])
		if err != nil {
			return nil, err
		}
		mapping[i] = global
	}
	return mapping, nil
}

// Snapshot returns copies of the flattened entry table.
func (t *EntryTable) Snapshot() (entryOffsets, entrySizes []uint32, ids []uint64, counts []uint32) {
	t.Lock()
	defer t.Unlock()
	entryOffsets = append([]uint32(nil), t.entryOffsets...)
	entrySizes = append([]uint32(nil), t.entrySizes...)
	ids = append([]uint64(nil), t.ids...)
	counts = append([]uint32(nil), t.counts...)
	return
}

// Build returns a Multiset with the table's entries and the given per-voxel data.
// The table should not be used afterwards since its slices are handed over without
// copying.
func (t *EntryTable) Build(shape dvid.PointNd, argmax []uint64, offsets []uint32) (*Multiset, error) {
	t.Lock()
	defer t.Unlock()
	if int64(len(argmax)) != shape.Prod() || len(offsets) != len(argmax) {
		return nil, dvid.InvalidArgumentf("shape %s needs %d voxels, got %d argmax and %d offsets",
			shape, shape.Prod(), len(argmax), len(offsets))
	}
	m := &Multiset{
		shape:        shape.Duplicate(),
		argmax:       argmax,
		offsets:      offsets,
		entryOffsets: t.entryOffsets,
		entrySizes:   t.entrySizes,
		ids:          t.ids,
		counts:       t.counts,
	}
	t.index = make(map[string]uint32)
	t.entryOffsets, t.entrySizes, t.ids, t.counts = nil, nil, nil, nil
	return m, nil
}
