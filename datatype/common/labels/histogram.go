package labels

import (
	"encoding/binary"
	"sort"
)

// Entry is one histogram of label ids with their voxel counts.  IDs are ascending.
type Entry struct {
	IDs    []uint64
	Counts []uint32
}

// Len returns the number of distinct ids in the entry.
func (e Entry) Len() int {
	return len(e.IDs)
}

// Count returns the count for the given label or 0 if the label is absent.
func (e Entry) Count(label uint64) uint32 {
	i := sort.Search(len(e.IDs), func(i int) bool { return e.IDs[i] >= label })
	if i < len(e.IDs) && e.IDs[i] == label {
		return e.Counts[i]
	}
	return 0
}

// Total returns the sum of all counts.
func (e Entry) Total() uint64 {
	var total uint64
	for _, c := range e.Counts {
		total += uint64(c)
	}
	return total
}

// Argmax returns the label with the highest count.  Ties go to the smallest label.
func (e Entry) Argmax() uint64 {
	var winner uint64
	var winnerCount uint32
	for i, c := range e.Counts {
		if c > winnerCount {
			winner = e.IDs[i]
			winnerCount = c
		}
	}
	return winner
}

// appendEntryKey appends the canonical signature of an entry, its (id, count) pairs
// in ascending id order, to b.
func appendEntryKey(b []byte, ids []uint64, counts []uint32) []byte {
	for i, id := range ids {
		b = binary.LittleEndian.AppendUint64(b, id)
		b = binary.LittleEndian.AppendUint32(b, counts[i])
	}
	return b
}

// Histogram accumulates label counts from entries and produces a canonical Entry.
// It is reused across blocks and is not safe for concurrent use.
type Histogram struct {
	votes  map[uint64]uint64
	ids    []uint64
	counts []uint32
}

// NewHistogram returns an empty Histogram.
func NewHistogram() *Histogram {
	return &Histogram{votes: make(map[uint64]uint64, 16)}
}

// Reset clears all accumulated counts.
func (h *Histogram) Reset() {
	clear(h.votes)
}

// Add adds mult copies of the entry's counts.
func (h *Histogram) Add(e Entry, mult uint32) {
	for i, id := range e.IDs {
		h.votes[id] += uint64(e.Counts[i]) * uint64(mult)
	}
}

// Entry returns the accumulated histogram, truncated to the restrictSet labels with
// the highest counts if restrictSet > 0.  Truncation ties go to the smaller label and
// dropped counts are discarded.  The returned slices are reused by the next call.
func (h *Histogram) Entry(restrictSet int) Entry {
	h.ids = h.ids[:0]
	for id := range h.votes {
		h.ids = append(h.ids, id)
	}
	if restrictSet > 0 && len(h.ids) > restrictSet {
		sort.Slice(h.ids, func(i, j int) bool {
			ci, cj := h.votes[h.ids[i]], h.votes[h.ids[j]]
			if ci != cj {
				return ci > cj
			}
			return h.ids[i] < h.ids[j]
		})
		h.ids = h.ids[:restrictSet]
	}
	sort.Slice(h.ids, func(i, j int) bool { return h.ids[i] < h.ids[j] })

	h.counts = h.counts[:0]
	for _, id := range h.ids {
		h.counts = append(h.counts, saturate(h.votes[id]))
	}
	return Entry{IDs: h.ids, Counts: h.counts}
}

func saturate(v uint64) uint32 {
	if v > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}
