package labels

import (
	"fmt"

	"github.com/DmitriyVTitov/size"
	"github.com/dustin/go-humanize"
)

// Stats describes the size of a multiset.
type Stats struct {
	NumVoxels  uint64
	NumEntries uint64
	NumPairs   uint64 // id/count pairs over all entries
	NumLabels  uint64 // distinct label ids

	Bytes      uint64 // in-memory footprint of the multiset
	DenseBytes uint64 // footprint of the equivalent dense uint64 label array
}

// Stats returns size statistics for the multiset.
func (m *Multiset) Stats() Stats {
	return Stats{
		NumVoxels:  uint64(len(m.offsets)),
		NumEntries: uint64(len(m.entrySizes)),
		NumPairs:   uint64(len(m.ids)),
		NumLabels:  m.Labels().GetCardinality(),
		Bytes:      uint64(size.Of(m)),
		DenseBytes: uint64(len(m.offsets)) * 8,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%s voxels, %s entries, %s id/count pairs, %s labels, %s (dense %s)",
		humanize.Comma(int64(s.NumVoxels)), humanize.Comma(int64(s.NumEntries)),
		humanize.Comma(int64(s.NumPairs)), humanize.Comma(int64(s.NumLabels)),
		humanize.Bytes(s.Bytes), humanize.Bytes(s.DenseBytes))
}
