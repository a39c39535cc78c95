package labels

import (
	"sort"

	"github.com/janelia-flyem/labelmultiset/dvid"
)

// Construct returns the finest-resolution Multiset of a dense C-order label array.
// Every voxel's histogram is {label: 1}, so the entry table holds exactly one entry
// per distinct label, in ascending label order, and the argmax equals the input.
func Construct(lbls []uint64, shape dvid.PointNd) (*Multiset, error) {
	if len(shape) == 0 || !shape.AllPositive() {
		return nil, dvid.InvalidArgumentf("shape %s must be positive along all axes", shape)
	}
	if int64(len(lbls)) != shape.Prod() {
		return nil, dvid.InvalidArgumentf("label array of %d voxels does not match shape %s", len(lbls), shape)
	}

	index := make(map[uint64]uint32)
	for _, lbl := range lbls {
		index[lbl] = 0
	}
	ids := make([]uint64, 0, len(index))
	for lbl := range index {
		ids = append(ids, lbl)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	numEntries := len(ids)
	entryOffsets := make([]uint32, numEntries)
	entrySizes := make([]uint32, numEntries)
	counts := make([]uint32, numEntries)
	for i, lbl := range ids {
		index[lbl] = uint32(i)
		entryOffsets[i] = uint32(i)
		entrySizes[i] = 1
		counts[i] = 1
	}

	offsets := make([]uint32, len(lbls))
	for v, lbl := range lbls {
		offsets[v] = index[lbl]
	}
	argmax := make([]uint64, len(lbls))
	copy(argmax, lbls)

	return &Multiset{
		shape:        shape.Duplicate(),
		argmax:       argmax,
		offsets:      offsets,
		entryOffsets: entryOffsets,
		entrySizes:   entrySizes,
		ids:          ids,
		counts:       counts,
	}, nil
}

// ConstructFromBytes is like Construct but takes labels as little-endian packed
// uint64 bytes, the layout of DVID label volumes.
func ConstructFromBytes(uint64array []byte, shape dvid.PointNd) (*Multiset, error) {
	lbls, err := dvid.BytesToUint64(uint64array)
	if err != nil {
		return nil, err
	}
	return Construct(lbls, shape)
}
