/*
	This file defines the canonical partition of an N-d index space into blocks.  All
	conversions between grid coordinates and flat block or voxel indices go through
	RavelIndex and UnravelIndex so block numbering is identical across packages.
*/

package dvid

// RavelIndex returns the flat C-order index of coord within an array of the given shape.
func RavelIndex(coord, shape PointNd) (int, error) {
	if len(coord) != len(shape) {
		return 0, InvalidArgumentf("coordinate %s has %d dims, expected %d", coord, len(coord), len(shape))
	}
	var index int
	for d, c := range coord {
		if c < 0 || c >= shape[d] {
			return 0, InvalidArgumentf("coordinate %s out of range for shape %s", coord, shape)
		}
		index = index*int(shape[d]) + int(c)
	}
	return index, nil
}

// UnravelIndex is the inverse of RavelIndex.  The index is assumed to be within
// [0, shape.Prod()).
func UnravelIndex(index int, shape PointNd) PointNd {
	coord := make(PointNd, len(shape))
	for d := len(shape) - 1; d >= 0; d-- {
		extent := int(shape[d])
		coord[d] = int32(index % extent)
		index /= extent
	}
	return coord
}

// ForEachIndex calls fn with the flat C-order index, within an array of the given shape,
// of every voxel in the box [begin, end).  Voxels are visited in C order of the box,
// so the n-th call corresponds to the n-th voxel of the box flattened on its own.
func ForEachIndex(shape, begin, end PointNd, fn func(i int)) {
	n := len(shape)
	if n == 0 {
		return
	}
	for d := range begin {
		if begin[d] >= end[d] {
			return
		}
	}
	strides := make([]int, n)
	stride := 1
	for d := n - 1; d >= 0; d-- {
		strides[d] = stride
		stride *= int(shape[d])
	}
	var base int
	for d := range begin {
		base += int(begin[d]) * strides[d]
	}
	coord := begin.Duplicate()
	last := n - 1
	rowLen := int(end[last] - begin[last])
	for {
		for i := 0; i < rowLen; i++ {
			fn(base + i)
		}
		d := last - 1
		for ; d >= 0; d-- {
			coord[d]++
			base += strides[d]
			if coord[d] < end[d] {
				break
			}
			base -= int(coord[d]-begin[d]) * strides[d]
			coord[d] = begin[d]
		}
		if d < 0 {
			return
		}
	}
}

// CopyBox returns the dense sub-volume [begin, end) of a C-order uint64 array.
func CopyBox(src []uint64, shape, begin, end PointNd) ([]uint64, error) {
	if int64(len(src)) != shape.Prod() {
		return nil, InvalidArgumentf("array of %d voxels does not match shape %s", len(src), shape)
	}
	if len(begin) != len(shape) || len(end) != len(shape) {
		return nil, InvalidArgumentf("box %s-%s does not match %d-d shape", begin, end, len(shape))
	}
	for d := range shape {
		if begin[d] < 0 || end[d] > shape[d] || begin[d] >= end[d] {
			return nil, InvalidArgumentf("box %s-%s is not within shape %s", begin, end, shape)
		}
	}
	dst := make([]uint64, 0, end.Sub(begin).Prod())
	ForEachIndex(shape, begin, end, func(i int) {
		dst = append(dst, src[i])
	})
	return dst, nil
}

// Blocking partitions an N-d index space of a given shape into rectangular blocks of a
// nominal block shape.  Blocks are numbered in C order of their grid coordinates, and
// blocks at the upper boundary are clipped so they may be smaller than the nominal shape.
type Blocking struct {
	shape         PointNd
	blockShape    PointNd
	blocksPerAxis PointNd
	numBlocks     int
}

// NewBlocking returns a Blocking or an error if the shapes are malformed.
func NewBlocking(shape, blockShape PointNd) (*Blocking, error) {
	if len(shape) == 0 {
		return nil, InvalidArgumentf("blocking requires at least one dimension")
	}
	if len(blockShape) != len(shape) {
		return nil, InvalidArgumentf("block shape %s has %d dims, expected %d", blockShape, len(blockShape), len(shape))
	}
	if !shape.AllPositive() {
		return nil, InvalidArgumentf("shape %s must be positive along all axes", shape)
	}
	if !blockShape.AllPositive() {
		return nil, InvalidArgumentf("block shape %s must be positive along all axes", blockShape)
	}
	blocksPerAxis := shape.CeilDiv(blockShape)
	return &Blocking{
		shape:         shape.Duplicate(),
		blockShape:    blockShape.Duplicate(),
		blocksPerAxis: blocksPerAxis,
		numBlocks:     int(blocksPerAxis.Prod()),
	}, nil
}

// Shape returns the shape of the partitioned index space.
func (b *Blocking) Shape() PointNd {
	return b.shape
}

// NominalBlockShape returns the unclipped block shape.
func (b *Blocking) NominalBlockShape() PointNd {
	return b.blockShape
}

// NumBlocks returns the total number of blocks.
func (b *Blocking) NumBlocks() int {
	return b.numBlocks
}

// BlocksPerAxis returns the shape of the block grid.
func (b *Blocking) BlocksPerAxis() PointNd {
	return b.blocksPerAxis
}

// BlockID returns the flat block id for a grid coordinate.
func (b *Blocking) BlockID(gridCoord PointNd) (int, error) {
	return RavelIndex(gridCoord, b.blocksPerAxis)
}

// GridCoord returns the grid coordinate of a block id.
func (b *Blocking) GridCoord(blockID int) PointNd {
	return UnravelIndex(blockID, b.blocksPerAxis)
}

// Block returns the voxel bounds [begin, end) of the given block.
func (b *Blocking) Block(blockID int) (begin, end PointNd, err error) {
	if blockID < 0 || blockID >= b.numBlocks {
		err = InvalidArgumentf("block id %d out of range [0, %d)", blockID, b.numBlocks)
		return
	}
	coord := b.GridCoord(blockID)
	begin = make(PointNd, len(coord))
	end = make(PointNd, len(coord))
	for d, c := range coord {
		begin[d] = c * b.blockShape[d]
		end[d] = begin[d] + b.blockShape[d]
		if end[d] > b.shape[d] {
			end[d] = b.shape[d]
		}
	}
	return
}

// BlockShape returns the clipped shape of the given block.
func (b *Blocking) BlockShape(blockID int) (PointNd, error) {
	begin, end, err := b.Block(blockID)
	if err != nil {
		return nil, err
	}
	return end.Sub(begin), nil
}
