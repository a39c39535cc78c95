package dvid

import (
	"errors"

	. "github.com/janelia-flyem/go/gocheck"
)

func (s *DataSuite) TestRavelIndex(c *C) {
	shape := PointNd{2, 3, 4}
	i, err := RavelIndex(PointNd{1, 2, 3}, shape)
	c.Assert(err, IsNil)
	c.Assert(i, Equals, 23)
	c.Assert(UnravelIndex(23, shape), DeepEquals, PointNd{1, 2, 3})

	for index := 0; index < int(shape.Prod()); index++ {
		i, err := RavelIndex(UnravelIndex(index, shape), shape)
		c.Assert(err, IsNil)
		c.Assert(i, Equals, index)
	}

	_, err = RavelIndex(PointNd{2, 0, 0}, shape)
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
	_, err = RavelIndex(PointNd{0, -1, 0}, shape)
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
	_, err = RavelIndex(PointNd{0, 0}, shape)
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
}

func (s *DataSuite) TestBlocking(c *C) {
	b, err := NewBlocking(PointNd{5, 7}, PointNd{2, 3})
	c.Assert(err, IsNil)
	c.Assert(b.NumBlocks(), Equals, 9)
	c.Assert(b.BlocksPerAxis(), DeepEquals, PointNd{3, 3})
	c.Assert(b.Shape(), DeepEquals, PointNd{5, 7})
	c.Assert(b.NominalBlockShape(), DeepEquals, PointNd{2, 3})

	begin, end, err := b.Block(0)
	c.Assert(err, IsNil)
	c.Assert(begin, DeepEquals, PointNd{0, 0})
	c.Assert(end, DeepEquals, PointNd{2, 3})

	begin, end, err = b.Block(2)
	c.Assert(err, IsNil)
	c.Assert(begin, DeepEquals, PointNd{0, 6})
	c.Assert(end, DeepEquals, PointNd{2, 7})

	begin, end, err = b.Block(8)
	c.Assert(err, IsNil)
	c.Assert(begin, DeepEquals, PointNd{4, 6})
	c.Assert(end, DeepEquals, PointNd{5, 7})

	bshape, err := b.BlockShape(8)
	c.Assert(err, IsNil)
	c.Assert(bshape, DeepEquals, PointNd{1, 1})

	_, _, err = b.Block(9)
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
	_, _, err = b.Block(-1)
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)

	id, err := b.BlockID(PointNd{1, 2})
	c.Assert(err, IsNil)
	c.Assert(id, Equals, 5)
	c.Assert(b.GridCoord(5), DeepEquals, PointNd{1, 2})
	_, err = b.BlockID(PointNd{3, 0})
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
	_, err = b.BlockID(PointNd{1})
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)

	// every voxel belongs to exactly one block
	hits := make([]int, 35)
	for id := 0; id < b.NumBlocks(); id++ {
		begin, end, err := b.Block(id)
		c.Assert(err, IsNil)
		ForEachIndex(b.Shape(), begin, end, func(i int) {
			hits[i]++
		})
	}
	for i, n := range hits {
		c.Assert(n, Equals, 1, Commentf("voxel %d", i))
	}
}

func (s *DataSuite) TestBadBlocking(c *C) {
	bad := [][2]PointNd{
		{PointNd{}, PointNd{}},
		{PointNd{4, 4}, PointNd{2}},
		{PointNd{4, 0}, PointNd{2, 2}},
		{PointNd{4, 4}, PointNd{2, 0}},
		{PointNd{4, 4}, PointNd{-2, 2}},
	}
	for _, args := range bad {
		_, err := NewBlocking(args[0], args[1])
		c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true, Commentf("shape %s block %s", args[0], args[1]))
	}
}

func (s *DataSuite) TestForEachIndex(c *C) {
	var got []int
	ForEachIndex(PointNd{3, 4}, PointNd{1, 1}, PointNd{3, 3}, func(i int) {
		got = append(got, i)
	})
	c.Assert(got, DeepEquals, []int{5, 6, 9, 10})

	got = nil
	ForEachIndex(PointNd{10}, PointNd{3}, PointNd{6}, func(i int) {
		got = append(got, i)
	})
	c.Assert(got, DeepEquals, []int{3, 4, 5})

	got = nil
	ForEachIndex(PointNd{2, 2, 3}, PointNd{0, 1, 1}, PointNd{2, 2, 3}, func(i int) {
		got = append(got, i)
	})
	c.Assert(got, DeepEquals, []int{4, 5, 10, 11})

	got = nil
	ForEachIndex(PointNd{3, 4}, PointNd{1, 1}, PointNd{1, 3}, func(i int) {
		got = append(got, i)
	})
	c.Assert(got, IsNil)
}

func (s *DataSuite) TestCopyBox(c *C) {
	src := make([]uint64, 12)
	for i := range src {
		src[i] = uint64(i)
	}
	dst, err := CopyBox(src, PointNd{3, 4}, PointNd{1, 1}, PointNd{3, 3})
	c.Assert(err, IsNil)
	c.Assert(dst, DeepEquals, []uint64{5, 6, 9, 10})

	_, err = CopyBox(src, PointNd{3, 5}, PointNd{0, 0}, PointNd{1, 1})
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
	_, err = CopyBox(src, PointNd{3, 4}, PointNd{0, 0}, PointNd{4, 1})
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
	_, err = CopyBox(src, PointNd{3, 4}, PointNd{0}, PointNd{1})
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
}
