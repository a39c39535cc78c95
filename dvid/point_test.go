package dvid

import (
	. "github.com/janelia-flyem/go/gocheck"
)

func (s *DataSuite) TestPointNd(c *C) {
	a := PointNd{10, 21, 837821, 100}
	b := PointNd{3, 4, 5, 6}

	c.Assert(a.NumDims(), Equals, uint8(4))
	c.Assert(a.Value(2), Equals, int32(837821))
	_, err := a.CheckedValue(4)
	c.Assert(err, NotNil)

	c.Assert(a.Sub(b), DeepEquals, PointNd{7, 17, 837816, 94})
	c.Assert(a.CeilDiv(b), DeepEquals, PointNd{4, 6, 167565, 17})
	c.Assert(b.Prod(), Equals, int64(360))
	c.Assert(a.String(), Equals, "(10,21,837821,100)")

	d := a.Duplicate()
	c.Assert(d.Equals(a), Equals, true)
	d[0] = 11
	c.Assert(d.Equals(a), Equals, false)
	c.Assert(a[0], Equals, int32(10))
	c.Assert(a.Equals(PointNd{10, 21, 837821}), Equals, false)

	c.Assert(b.AllPositive(), Equals, true)
	c.Assert(PointNd{1, 0, 2}.AllPositive(), Equals, false)
	c.Assert(Uniform(3, 2), DeepEquals, PointNd{2, 2, 2})
}

func (s *DataSuite) TestStringToPointNd(c *C) {
	p, err := StringToPointNd("64, 128,32", ",")
	c.Assert(err, IsNil)
	c.Assert(p, DeepEquals, PointNd{64, 128, 32})

	p, err = StringToPointNd("7", ",")
	c.Assert(err, IsNil)
	c.Assert(p, DeepEquals, PointNd{7})

	_, err = StringToPointNd("", ",")
	c.Assert(err, NotNil)
	_, err = StringToPointNd("1,x,3", ",")
	c.Assert(err, NotNil)
}
