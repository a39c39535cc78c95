package dvid

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	. "github.com/janelia-flyem/go/gocheck"
)

func writeLabelFile(c *C, filename string, lbls []uint64) {
	f, err := os.Create(filename)
	c.Assert(err, IsNil)
	defer f.Close()

	var w io.WriteCloser
	switch CompressionFromFilename(filename) {
	case Gzip:
		w = gzip.NewWriter(f)
	case Zstd:
		w, err = zstd.NewWriter(f)
		c.Assert(err, IsNil)
	case Snappy:
		w = snappy.NewBufferedWriter(f)
	case LZ4:
		w = lz4.NewWriter(f)
	default:
		_, err = f.Write(Uint64ToBytes(lbls))
		c.Assert(err, IsNil)
		return
	}
	_, err = w.Write(Uint64ToBytes(lbls))
	c.Assert(err, IsNil)
	c.Assert(w.Close(), IsNil)
}

func (s *DataSuite) TestReadLabelFile(c *C) {
	shape := PointNd{4, 5, 6}
	lbls := make([]uint64, shape.Prod())
	for i := range lbls {
		lbls[i] = uint64(i/7) * 0x100000001
	}
	dir := c.MkDir()
	for _, name := range []string{"labels.raw", "labels.gz", "labels.zst", "labels.sz", "labels.lz4"} {
		filename := filepath.Join(dir, name)
		writeLabelFile(c, filename, lbls)
		got, err := ReadLabelFile(filename, shape)
		c.Assert(err, IsNil, Commentf("file %s", name))
		c.Assert(got, DeepEquals, lbls, Commentf("file %s", name))
	}

	// file holds fewer voxels than the shape requires
	_, err := ReadLabelFile(filepath.Join(dir, "labels.raw"), PointNd{4, 5, 7})
	c.Assert(err, NotNil)

	_, err = ReadLabelFile(filepath.Join(dir, "labels.raw"), PointNd{4, 0, 7})
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
}

func (s *DataSuite) TestCompressionFromFilename(c *C) {
	c.Assert(CompressionFromFilename("a/b/vol.GZ"), Equals, Gzip)
	c.Assert(CompressionFromFilename("vol.zst"), Equals, Zstd)
	c.Assert(CompressionFromFilename("vol.snappy"), Equals, Snappy)
	c.Assert(CompressionFromFilename("vol.lz4"), Equals, LZ4)
	c.Assert(CompressionFromFilename("vol.bin"), Equals, Uncompressed)
}

func (s *DataSuite) TestBytesToUint64(c *C) {
	vals := []uint64{0, 1, 0xFFFFFFFFFFFFFFFF, 1 << 40}
	b := Uint64ToBytes(vals)
	c.Assert(len(b), Equals, 32)
	c.Assert(b[8], Equals, byte(1))
	got, err := BytesToUint64(b)
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, vals)

	_, err = BytesToUint64(b[:9])
	c.Assert(errors.Is(err, ErrInvalidArgument), Equals, true)
}
