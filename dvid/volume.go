/*
	This file supports reading dense uint64 label volumes, optionally compressed, as
	handed to the label multiset constructor.
*/

package dvid

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the format of compression for a stream of label data.
type Compression uint8

const (
	Uncompressed Compression = iota
	Gzip
	Zstd
	Snappy
	LZ4
)

func (compress Compression) String() string {
	switch compress {
	case Uncompressed:
		return "No compression"
	case Gzip:
		return "gzip compression"
	case Zstd:
		return "zstd compression"
	case Snappy:
		return "framed snappy compression"
	case LZ4:
		return "framed lz4 compression"
	default:
		return "Unknown compression"
	}
}

// CompressionFromFilename picks a compression format by file extension:
// .gz, .zst, .sz, .lz4, and anything else is taken as uncompressed.
func CompressionFromFilename(filename string) Compression {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".sz", ".snappy":
		return Snappy
	case ".lz4":
		return LZ4
	default:
		return Uncompressed
	}
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

// NewDecompressor wraps r so reads return uncompressed bytes.  The returned reader
// must be closed, which does not close r.
func NewDecompressor(r io.Reader, compress Compression) (io.ReadCloser, error) {
	switch compress {
	case Uncompressed:
		return nopCloser{r}, nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("can't open gzip stream: %v", err)
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("can't open zstd stream: %v", err)
		}
		return dec.IOReadCloser(), nil
	case Snappy:
		return nopCloser{snappy.NewReader(r)}, nil
	case LZ4:
		return nopCloser{lz4.NewReader(r)}, nil
	default:
		return nil, fmt.Errorf("illegal compression (%s) for label data", compress)
	}
}

// ReadLabels reads exactly numVoxels little-endian uint64 labels from r.
func ReadLabels(r io.Reader, numVoxels int64) ([]uint64, error) {
	if numVoxels <= 0 {
		return nil, InvalidArgumentf("number of voxels must be positive, got %d", numVoxels)
	}
	lbls := make([]uint64, numVoxels)
	br := bufio.NewReaderSize(r, 1<<20)
	if err := binary.Read(br, binary.LittleEndian, lbls); err != nil {
		return nil, fmt.Errorf("unable to read %d labels: %v", numVoxels, err)
	}
	return lbls, nil
}

// ReadLabelFile reads a dense C-order label volume of the given shape from a file,
// uncompressing according to the file extension.
func ReadLabelFile(filename string, shape PointNd) ([]uint64, error) {
	if !shape.AllPositive() {
		return nil, InvalidArgumentf("shape %s must be positive along all axes", shape)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	compress := CompressionFromFilename(filename)
	rc, err := NewDecompressor(f, compress)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	timedLog := NewTimeLog()
	lbls, err := ReadLabels(rc, shape.Prod())
	if err != nil {
		return nil, fmt.Errorf("file %q: %v", filename, err)
	}
	timedLog.Debugf("Read %d labels from %q with %s", len(lbls), filename, compress)
	return lbls, nil
}

// BytesToUint64 converts a little-endian byte slice into uint64 values.
func BytesToUint64(b []byte) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, InvalidArgumentf("byte slice length %d is not a multiple of 8", len(b))
	}
	out := make([]uint64, len(b)/8)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return out, nil
}

// Uint64ToBytes converts uint64 values into a little-endian byte slice.
func Uint64ToBytes(vals []uint64) []byte {
	b := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[i*8:i*8+8], v)
	}
	return b
}
