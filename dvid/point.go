/*
	This file holds the N-dimensional point type used for shapes, coordinates and
	block sizes throughout the label multiset packages.
*/

package dvid

import (
	"fmt"
	"strconv"
	"strings"
)

// PointNd is a slice of N 32-bit signed integers.  Shapes and coordinates are given
// in C order, i.e., the last dimension varies fastest in a flattened array.
type PointNd []int32

// NumDims returns the dimensionality of this point.
func (p PointNd) NumDims() uint8 {
	return uint8(len(p))
}

// Value returns the point's value for the specified dimension without checking dim bounds.
func (p PointNd) Value(dim uint8) int32 {
	return p[dim]
}

// CheckedValue returns the point's value for the specified dimension and checks dim bounds.
func (p PointNd) CheckedValue(dim uint8) (int32, error) {
	if int(dim) >= len(p) {
		return 0, fmt.Errorf("cannot return dimension %d of %d-d point", dim, len(p))
	}
	return p[dim], nil
}

// Duplicate returns a copy of the point without any pointer references.
func (p PointNd) Duplicate() PointNd {
	nd := make(PointNd, len(p))
	copy(nd, p)
	return nd
}

// Equals returns true if the two points have the same dimensionality and values.
func (p PointNd) Equals(p2 PointNd) bool {
	if len(p) != len(p2) {
		return false
	}
	for i := range p {
		if p[i] != p2[i] {
			return false
		}
	}
	return true
}

// Sub returns the subtraction of the passed point from the receiver.
func (p PointNd) Sub(p2 PointNd) PointNd {
	result := make(PointNd, len(p))
	for i := range p {
		result[i] = p[i] - p2[i]
	}
	return result
}

// CeilDiv returns the element-wise division of the receiver by the passed point,
// rounding up.  Both points are assumed to be positive.
func (p PointNd) CeilDiv(p2 PointNd) PointNd {
	result := make(PointNd, len(p))
	for i := range p {
		result[i] = (p[i] + p2[i] - 1) / p2[i]
	}
	return result
}

// Prod returns the product of all elements, e.g., the number of voxels for a shape.
func (p PointNd) Prod() int64 {
	prod := int64(1)
	for _, val := range p {
		prod *= int64(val)
	}
	return prod
}

// AllPositive returns true if every element is greater than zero.
func (p PointNd) AllPositive() bool {
	for _, val := range p {
		if val <= 0 {
			return false
		}
	}
	return true
}

func (p PointNd) String() string {
	output := "("
	for _, val := range p {
		if len(output) > 1 {
			output += ","
		}
		output += strconv.Itoa(int(val))
	}
	output += ")"
	return output
}

// StringToPointNd parses a separated list of integers, e.g., "64,128,128", into a PointNd.
func StringToPointNd(str, separator string) (PointNd, error) {
	elems := strings.Split(strings.TrimSpace(str), separator)
	if len(elems) == 0 || (len(elems) == 1 && elems[0] == "") {
		return nil, fmt.Errorf("cannot convert %q into a point", str)
	}
	p := make(PointNd, len(elems))
	for i, elem := range elems {
		v, err := strconv.ParseInt(strings.TrimSpace(elem), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q into a point: %v", str, err)
		}
		p[i] = int32(v)
	}
	return p, nil
}

// Uniform returns an n-dimensional point with every element set to value.
func Uniform(n int, value int32) PointNd {
	p := make(PointNd, n)
	for i := range p {
		p[i] = value
	}
	return p
}
