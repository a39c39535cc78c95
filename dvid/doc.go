/*
	Package dvid provides types, constants, and functions that have no other dependencies
	and can be used by all label multiset packages.  This includes N-dimensional points,
	the canonical blocking of an index space, leveled logging, and reading of dense
	label volumes.
*/
package dvid
