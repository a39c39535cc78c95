/*
	Package labels implements label multisets: a compressed, multi-resolution friendly
	representation of dense label volumes where every voxel points into a deduplicated
	table of label histograms and also keeps its most frequent label.

	Multisets are built from dense label arrays with Construct, combined from chunks on
	a regular grid with MergeGrid, and downsampled by the downres package.
*/
package labels
