// Package dirstat walks directory trees and aggregates disk usage statistics.
//
// A Config carries the traversal policy and starts walks through the fastwalk
// backed walk package. Each walk is consumed sequentially into its own
// WalkResult, which counts unreadable entries and tracks the number, total,
// smallest and largest size of regular files. Run and RunAll add timing,
// progress reporting and concurrent walking of several roots on top.
package dirstat
