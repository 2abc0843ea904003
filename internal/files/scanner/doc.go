// Package scanner provides discovery of data files for a bulk load run.
//
// The scanner matches files in a single directory against a glob pattern
// (non-recursive, matching how loads are staged on disk) and returns the
// matches in lexicographic order so that a batch always processes files in
// a stable, predictable sequence.
package scanner
