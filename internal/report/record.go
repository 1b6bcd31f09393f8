// Package report loads the per-file analysis report and cross-validates it
// against the files actually present on disk.
//
// The report is a JSON document produced by an external complexity scanner:
// a top-level "summary" block plus a "files" object keyed by repo-relative
// path. The loader streams the files object instead of materializing the
// whole document, so large reports stay cheap to read.
package report

// FileRecord is one file entry from the analysis report.
type FileRecord struct {
	Path          string `json:"path"`
	MaxDepth      int    `json:"max_depth"`
	TotalBranches int    `json:"total_branches"`
	ExistsOnDisk  bool   `json:"exists_on_disk"`
}

// ComplexEntry is one entry of the summary's most-complex list.
type ComplexEntry struct {
	File          string `json:"file"`
	MaxDepth      int    `json:"max_depth"`
	TotalBranches int    `json:"total_branches"`
}

// Summary is the top-level summary block of the report.
type Summary struct {
	TotalFiles  int            `json:"total_files"`
	MostComplex []ComplexEntry `json:"most_complex"`
}
