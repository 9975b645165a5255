// Package fileutil discovers batch source files inside an io/fs filesystem.
//
// Scanning works on fs.FS rather than the OS directly, so the same code lists
// authored batches embedded in the binary and batches in a directory on disk
// (via os.DirFS).
//
// # Behavior
//
//   - Extensions are matched case-insensitively; ".yaml" and "yaml" are equivalent
//   - Pattern is a regex applied to the filename without its extension
//   - Hidden files and directories (leading ".") are always skipped
//   - Subdirectories are only entered when Recursive is set
//   - Results are sorted, so batch order never depends on directory order
//   - Unreadable entries are collected in ScanResult.Errors and scanning continues
//
// # Usage
//
//	result, err := fileutil.ScanFS(os.DirFS("batches"), ".", fileutil.ScanOptions{
//	    Extensions: []string{".md", ".yaml", ".yml"},
//	})
package fileutil
