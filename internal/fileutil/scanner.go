package fileutil

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Pattern is a regex pattern to match filenames (without extension)
	Pattern string
	// Extensions is a list of file extensions to include (e.g., ".md", ".yaml")
	Extensions []string
	// Recursive enables recursive directory scanning
	Recursive bool
	// ExcludeDirs is a list of directory names to exclude
	ExcludeDirs []string
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the matched paths, relative to the scanned filesystem
	Files []string
	// Errors contains any errors encountered during scanning
	Errors []error
}

// ScanFS scans dir inside fsys for files matching opts.
// Hidden entries (leading ".") are skipped. Paths use forward slashes, as
// io/fs requires, and are returned sorted.
func ScanFS(fsys fs.FS, dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	var patternRegex *regexp.Regexp
	if opts.Pattern != "" {
		patternRegex, err = regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	excludeMap := make(map[string]bool)
	for _, d := range opts.ExcludeDirs {
		excludeMap[d] = true
	}

	err = fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", p, err))
			return nil
		}

		if p == dir {
			return nil
		}

		if d.IsDir() {
			if excludeMap[d.Name()] || strings.HasPrefix(d.Name(), ".") || !opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}

		filename := d.Name()
		if strings.HasPrefix(filename, ".") {
			return nil
		}

		ext := path.Ext(filename)
		if len(extMap) > 0 && !extMap[strings.ToLower(ext)] {
			return nil
		}

		if patternRegex != nil && !patternRegex.MatchString(strings.TrimSuffix(filename, ext)) {
			return nil
		}

		result.Files = append(result.Files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)

	return result, nil
}
