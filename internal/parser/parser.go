// Package parser reads authored feature batches from YAML and Markdown files.
//
// Sources are read through io/fs so the batches embedded in the binary and
// batches on disk go through the same code path. Parsers only shape data;
// tier and step validation belongs to the catalog builder.
package parser

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/harrison/featurelist/internal/fileutil"
	"github.com/harrison/featurelist/internal/models"
)

// Format represents the format of a batch file
type Format int

const (
	// FormatUnknown represents an unknown or unsupported file format
	FormatUnknown Format = iota
	// FormatMarkdown represents a Markdown (.md, .markdown) batch file
	FormatMarkdown
	// FormatYAML represents a YAML (.yaml, .yml) batch file
	FormatYAML
)

// SupportedExtensions lists the file extensions batch sources may use
var SupportedExtensions = []string{".md", ".markdown", ".yaml", ".yml"}

var numberedPrefix = regexp.MustCompile(`^(\d+)-`)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Parser is the interface that all batch parsers implement
type Parser interface {
	// Parse reads batches from r; source names the input in errors and batches
	Parse(r io.Reader, source string) ([]models.Batch, error)
}

// DetectFormat detects the batch format from the file extension
//   - .md, .markdown -> FormatMarkdown
//   - .yaml, .yml -> FormatYAML
//   - all others -> FormatUnknown
func DetectFormat(filename string) Format {
	switch strings.ToLower(path.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// NewParser creates a new parser instance for the specified format
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownParser(), nil
	case FormatYAML:
		return NewYAMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// ParseFile parses the batch file name inside fsys
func ParseFile(fsys fs.FS, name string) ([]models.Batch, error) {
	format := DetectFormat(name)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown file format: %s (supported: .md, .markdown, .yaml, .yml)", name)
	}

	p, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	file, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	batches, err := p.Parse(file, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return batches, nil
}

// ParseDirectory parses every batch file directly inside dir.
// Files with a numeric prefix ("01-auth.yaml") come first in numeric order,
// the rest follow by name.
func ParseDirectory(fsys fs.FS, dir string) ([]models.Batch, error) {
	result, err := fileutil.ScanFS(fsys, dir, fileutil.ScanOptions{
		Extensions: SupportedExtensions,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, result.Errors[0])
	}

	files := result.Files
	sort.SliceStable(files, func(i, j int) bool {
		return lessBatchFile(path.Base(files[i]), path.Base(files[j]))
	})

	var batches []models.Batch
	for _, f := range files {
		b, err := ParseFile(fsys, f)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b...)
	}
	return batches, nil
}

// ParseSource parses a file or directory inside fsys
func ParseSource(fsys fs.FS, name string) ([]models.Batch, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", name, err)
	}
	if info.IsDir() {
		return ParseDirectory(fsys, name)
	}
	return ParseFile(fsys, name)
}

// ParsePath parses a file or directory on disk.
// Relative paths are resolved against baseDir.
func ParsePath(baseDir, p string) ([]models.Batch, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}

	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	var batches []models.Batch
	if info.IsDir() {
		batches, err = ParseDirectory(os.DirFS(p), ".")
	} else {
		batches, err = ParseFile(os.DirFS(filepath.Dir(p)), filepath.Base(p))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	// Report sources with their on-disk location
	for i := range batches {
		batches[i].Source = filepath.Join(filepathDir(p, info.IsDir()), filepath.FromSlash(batches[i].Source))
	}
	return batches, nil
}

func filepathDir(p string, isDir bool) string {
	if isDir {
		return p
	}
	return filepath.Dir(p)
}

// lessBatchFile orders numbered files numerically ahead of unnumbered ones
func lessBatchFile(a, b string) bool {
	ai, aok := batchIndex(a)
	bi, bok := batchIndex(b)
	switch {
	case aok && bok && ai != bi:
		return ai < bi
	case aok != bok:
		return aok
	default:
		return a < b
	}
}

func batchIndex(name string) (int, bool) {
	m := numberedPrefix.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
