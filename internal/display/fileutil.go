package display

import (
	"io/fs"
	"path"
	"strings"
	"unicode"

	"github.com/harrison/featurelist/internal/fileutil"
	"github.com/harrison/featurelist/internal/parser"
)

// IsNumberedFile checks if filename matches pattern: ^\d+-.+\.(md|markdown|yaml|yml)$
// Extensions are matched case-sensitively.
func IsNumberedFile(filename string) bool {
	if filename == "" || !unicode.IsDigit(rune(filename[0])) {
		return false
	}

	// Only digits may precede the dash
	dashIndex := -1
	for i := 1; i < len(filename); i++ {
		if filename[i] == '-' {
			dashIndex = i
			break
		}
		if !unicode.IsDigit(rune(filename[i])) {
			return false
		}
	}
	if dashIndex == -1 {
		return false
	}

	if strings.ContainsAny(filename, "\n\x00") {
		return false
	}

	ext := path.Ext(filename)
	switch ext {
	case ".md", ".markdown", ".yaml", ".yml":
		// "1-.md" has nothing between dash and extension
		return len(strings.TrimSuffix(filename, ext)) > dashIndex+1
	default:
		return false
	}
}

// FindUnnumberedFiles returns the basenames of batch files directly inside
// dir that lack a numeric prefix
func FindUnnumberedFiles(fsys fs.FS, dir string) ([]string, error) {
	result, err := fileutil.ScanFS(fsys, dir, fileutil.ScanOptions{
		Extensions: parser.SupportedExtensions,
	})
	if err != nil {
		return nil, err
	}

	unnumbered := make([]string, 0)
	for _, p := range result.Files {
		if name := path.Base(p); !IsNumberedFile(name) {
			unnumbered = append(unnumbered, name)
		}
	}
	return unnumbered, nil
}
