package parser

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"01-auth.yaml", FormatYAML},
		{"01-auth.YML", FormatYAML},
		{"catalog.md", FormatMarkdown},
		{"catalog.markdown", FormatMarkdown},
		{"catalog.json", FormatUnknown},
		{"README", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename))
		})
	}
}

func TestNewParser_Unknown(t *testing.T) {
	_, err := NewParser(FormatUnknown)
	assert.Error(t, err)
}

func batchFile(category string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("category: " + category + "\nfeatures:\n  - description: d\n    priority: low\n    steps: [s]\n")}
}

func TestParseDirectory_NumericOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"initial/10-ten.yaml": batchFile("Ten"),
		"initial/2-two.yaml":  batchFile("Two"),
		"initial/01-one.yaml": batchFile("One"),
		"initial/zeta.yaml":   batchFile("Zeta"),
		"initial/alpha.yml":   batchFile("Alpha"),
		"initial/notes.txt":   &fstest.MapFile{Data: []byte("ignored")},
		"initial/sub/03.yaml": batchFile("Nested"),
		"extension/01-x.yaml": batchFile("Other phase"),
		"initial/.draft.yaml": batchFile("Draft"),
		"initial/03-three.md": &fstest.MapFile{Data: []byte("## Three\n\n### d\nPriority: low\n\n- s\n")},
	}

	batches, err := ParseDirectory(fsys, "initial")
	require.NoError(t, err)

	var got []string
	for _, b := range batches {
		got = append(got, b.Category)
	}
	assert.Equal(t, []string{"One", "Two", "Three", "Ten", "Alpha", "Zeta"}, got)
	assert.Equal(t, "initial/01-one.yaml", batches[0].Source)
}

func TestParseSource_FileOrDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"b/01-one.yaml": batchFile("One"),
	}

	fromDir, err := ParseSource(fsys, "b")
	require.NoError(t, err)
	fromFile, err := ParseSource(fsys, "b/01-one.yaml")
	require.NoError(t, err)
	assert.Equal(t, fromDir, fromFile)

	_, err = ParseSource(fsys, "missing")
	assert.Error(t, err)
}

func TestParseFile_UnknownFormat(t *testing.T) {
	fsys := fstest.MapFS{"x.json": &fstest.MapFile{Data: []byte("{}")}}
	_, err := ParseFile(fsys, "x.json")
	assert.Error(t, err)
}

func TestParsePath_OnDisk(t *testing.T) {
	dir := t.TempDir()
	batchDir := filepath.Join(dir, "batches")
	require.NoError(t, os.MkdirAll(batchDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(batchDir, "01-one.yaml"), batchFile("One").Data, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(batchDir, "02-two.yaml"), batchFile("Two").Data, 0644))

	batches, err := ParsePath(dir, "batches")
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, filepath.Join(batchDir, "01-one.yaml"), batches[0].Source)

	single, err := ParsePath(dir, filepath.Join(batchDir, "02-two.yaml"))
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "Two", single[0].Category)
	assert.Equal(t, filepath.Join(batchDir, "02-two.yaml"), single[0].Source)

	_, err = ParsePath(dir, "missing")
	assert.Error(t, err)
}
