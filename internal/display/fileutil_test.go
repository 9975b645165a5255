package display

import (
	"testing"
	"testing/fstest"
)

func TestIsNumberedFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"01-authentication.yaml", true},
		{"1-setup.md", true},
		{"123-test.markdown", true},
		{"5-config.yml", true},
		{"15-v2.0.yaml", true},
		{"9999-large.markdown", true},
		{"", false},
		{"setup.md", false},
		{"a1-setup.md", false},
		{"1a-setup.md", false},
		{"1setup.md", false},
		{"1-.md", false},
		{"1-setup.txt", false},
		{"1-setup.MD", false},
		{"1-set\nup.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IsNumberedFile(tt.filename); got != tt.want {
				t.Errorf("IsNumberedFile(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFindUnnumberedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"batches/01-auth.yaml":     {Data: []byte("category: A\n")},
		"batches/02-pay.md":        {Data: []byte("## B\n")},
		"batches/extra.yaml":       {Data: []byte("category: C\n")},
		"batches/notes.txt":        {Data: []byte("ignored")},
		"batches/.hidden.yaml":     {Data: []byte("ignored")},
		"batches/nested/misc.yaml": {Data: []byte("ignored")},
	}

	got, err := FindUnnumberedFiles(fsys, "batches")
	if err != nil {
		t.Fatalf("FindUnnumberedFiles() error = %v", err)
	}
	if len(got) != 1 || got[0] != "extra.yaml" {
		t.Errorf("FindUnnumberedFiles() = %v, want [extra.yaml]", got)
	}
}

func TestFindUnnumberedFiles_MissingDir(t *testing.T) {
	if _, err := FindUnnumberedFiles(fstest.MapFS{}, "missing"); err == nil {
		t.Error("expected error for missing directory")
	}
}
