package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/harrison/featurelist/internal/models"
)

var (
	priorityLineRegex = regexp.MustCompile(`(?i)^priority:\s*(.*)$`)
	expectedLineRegex = regexp.MustCompile(`(?i)^expected:\s*(\d+)\s*$`)
)

// MarkdownParser reads authored batches written as Markdown:
//
//	## Authentication
//	Expected: 2
//
//	### User can log in
//	Priority: high
//
//	1. Navigate to /login
//	2. Submit valid credentials
//
// Level 2 headings open a category batch, level 3 headings open an entry,
// a "Priority:" paragraph sets the tier and list items are the steps.
type MarkdownParser struct {
	markdown goldmark.Markdown
}

// markdownFrontmatter holds the optional YAML frontmatter of a batch file
type markdownFrontmatter struct {
	DefaultPriority string `yaml:"default_priority"`
}

// NewMarkdownParser creates a MarkdownParser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

// Parse reads Markdown batches from r
func (p *MarkdownParser) Parse(r io.Reader, source string) ([]models.Batch, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	var fm markdownFrontmatter
	content, frontmatter := extractFrontmatter(content)
	if frontmatter != nil {
		if err := yaml.Unmarshal(frontmatter, &fm); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	doc := p.markdown.Parser().Parse(text.NewReader(content))

	batches, err := extractBatches(doc, content, fm.DefaultPriority)
	if err != nil {
		return nil, err
	}
	for i := range batches {
		batches[i].Source = source
	}
	return batches, nil
}

// extractBatches walks the top-level blocks of the document in order
func extractBatches(doc ast.Node, source []byte, defaultPriority string) ([]models.Batch, error) {
	var batches []models.Batch
	var batch *models.Batch
	var entry *models.Entry

	flushEntry := func() {
		if batch != nil && entry != nil {
			batch.Entries = append(batch.Entries, *entry)
		}
		entry = nil
	}
	flushBatch := func() {
		flushEntry()
		if batch != nil {
			batches = append(batches, *batch)
		}
		batch = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(extractText(node, source))
			switch node.Level {
			case 2:
				flushBatch()
				if title == "" {
					return nil, fmt.Errorf("line %d: category heading is empty", lineOf(node, source))
				}
				batch = &models.Batch{Category: title}
			case 3:
				if batch == nil {
					return nil, fmt.Errorf("line %d: feature %q appears before any category heading", lineOf(node, source), title)
				}
				flushEntry()
				entry = &models.Entry{Description: title, Priority: defaultPriority}
			default:
				// Other heading levels are commentary
			}

		case *ast.Paragraph:
			line := strings.TrimSpace(extractText(node, source))
			if m := priorityLineRegex.FindStringSubmatch(line); m != nil && entry != nil {
				entry.Priority = strings.TrimSpace(m[1])
				continue
			}
			if m := expectedLineRegex.FindStringSubmatch(line); m != nil && batch != nil && entry == nil {
				count, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid expected count %q: %w", lineOf(node, source), m[1], err)
				}
				batch.Expected = count
			}

		case *ast.List:
			if entry == nil {
				continue
			}
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				entry.Steps = append(entry.Steps, strings.TrimSpace(listItemText(item, source)))
			}
		}
	}
	flushBatch()

	return batches, nil
}

// listItemText returns the text of a list item's first block, ignoring nested lists
func listItemText(item ast.Node, source []byte) string {
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			return extractText(c, source)
		}
	}
	return ""
}

// extractText extracts plain text from an AST node and its inline children
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		if s, ok := c.(*ast.String); ok {
			buf.Write(s.Value)
			continue
		}
		buf.WriteString(extractText(c, source))
	}
	return buf.String()
}

// lineOf returns the 1-based source line where a block node starts
func lineOf(n ast.Node, source []byte) int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}
	return bytes.Count(source[:lines.At(0).Start], []byte("\n")) + 1
}

// extractFrontmatter extracts YAML frontmatter from markdown content
// Returns the content without frontmatter and the frontmatter bytes
func extractFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}

	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatter := bytes.Join(lines[1:i], []byte("\n"))
			body := bytes.Join(lines[i+1:], []byte("\n"))
			return body, frontmatter
		}
	}

	return content, nil
}
