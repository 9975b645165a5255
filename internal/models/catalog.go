package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Catalog is the serialized aggregate: metadata, category counts and the
// ordered feature records. Field order matches the on-disk document.
type Catalog struct {
	Project       string          `json:"project"`
	Version       string          `json:"version"`
	TotalFeatures int             `json:"total_features"`
	LastUpdated   string          `json:"last_updated"`
	Categories    *CategoryCounts `json:"categories"`
	Features      []FeatureRecord `json:"features"`
}

// MaxID returns the highest feature id in the catalog, or 0 if it is empty
func (c *Catalog) MaxID() int {
	maxID := 0
	for _, f := range c.Features {
		if f.ID > maxID {
			maxID = f.ID
		}
	}
	return maxID
}

// CategoryCounts maps category name to record count and remembers the order
// in which categories first appeared. The zero value is ready to use.
type CategoryCounts struct {
	order  []string
	counts map[string]int
}

// NewCategoryCounts creates an empty CategoryCounts
func NewCategoryCounts() *CategoryCounts {
	return &CategoryCounts{counts: make(map[string]int)}
}

// Add increments the count for category by n, appending it on first use
func (c *CategoryCounts) Add(category string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[category]; !ok {
		c.order = append(c.order, category)
	}
	c.counts[category] += n
}

// Get returns the count for category and whether it is present
func (c *CategoryCounts) Get(category string) (int, bool) {
	if c == nil {
		return 0, false
	}
	n, ok := c.counts[category]
	return n, ok
}

// Keys returns the category names in first-appearance order
func (c *CategoryCounts) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Len returns the number of distinct categories
func (c *CategoryCounts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Total returns the sum of all counts
func (c *CategoryCounts) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Map returns the counts as a plain map
func (c *CategoryCounts) Map() map[string]int {
	m := make(map[string]int, c.Len())
	if c == nil {
		return m
	}
	for k, v := range c.counts {
		m[k] = v
	}
	return m
}

// Clone returns an independent copy
func (c *CategoryCounts) Clone() *CategoryCounts {
	clone := NewCategoryCounts()
	if c == nil {
		return clone
	}
	for _, k := range c.order {
		clone.Add(k, c.counts[k])
	}
	return clone
}

// Equal reports whether both hold the same keys in the same order with the same counts
func (c *CategoryCounts) Equal(other *CategoryCounts) bool {
	if c.Len() != other.Len() {
		return false
	}
	if c.Len() == 0 {
		return true
	}
	for i, k := range c.order {
		if other.order[i] != k || other.counts[k] != c.counts[k] {
			return false
		}
	}
	return true
}

// MarshalJSON renders the counts as a JSON object in first-appearance order
func (c *CategoryCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if c != nil {
		for i, k := range c.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(&buf, k); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			fmt.Fprintf(&buf, "%d", c.counts[k])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString appends s as a JSON string without HTML escaping, matching
// how the catalog encoder renders every other string
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// UnmarshalJSON reads a JSON object keeping the document's key order
func (c *CategoryCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	c.order = nil
	c.counts = make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("categories: expected string key, got %v", tok)
		}

		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("categories: count for %q: %w", key, err)
		}
		if _, dup := c.counts[key]; dup {
			return fmt.Errorf("categories: duplicate key %q", key)
		}
		c.Add(key, n)
	}

	_, err = dec.Token()
	return err
}
