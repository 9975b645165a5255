package models

// Entry is one authored (description, priority, steps) tuple.
// Priority is kept as authored text so the factory decides validity.
type Entry struct {
	Description string
	Priority    string
	Steps       []string
}

// Batch groups authored entries under one category label
type Batch struct {
	Category string  // Category label shared by all entries
	Expected int     // Declared entry count (0 = not declared)
	Entries  []Entry // Entries in authoring order
	Source   string  // File the batch was read from (optional)
}

// Phase is an ordered set of batches that is built and written together
type Phase struct {
	Name    string
	Batches []Batch
}

// EntryCount returns the total number of entries across all batches in the phase
func (p *Phase) EntryCount() int {
	total := 0
	for _, b := range p.Batches {
		total += len(b.Entries)
	}
	return total
}
