package catalog

// Allocator hands out feature ids in strictly increasing call order.
// Ids are global to the catalog, not per category.
type Allocator struct {
	next int
}

// NewAllocator creates an Allocator whose first id is 1
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// NewAllocatorFrom creates an Allocator that continues after maxAssigned.
// Used when extending a catalog written by an earlier run.
func NewAllocatorFrom(maxAssigned int) *Allocator {
	if maxAssigned < 0 {
		maxAssigned = 0
	}
	return &Allocator{next: maxAssigned + 1}
}

// Next returns a fresh id greater than every id returned before
func (a *Allocator) Next() int {
	id := a.next
	a.next++
	return id
}

// Peek returns the id the next call to Next will hand out
func (a *Allocator) Peek() int {
	return a.next
}

// Last returns the highest id handed out so far, 0 if none
func (a *Allocator) Last() int {
	return a.next - 1
}
