package blocks

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Slot locates a child list: the container that owns it and the list index
// within that container (always 0 except for ColumnsContainer columns).
type Slot struct {
	ParentID string `json:"parent_id"`
	List     int    `json:"list"`
}

// Tree is an immutable snapshot of a Document together with its parent index.
// Every non-root, non-orphan id maps to the single slot that references it.
// Mutations never touch a Tree in place; they build and return a new one.
type Tree struct {
	blocks  Document
	parents map[string]Slot
}

// NewTree validates doc and indexes its parent references.
// The document is deep-copied, so later changes to doc do not leak into the snapshot.
func NewTree(doc Document) (*Tree, error) {
	t := &Tree{
		blocks:  doc.Clone(),
		parents: make(map[string]Slot, len(doc)),
	}

	root, ok := t.blocks[RootID]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q block", ErrInvalidDocument, RootID)
	}
	if root.Type != BlockTypeEmailLayout {
		return nil, fmt.Errorf("%w: %q block must be %s, got %s", ErrInvalidDocument, RootID, BlockTypeEmailLayout, root.Type)
	}

	for _, id := range sortedIDs(t.blocks) {
		b := t.blocks[id]
		holder := b.Children()
		if b.Type.IsContainer() != (holder != nil) {
			return nil, fmt.Errorf("%w: block %q of type %s has mismatched data", ErrInvalidDocument, id, b.Type)
		}
		if b.Type == BlockTypeEmailLayout && id != RootID {
			return nil, fmt.Errorf("%w: block %q: only %q may be %s", ErrInvalidDocument, id, RootID, BlockTypeEmailLayout)
		}
		if holder == nil {
			continue
		}
		for li, list := range holder.ChildLists() {
			for _, childID := range list {
				if childID == RootID {
					return nil, fmt.Errorf("%w: block %q references the root", ErrInvalidDocument, id)
				}
				if _, exists := t.blocks[childID]; !exists {
					return nil, fmt.Errorf("%w: block %q references missing block %q", ErrInvalidDocument, id, childID)
				}
				if prev, taken := t.parents[childID]; taken {
					return nil, fmt.Errorf("%w: block %q is referenced by both %q and %q", ErrInvalidDocument, childID, prev.ParentID, id)
				}
				t.parents[childID] = Slot{ParentID: id, List: li}
			}
		}
	}

	if err := t.checkAcyclic(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkAcyclic follows parent pointers upward from every node.
// With at most one parent per node, any loop means a cycle detached from the root.
func (t *Tree) checkAcyclic() error {
	const (
		unseen = iota
		inPath
		done
	)
	state := make(map[string]int, len(t.blocks))
	for _, start := range sortedIDs(t.blocks) {
		var path []string
		id := start
		for state[id] != done {
			if state[id] == inPath {
				return fmt.Errorf("%w: cycle through block %q", ErrInvalidDocument, id)
			}
			state[id] = inPath
			path = append(path, id)
			slot, ok := t.parents[id]
			if !ok {
				break
			}
			id = slot.ParentID
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

// Len returns the number of blocks in the snapshot
func (t *Tree) Len() int {
	return len(t.blocks)
}

// Has reports whether id is a key of the snapshot
func (t *Tree) Has(id string) bool {
	_, ok := t.blocks[id]
	return ok
}

// Block returns a copy of the block stored under id
func (t *Tree) Block(id string) (Block, bool) {
	b, ok := t.blocks[id]
	if !ok {
		return Block{}, false
	}
	return b.Clone(), true
}

// Document returns a deep copy of the snapshot's flat mapping
func (t *Tree) Document() Document {
	return t.blocks.Clone()
}

// Parent returns the slot that references id. Root and orphans have none.
func (t *Tree) Parent(id string) (Slot, bool) {
	s, ok := t.parents[id]
	return s, ok
}

// ChildLists returns copies of the child lists of id, or nil for leaves and unknown ids
func (t *Tree) ChildLists(id string) [][]string {
	b, ok := t.blocks[id]
	if !ok {
		return nil
	}
	h := b.Children()
	if h == nil {
		return nil
	}
	lists := h.ChildLists()
	out := make([][]string, len(lists))
	for i, l := range lists {
		out[i] = cloneIDs(l)
	}
	return out
}

// Walk visits the blocks reachable from the root in pre-order, left to right.
// Returning false from fn skips the block's descendants.
func (t *Tree) Walk(fn func(id string, b Block, depth int) bool) {
	t.walkFrom(RootID, 0, fn)
}

func (t *Tree) walkFrom(id string, depth int, fn func(id string, b Block, depth int) bool) {
	b, ok := t.blocks[id]
	if !ok {
		return
	}
	if !fn(id, b, depth) {
		return
	}
	h := b.Children()
	if h == nil {
		return
	}
	for _, list := range h.ChildLists() {
		for _, childID := range list {
			t.walkFrom(childID, depth+1, fn)
		}
	}
}

// Descendants returns every id below id in pre-order, excluding id itself
func (t *Tree) Descendants(id string) []string {
	var out []string
	t.walkFrom(id, 0, func(visited string, _ Block, _ int) bool {
		if visited != id {
			out = append(out, visited)
		}
		return true
	})
	return out
}

// Orphans returns the sorted non-root ids that no child list references
func (t *Tree) Orphans() []string {
	var out []string
	for id := range t.blocks {
		if id == RootID {
			continue
		}
		if _, ok := t.parents[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// MarshalJSON writes the snapshot in the persisted flat form
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.blocks)
}

// edit returns a copy-on-write successor. Maps are copied; block payloads are
// shared until rewritten, which is safe because payloads are never mutated.
func (t *Tree) edit() *Tree {
	next := &Tree{
		blocks:  make(Document, len(t.blocks)+1),
		parents: make(map[string]Slot, len(t.parents)+1),
	}
	for id, b := range t.blocks {
		next.blocks[id] = b
	}
	for id, s := range t.parents {
		next.parents[id] = s
	}
	return next
}

// childList returns the list at slot, or an error if the slot does not exist
func (t *Tree) childList(slot Slot) ([]string, error) {
	b, ok := t.blocks[slot.ParentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, slot.ParentID)
	}
	h := b.Children()
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotContainer, slot.ParentID)
	}
	lists := h.ChildLists()
	if slot.List < 0 || slot.List >= len(lists) {
		return nil, fmt.Errorf("%w: %s has no list %d", ErrInvalidSlot, slot.ParentID, slot.List)
	}
	return lists[slot.List], nil
}

// setChildList rewrites exactly one list of the container at slot
func (t *Tree) setChildList(slot Slot, list []string) {
	b := t.blocks[slot.ParentID]
	h := b.Children()
	lists := h.ChildLists()
	replaced := make([][]string, len(lists))
	for i, l := range lists {
		if i == slot.List {
			replaced[i] = list
			continue
		}
		replaced[i] = cloneIDs(l)
	}
	t.blocks[slot.ParentID] = Block{Type: b.Type, Data: h.WithChildLists(replaced)}
}

func sortedIDs(doc Document) []string {
	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
