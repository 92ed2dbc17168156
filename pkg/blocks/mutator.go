package blocks

import (
	"fmt"
)

// Direction is the way Move shifts a block within its parent list
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a direction name
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// DeleteMode decides what happens to the descendants of a deleted container
type DeleteMode string

const (
	// DeleteModeOrphan removes only the target; its descendants stay in the
	// document, unreferenced.
	DeleteModeOrphan DeleteMode = "orphan"
	// DeleteModeCascade removes the target and its whole subtree.
	DeleteModeCascade DeleteMode = "cascade"
)

// ParseDeleteMode validates a delete mode name. Empty means orphan.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(s) {
	case "":
		return DeleteModeOrphan, nil
	case DeleteModeOrphan, DeleteModeCascade:
		return DeleteMode(s), nil
	}
	return "", fmt.Errorf("unsupported delete mode: %s", s)
}

// Mutator applies structural edits to document snapshots
type Mutator struct {
	ids        IDGenerator
	deleteMode DeleteMode
}

// MutatorOption configures a Mutator
type MutatorOption func(*Mutator)

// WithIDGenerator sets the generator used for every new block
func WithIDGenerator(g IDGenerator) MutatorOption {
	return func(m *Mutator) {
		m.ids = g
	}
}

// WithDeleteMode sets how Delete treats descendants
func WithDeleteMode(mode DeleteMode) MutatorOption {
	return func(m *Mutator) {
		m.deleteMode = mode
	}
}

// NewMutator creates a mutator. Defaults: counter ids, orphaning delete.
func NewMutator(opts ...MutatorOption) *Mutator {
	m := &Mutator{
		ids:        NewCounterGenerator("block"),
		deleteMode: DeleteModeOrphan,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DeleteMode returns the configured delete mode
func (m *Mutator) DeleteMode() DeleteMode {
	return m.deleteMode
}

// Duplicate deep-copies the subtree rooted at id under fresh ids and splices
// the copy immediately after id in the same parent list. It returns the new
// snapshot and the id of the copied subtree root.
func (m *Mutator) Duplicate(t *Tree, id string) (*Tree, string, error) {
	if _, ok := t.blocks[id]; !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	slot, ok := t.parents[id]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNoParent, id)
	}
	list, err := t.childList(slot)
	if err != nil {
		return nil, "", err
	}

	next := t.edit()
	copyID, err := m.cloneSubtree(t, next, id)
	if err != nil {
		return nil, "", err
	}

	idx := indexOf(list, id)
	spliced := make([]string, 0, len(list)+1)
	spliced = append(spliced, list[:idx+1]...)
	spliced = append(spliced, copyID)
	spliced = append(spliced, list[idx+1:]...)
	next.setChildList(slot, spliced)
	next.parents[copyID] = slot

	return next, copyID, nil
}

// cloneSubtree copies src[id] and everything below it into dst, pre-order,
// left to right. The copy's own id is minted before any of its children's.
func (m *Mutator) cloneSubtree(src, dst *Tree, id string) (string, error) {
	b, ok := src.blocks[id]
	if !ok {
		return "", fmt.Errorf("%w: dangling child %s", ErrInvalidDocument, id)
	}

	newID := m.ids.NewID(dst.Has)
	// reserve the id so descendants cannot draw it
	dst.blocks[newID] = Block{Type: b.Type}

	h := b.Children()
	if h == nil {
		dst.blocks[newID] = b.Clone()
		return newID, nil
	}

	lists := h.ChildLists()
	copied := make([][]string, len(lists))
	for li, list := range lists {
		if list == nil {
			continue
		}
		ids := make([]string, 0, len(list))
		for _, childID := range list {
			childCopy, err := m.cloneSubtree(src, dst, childID)
			if err != nil {
				return "", err
			}
			ids = append(ids, childCopy)
			dst.parents[childCopy] = Slot{ParentID: newID, List: li}
		}
		copied[li] = ids
	}
	dst.blocks[newID] = Block{Type: b.Type, Data: h.WithChildLists(copied)}
	return newID, nil
}

// Delete removes id from its parent list and from the document. In orphan
// mode its descendants stay as unreferenced entries; in cascade mode the
// whole subtree goes.
func (m *Mutator) Delete(t *Tree, id string) (*Tree, error) {
	if id == RootID {
		return nil, ErrRootBlock
	}
	b, ok := t.blocks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}

	next := t.edit()
	if slot, ok := t.parents[id]; ok {
		list, err := t.childList(slot)
		if err != nil {
			return nil, err
		}
		next.setChildList(slot, without(list, id))
		delete(next.parents, id)
	}

	switch m.deleteMode {
	case DeleteModeCascade:
		for _, d := range t.Descendants(id) {
			delete(next.blocks, d)
			delete(next.parents, d)
		}
	default:
		if h := b.Children(); h != nil {
			for _, list := range h.ChildLists() {
				for _, childID := range list {
					delete(next.parents, childID)
				}
			}
		}
	}
	delete(next.blocks, id)

	return next, nil
}

// Move swaps id with its neighbour in its parent list. At either boundary the
// input snapshot is returned unchanged.
func (m *Mutator) Move(t *Tree, id string, dir Direction) (*Tree, error) {
	if dir != DirectionUp && dir != DirectionDown {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	if _, ok := t.blocks[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	slot, ok := t.parents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoParent, id)
	}
	list, err := t.childList(slot)
	if err != nil {
		return nil, err
	}

	idx := indexOf(list, id)
	target := idx - 1
	if dir == DirectionDown {
		target = idx + 1
	}
	if target < 0 || target >= len(list) {
		return t, nil
	}

	swapped := cloneIDs(list)
	swapped[idx], swapped[target] = swapped[target], swapped[idx]

	next := t.edit()
	next.setChildList(slot, swapped)
	return next, nil
}

// Insert adds a new block under a fresh id at position index of the given
// parent list. index < 0 or past the end appends. Container blocks must be
// inserted empty.
func (m *Mutator) Insert(t *Tree, parentID string, list, index int, b Block) (*Tree, string, error) {
	if b.Type == "" {
		return nil, "", fmt.Errorf("%w: block type is required", ErrInvalidDocument)
	}
	if b.Type == BlockTypeEmailLayout {
		return nil, "", ErrRootBlock
	}
	parent, ok := t.blocks[parentID]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrBlockNotFound, parentID)
	}
	if parent.Children() == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrNotContainer, parentID)
	}
	slot := Slot{ParentID: parentID, List: list}
	ids, err := t.childList(slot)
	if err != nil {
		return nil, "", err
	}

	if b.Data == nil {
		b.Data = newPayload(b.Type)
	}
	if b.Type.IsContainer() != (b.Children() != nil) {
		return nil, "", fmt.Errorf("%w: %s block has mismatched data", ErrInvalidDocument, b.Type)
	}
	if h := b.Children(); h != nil {
		for _, l := range h.ChildLists() {
			if len(l) > 0 {
				return nil, "", fmt.Errorf("%w: inserted block must not reference children", ErrInvalidDocument)
			}
		}
	}

	next := t.edit()
	newID := m.ids.NewID(next.Has)
	next.blocks[newID] = b.Clone()

	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	spliced := make([]string, 0, len(ids)+1)
	spliced = append(spliced, ids[:index]...)
	spliced = append(spliced, newID)
	spliced = append(spliced, ids[index:]...)
	next.setChildList(slot, spliced)
	next.parents[newID] = slot

	return next, newID, nil
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func without(list []string, id string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
