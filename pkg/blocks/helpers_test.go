package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func textBlock(text string) Block {
	return rawLeaf(BlockTypeText, `{"style":{"fontWeight":"normal"},"props":{"text":"`+text+`"}}`)
}

func layoutBlock(children ...string) Block {
	return Block{Type: BlockTypeEmailLayout, Data: &EmailLayoutData{ChildrenIds: children}}
}

func containerBlock(children ...string) Block {
	return Block{Type: BlockTypeContainer, Data: &ContainerData{
		Style: json.RawMessage(`{"backgroundColor":"#FFFFFF"}`),
		Props: &ContainerProps{ChildrenIds: children},
	}}
}

func columnsBlock(cols ...[]string) Block {
	count := float64(len(cols))
	columns := make([]Column, len(cols))
	for i, c := range cols {
		columns[i] = Column{ChildrenIds: c}
	}
	return Block{Type: BlockTypeColumnsContainer, Data: &ColumnsContainerData{
		Props: &ColumnsContainerProps{ColumnsCount: &count, Columns: columns},
	}}
}

func mustTree(t *testing.T, doc Document) *Tree {
	t.Helper()
	tree, err := NewTree(doc)
	require.NoError(t, err)
	return tree
}

// requireConsistent re-indexes the snapshot from scratch, which re-checks
// root, dangling references, sharing and cycles.
func requireConsistent(t *testing.T, tree *Tree) {
	t.Helper()
	_, err := NewTree(tree.Document())
	require.NoError(t, err)
}

func snapshotJSON(t *testing.T, tree *Tree) string {
	t.Helper()
	data, err := json.Marshal(tree)
	require.NoError(t, err)
	return string(data)
}

func leafRaw(t *testing.T, tree *Tree, id string) string {
	t.Helper()
	b, ok := tree.Block(id)
	require.True(t, ok, "block %s missing", id)
	leaf, ok := b.Data.(*LeafData)
	require.True(t, ok, "block %s is not a leaf", id)
	return string(leaf.Raw)
}

// scriptedGenerator proposes ids from a fixed list, skipping taken ones
type scriptedGenerator struct {
	candidates []string
	proposed   []string
}

func (g *scriptedGenerator) NewID(taken func(id string) bool) string {
	for len(g.candidates) > 0 {
		id := g.candidates[0]
		g.candidates = g.candidates[1:]
		g.proposed = append(g.proposed, id)
		if !taken(id) {
			return id
		}
	}
	panic("scriptedGenerator ran out of candidates")
}
