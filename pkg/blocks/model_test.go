package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const builderDocumentJSON = `{
	"root": {"type": "EmailLayout", "data": {
		"backdropColor": "#F8F8F8", "canvasColor": "#FFFFFF", "textColor": "#242424",
		"fontFamily": "MODERN_SANS", "borderRadius": 4,
		"padding": {"top": 32, "bottom": 32, "right": 0, "left": 0},
		"childrenIds": ["block-a", "block-b"]}},
	"block-a": {"type": "Text", "data": {
		"style": {"fontWeight": "normal", "padding": {"top": 16, "bottom": 16, "right": 24, "left": 24}},
		"props": {"text": "Hello"}}},
	"block-b": {"type": "ColumnsContainer", "data": {
		"style": {"padding": {"top": 16, "bottom": 16, "right": 24, "left": 24}},
		"props": {"columnsCount": 2, "columns": [
			{"childrenIds": ["block-c"]}, {"childrenIds": []}, {"childrenIds": null}]}}},
	"block-c": {"type": "Container", "data": {"props": {"childrenIds": null}}}
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(builderDocumentJSON))
	require.NoError(t, err)
	require.Len(t, doc, 4)

	t.Run("variants are decoded by type", func(t *testing.T) {
		assert.IsType(t, &EmailLayoutData{}, doc["root"].Data)
		assert.IsType(t, &LeafData{}, doc["block-a"].Data)
		assert.IsType(t, &ColumnsContainerData{}, doc["block-b"].Data)
		assert.IsType(t, &ContainerData{}, doc["block-c"].Data)
	})

	t.Run("layout attributes", func(t *testing.T) {
		root := doc["root"].Data.(*EmailLayoutData)
		require.NotNil(t, root.BackdropColor)
		assert.Equal(t, "#F8F8F8", *root.BackdropColor)
		require.NotNil(t, root.BorderRadius)
		assert.Equal(t, 4.0, *root.BorderRadius)
		require.NotNil(t, root.Padding)
		assert.Equal(t, 32.0, root.Padding.Top)
		assert.Equal(t, []string{"block-a", "block-b"}, root.ChildrenIds)
	})

	t.Run("column lists keep null and empty apart", func(t *testing.T) {
		lists := doc["block-b"].Children().ChildLists()
		require.Len(t, lists, 3)
		assert.Equal(t, []string{"block-c"}, lists[0])
		assert.NotNil(t, lists[1])
		assert.Empty(t, lists[1])
		assert.Nil(t, lists[2])
	})

	t.Run("round trip keeps the wire form", func(t *testing.T) {
		out, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, builderDocumentJSON, string(out))
	})
}

func TestParseDocument_FractionalMeasures(t *testing.T) {
	input := `{
		"root": {"type": "EmailLayout", "data": {
			"borderRadius": 4.5,
			"padding": {"top": 1.5, "bottom": 32, "right": 0, "left": 0.25},
			"childrenIds": ["cols"]}},
		"cols": {"type": "ColumnsContainer", "data": {"props": {
			"columnsCount": 2, "columnsGap": 8.5, "fixedWidths": [120.5, null],
			"columns": [{"childrenIds": []}, {"childrenIds": []}]}}}
	}`

	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	root := doc["root"].Data.(*EmailLayoutData)
	assert.Equal(t, 4.5, *root.BorderRadius)
	assert.Equal(t, 1.5, root.Padding.Top)
	assert.Equal(t, 0.25, root.Padding.Left)

	props := doc["cols"].Data.(*ColumnsContainerData).Props
	assert.Equal(t, 8.5, *props.ColumnsGap)
	require.Len(t, props.FixedWidths, 2)
	assert.Equal(t, 120.5, *props.FixedWidths[0])
	assert.Nil(t, props.FixedWidths[1])

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestBlockUnmarshalErrors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "missing type", input: `{"data":{}}`, wantErr: "block type is required"},
		{name: "empty type", input: `{"type":"","data":{}}`, wantErr: "block type is required"},
		{name: "malformed container data", input: `{"type":"Container","data":{"props":{"childrenIds":"x"}}}`, wantErr: "failed to decode Container data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var b Block
			err := json.Unmarshal([]byte(tc.input), &b)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBlockUnmarshal_UnknownTypeIsLeaf(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Countdown","data":{"props":{"until":"2030-01-01"}}}`), &b))

	assert.Equal(t, BlockType("Countdown"), b.Type)
	assert.False(t, b.Type.IsContainer())
	assert.Nil(t, b.Children())
	assert.JSONEq(t, `{"props":{"until":"2030-01-01"}}`, string(b.Data.(*LeafData).Raw))
}

func TestBlockUnmarshal_MissingData(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Container"}`), &b))

	h := b.Children()
	require.NotNil(t, h)
	assert.Equal(t, [][]string{nil}, h.ChildLists())
}

func TestBlockClone_Isolation(t *testing.T) {
	t.Run("leaf", func(t *testing.T) {
		original := textBlock("hello")
		clone := original.Clone()
		clone.Data.(*LeafData).Raw[0] = '['
		assert.JSONEq(t, `{"style":{"fontWeight":"normal"},"props":{"text":"hello"}}`, string(original.Data.(*LeafData).Raw))
	})

	t.Run("columns", func(t *testing.T) {
		original := columnsBlock([]string{"a"}, []string{"b"})
		clone := original.Clone()
		cloneData := clone.Data.(*ColumnsContainerData)
		cloneData.Props.Columns[0].ChildrenIds[0] = "z"
		*cloneData.Props.ColumnsCount = 9

		data := original.Data.(*ColumnsContainerData)
		assert.Equal(t, "a", data.Props.Columns[0].ChildrenIds[0])
		assert.Equal(t, 2.0, *data.Props.ColumnsCount)
	})

	t.Run("layout", func(t *testing.T) {
		original := layoutBlock("a", "b")
		clone := original.Clone()
		clone.Data.(*EmailLayoutData).ChildrenIds[1] = "z"
		assert.Equal(t, []string{"a", "b"}, original.Data.(*EmailLayoutData).ChildrenIds)
	})
}

func TestWithChildLists_DoesNotMutate(t *testing.T) {
	original := containerBlock("a", "b")
	h := original.Children()

	replaced := h.WithChildLists([][]string{{"b"}})

	assert.Equal(t, [][]string{{"a", "b"}}, h.ChildLists())
	assert.Equal(t, [][]string{{"b"}}, replaced.(ChildrenHolder).ChildLists())
	assert.JSONEq(t, `{"backgroundColor":"#FFFFFF"}`, string(replaced.(*ContainerData).Style))
}

func TestBlockType_IsContainer(t *testing.T) {
	assert.True(t, BlockTypeEmailLayout.IsContainer())
	assert.True(t, BlockTypeContainer.IsContainer())
	assert.True(t, BlockTypeColumnsContainer.IsContainer())
	for _, leafType := range []BlockType{BlockTypeText, BlockTypeHeading, BlockTypeHtml, BlockTypeImage,
		BlockTypeButton, BlockTypeDivider, BlockTypeSpacer, BlockTypeAvatar} {
		assert.False(t, leafType.IsContainer(), leafType)
	}
}
