package blocks

import (
	"encoding/json"
	"fmt"
)

// PaletteItem is one entry of the "add block" menu
type PaletteItem struct {
	Label string       `json:"label"`
	Type  BlockType    `json:"type"`
	New   func() Block `json:"-"`
}

const defaultPadding = `{"top":16,"bottom":16,"right":24,"left":24}`

func leaf(t BlockType, data string) func() Block {
	return func() Block {
		return rawLeaf(t, data)
	}
}

var palette = []PaletteItem{
	{Label: "Heading", Type: BlockTypeHeading, New: leaf(BlockTypeHeading,
		`{"props":{"text":"Hello friend"},"style":{"padding":`+defaultPadding+`}}`)},
	{Label: "Text", Type: BlockTypeText, New: leaf(BlockTypeText,
		`{"props":{"text":"My new text block"},"style":{"padding":`+defaultPadding+`,"fontWeight":"normal"}}`)},
	{Label: "Button", Type: BlockTypeButton, New: leaf(BlockTypeButton,
		`{"props":{"text":"Button","url":"https://example.com"},"style":{"padding":`+defaultPadding+`}}`)},
	{Label: "Image", Type: BlockTypeImage, New: leaf(BlockTypeImage,
		`{"props":{"url":"https://example.com/sample-image.jpg","alt":"Sample product","contentAlignment":"middle","linkHref":null},"style":{"padding":`+defaultPadding+`}}`)},
	{Label: "Avatar", Type: BlockTypeAvatar, New: leaf(BlockTypeAvatar,
		`{"props":{"imageUrl":"https://example.com/avatar.png","shape":"circle"},"style":{"padding":`+defaultPadding+`}}`)},
	{Label: "Divider", Type: BlockTypeDivider, New: leaf(BlockTypeDivider,
		`{"style":{"padding":`+defaultPadding+`},"props":{"lineColor":"#CCCCCC"}}`)},
	{Label: "Spacer", Type: BlockTypeSpacer, New: leaf(BlockTypeSpacer, `{}`)},
	{Label: "Html", Type: BlockTypeHtml, New: leaf(BlockTypeHtml,
		`{"props":{"contents":"<strong>Hello world</strong>"},"style":{"fontSize":16,"textAlign":null,"padding":`+defaultPadding+`}}`)},
	{Label: "Columns", Type: BlockTypeColumnsContainer, New: func() Block {
		count := 3.0
		return Block{
			Type: BlockTypeColumnsContainer,
			Data: &ColumnsContainerData{
				Style: json.RawMessage(`{"padding":` + defaultPadding + `}`),
				Props: &ColumnsContainerProps{
					ColumnsCount: &count,
					Columns: []Column{
						{ChildrenIds: []string{}},
						{ChildrenIds: []string{}},
						{ChildrenIds: []string{}},
					},
				},
			},
		}
	}},
	{Label: "Container", Type: BlockTypeContainer, New: func() Block {
		return Block{
			Type: BlockTypeContainer,
			Data: &ContainerData{
				Style: json.RawMessage(`{"padding":` + defaultPadding + `}`),
				Props: &ContainerProps{ChildrenIds: []string{}},
			},
		}
	}},
}

// Palette returns the menu entries in display order
func Palette() []PaletteItem {
	out := make([]PaletteItem, len(palette))
	copy(out, palette)
	return out
}

// NewBlock builds a fresh palette block of the given type
func NewBlock(t BlockType) (Block, error) {
	for _, item := range palette {
		if item.Type == t {
			return item.New(), nil
		}
	}
	return Block{}, fmt.Errorf("no palette entry for block type %s", t)
}
