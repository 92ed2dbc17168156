package blocks

import (
	"encoding/json"
)

// Sample document names accepted by SampleDocument
const (
	SampleEmpty   = "empty"
	SampleWelcome = "welcome"
)

// SampleDocument returns a named starter document
func SampleDocument(name string) (Document, bool) {
	switch name {
	case SampleEmpty, "":
		return EmptyDocument(), true
	case SampleWelcome:
		return WelcomeDocument(), true
	}
	return nil, false
}

// EmptyDocument creates a document holding only the layout root
func EmptyDocument() Document {
	return Document{
		RootID: {
			Type: BlockTypeEmailLayout,
			Data: &EmailLayoutData{
				BackdropColor: stringPtr("#F5F5F5"),
				CanvasColor:   stringPtr("#FFFFFF"),
				TextColor:     stringPtr("#262626"),
				FontFamily:    stringPtr("MODERN_SANS"),
				ChildrenIds:   []string{},
			},
		},
	}
}

// WelcomeDocument creates a small welcome email: a heading, a two-column
// section with an image and a text, a button inside a container, and a divider.
func WelcomeDocument() Document {
	columns := 2.0
	gap := 16.0

	doc := EmptyDocument()
	root := doc[RootID].Data.(*EmailLayoutData)
	root.ChildrenIds = []string{"welcome-heading", "welcome-columns", "welcome-cta", "welcome-divider"}

	doc["welcome-heading"] = rawLeaf(BlockTypeHeading,
		`{"props":{"text":"Welcome aboard","level":"h2"},"style":{"padding":{"top":24,"bottom":8,"right":24,"left":24}}}`)
	doc["welcome-columns"] = Block{
		Type: BlockTypeColumnsContainer,
		Data: &ColumnsContainerData{
			Style: json.RawMessage(`{"padding":{"top":16,"bottom":16,"right":24,"left":24}}`),
			Props: &ColumnsContainerProps{
				ColumnsCount:     &columns,
				ColumnsGap:       &gap,
				ContentAlignment: stringPtr("middle"),
				Columns: []Column{
					{ChildrenIds: []string{"welcome-image"}},
					{ChildrenIds: []string{"welcome-text"}},
					{ChildrenIds: []string{}},
				},
			},
		},
	}
	doc["welcome-image"] = rawLeaf(BlockTypeImage,
		`{"props":{"url":"https://example.com/welcome.png","alt":"Welcome","contentAlignment":"middle"},"style":{"padding":{"top":0,"bottom":0,"right":0,"left":0}}}`)
	doc["welcome-text"] = rawLeaf(BlockTypeText,
		`{"props":{"text":"Thanks for signing up. Here is what happens next."},"style":{"padding":{"top":0,"bottom":0,"right":0,"left":0}}}`)
	doc["welcome-cta"] = Block{
		Type: BlockTypeContainer,
		Data: &ContainerData{
			Style: json.RawMessage(`{"backgroundColor":"#F0ECE5","padding":{"top":16,"bottom":16,"right":24,"left":24}}`),
			Props: &ContainerProps{ChildrenIds: []string{"welcome-button"}},
		},
	}
	doc["welcome-button"] = rawLeaf(BlockTypeButton,
		`{"props":{"text":"Get started","url":"https://example.com/start"},"style":{"padding":{"top":16,"bottom":16,"right":24,"left":24}}}`)
	doc["welcome-divider"] = rawLeaf(BlockTypeDivider,
		`{"props":{"lineColor":"#CCCCCC"},"style":{"padding":{"top":16,"bottom":16,"right":24,"left":24}}}`)

	return doc
}

func rawLeaf(t BlockType, data string) Block {
	return Block{Type: t, Data: &LeafData{Raw: json.RawMessage(data)}}
}

func stringPtr(s string) *string {
	return &s
}
