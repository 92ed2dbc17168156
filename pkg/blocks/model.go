package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// BlockType is the discriminant of a block variant
type BlockType string

const (
	BlockTypeEmailLayout      BlockType = "EmailLayout"
	BlockTypeContainer        BlockType = "Container"
	BlockTypeColumnsContainer BlockType = "ColumnsContainer"
	BlockTypeText             BlockType = "Text"
	BlockTypeHeading          BlockType = "Heading"
	BlockTypeHtml             BlockType = "Html"
	BlockTypeImage            BlockType = "Image"
	BlockTypeButton           BlockType = "Button"
	BlockTypeDivider          BlockType = "Divider"
	BlockTypeSpacer           BlockType = "Spacer"
	BlockTypeAvatar           BlockType = "Avatar"
)

// IsContainer reports whether blocks of this type carry child id lists
func (t BlockType) IsContainer() bool {
	switch t {
	case BlockTypeEmailLayout, BlockTypeContainer, BlockTypeColumnsContainer:
		return true
	}
	return false
}

// BlockData is the variant-specific payload of a block
type BlockData interface {
	// Clone returns a full value copy sharing no mutable state with the receiver
	Clone() BlockData
}

// ChildrenHolder is implemented by the payloads of container-bearing variants.
// Each slot is one ordered child list: EmailLayout and Container have one,
// ColumnsContainer has one per column.
type ChildrenHolder interface {
	BlockData
	ChildLists() [][]string
	// WithChildLists returns a new payload with the slots replaced.
	// len(lists) must equal len(ChildLists()).
	WithChildLists(lists [][]string) BlockData
}

// Block is one node of the document tree. Its id is its key in the Document.
type Block struct {
	Type BlockType `json:"type"`
	Data BlockData `json:"data"`
}

// Children returns the payload as a ChildrenHolder, or nil for leaves
func (b Block) Children() ChildrenHolder {
	if h, ok := b.Data.(ChildrenHolder); ok {
		return h
	}
	return nil
}

// Clone returns a deep copy of the block
func (b Block) Clone() Block {
	if b.Data == nil {
		return Block{Type: b.Type}
	}
	return Block{Type: b.Type, Data: b.Data.Clone()}
}

// LeafData is the opaque payload of any variant that has no children
type LeafData struct {
	Raw json.RawMessage
}

func (d *LeafData) Clone() BlockData {
	if d == nil {
		return &LeafData{}
	}
	return &LeafData{Raw: cloneRaw(d.Raw)}
}

func (d *LeafData) MarshalJSON() ([]byte, error) {
	if d == nil || len(d.Raw) == 0 {
		return []byte("{}"), nil
	}
	return d.Raw, nil
}

func (d *LeafData) UnmarshalJSON(data []byte) error {
	d.Raw = cloneRaw(data)
	return nil
}

// Padding is the layout padding of the email canvas
type Padding struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Left   float64 `json:"left"`
}

// EmailLayoutData is the payload of the root block
type EmailLayoutData struct {
	BackdropColor *string  `json:"backdropColor,omitempty"`
	BorderColor   *string  `json:"borderColor,omitempty"`
	BorderRadius  *float64 `json:"borderRadius,omitempty"`
	CanvasColor   *string  `json:"canvasColor,omitempty"`
	TextColor     *string  `json:"textColor,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	Padding       *Padding `json:"padding,omitempty"`
	ChildrenIds   []string `json:"childrenIds"`
}

func (d *EmailLayoutData) Clone() BlockData {
	c := *d
	c.BackdropColor = cloneString(d.BackdropColor)
	c.BorderColor = cloneString(d.BorderColor)
	c.CanvasColor = cloneString(d.CanvasColor)
	c.TextColor = cloneString(d.TextColor)
	c.FontFamily = cloneString(d.FontFamily)
	if d.BorderRadius != nil {
		r := *d.BorderRadius
		c.BorderRadius = &r
	}
	if d.Padding != nil {
		p := *d.Padding
		c.Padding = &p
	}
	c.ChildrenIds = cloneIDs(d.ChildrenIds)
	return &c
}

func (d *EmailLayoutData) ChildLists() [][]string {
	return [][]string{d.ChildrenIds}
}

func (d *EmailLayoutData) WithChildLists(lists [][]string) BlockData {
	c := d.Clone().(*EmailLayoutData)
	c.ChildrenIds = lists[0]
	return c
}

// ContainerProps holds the children of a Container block
type ContainerProps struct {
	ChildrenIds []string `json:"childrenIds"`
}

// ContainerData is the payload of a Container block
type ContainerData struct {
	Style json.RawMessage `json:"style,omitempty"`
	Props *ContainerProps `json:"props,omitempty"`
}

func (d *ContainerData) Clone() BlockData {
	c := &ContainerData{Style: cloneRaw(d.Style)}
	if d.Props != nil {
		c.Props = &ContainerProps{ChildrenIds: cloneIDs(d.Props.ChildrenIds)}
	}
	return c
}

func (d *ContainerData) ChildLists() [][]string {
	if d.Props == nil {
		return [][]string{nil}
	}
	return [][]string{d.Props.ChildrenIds}
}

func (d *ContainerData) WithChildLists(lists [][]string) BlockData {
	c := d.Clone().(*ContainerData)
	if c.Props == nil {
		c.Props = &ContainerProps{}
	}
	c.Props.ChildrenIds = lists[0]
	return c
}

// Column is one column of a ColumnsContainer
type Column struct {
	ChildrenIds []string `json:"childrenIds"`
}

// ColumnsContainerProps holds the column layout and the per-column children
type ColumnsContainerProps struct {
	FixedWidths      []*float64 `json:"fixedWidths,omitempty"`
	ColumnsCount     *float64   `json:"columnsCount,omitempty"`
	ColumnsGap       *float64   `json:"columnsGap,omitempty"`
	ContentAlignment *string    `json:"contentAlignment,omitempty"`
	Columns          []Column   `json:"columns"`
}

// ColumnsContainerData is the payload of a ColumnsContainer block
type ColumnsContainerData struct {
	Style json.RawMessage        `json:"style,omitempty"`
	Props *ColumnsContainerProps `json:"props,omitempty"`
}

func (d *ColumnsContainerData) Clone() BlockData {
	c := &ColumnsContainerData{Style: cloneRaw(d.Style)}
	if d.Props == nil {
		return c
	}
	p := *d.Props
	if d.Props.FixedWidths != nil {
		p.FixedWidths = make([]*float64, len(d.Props.FixedWidths))
		for i, w := range d.Props.FixedWidths {
			if w != nil {
				v := *w
				p.FixedWidths[i] = &v
			}
		}
	}
	if d.Props.ColumnsCount != nil {
		v := *d.Props.ColumnsCount
		p.ColumnsCount = &v
	}
	if d.Props.ColumnsGap != nil {
		v := *d.Props.ColumnsGap
		p.ColumnsGap = &v
	}
	p.ContentAlignment = cloneString(d.Props.ContentAlignment)
	if d.Props.Columns != nil {
		p.Columns = make([]Column, len(d.Props.Columns))
		for i, col := range d.Props.Columns {
			p.Columns[i] = Column{ChildrenIds: cloneIDs(col.ChildrenIds)}
		}
	}
	c.Props = &p
	return c
}

func (d *ColumnsContainerData) ChildLists() [][]string {
	if d.Props == nil {
		return nil
	}
	lists := make([][]string, len(d.Props.Columns))
	for i, col := range d.Props.Columns {
		lists[i] = col.ChildrenIds
	}
	return lists
}

func (d *ColumnsContainerData) WithChildLists(lists [][]string) BlockData {
	c := d.Clone().(*ColumnsContainerData)
	if c.Props == nil {
		if len(lists) == 0 {
			return c
		}
		c.Props = &ColumnsContainerProps{}
	}
	c.Props.Columns = make([]Column, len(lists))
	for i, ids := range lists {
		c.Props.Columns[i] = Column{ChildrenIds: ids}
	}
	return c
}

// MarshalJSON writes the email-builder wire form {"type": ..., "data": ...}
func (b Block) MarshalJSON() ([]byte, error) {
	var data interface{} = b.Data
	if b.Data == nil {
		data = struct{}{}
	}
	return json.Marshal(struct {
		Type BlockType   `json:"type"`
		Data interface{} `json:"data"`
	}{
		Type: b.Type,
		Data: data,
	})
}

// UnmarshalJSON decodes a block, choosing the payload type from the "type" field
func (b *Block) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid block JSON")
	}
	typeResult := gjson.GetBytes(data, "type")
	if !typeResult.Exists() || typeResult.String() == "" {
		return fmt.Errorf("block type is required")
	}
	blockType := BlockType(typeResult.String())

	raw := []byte(gjson.GetBytes(data, "data").Raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	payload := newPayload(blockType)
	if err := json.Unmarshal(raw, payload); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", blockType, err)
	}

	b.Type = blockType
	b.Data = payload
	return nil
}

func newPayload(t BlockType) BlockData {
	switch t {
	case BlockTypeEmailLayout:
		return &EmailLayoutData{}
	case BlockTypeContainer:
		return &ContainerData{}
	case BlockTypeColumnsContainer:
		return &ColumnsContainerData{}
	default:
		return &LeafData{}
	}
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
