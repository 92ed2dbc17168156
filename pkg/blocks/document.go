package blocks

import (
	"encoding/json"
	"fmt"
)

// RootID is the key of the unique EmailLayout entry point of every document
const RootID = "root"

// Document is the flat id -> Block mapping of one email layout.
// Parent/child edges live only in the containers' child lists.
type Document map[string]Block

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for id, b := range d {
		out[id] = b.Clone()
	}
	return out
}

// ParseDocument decodes the persisted JSON form of a document
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}
