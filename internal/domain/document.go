package domain

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/Notifuse/blockeditor/pkg/blocks"
)

//go:generate mockgen -destination mocks/mock_document_repository.go -package mocks github.com/Notifuse/blockeditor/internal/domain DocumentRepository
//go:generate mockgen -destination mocks/mock_selection_store.go -package mocks github.com/Notifuse/blockeditor/internal/domain SelectionStore
//go:generate mockgen -destination mocks/mock_editor_service.go -package mocks github.com/Notifuse/blockeditor/internal/domain EditorService

const (
	idPattern          = `^[A-Za-z0-9_-]{1,64}$`
	defaultListLimit   = 20
	maxListLimit       = 100
	maxNameLength      = 255
	maxListIDsPerQuery = 100
)

// EmailDocument is a stored block document. Version increases by one on every write.
type EmailDocument struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Blocks    blocks.Document `json:"blocks"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Clone returns a deep copy, blocks included
func (d *EmailDocument) Clone() *EmailDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.Blocks = d.Blocks.Clone()
	return &c
}

// DocumentSummary is the list view of a document
type DocumentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MutationResult is returned by every structural edit
type MutationResult struct {
	Document *EmailDocument `json:"document"`
	// BlockID is the copy for duplicate, the new block for insert, the target otherwise
	BlockID string `json:"block_id"`
	// Changed is false when the edit was a no-op and nothing was written
	Changed bool `json:"changed"`
}

// ValidationReport describes the structural health of a document
type ValidationReport struct {
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	BlockCount int      `json:"block_count"`
	Reachable  int      `json:"reachable"`
	MaxDepth   int      `json:"max_depth"`
	Orphans    []string `json:"orphans"`
}

// Selection is the focused block of a document for one user
type Selection struct {
	DocumentID string `json:"document_id"`
	BlockID    string `json:"block_id,omitempty"`
}

// ListDocumentsResponse is a page of document summaries
type ListDocumentsResponse struct {
	Documents  []*DocumentSummary `json:"documents"`
	TotalCount int                `json:"total_count"`
}

func validID(field, value, request string) error {
	if value == "" {
		return fmt.Errorf("invalid %s request: %s is required", request, field)
	}
	if !govalidator.Matches(value, idPattern) {
		return fmt.Errorf("invalid %s request: %s must be 1-64 characters of letters, digits, '-' or '_'", request, field)
	}
	return nil
}

// Request Types

// CreateDocumentRequest creates a document from a sample template or from explicit blocks
type CreateDocumentRequest struct {
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name"`
	Template string          `json:"template,omitempty"`
	Blocks   blocks.Document `json:"blocks,omitempty"`
}

// Validate validates the request and builds the document to store
func (r *CreateDocumentRequest) Validate() (*EmailDocument, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := validID("id", r.ID, "create document"); err != nil {
		return nil, err
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, fmt.Errorf("invalid create document request: name is required")
	}
	if len(r.Name) > maxNameLength {
		return nil, fmt.Errorf("invalid create document request: name length must be between 1 and %d", maxNameLength)
	}

	var doc blocks.Document
	switch {
	case r.Blocks != nil && r.Template != "":
		return nil, fmt.Errorf("invalid create document request: template and blocks are mutually exclusive")
	case r.Blocks != nil:
		doc = r.Blocks.Clone()
	default:
		name := r.Template
		if name == "" {
			name = blocks.SampleEmpty
		}
		sample, ok := blocks.SampleDocument(name)
		if !ok {
			return nil, fmt.Errorf("invalid create document request: unknown template %q", r.Template)
		}
		doc = sample
	}

	now := time.Now().UTC()
	return &EmailDocument{
		ID:        r.ID,
		Name:      r.Name,
		Blocks:    doc,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetDocumentRequest fetches one document
type GetDocumentRequest struct {
	ID string `json:"id"`
}

// FromURLParams parses the request from URL query parameters
func (r *GetDocumentRequest) FromURLParams(queryParams url.Values) error {
	r.ID = queryParams.Get("id")
	return validID("id", r.ID, "get document")
}

// ListDocumentsRequest pages through document summaries, optionally restricted to IDs
type ListDocumentsRequest struct {
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	IDs    []string `json:"ids,omitempty"`
}

// FromURLParams parses the request from URL query parameters
func (r *ListDocumentsRequest) FromURLParams(queryParams url.Values) error {
	r.Limit = defaultListLimit
	if v := queryParams.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxListLimit {
			return fmt.Errorf("invalid list documents request: limit must be between 1 and %d", maxListLimit)
		}
		r.Limit = limit
	}

	r.Offset = 0
	if v := queryParams.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return fmt.Errorf("invalid list documents request: offset must be a non-negative integer")
		}
		r.Offset = offset
	}

	r.IDs = nil
	if v := queryParams.Get("ids"); v != "" {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if err := validID("ids", id, "list documents"); err != nil {
				return err
			}
			r.IDs = append(r.IDs, id)
		}
		if len(r.IDs) > maxListIDsPerQuery {
			return fmt.Errorf("invalid list documents request: at most %d ids", maxListIDsPerQuery)
		}
	}
	return nil
}

// BlockTarget addresses one block of one document. Version, when non-zero,
// makes the edit conditional on the stored document still being at that version.
type BlockTarget struct {
	DocumentID string `json:"document_id"`
	BlockID    string `json:"block_id"`
	Version    int64  `json:"version,omitempty"`
}

func (t BlockTarget) validate(request string) error {
	if err := validID("document_id", t.DocumentID, request); err != nil {
		return err
	}
	if t.BlockID == "" {
		return fmt.Errorf("invalid %s request: block_id is required", request)
	}
	if t.Version < 0 {
		return fmt.Errorf("invalid %s request: version must not be negative", request)
	}
	return nil
}

// DuplicateBlockRequest copies a block and its subtree next to itself
type DuplicateBlockRequest struct {
	BlockTarget
}

// Validate validates the duplicate block request
func (r *DuplicateBlockRequest) Validate() error {
	return r.validate("duplicate block")
}

// DeleteBlockRequest removes a block from its parent and the document
type DeleteBlockRequest struct {
	BlockTarget
}

// Validate validates the delete block request
func (r *DeleteBlockRequest) Validate() error {
	return r.validate("delete block")
}

// MoveBlockRequest swaps a block with its neighbour
type MoveBlockRequest struct {
	BlockTarget
	Direction string `json:"direction"`
}

// Validate validates the move block request and returns the parsed direction
func (r *MoveBlockRequest) Validate() (blocks.Direction, error) {
	if err := r.validate("move block"); err != nil {
		return "", err
	}
	dir, err := blocks.ParseDirection(strings.ToLower(r.Direction))
	if err != nil {
		return "", fmt.Errorf("invalid move block request: direction must be \"up\" or \"down\"")
	}
	return dir, nil
}

// InsertBlockRequest adds a new block to a container. Either Type (a palette
// block) or Block (an explicit leaf or empty container) must be set.
type InsertBlockRequest struct {
	DocumentID string           `json:"document_id"`
	ParentID   string           `json:"parent_id"`
	List       int              `json:"list"`
	Index      *int             `json:"index,omitempty"`
	Type       blocks.BlockType `json:"type,omitempty"`
	Block      *blocks.Block    `json:"block,omitempty"`
	Version    int64            `json:"version,omitempty"`
}

// Validate validates the insert block request and returns the block to insert
// and the resolved position (-1 appends).
func (r *InsertBlockRequest) Validate() (blocks.Block, int, error) {
	if err := validID("document_id", r.DocumentID, "insert block"); err != nil {
		return blocks.Block{}, 0, err
	}
	if r.ParentID == "" {
		r.ParentID = blocks.RootID
	}
	if r.List < 0 {
		return blocks.Block{}, 0, fmt.Errorf("invalid insert block request: list must not be negative")
	}
	if r.Version < 0 {
		return blocks.Block{}, 0, fmt.Errorf("invalid insert block request: version must not be negative")
	}

	var b blocks.Block
	switch {
	case r.Type != "" && r.Block != nil:
		return blocks.Block{}, 0, fmt.Errorf("invalid insert block request: type and block are mutually exclusive")
	case r.Type != "":
		pb, err := blocks.NewBlock(r.Type)
		if err != nil {
			return blocks.Block{}, 0, fmt.Errorf("invalid insert block request: %v", err)
		}
		b = pb
	case r.Block != nil:
		b = r.Block.Clone()
	default:
		return blocks.Block{}, 0, fmt.Errorf("invalid insert block request: type or block is required")
	}
	if b.Type == blocks.BlockTypeEmailLayout {
		return blocks.Block{}, 0, fmt.Errorf("invalid insert block request: EmailLayout can only be the root")
	}

	index := -1
	if r.Index != nil {
		index = *r.Index
	}
	return b, index, nil
}

// ValidateDocumentRequest checks either a stored document (ID) or an ad-hoc one (Blocks)
type ValidateDocumentRequest struct {
	ID     string          `json:"id,omitempty"`
	Blocks blocks.Document `json:"blocks,omitempty"`
}

// FromURLParams parses the request from URL query parameters
func (r *ValidateDocumentRequest) FromURLParams(queryParams url.Values) error {
	r.ID = queryParams.Get("id")
	return r.Validate()
}

// Validate validates the validate document request
func (r *ValidateDocumentRequest) Validate() error {
	if r.ID != "" && r.Blocks != nil {
		return fmt.Errorf("invalid validate document request: id and blocks are mutually exclusive")
	}
	if r.Blocks != nil {
		return nil
	}
	return validID("id", r.ID, "validate document")
}

// GetSelectionRequest reads the focused block of a document
type GetSelectionRequest struct {
	DocumentID string `json:"document_id"`
}

// FromURLParams parses the request from URL query parameters
func (r *GetSelectionRequest) FromURLParams(queryParams url.Values) error {
	r.DocumentID = queryParams.Get("document_id")
	return validID("document_id", r.DocumentID, "get selection")
}

// DocumentStore is the get/replace pair the editor works against
type DocumentStore interface {
	// GetDocument returns the current snapshot, or *ErrNotFound
	GetDocument(ctx context.Context, id string) (*EmailDocument, error)

	// ReplaceDocument atomically swaps the stored blocks when the stored
	// version equals expectedVersion, and bumps doc.Version on success.
	// Returns *ErrVersionConflict otherwise.
	ReplaceDocument(ctx context.Context, doc *EmailDocument, expectedVersion int64) error
}

// DocumentRepository is the full persistence surface for documents
type DocumentRepository interface {
	DocumentStore

	// CreateDocument inserts a new document
	CreateDocument(ctx context.Context, doc *EmailDocument) error

	// ListDocuments returns a page of summaries and the total count
	ListDocuments(ctx context.Context, req ListDocumentsRequest) ([]*DocumentSummary, int, error)
}

// SelectionStore keeps the focused block per document and user
type SelectionStore interface {
	SetFocusedBlock(ctx context.Context, documentID, userID, blockID string) error
	GetFocusedBlock(ctx context.Context, documentID, userID string) (string, bool, error)
}

// EditorService exposes document and block operations
type EditorService interface {
	CreateDocument(ctx context.Context, doc *EmailDocument) error
	GetDocument(ctx context.Context, id string) (*EmailDocument, error)
	ListDocuments(ctx context.Context, req ListDocumentsRequest) (*ListDocumentsResponse, error)

	DuplicateBlock(ctx context.Context, req DuplicateBlockRequest) (*MutationResult, error)
	DeleteBlock(ctx context.Context, req DeleteBlockRequest) (*MutationResult, error)
	MoveBlock(ctx context.Context, req MoveBlockRequest) (*MutationResult, error)
	InsertBlock(ctx context.Context, req InsertBlockRequest) (*MutationResult, error)

	ValidateDocument(ctx context.Context, req ValidateDocumentRequest) (*ValidationReport, error)
	GetSelection(ctx context.Context, documentID string) (*Selection, error)
}
