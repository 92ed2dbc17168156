package blocks

import "errors"

var (
	// ErrBlockNotFound is returned when the target id is not a key of the document
	ErrBlockNotFound = errors.New("block not found")
	// ErrNoParent is returned when the target id is not referenced by any child list (root or orphan)
	ErrNoParent = errors.New("block has no parent")
	// ErrRootBlock is returned for operations the layout root cannot take part in
	ErrRootBlock = errors.New("operation not allowed on the root block")
	// ErrNotContainer is returned when a child list is requested from a leaf block
	ErrNotContainer = errors.New("block does not carry children")
	// ErrInvalidSlot is returned when a child list index is out of range
	ErrInvalidSlot = errors.New("invalid child list")
	// ErrInvalidDirection is returned for a move direction other than up or down
	ErrInvalidDirection = errors.New("invalid move direction")
	// ErrInvalidDocument wraps every structural invariant violation
	ErrInvalidDocument = errors.New("invalid document")
)
