package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/pkg/blocks"
	"github.com/Notifuse/blockeditor/pkg/logger"
	"github.com/Notifuse/blockeditor/pkg/tracing"
)

const editorServiceName = "EditorService"

// EditorService applies structural edits to stored documents. Every edit reads
// the current snapshot, computes the next one and swaps it in with a single
// version-guarded write.
type EditorService struct {
	repo       domain.DocumentRepository
	selections domain.SelectionStore
	mutator    *blocks.Mutator
	logger     logger.Logger
}

func NewEditorService(repo domain.DocumentRepository, selections domain.SelectionStore, mutator *blocks.Mutator, logger logger.Logger) *EditorService {
	return &EditorService{
		repo:       repo,
		selections: selections,
		mutator:    mutator,
		logger:     logger,
	}
}

func (s *EditorService) CreateDocument(ctx context.Context, doc *domain.EmailDocument) error {
	started := time.Now()
	err := tracing.TraceMethod(ctx, editorServiceName, "CreateDocument", func(ctx context.Context) error {
		tracing.AddAttribute(ctx, "document_id", doc.ID)

		tree, err := blocks.NewTree(doc.Blocks)
		if err != nil {
			return err
		}

		if err := s.repo.CreateDocument(ctx, doc); err != nil {
			if domain.IsValidationError(err) {
				return err
			}
			s.logger.WithField("document_id", doc.ID).Error(fmt.Sprintf("Failed to create document: %v", err))
			return fmt.Errorf("failed to create document: %w", err)
		}
		tracing.RecordDocumentSize(ctx, tree.Len())
		return nil
	})
	tracing.RecordOperation(ctx, "create", outcomeOf(true, err), started)
	return err
}

func (s *EditorService) GetDocument(ctx context.Context, id string) (*domain.EmailDocument, error) {
	return tracing.TraceMethodWithResult(ctx, editorServiceName, "GetDocument", func(ctx context.Context) (*domain.EmailDocument, error) {
		tracing.AddAttribute(ctx, "document_id", id)
		return s.load(ctx, id)
	})
}

func (s *EditorService) ListDocuments(ctx context.Context, req domain.ListDocumentsRequest) (*domain.ListDocumentsResponse, error) {
	return tracing.TraceMethodWithResult(ctx, editorServiceName, "ListDocuments", func(ctx context.Context) (*domain.ListDocumentsResponse, error) {
		docs, total, err := s.repo.ListDocuments(ctx, req)
		if err != nil {
			s.logger.Error(fmt.Sprintf("Failed to list documents: %v", err))
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		return &domain.ListDocumentsResponse{Documents: docs, TotalCount: total}, nil
	})
}

func (s *EditorService) DuplicateBlock(ctx context.Context, req domain.DuplicateBlockRequest) (*domain.MutationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	return s.edit(ctx, "duplicate", req.DocumentID, req.Version, func(t *blocks.Tree) (*blocks.Tree, string, error) {
		return s.mutator.Duplicate(t, req.BlockID)
	})
}

func (s *EditorService) DeleteBlock(ctx context.Context, req domain.DeleteBlockRequest) (*domain.MutationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	return s.edit(ctx, "delete", req.DocumentID, req.Version, func(t *blocks.Tree) (*blocks.Tree, string, error) {
		next, err := s.mutator.Delete(t, req.BlockID)
		return next, req.BlockID, err
	})
}

// MoveBlock swaps the block with its neighbour and focuses it for the caller,
// also when the block was already at the boundary.
func (s *EditorService) MoveBlock(ctx context.Context, req domain.MoveBlockRequest) (*domain.MutationResult, error) {
	dir, err := req.Validate()
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	result, err := s.edit(ctx, "move", req.DocumentID, req.Version, func(t *blocks.Tree) (*blocks.Tree, string, error) {
		next, err := s.mutator.Move(t, req.BlockID, dir)
		return next, req.BlockID, err
	})
	if err != nil {
		return nil, err
	}

	if userID, ok := domain.UserIDFromContext(ctx); ok {
		if err := s.selections.SetFocusedBlock(ctx, req.DocumentID, userID, req.BlockID); err != nil {
			s.logger.WithField("document_id", req.DocumentID).
				WithField("block_id", req.BlockID).
				Warn(fmt.Sprintf("Failed to focus moved block: %v", err))
		}
	}
	return result, nil
}

func (s *EditorService) InsertBlock(ctx context.Context, req domain.InsertBlockRequest) (*domain.MutationResult, error) {
	b, index, err := req.Validate()
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	return s.edit(ctx, "insert", req.DocumentID, req.Version, func(t *blocks.Tree) (*blocks.Tree, string, error) {
		return s.mutator.Insert(t, req.ParentID, req.List, index, b)
	})
}

func (s *EditorService) ValidateDocument(ctx context.Context, req domain.ValidateDocumentRequest) (*domain.ValidationReport, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	return tracing.TraceMethodWithResult(ctx, editorServiceName, "ValidateDocument", func(ctx context.Context) (*domain.ValidationReport, error) {
		doc := req.Blocks
		if doc == nil {
			tracing.AddAttribute(ctx, "document_id", req.ID)
			stored, err := s.load(ctx, req.ID)
			if err != nil {
				return nil, err
			}
			doc = stored.Blocks
		}

		report := &domain.ValidationReport{BlockCount: len(doc), Orphans: []string{}}
		tree, err := blocks.NewTree(doc)
		if err != nil {
			report.Error = err.Error()
			return report, nil
		}
		report.Valid = true
		tree.Walk(func(_ string, _ blocks.Block, depth int) bool {
			report.Reachable++
			if depth > report.MaxDepth {
				report.MaxDepth = depth
			}
			return true
		})
		if orphans := tree.Orphans(); len(orphans) > 0 {
			report.Orphans = orphans
		}
		return report, nil
	})
}

func (s *EditorService) GetSelection(ctx context.Context, documentID string) (*domain.Selection, error) {
	selection := &domain.Selection{DocumentID: documentID}
	userID, ok := domain.UserIDFromContext(ctx)
	if !ok {
		return selection, nil
	}

	blockID, found, err := s.selections.GetFocusedBlock(ctx, documentID, userID)
	if err != nil {
		s.logger.WithField("document_id", documentID).Error(fmt.Sprintf("Failed to get selection: %v", err))
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}
	if found {
		selection.BlockID = blockID
	}
	return selection, nil
}

func (s *EditorService) load(ctx context.Context, id string) (*domain.EmailDocument, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("document_id", id).Error(fmt.Sprintf("Failed to get document: %v", err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

type treeEdit func(t *blocks.Tree) (*blocks.Tree, string, error)

// edit runs one read-compute-replace cycle. A non-zero version pins the edit
// to that snapshot. When fn hands back the input tree nothing is written.
func (s *EditorService) edit(ctx context.Context, op, documentID string, version int64, fn treeEdit) (*domain.MutationResult, error) {
	started := time.Now()
	result, err := tracing.TraceMethodWithResult(ctx, editorServiceName, op, func(ctx context.Context) (*domain.MutationResult, error) {
		tracing.AddAttribute(ctx, "document_id", documentID)

		doc, err := s.load(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if version != 0 && doc.Version != version {
			return nil, &domain.ErrVersionConflict{DocumentID: documentID, Expected: version}
		}

		tree, err := blocks.NewTree(doc.Blocks)
		if err != nil {
			s.logger.WithField("document_id", documentID).Warn(fmt.Sprintf("Stored document is inconsistent: %v", err))
			return nil, err
		}

		next, blockID, err := fn(tree)
		if err != nil {
			return nil, err
		}
		tracing.AddAttribute(ctx, "block_id", blockID)
		if next == tree {
			return &domain.MutationResult{Document: doc, BlockID: blockID}, nil
		}

		expected := doc.Version
		doc.Blocks = next.Document()
		if err := s.repo.ReplaceDocument(ctx, doc, expected); err != nil {
			if domain.IsVersionConflict(err) || domain.IsNotFound(err) {
				return nil, err
			}
			s.logger.WithField("document_id", documentID).Error(fmt.Sprintf("Failed to save document: %v", err))
			return nil, fmt.Errorf("failed to save document: %w", err)
		}
		tracing.RecordDocumentSize(ctx, next.Len())

		return &domain.MutationResult{Document: doc, BlockID: blockID, Changed: true}, nil
	})
	tracing.RecordOperation(ctx, op, outcomeOf(result == nil || result.Changed, err), started)
	return result, err
}

func outcomeOf(changed bool, err error) string {
	switch {
	case err == nil && !changed:
		return tracing.OutcomeNoop
	case err == nil:
		return tracing.OutcomeOK
	case domain.IsVersionConflict(err):
		return tracing.OutcomeConflict
	case isRejection(err):
		return tracing.OutcomeRejected
	default:
		return tracing.OutcomeError
	}
}

// isRejection reports whether err is the caller's fault rather than ours
func isRejection(err error) bool {
	if domain.IsNotFound(err) || domain.IsValidationError(err) {
		return true
	}
	for _, target := range []error{
		blocks.ErrBlockNotFound,
		blocks.ErrNoParent,
		blocks.ErrRootBlock,
		blocks.ErrNotContainer,
		blocks.ErrInvalidSlot,
		blocks.ErrInvalidDirection,
		blocks.ErrInvalidDocument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
