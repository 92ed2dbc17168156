package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"go.opencensus.io/trace"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/pkg/blocks"
	"github.com/Notifuse/blockeditor/pkg/tracing"
)

const (
	uniqueViolation  = "23505"
	documentSpanName = "DocumentRepository"
)

type documentRepository struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

// NewDocumentRepository creates a new PostgreSQL document repository
func NewDocumentRepository(db *sql.DB) domain.DocumentRepository {
	return &documentRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *documentRepository) CreateDocument(ctx context.Context, doc *domain.EmailDocument) error {
	ctx, span := tracing.StartSpanWithAttributes(ctx, documentSpanName+".CreateDocument",
		trace.StringAttribute("document_id", doc.ID),
		trace.Int64Attribute("block_count", int64(len(doc.Blocks))))
	defer tracing.EndSpan(span, nil)

	raw, err := json.Marshal(doc.Blocks)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return fmt.Errorf("failed to encode blocks: %w", err)
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Version == 0 {
		doc.Version = 1
	}

	query := `
		INSERT INTO email_documents (id, name, blocks, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, query,
		doc.ID,
		doc.Name,
		raw,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.NewValidationError(fmt.Sprintf("document %s already exists", doc.ID))
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) GetDocument(ctx context.Context, id string) (*domain.EmailDocument, error) {
	ctx, span := tracing.StartSpanWithAttributes(ctx, documentSpanName+".GetDocument",
		trace.StringAttribute("document_id", id))
	defer tracing.EndSpan(span, nil)

	query := `
		SELECT id, name, blocks, version, created_at, updated_at
		FROM email_documents
		WHERE id = $1
	`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "document", ID: id}
	}
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) ReplaceDocument(ctx context.Context, doc *domain.EmailDocument, expectedVersion int64) error {
	ctx, span := tracing.StartSpanWithAttributes(ctx, documentSpanName+".ReplaceDocument",
		trace.StringAttribute("document_id", doc.ID),
		trace.Int64Attribute("expected_version", expectedVersion))
	defer tracing.EndSpan(span, nil)

	raw, err := json.Marshal(doc.Blocks)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return fmt.Errorf("failed to encode blocks: %w", err)
	}
	now := time.Now().UTC()

	query, args, err := r.psql.Update("email_documents").
		Set("blocks", raw).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", now).
		Where(sq.Eq{"id": doc.ID}).
		Where(sq.Eq{"version": expectedVersion}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	var version int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&version)
	if err == sql.ErrNoRows {
		// either the row is gone or someone else wrote first
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM email_documents WHERE id = $1)`, doc.ID,
		).Scan(&exists); err != nil {
			tracing.MarkSpanError(ctx, err)
			return fmt.Errorf("failed to check document existence: %w", err)
		}
		if !exists {
			return &domain.ErrNotFound{Entity: "document", ID: doc.ID}
		}
		conflict := &domain.ErrVersionConflict{DocumentID: doc.ID, Expected: expectedVersion}
		tracing.MarkSpanError(ctx, conflict)
		return conflict
	}
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return fmt.Errorf("failed to replace document: %w", err)
	}

	doc.Version = version
	doc.UpdatedAt = now
	return nil
}

func (r *documentRepository) ListDocuments(ctx context.Context, req domain.ListDocumentsRequest) ([]*domain.DocumentSummary, int, error) {
	ctx, span := tracing.StartSpanWithAttributes(ctx, documentSpanName+".ListDocuments",
		trace.Int64Attribute("limit", int64(req.Limit)),
		trace.Int64Attribute("offset", int64(req.Offset)))
	defer tracing.EndSpan(span, nil)

	countBuilder := r.psql.Select("COUNT(*)").From("email_documents")
	selectBuilder := r.psql.Select("id", "name", "version", "created_at", "updated_at").
		From("email_documents").
		OrderBy("updated_at DESC", "id").
		Limit(uint64(req.Limit)).
		Offset(uint64(req.Offset))

	if len(req.IDs) > 0 {
		filter := sq.Expr("id = ANY(?)", pq.Array(req.IDs))
		countBuilder = countBuilder.Where(filter)
		selectBuilder = selectBuilder.Where(filter)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.DocumentSummary{}
	for rows.Next() {
		var s domain.DocumentSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating document rows: %w", err)
	}

	return summaries, total, nil
}

// scanDocument scans a document from a database row
func scanDocument(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.EmailDocument, error) {
	var (
		doc domain.EmailDocument
		raw []byte
	)
	err := scanner.Scan(
		&doc.ID,
		&doc.Name,
		&raw,
		&doc.Version,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Blocks, err = blocks.ParseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	return &doc, nil
}
