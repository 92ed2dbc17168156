package repository

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/pkg/cache"
	"github.com/Notifuse/blockeditor/pkg/logger"
)

// cachedDocumentRepository keeps recently read snapshots in memory.
// Concurrent misses for the same id share one database read.
type cachedDocumentRepository struct {
	next   domain.DocumentRepository
	cache  cache.Cache[*domain.EmailDocument]
	ttl    time.Duration
	group  singleflight.Group
	logger logger.Logger
}

// NewCachedDocumentRepository wraps next with a snapshot cache. Callers always
// receive their own copy of a cached document.
func NewCachedDocumentRepository(next domain.DocumentRepository, c cache.Cache[*domain.EmailDocument], ttl time.Duration, log logger.Logger) domain.DocumentRepository {
	return &cachedDocumentRepository{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: log,
	}
}

func (r *cachedDocumentRepository) CreateDocument(ctx context.Context, doc *domain.EmailDocument) error {
	if err := r.next.CreateDocument(ctx, doc); err != nil {
		return err
	}
	r.cache.Set(doc.ID, doc.Clone(), r.ttl)
	return nil
}

func (r *cachedDocumentRepository) GetDocument(ctx context.Context, id string) (*domain.EmailDocument, error) {
	if doc, ok := r.cache.Get(id); ok {
		return doc.Clone(), nil
	}

	v, err, shared := r.group.Do(id, func() (interface{}, error) {
		doc, err := r.next.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		r.cache.Set(id, doc, r.ttl)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.WithField("document_id", id).Debug("Shared document read")
	}
	return v.(*domain.EmailDocument).Clone(), nil
}

func (r *cachedDocumentRepository) ReplaceDocument(ctx context.Context, doc *domain.EmailDocument, expectedVersion int64) error {
	if err := r.next.ReplaceDocument(ctx, doc, expectedVersion); err != nil {
		// whatever we hold is at best stale now
		r.cache.Delete(doc.ID)
		return err
	}
	r.cache.Set(doc.ID, doc.Clone(), r.ttl)
	return nil
}

func (r *cachedDocumentRepository) ListDocuments(ctx context.Context, req domain.ListDocumentsRequest) ([]*domain.DocumentSummary, int, error) {
	return r.next.ListDocuments(ctx, req)
}
