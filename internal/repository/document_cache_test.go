package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/internal/domain/mocks"
	"github.com/Notifuse/blockeditor/pkg/blocks"
	"github.com/Notifuse/blockeditor/pkg/cache"
	"github.com/Notifuse/blockeditor/pkg/logger"
)

func setupCachedRepository(t *testing.T) (*mocks.MockDocumentRepository, domain.DocumentRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	next := mocks.NewMockDocumentRepository(ctrl)
	c := cache.NewTTLCache[*domain.EmailDocument](0)
	t.Cleanup(c.Stop)

	return next, NewCachedDocumentRepository(next, c, time.Minute, logger.NewTestLogger(t))
}

func TestCachedDocumentRepository_GetDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		stored := &domain.EmailDocument{ID: "doc-1", Blocks: blocks.WelcomeDocument(), Version: 2}
		next.EXPECT().GetDocument(gomock.Any(), "doc-1").Return(stored, nil).Times(1)

		first, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		second, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)

		assert.Equal(t, int64(2), second.Version)
		assert.NotSame(t, first, second)
	})

	t.Run("callers cannot corrupt the cached copy", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		next.EXPECT().GetDocument(gomock.Any(), "doc-1").
			Return(&domain.EmailDocument{ID: "doc-1", Blocks: blocks.WelcomeDocument()}, nil)

		doc, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		delete(doc.Blocks, "welcome-heading")

		again, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Contains(t, again.Blocks, "welcome-heading")
	})

	t.Run("errors are not cached", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		notFound := &domain.ErrNotFound{Entity: "document", ID: "ghost"}
		next.EXPECT().GetDocument(gomock.Any(), "ghost").Return(nil, notFound).Times(2)

		_, err := repo.GetDocument(ctx, "ghost")
		assert.True(t, domain.IsNotFound(err))
		_, err = repo.GetDocument(ctx, "ghost")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("concurrent misses share one read", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		release := make(chan struct{})
		next.EXPECT().GetDocument(gomock.Any(), "doc-1").
			DoAndReturn(func(context.Context, string) (*domain.EmailDocument, error) {
				<-release
				return &domain.EmailDocument{ID: "doc-1", Blocks: blocks.EmptyDocument()}, nil
			}).
			MinTimes(1).MaxTimes(2)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				doc, err := repo.GetDocument(ctx, "doc-1")
				assert.NoError(t, err)
				assert.Equal(t, "doc-1", doc.ID)
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()
	})
}

func TestCachedDocumentRepository_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("create primes the cache", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		doc := &domain.EmailDocument{ID: "doc-1", Blocks: blocks.EmptyDocument(), Version: 1}
		next.EXPECT().CreateDocument(gomock.Any(), doc).Return(nil)

		require.NoError(t, repo.CreateDocument(ctx, doc))

		got, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("replace refreshes the cache", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		next.EXPECT().GetDocument(gomock.Any(), "doc-1").
			Return(&domain.EmailDocument{ID: "doc-1", Blocks: blocks.EmptyDocument(), Version: 1}, nil)
		next.EXPECT().ReplaceDocument(gomock.Any(), gomock.Any(), int64(1)).
			DoAndReturn(func(_ context.Context, doc *domain.EmailDocument, _ int64) error {
				doc.Version = 2
				return nil
			})

		doc, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceDocument(ctx, doc, 1))

		got, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("conflict evicts the entry", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		gomock.InOrder(
			next.EXPECT().GetDocument(gomock.Any(), "doc-1").
				Return(&domain.EmailDocument{ID: "doc-1", Blocks: blocks.EmptyDocument(), Version: 1}, nil),
			next.EXPECT().ReplaceDocument(gomock.Any(), gomock.Any(), int64(1)).
				Return(&domain.ErrVersionConflict{DocumentID: "doc-1", Expected: 1}),
			next.EXPECT().GetDocument(gomock.Any(), "doc-1").
				Return(&domain.EmailDocument{ID: "doc-1", Blocks: blocks.EmptyDocument(), Version: 3}, nil),
		)

		doc, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		err = repo.ReplaceDocument(ctx, doc, 1)
		assert.True(t, domain.IsVersionConflict(err))

		got, err := repo.GetDocument(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Version)
	})

	t.Run("list passes through", func(t *testing.T) {
		next, repo := setupCachedRepository(t)
		req := domain.ListDocumentsRequest{Limit: 10}
		next.EXPECT().ListDocuments(gomock.Any(), req).
			Return([]*domain.DocumentSummary{{ID: "a"}}, 1, nil)

		docs, total, err := repo.ListDocuments(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, docs, 1)
	})
}

func TestSelectionStore(t *testing.T) {
	ctx := context.Background()
	c := cache.NewTTLCache[string](0)
	defer c.Stop()
	store := NewSelectionStore(c, time.Minute)

	_, ok, err := store.GetFocusedBlock(ctx, "doc", "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetFocusedBlock(ctx, "doc", "alice", "b1"))
	require.NoError(t, store.SetFocusedBlock(ctx, "doc", "bob", "b2"))

	id, ok, err := store.GetFocusedBlock(ctx, "doc", "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b1", id)

	id, _, _ = store.GetFocusedBlock(ctx, "doc", "bob")
	assert.Equal(t, "b2", id)

	require.NoError(t, store.SetFocusedBlock(ctx, "doc", "alice", ""))
	_, ok, _ = store.GetFocusedBlock(ctx, "doc", "alice")
	assert.False(t, ok)
}
