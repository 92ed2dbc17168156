package repository

import (
	"context"
	"time"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/pkg/cache"
)

type selectionStore struct {
	cache cache.Cache[string]
	ttl   time.Duration
}

// NewSelectionStore keeps focused blocks in memory for ttl after the last change
func NewSelectionStore(c cache.Cache[string], ttl time.Duration) domain.SelectionStore {
	return &selectionStore{cache: c, ttl: ttl}
}

func selectionKey(documentID, userID string) string {
	return documentID + "/" + userID
}

func (s *selectionStore) SetFocusedBlock(_ context.Context, documentID, userID, blockID string) error {
	if blockID == "" {
		s.cache.Delete(selectionKey(documentID, userID))
		return nil
	}
	s.cache.Set(selectionKey(documentID, userID), blockID, s.ttl)
	return nil
}

func (s *selectionStore) GetFocusedBlock(_ context.Context, documentID, userID string) (string, bool, error) {
	blockID, ok := s.cache.Get(selectionKey(documentID, userID))
	return blockID, ok, nil
}
