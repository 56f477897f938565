package services

import (
	"context"

	"rental-search/pkg/cache"
	"rental-search/pkg/logger"
)

// CacheAdminService runs operator-requested bulk invalidations.
type CacheAdminService struct {
	store cache.Store
}

func NewCacheAdminService(store cache.Store) *CacheAdminService {
	return &CacheAdminService{store: store}
}

// Invalidate deletes every key matching pattern. Malformed patterns are
// rejected with cache.ErrInvalidPattern before the store is touched.
func (s *CacheAdminService) Invalidate(ctx context.Context, pattern string) (int, error) {
	n, err := s.store.ScanAndDelete(ctx, pattern)
	if err != nil {
		logger.GlobalLogger.Warnf("cache invalidation rejected: pattern=%q error=%v", pattern, err)
		return 0, err
	}
	logger.GlobalLogger.Printf("cache invalidated: pattern=%s deleted=%d", pattern, n)
	return n, nil
}
