package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spazahub/spaza_api/internal/models"
)

// CatalogCache caches product search results so repeated storefront queries
// do not hit PostgreSQL on every keystroke. Entries are short-lived and
// invalidated per-branch when a merchant changes prices or availability.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// cachedSearch is the serialized form of one search page.
type cachedSearch struct {
	Items    []models.BranchProduct `json:"items"`
	Total    int                    `json:"total"`
	CachedAt time.Time              `json:"cachedAt"`
}

// NewCatalogCache creates a CatalogCache with the given entry TTL.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

func (c *CatalogCache) searchKey(query string, branchID, page, limit int) string {
	return fmt.Sprintf("catalog:search:%d:%s:%d:%d", branchID, query, page, limit)
}

func (c *CatalogCache) branchSetKey(branchID int) string {
	return fmt.Sprintf("catalog:branch:%d:keys", branchID)
}

// GetSearch returns a cached search page, or (nil, 0, false) on miss.
func (c *CatalogCache) GetSearch(ctx context.Context, query string, branchID, page, limit int) ([]models.BranchProduct, int, bool) {
	raw, err := c.redis.Get(ctx, c.searchKey(query, branchID, page, limit))
	if err != nil {
		return nil, 0, false
	}
	var entry cachedSearch
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, 0, false
	}
	return entry.Items, entry.Total, true
}

// SetSearch stores a search page and indexes its key under the branch set so
// InvalidateBranch can drop it later. Branch id 0 indexes global searches.
func (c *CatalogCache) SetSearch(ctx context.Context, query string, branchID, page, limit int, items []models.BranchProduct, total int) error {
	entry := cachedSearch{Items: items, Total: total, CachedAt: time.Now()}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal search cache entry: %w", err)
	}
	key := c.searchKey(query, branchID, page, limit)
	if err := c.redis.Set(ctx, key, string(raw), c.ttl); err != nil {
		return err
	}
	return c.redis.SAdd(ctx, c.branchSetKey(branchID), key, c.ttl)
}

// InvalidateBranch drops all cached search pages for a branch, plus the
// global search pages which may include its products.
func (c *CatalogCache) InvalidateBranch(ctx context.Context, branchID int) error {
	for _, setKey := range []string{c.branchSetKey(branchID), c.branchSetKey(0)} {
		keys, err := c.redis.SMembers(ctx, setKey)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.redis.Delete(ctx, keys...); err != nil {
				return err
			}
		}
		if err := c.redis.Delete(ctx, setKey); err != nil {
			return err
		}
	}
	return nil
}
