package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/spec-kit/servicedesk/internal/domain"
)

const categoryListKey = "categories:all"

// CachedCategoryRepository memoizes category reads. Categories are never
// updated or deleted, so only Create invalidates the list entry.
type CachedCategoryRepository struct {
	next  CategoryRepository
	cache *cache.Cache
}

// NewCachedCategoryRepository wraps next with a TTL cache. A non-positive ttl
// disables caching.
func NewCachedCategoryRepository(next CategoryRepository, ttl time.Duration) CategoryRepository {
	if ttl <= 0 {
		return next
	}
	return &CachedCategoryRepository{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *CachedCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := r.next.Create(ctx, category); err != nil {
		return err
	}
	r.cache.Delete(categoryListKey)
	r.cache.SetDefault(categoryKey(category.ID), *category)
	return nil
}

func (r *CachedCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if cached, found := r.cache.Get(categoryKey(id)); found {
		category := cached.(domain.Category)
		return &category, nil
	}
	category, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(categoryKey(id), *category)
	return category, nil
}

func (r *CachedCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if cached, found := r.cache.Get(categoryListKey); found {
		return append([]domain.Category(nil), cached.([]domain.Category)...), nil
	}
	categories, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(categoryListKey, append([]domain.Category(nil), categories...))
	return categories, nil
}

func categoryKey(id string) string {
	return "category:" + id
}
