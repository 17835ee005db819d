package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/cache"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/id"
	"github.com/reelnotes/reelnotes-server/internal/normalize"
	"github.com/reelnotes/reelnotes-server/internal/store"
	"github.com/reelnotes/reelnotes-server/internal/util"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

// Taxonomy cache keys.
const (
	TagsCacheKey       = "taxonomy:tags"
	CategoriesCacheKey = "taxonomy:categories"
)

// TaxonomyService manages the admin-curated tags and categories.
type TaxonomyService struct {
	store      store.Store
	tags       *cache.Cache[[]*domain.Tag]
	categories *cache.Cache[[]*domain.Category]
	ttl        time.Duration
	regen      Regenerator
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewTaxonomyService creates a taxonomy service whose listings are cached in backend.
func NewTaxonomyService(
	store store.Store,
	backend cache.Backend,
	ttl time.Duration,
	regen Regenerator,
	validator *validation.Validator,
	logger *slog.Logger,
	opts ...cache.Option,
) *TaxonomyService {
	opts = append([]cache.Option{cache.WithLogger(logger)}, opts...)
	return &TaxonomyService{
		store:      store,
		tags:       cache.New[[]*domain.Tag]("tags", backend, opts...),
		categories: cache.New[[]*domain.Category]("categories", backend, opts...),
		ttl:        ttl,
		regen:      regen,
		validator:  validator,
		logger:     logger,
	}
}

// CreateTermInput creates a tag or category.
type CreateTermInput struct {
	Name        string `json:"name" validate:"required,notblank,max=50"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor6"`
}

// UpdateTermInput changes a tag or category. Nil fields are left unchanged.
type UpdateTermInput struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor6"`
}

// ListTags returns every tag ordered by name.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	if tags, ok := s.tags.Get(ctx, TagsCacheKey); ok {
		return tags, nil
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, storeError(err, "tag")
	}
	if err := s.tags.Set(ctx, TagsCacheKey, tags, s.ttl); err != nil {
		s.logger.Warn("failed to cache tags", "error", err)
	}
	return tags, nil
}

// CreateTag adds a tag. A name that normalizes to an existing one is a conflict.
func (s *TaxonomyService) CreateTag(ctx context.Context, actor Actor, input CreateTermInput) (*domain.Tag, error) {
	if !actor.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	name, err := termName(input.Name)
	if err != nil {
		return nil, err
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate tag id")
	}
	now := time.Now()
	tag := &domain.Tag{
		ID:          tagID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Color:       termColor(input.Color),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, s.tagError(ctx, err, name)
	}
	s.invalidate(ctx, TagsCacheKey)

	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// UpdateTag changes a tag and regenerates every post it appears on.
func (s *TaxonomyService) UpdateTag(ctx context.Context, actor Actor, tagID string, input UpdateTermInput) (*domain.Tag, error) {
	if !actor.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, storeError(err, "tag")
	}
	if input.Name != nil {
		if tag.Name, err = termName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		tag.Description = strings.TrimSpace(*input.Description)
	}
	if input.Color != nil {
		tag.Color = termColor(*input.Color)
	}
	tag.Touch()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, s.tagError(ctx, err, tag.Name)
	}
	s.invalidate(ctx, TagsCacheKey)
	s.regeneratePairs(ctx, "tag", tag.ID, s.store.ListTagPairs)

	s.logger.Info("tag updated", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// DeleteTag removes a tag from the catalog and from every movie it was
// applied to, then regenerates the affected posts.
func (s *TaxonomyService) DeleteTag(ctx context.Context, actor Actor, tagID string) error {
	if !actor.IsAdmin {
		return domainerrors.Forbidden("admin access required")
	}

	// Pairs must be read before the cascade removes them.
	pairs, err := s.store.ListTagPairs(ctx, tagID)
	if err != nil {
		return storeError(err, "tag")
	}
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return storeError(err, "tag")
	}
	s.invalidate(ctx, TagsCacheKey)
	for _, key := range pairs {
		s.regen.Enqueue(key)
	}

	s.logger.Info("tag deleted", "id", tagID, "affected_posts", len(pairs))
	return nil
}

// TagBySlug resolves a tag-browse slug.
func (s *TaxonomyService) TagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domainerrors.Validation("tag slug is required")
	}
	tag, err := s.store.GetTagBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(err, "tag")
	}
	return tag, nil
}

// MoviesForTag returns the tag and the publicly visible posts carrying it.
func (s *TaxonomyService) MoviesForTag(ctx context.Context, slug string) (*domain.Tag, []*domain.BlogPostSummary, error) {
	tag, err := s.TagBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.store.ListPublicBlogPostsByTag(ctx, tag.ID)
	if err != nil {
		return nil, nil, storeError(err, "blog post")
	}
	return tag, posts, nil
}

// ListCategories returns every category ordered by name.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if categories, ok := s.categories.Get(ctx, CategoriesCacheKey); ok {
		return categories, nil
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, storeError(err, "category")
	}
	if err := s.categories.Set(ctx, CategoriesCacheKey, categories, s.ttl); err != nil {
		s.logger.Warn("failed to cache categories", "error", err)
	}
	return categories, nil
}

// CreateCategory adds a category. A name that normalizes to an existing one is a conflict.
func (s *TaxonomyService) CreateCategory(ctx context.Context, actor Actor, input CreateTermInput) (*domain.Category, error) {
	if !actor.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	name, err := termName(input.Name)
	if err != nil {
		return nil, err
	}

	categoryID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate category id")
	}
	now := time.Now()
	category := &domain.Category{
		ID:          categoryID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Color:       termColor(input.Color),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, termError(err, "category", name)
	}
	s.invalidate(ctx, CategoriesCacheKey)

	s.logger.Info("category created", "id", category.ID, "name", category.Name)
	return category, nil
}

// UpdateCategory changes a category and regenerates every post it appears on.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, actor Actor, categoryID string, input UpdateTermInput) (*domain.Category, error) {
	if !actor.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, storeError(err, "category")
	}
	if input.Name != nil {
		if category.Name, err = termName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}
	if input.Color != nil {
		category.Color = termColor(*input.Color)
	}
	category.Touch()

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, termError(err, "category", category.Name)
	}
	s.invalidate(ctx, CategoriesCacheKey)
	s.regeneratePairs(ctx, "category", category.ID, s.store.ListCategoryPairs)

	s.logger.Info("category updated", "id", category.ID, "name", category.Name)
	return category, nil
}

// DeleteCategory removes a category and regenerates the affected posts.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, actor Actor, categoryID string) error {
	if !actor.IsAdmin {
		return domainerrors.Forbidden("admin access required")
	}

	pairs, err := s.store.ListCategoryPairs(ctx, categoryID)
	if err != nil {
		return storeError(err, "category")
	}
	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return storeError(err, "category")
	}
	s.invalidate(ctx, CategoriesCacheKey)
	for _, key := range pairs {
		s.regen.Enqueue(key)
	}

	s.logger.Info("category deleted", "id", categoryID, "affected_posts", len(pairs))
	return nil
}

func (s *TaxonomyService) invalidate(ctx context.Context, key string) {
	invalidate := s.tags.Invalidate
	if key == CategoriesCacheKey {
		invalidate = s.categories.Invalidate
	}
	if err := invalidate(ctx, key); err != nil {
		s.logger.Warn("failed to invalidate taxonomy cache", "key", key, "error", err)
	}
}

func (s *TaxonomyService) regeneratePairs(ctx context.Context, what, termID string, list func(context.Context, string) ([]domain.PostKey, error)) {
	pairs, err := list(ctx, termID)
	if err != nil {
		s.logger.Error("failed to list pairs for regeneration", "kind", what, "id", termID, "error", err)
		return
	}
	for _, key := range pairs {
		s.regen.Enqueue(key)
	}
}

// termName normalizes a tag or category name. Names must keep at least one
// letter or digit so the browse slug is never empty.
func termName(raw string) (string, error) {
	name := normalize.Name(raw)
	if util.Slugify(name) == "" {
		return "", domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"name": "must contain a letter or digit",
		})
	}
	return name, nil
}

func termColor(c string) string {
	if c == "" {
		return domain.DefaultColor
	}
	return strings.ToLower(c)
}

// tagSlugTarget is the constraint target reported when a tag's browse slug is taken.
const tagSlugTarget = "tags.slug"

// tagError words a tag uniqueness failure. SQLite names only one of the
// violated indexes, so a slug clash is checked against the existing tag's
// name before it is reported as a slug-only conflict.
func (s *TaxonomyService) tagError(ctx context.Context, err error, name string) error {
	if domainerrors.Is(err, store.ErrAlreadyExists) && store.ConstraintTarget(err) == tagSlugTarget {
		existing, lookupErr := s.store.GetTagBySlug(ctx, util.Slugify(name))
		if lookupErr == nil && normalize.Key(existing.Name) != normalize.Key(name) {
			return domainerrors.Wrapf(err, domainerrors.CodeConflict,
				"tag %q conflicts with the browse slug of existing tag %q", name, existing.Name)
		}
	}
	return termError(err, "tag", name)
}

// termError reports a normalized-name clash as a conflict naming the clash.
func termError(err error, what, name string) error {
	if domainerrors.Is(err, store.ErrAlreadyExists) {
		return domainerrors.Wrapf(err, domainerrors.CodeConflict, "a %s named %q already exists", what, name)
	}
	return storeError(err, what)
}
