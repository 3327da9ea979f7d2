// Package registry holds the expense category taxonomy in memory.
//
// The taxonomy is reference data: it is loaded from the database once at
// startup, reloaded after seeding and only read afterwards.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/budgetbook/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Registry is a read-only cache of main categories and subcategories.
// The zero value is not usable, use New.
type Registry struct {
	db *gorm.DB

	mu            sync.RWMutex
	loaded        bool
	categories    []models.MainCategory
	subcategories []models.Subcategory
	byID          map[uuid.UUID]models.MainCategory
	subByID       map[uuid.UUID]models.Subcategory
	subByMain     map[uuid.UUID][]models.Subcategory
}

// New returns an empty registry reading from db.
func New(db *gorm.DB) *Registry {
	return &Registry{
		db:        db,
		byID:      map[uuid.UUID]models.MainCategory{},
		subByID:   map[uuid.UUID]models.Subcategory{},
		subByMain: map[uuid.UUID][]models.Subcategory{},
	}
}

// Load fetches main categories and subcategories concurrently and
// replaces the cached taxonomy. If either fetch fails, the previously
// loaded taxonomy is kept.
func (r *Registry) Load(ctx context.Context) error {
	var categories []models.MainCategory
	var subcategories []models.Subcategory

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Order("name ASC").Find(&categories).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Order("name ASC").Find(&subcategories).Error
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("loading expense categories failed")
		return models.WrapOperation("failed to load expense categories", err)
	}

	r.replace(categories, subcategories)
	log.Debug().Int("categories", len(categories)).Int("subcategories", len(subcategories)).Msg("registry loaded")

	return nil
}

func (r *Registry) replace(categories []models.MainCategory, subcategories []models.Subcategory) {
	byID := make(map[uuid.UUID]models.MainCategory, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	subByID := make(map[uuid.UUID]models.Subcategory, len(subcategories))
	subByMain := make(map[uuid.UUID][]models.Subcategory, len(categories))
	for _, s := range subcategories {
		subByID[s.ID] = s
		subByMain[s.MainCategoryID] = append(subByMain[s.MainCategoryID], s)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories = categories
	r.subcategories = subcategories
	r.byID = byID
	r.subByID = subByID
	r.subByMain = subByMain
	r.loaded = true
}

// Loaded reports whether a load has completed successfully.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// MainCategories returns all main categories ordered by name.
func (r *Registry) MainCategories() []models.MainCategory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.categories)
}

// Subcategories returns all subcategories ordered by name.
func (r *Registry) Subcategories() []models.Subcategory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.subcategories)
}

// MainCategory returns the main category with the given ID.
func (r *Registry) MainCategory(id uuid.UUID) (models.MainCategory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// SubcategoriesByMainID returns the subcategories of a main category
// ordered by name.
func (r *Registry) SubcategoriesByMainID(id uuid.UUID) []models.Subcategory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.subByMain[id])
}

// SubcategoryByID returns the subcategory with the given ID.
func (r *Registry) SubcategoryByID(id uuid.UUID) (models.Subcategory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subByID[id]
	return s, ok
}

// Resolve checks that the category exists and, if set, that the
// subcategory belongs to it.
func (r *Registry) Resolve(categoryID uuid.UUID, subcategoryID *uuid.UUID) error {
	if _, ok := r.MainCategory(categoryID); !ok {
		return fmt.Errorf("%w main category matching your query", models.ErrResourceNotFound)
	}

	if subcategoryID == nil || *subcategoryID == uuid.Nil {
		return nil
	}

	sub, ok := r.SubcategoryByID(*subcategoryID)
	if !ok {
		return fmt.Errorf("%w subcategory matching your query", models.ErrResourceNotFound)
	}

	if sub.MainCategoryID != categoryID {
		return models.ErrSubcategoryMismatch
	}

	return nil
}

// Pairs returns every (category, subcategory) combination a month of
// budget allocations needs: one row per main category without a
// subcategory and one per subcategory.
func (r *Registry) Pairs() []Pair {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := make([]Pair, 0, len(r.categories)+len(r.subcategories))
	for _, c := range r.categories {
		pairs = append(pairs, Pair{CategoryID: c.ID})
		for _, s := range r.subByMain[c.ID] {
			id := s.ID
			pairs = append(pairs, Pair{CategoryID: c.ID, SubcategoryID: &id})
		}
	}

	return pairs
}

// Pair identifies a category or one of its subcategories.
type Pair struct {
	CategoryID    uuid.UUID
	SubcategoryID *uuid.UUID
}

// Key returns a comparable representation of the pair.
func (p Pair) Key() string {
	return p.CategoryID.String() + "/" + models.SubcategoryKeyOf(p.SubcategoryID)
}
