package services

import (
	"context"
	"strings"

	"github.com/yashrajoria/catalog-service/internal/cache"
	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/repository"
)

var ErrCategoryNotFound = apperrors.WithMessage(apperrors.ErrNotFound, "The category with the given ID was not found")

type CategoryService struct {
	repo  repository.CategoryRepo
	cache *cache.ProductCache
}

// NewCategoryService returns the category service. Product listings embed
// their category, so category writes invalidate pc.
func NewCategoryService(repo repository.CategoryRepo, pc *cache.ProductCache) *CategoryService {
	return &CategoryService{repo: repo, cache: pc}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	oid, err := parseID(id, ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.FindByID(ctx, oid)
	if apperrors.IsKind(err, apperrors.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	return category, err
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	category := &models.Category{Name: req.Name, Icon: req.Icon, Color: req.Color}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	oid, err := parseID(id, ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}

	category := &models.Category{ID: oid, Name: req.Name, Icon: req.Icon, Color: req.Color}
	if err := s.repo.Update(ctx, category); err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return category, nil
}

// Delete removes the category. Products that reference it keep the dangling
// reference.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, ErrCategoryNotFound)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}
