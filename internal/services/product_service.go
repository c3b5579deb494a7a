package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/yashrajoria/catalog-service/internal/cache"
	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/repository"
	"github.com/yashrajoria/catalog-service/internal/storage"
)

var (
	ErrProductNotFound      = apperrors.WithMessage(apperrors.ErrNotFound, "Product not found")
	ErrNoCategoryProducts   = apperrors.WithMessage(apperrors.ErrNotFound, "No products found for the given category")
	ErrInvalidCategory      = apperrors.WithMessage(apperrors.ErrValidation, "Invalid Category")
	ErrImageRequired        = apperrors.WithMessage(apperrors.ErrValidation, "No image provided")
	ErrGalleryImageRequired = apperrors.WithMessage(apperrors.ErrValidation, "No images provided")
)

type ProductService struct {
	products   repository.ProductRepo
	categories repository.CategoryRepo
	images     storage.ImageStore
	cache      *cache.ProductCache
	now        func() time.Time
}

func NewProductService(products repository.ProductRepo, categories repository.CategoryRepo, images storage.ImageStore, pc *cache.ProductCache) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		images:     images,
		cache:      pc,
		now:        time.Now,
	}
}

// List returns every product with its category expanded.
func (s *ProductService) List(ctx context.Context) ([]models.ProductDetail, error) {
	return s.cachedFind(ctx, "all", repository.ProductFilter{})
}

// ListByCategory returns the products of one category. An empty result is a
// not-found.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID string) ([]models.ProductDetail, error) {
	oid, err := parseID(categoryID, ErrNoCategoryProducts)
	if err != nil {
		return nil, err
	}
	details, err := s.cachedFind(ctx, "category:"+oid.Hex(), repository.ProductFilter{Categories: []primitive.ObjectID{oid}})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNoCategoryProducts
	}
	return details, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.ProductDetail, error) {
	oid, err := parseID(id, ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	details, err := s.expand(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	var n int64
	if s.cache.Get(ctx, "count", &n) {
		return n, nil
	}
	n, err := s.products.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.cache.Set(ctx, "count", n)
	return n, nil
}

// Featured returns up to n featured products. n <= 0 means no limit.
func (s *ProductService) Featured(ctx context.Context, n int) ([]models.ProductDetail, error) {
	featured := true
	filter := repository.ProductFilter{Featured: &featured}
	if n > 0 {
		filter.Limit = int64(n)
	}
	return s.cachedFind(ctx, "featured:"+strconv.Itoa(n), filter)
}

func (s *ProductService) Filter(ctx context.Context, req FilterProductsRequest) ([]models.ProductDetail, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	filter := repository.ProductFilter{
		Featured: req.Featured,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}
	for _, c := range req.Categories {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(c))
		if err != nil {
			return nil, ErrInvalidCategory
		}
		filter.Categories = append(filter.Categories, oid)
	}
	return s.cachedFind(ctx, filterKey(filter), filter)
}

// Create validates the form, checks the category resolves, stores the
// primary image and gallery, and persists the product.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, image *storage.Upload, gallery []storage.Upload, baseURL string) (*models.ProductDetail, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrImageRequired
	}

	imageURL, err := s.images.Save(ctx, *image, baseURL)
	if err != nil {
		return nil, err
	}
	galleryURLs, err := s.saveAll(ctx, gallery, baseURL)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           imageURL,
		Images:          galleryURLs,
		Brand:           req.Brand,
		Price:           req.Price,
		Category:        category.ID,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
		DateCreated:     s.now().UTC(),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	zap.L().Info("product created", zap.String("product_id", product.ID.Hex()))
	return &models.ProductDetail{Product: *product, Category: category}, nil
}

// Update applies a partial update. The category is re-checked only when
// supplied; a new image replaces the stored URL.
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest, image *storage.Upload, baseURL string) (*models.ProductDetail, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	oid, err := parseID(id, ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	var category *models.Category
	if req.Category != nil {
		if category, err = s.resolveCategory(ctx, *req.Category); err != nil {
			return nil, err
		}
	}

	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	setString(&product.Name, req.Name)
	setString(&product.Description, req.Description)
	setString(&product.RichDescription, req.RichDescription)
	setString(&product.Brand, req.Brand)
	setString(&product.Image, req.Image)
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.NumReviews != nil {
		product.NumReviews = *req.NumReviews
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if category != nil {
		product.Category = category.ID
	}
	if image != nil {
		if product.Image, err = s.images.Save(ctx, *image, baseURL); err != nil {
			return nil, err
		}
	}

	if err := s.products.Update(ctx, product); err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx)

	details, err := s.expand(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// UpdateGallery replaces the product's additional images.
func (s *ProductService) UpdateGallery(ctx context.Context, id string, gallery []storage.Upload, baseURL string) (*models.ProductDetail, error) {
	oid, err := parseID(id, ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	if len(gallery) == 0 {
		return nil, ErrGalleryImageRequired
	}
	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.Images, err = s.saveAll(ctx, gallery, baseURL); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	details, err := s.expand(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, ErrProductNotFound)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, oid); err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *ProductService) resolveCategory(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidCategory
	}
	category, err := s.categories.FindByID(ctx, oid)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCategory
		}
		return nil, err
	}
	return category, nil
}

func (s *ProductService) saveAll(ctx context.Context, uploads []storage.Upload, baseURL string) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		url, err := s.images.Save(ctx, up, baseURL)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *ProductService) cachedFind(ctx context.Context, key string, filter repository.ProductFilter) ([]models.ProductDetail, error) {
	var details []models.ProductDetail
	if s.cache.Get(ctx, key, &details) {
		return details, nil
	}

	products, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	details, err = s.expand(ctx, products)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, details)
	return details, nil
}

// expand attaches each product's category. A dangling category reference
// expands to nil.
func (s *ProductService) expand(ctx context.Context, products []models.Product) ([]models.ProductDetail, error) {
	resolved := make(map[primitive.ObjectID]*models.Category)
	details := make([]models.ProductDetail, 0, len(products))
	for _, p := range products {
		category, seen := resolved[p.Category]
		if !seen {
			c, err := s.categories.FindByID(ctx, p.Category)
			switch {
			case err == nil:
				category = c
			case apperrors.IsKind(err, apperrors.ErrNotFound):
			default:
				return nil, err
			}
			resolved[p.Category] = category
		}
		details = append(details, models.ProductDetail{Product: p, Category: category})
	}
	return details, nil
}

func filterKey(f repository.ProductFilter) string {
	cats := make([]string, 0, len(f.Categories))
	for _, c := range f.Categories {
		cats = append(cats, c.Hex())
	}
	sort.Strings(cats)
	return fmt.Sprintf("filter:c:%s:f:%s:min:%s:max:%s",
		strings.Join(cats, ","), formatBool(f.Featured), formatFloat(f.MinPrice), formatFloat(f.MaxPrice))
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
