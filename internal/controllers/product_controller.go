package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/services"
	"github.com/yashrajoria/catalog-service/internal/storage"
)

const (
	imageField   = "image"
	galleryField = "images"
)

// ProductServiceAPI defines the interface for product service operations
type ProductServiceAPI interface {
	List(ctx context.Context) ([]models.ProductDetail, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.ProductDetail, error)
	Get(ctx context.Context, id string) (*models.ProductDetail, error)
	Count(ctx context.Context) (int64, error)
	Featured(ctx context.Context, n int) ([]models.ProductDetail, error)
	Filter(ctx context.Context, req services.FilterProductsRequest) ([]models.ProductDetail, error)
	Create(ctx context.Context, req services.CreateProductRequest, image *storage.Upload, gallery []storage.Upload, baseURL string) (*models.ProductDetail, error)
	Update(ctx context.Context, id string, req services.UpdateProductRequest, image *storage.Upload, baseURL string) (*models.ProductDetail, error)
	UpdateGallery(ctx context.Context, id string, gallery []storage.Upload, baseURL string) (*models.ProductDetail, error)
	Delete(ctx context.Context, id string) error
}

type ProductController struct {
	service ProductServiceAPI
}

func NewProductController(s ProductServiceAPI) *ProductController {
	return &ProductController{service: s}
}

// GetProducts lists products. ?id returns one product and ?categoryid one
// category's products.
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()
	if id := c.Query("id"); id != "" {
		product, err := ctrl.service.Get(ctx, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
		return
	}

	var (
		products []models.ProductDetail
		err      error
	)
	if categoryID := c.Query("categoryid"); categoryID != "" {
		products, err = ctrl.service.ListByCategory(ctx, categoryID)
	} else {
		products, err = ctrl.service.List(ctx)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctrl *ProductController) GetProductCount(c *gin.Context) {
	n, err := ctrl.service.Count(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productCount": n})
}

func (ctrl *ProductController) GetFeatured(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("count"))
	if err != nil {
		fail(c, apperrors.WithMessage(apperrors.ErrValidation, "count must be an integer"))
		return
	}
	products, err := ctrl.service.Featured(c.Request.Context(), n)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// FilterProducts narrows the listing by ?categories=a,b&featured&minPrice&maxPrice.
func (ctrl *ProductController) FilterProducts(c *gin.Context) {
	req, err := parseFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	products, err := ctrl.service.Filter(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, apperrors.Wrap(ErrInvalidBody, err))
		return
	}

	image, closeImage, err := singleUpload(c, imageField)
	defer closeImage()
	if err != nil {
		fail(c, err)
		return
	}
	gallery, closeGallery, err := galleryUploads(c, galleryField)
	defer closeGallery()
	if err != nil {
		fail(c, err)
		return
	}

	product, err := ctrl.service.Create(c.Request.Context(), req, image, gallery, baseURL(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := idFromHeader(c, "Product")
	if !ok {
		return
	}
	var req services.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, apperrors.Wrap(ErrInvalidBody, err))
		return
	}

	image, closeImage, err := singleUpload(c, imageField)
	defer closeImage()
	if err != nil {
		fail(c, err)
		return
	}

	product, err := ctrl.service.Update(c.Request.Context(), id, req, image, baseURL(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *ProductController) UpdateGallery(c *gin.Context) {
	gallery, closeGallery, err := galleryUploads(c, galleryField)
	defer closeGallery()
	if err != nil {
		fail(c, err)
		return
	}
	product, err := ctrl.service.UpdateGallery(c.Request.Context(), c.Param("id"), gallery, baseURL(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := idFromHeader(c, "Product")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product Deleted"})
}

func parseFilter(c *gin.Context) (services.FilterProductsRequest, error) {
	var req services.FilterProductsRequest
	if raw := c.Query("categories"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.Categories = append(req.Categories, id)
			}
		}
	}
	if raw := c.Query("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return req, apperrors.WithMessage(apperrors.ErrValidation, "featured must be true or false")
		}
		req.Featured = &b
	}
	var err error
	if req.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return req, err
	}
	if req.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return req, err
	}
	return req, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, key+" must be a number")
	}
	return &v, nil
}
