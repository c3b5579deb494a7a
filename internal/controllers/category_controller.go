package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/services"
)

// CategoryServiceAPI defines the interface for category service operations
type CategoryServiceAPI interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, req services.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id string, req services.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryController struct {
	service CategoryServiceAPI
}

func NewCategoryController(s CategoryServiceAPI) *CategoryController {
	return &CategoryController{service: s}
}

func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	category, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := idFromHeader(c, "Category")
	if !ok {
		return
	}
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := idFromHeader(c, "Category")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category Deleted"})
}
