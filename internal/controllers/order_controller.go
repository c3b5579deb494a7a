package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/catalog-service/internal/auth"
	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/services"
)

type OrderServiceAPI interface {
	Create(ctx context.Context, principal auth.Principal, req services.CreateOrderRequest) (*models.OrderDetail, error)
	List(ctx context.Context) ([]models.OrderDetail, error)
	Get(ctx context.Context, id string) (*models.OrderDetail, error)
	UpdateStatus(ctx context.Context, id string, req services.UpdateOrderStatusRequest) (*models.OrderDetail, error)
	Delete(ctx context.Context, id string) error
	TotalSales(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int64, error)
	UserOrders(ctx context.Context, userID string) ([]models.OrderDetail, error)
}

type OrderController struct {
	service OrderServiceAPI
}

func NewOrderController(s OrderServiceAPI) *OrderController {
	return &OrderController{service: s}
}

// CreateOrder handles order creation requests
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		fail(c, apperrors.ErrTokenNotFound)
		return
	}
	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := ctrl.service.Create(c.Request.Context(), principal, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders returns every order, newest first.
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	orders, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ctrl *OrderController) GetOrder(c *gin.Context) {
	order, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := ctrl.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	if err := ctrl.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func (ctrl *OrderController) GetTotalSales(c *gin.Context) {
	total, err := ctrl.service.TotalSales(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalSales": total})
}

func (ctrl *OrderController) GetOrderCount(c *gin.Context) {
	n, err := ctrl.service.Count(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderCount": n})
}

func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	orders, err := ctrl.service.UserOrders(c.Request.Context(), c.Param("userid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
