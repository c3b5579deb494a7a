package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/services"
)

// UserServiceAPI defines the account operations the controller needs.
type UserServiceAPI interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.LoginResponse, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, req services.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type UserController struct {
	service UserServiceAPI
}

func NewUserController(s UserServiceAPI) *UserController {
	return &UserController{service: s}
}

func (ctrl *UserController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (ctrl *UserController) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *UserController) GetUsers(c *gin.Context) {
	users, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ctrl *UserController) GetUser(c *gin.Context) {
	user, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ctrl *UserController) GetUserCount(c *gin.Context) {
	n, err := ctrl.service.Count(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userCount": n})
}

func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := idFromHeader(c, "User")
	if !ok {
		return
	}
	var req services.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := idFromHeader(c, "User")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User Deleted"})
}
