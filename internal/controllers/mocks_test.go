package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yashrajoria/catalog-service/internal/auth"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/services"
	"github.com/yashrajoria/catalog-service/internal/storage"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, req services.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Login(ctx context.Context, req services.LoginRequest) (*services.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResponse), args.Error(1)
}
func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *MockUserService) Get(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserService) Update(ctx context.Context, id string, req services.UpdateUserRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *MockCategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryService) Create(ctx context.Context, req services.CategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryService) Update(ctx context.Context, id string, req services.CategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) details(args mock.Arguments) ([]models.ProductDetail, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductDetail), args.Error(1)
}
func (m *MockProductService) detail(args mock.Arguments) (*models.ProductDetail, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDetail), args.Error(1)
}
func (m *MockProductService) List(ctx context.Context) ([]models.ProductDetail, error) {
	return m.details(m.Called(ctx))
}
func (m *MockProductService) ListByCategory(ctx context.Context, categoryID string) ([]models.ProductDetail, error) {
	return m.details(m.Called(ctx, categoryID))
}
func (m *MockProductService) Get(ctx context.Context, id string) (*models.ProductDetail, error) {
	return m.detail(m.Called(ctx, id))
}
func (m *MockProductService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockProductService) Featured(ctx context.Context, n int) ([]models.ProductDetail, error) {
	return m.details(m.Called(ctx, n))
}
func (m *MockProductService) Filter(ctx context.Context, req services.FilterProductsRequest) ([]models.ProductDetail, error) {
	return m.details(m.Called(ctx, req))
}
func (m *MockProductService) Create(ctx context.Context, req services.CreateProductRequest, image *storage.Upload, gallery []storage.Upload, baseURL string) (*models.ProductDetail, error) {
	return m.detail(m.Called(ctx, req, image, gallery, baseURL))
}
func (m *MockProductService) Update(ctx context.Context, id string, req services.UpdateProductRequest, image *storage.Upload, baseURL string) (*models.ProductDetail, error) {
	return m.detail(m.Called(ctx, id, req, image, baseURL))
}
func (m *MockProductService) UpdateGallery(ctx context.Context, id string, gallery []storage.Upload, baseURL string) (*models.ProductDetail, error) {
	return m.detail(m.Called(ctx, id, gallery, baseURL))
}
func (m *MockProductService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) detail(args mock.Arguments) (*models.OrderDetail, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderDetail), args.Error(1)
}
func (m *MockOrderService) details(args mock.Arguments) ([]models.OrderDetail, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderDetail), args.Error(1)
}
func (m *MockOrderService) Create(ctx context.Context, principal auth.Principal, req services.CreateOrderRequest) (*models.OrderDetail, error) {
	return m.detail(m.Called(ctx, principal, req))
}
func (m *MockOrderService) List(ctx context.Context) ([]models.OrderDetail, error) {
	return m.details(m.Called(ctx))
}
func (m *MockOrderService) Get(ctx context.Context, id string) (*models.OrderDetail, error) {
	return m.detail(m.Called(ctx, id))
}
func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, req services.UpdateOrderStatusRequest) (*models.OrderDetail, error) {
	return m.detail(m.Called(ctx, id, req))
}
func (m *MockOrderService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockOrderService) TotalSales(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockOrderService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOrderService) UserOrders(ctx context.Context, userID string) ([]models.OrderDetail, error) {
	return m.details(m.Called(ctx, userID))
}
