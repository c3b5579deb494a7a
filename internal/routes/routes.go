package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/catalog-service/internal/auth"
	awspkg "github.com/yashrajoria/catalog-service/internal/aws"
	"github.com/yashrajoria/catalog-service/internal/controllers"
	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/middleware"
	"github.com/yashrajoria/catalog-service/internal/storage"
)

const (
	ServiceName    = "catalog-service"
	RequestTimeout = 30 * time.Second
)

type Controllers struct {
	Users      *controllers.UserController
	Categories *controllers.CategoryController
	Products   *controllers.ProductController
	Orders     *controllers.OrderController
}

// Options configures the engine. UploadDir is empty when images are not
// served from local disk.
type Options struct {
	APIURL         string
	UploadDir      string
	GlobalGuard    bool
	AllowedOrigins []string
	LoginLimiter   *middleware.RateLimiter
	Metrics        *awspkg.MetricsClient
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(gate *auth.Gate, ctrl Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(zap.L()))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(middleware.MetricsMiddleware(opts.Metrics, ServiceName))
	r.Use(apperrors.ErrorMiddleware())
	if opts.GlobalGuard {
		r.Use(gate.Guard())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	if opts.UploadDir != "" {
		r.Static(storage.UploadPath, opts.UploadDir)
	}

	api := r.Group(opts.APIURL)
	RegisterUserRoutes(api, gate, ctrl.Users, opts.LoginLimiter)
	RegisterCategoryRoutes(api, gate, ctrl.Categories)
	RegisterProductRoutes(api, gate, ctrl.Products)
	RegisterOrderRoutes(api, gate, ctrl.Orders)
	return r
}

func RegisterUserRoutes(api *gin.RouterGroup, gate *auth.Gate, ctrl *controllers.UserController, limiter *middleware.RateLimiter) {
	users := api.Group("/users")
	users.POST("/register", ctrl.Register)
	if limiter != nil {
		users.POST("/login", limiter.Middleware(), ctrl.Login)
	} else {
		users.POST("/login", ctrl.Login)
	}
	users.GET("", ctrl.GetUsers)
	users.GET("/get/count", ctrl.GetUserCount)
	users.GET("/:id", ctrl.GetUser)
	users.PUT("", ctrl.UpdateUser)
	users.DELETE("", gate.Admin(), ctrl.DeleteUser)
}

func RegisterCategoryRoutes(api *gin.RouterGroup, gate *auth.Gate, ctrl *controllers.CategoryController) {
	category := api.Group("/category")
	category.GET("", ctrl.GetCategories)
	category.GET("/:id", ctrl.GetCategory)
	category.POST("", gate.Authenticated(), ctrl.CreateCategory)
	category.PUT("", gate.Authenticated(), ctrl.UpdateCategory)
	category.DELETE("", gate.Authenticated(), ctrl.DeleteCategory)
}

// RegisterProductRoutes wires the catalog. The gate runs before the handler
// so a rejected request never has its multipart body parsed.
func RegisterProductRoutes(api *gin.RouterGroup, gate *auth.Gate, ctrl *controllers.ProductController) {
	products := api.Group("/products")
	products.GET("", gate.Authenticated(), ctrl.GetProducts)
	products.GET("/get/count", ctrl.GetProductCount)
	products.GET("/get/featured/:count", ctrl.GetFeatured)
	products.GET("/filter", ctrl.FilterProducts)

	admin := products.Group("", gate.Admin())
	admin.POST("", ctrl.CreateProduct)
	admin.PUT("", ctrl.UpdateProduct)
	admin.DELETE("", ctrl.DeleteProduct)
	admin.PUT("/gallery-images/:id", ctrl.UpdateGallery)
}

func RegisterOrderRoutes(api *gin.RouterGroup, gate *auth.Gate, ctrl *controllers.OrderController) {
	orders := api.Group("/order", gate.Authenticated())
	orders.GET("", ctrl.GetOrders)
	orders.POST("", ctrl.CreateOrder)
	orders.GET("/get/totalsales", ctrl.GetTotalSales)
	orders.GET("/get/ordercount", ctrl.GetOrderCount)
	orders.GET("/get/userorders/:userid", ctrl.GetUserOrders)
	orders.GET("/:id", ctrl.GetOrder)
	orders.PUT("/:id", ctrl.UpdateOrderStatus)
	orders.DELETE("/:id", ctrl.DeleteOrder)
}
