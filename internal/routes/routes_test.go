package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/yashrajoria/catalog-service/internal/auth"
	"github.com/yashrajoria/catalog-service/internal/controllers"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/services"
	"github.com/yashrajoria/catalog-service/internal/storage"
)

const api = "/api/v1"

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router    *gin.Engine
	users     *services.UserService
	uploadDir string
	userRepo  *memUsers
	itemRepo  *memItems
}

func newTestApp(t *testing.T, guard bool) *testApp {
	t.Helper()
	users := &memUsers{docs: map[primitive.ObjectID]models.User{}}
	categories := &memCategories{docs: map[primitive.ObjectID]models.Category{}}
	products := &memProducts{docs: map[primitive.ObjectID]models.Product{}}
	items := &memItems{docs: map[primitive.ObjectID]models.OrderItem{}}
	orders := &memOrders{docs: map[primitive.ObjectID]models.Order{}}

	tokens, err := auth.NewTokenService("routes-test-secret", 0)
	require.NoError(t, err)
	dir := t.TempDir()
	images, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	userSvc := services.NewUserService(users, auth.NewHasher(bcrypt.MinCost), tokens)
	ctrl := Controllers{
		Users:      controllers.NewUserController(userSvc),
		Categories: controllers.NewCategoryController(services.NewCategoryService(categories, nil)),
		Products:   controllers.NewProductController(services.NewProductService(products, categories, images, nil)),
		Orders:     controllers.NewOrderController(services.NewOrderService(orders, items, products, users)),
	}
	gate := auth.NewGate(tokens, auth.DefaultExemptions(api))
	router := NewRouter(gate, ctrl, Options{APIURL: api, UploadDir: dir, GlobalGuard: guard})

	return &testApp{router: router, users: userSvc, uploadDir: dir, userRepo: users, itemRepo: items}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.do(req)
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.doJSON(http.MethodPost, api+"/users/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp services.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testApp) seedAdmin(t *testing.T) string {
	t.Helper()
	_, err := a.users.CreateAdmin(context.Background(), services.RegisterRequest{
		Name: "Root", Email: "root@x.com", Password: "rootpw", Phone: "0",
	})
	require.NoError(t, err)
	return a.login(t, "root@x.com", "rootpw")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func productForm(t *testing.T, token string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="tv set.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = io.WriteString(part, "\x89PNG")
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, api+"/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestNonAdminCannotDeleteUsers(t *testing.T) {
	app := newTestApp(t, false)

	w := app.doJSON(http.MethodPost, api+"/users/register", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "p1", "phone": "1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	userID := decode(t, w)["id"].(string)
	assert.NotContains(t, w.Body.String(), "p1")

	token := app.login(t, "a@x.com", "p1")

	w = app.doJSON(http.MethodGet, api+"/users", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodDelete, api+"/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(controllers.IDHeader, userID)
	w = app.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Admins only.", decode(t, w)["error"])

	req = httptest.NewRequest(http.MethodDelete, api+"/users", nil)
	req.Header.Set(controllers.IDHeader, userID)
	w = app.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token Not Found", decode(t, w)["error"])

	n, _ := app.userRepo.Count(context.Background())
	assert.Equal(t, int64(1), n)

	adminToken := app.seedAdmin(t)
	req = httptest.NewRequest(http.MethodDelete, api+"/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.Header.Set(controllers.IDHeader, userID)
	w = app.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDuplicateRegistrationAndBadLogin(t *testing.T) {
	app := newTestApp(t, false)
	body := map[string]string{"name": "A", "email": "a@x.com", "password": "p1", "phone": "1"}

	require.Equal(t, http.StatusCreated, app.doJSON(http.MethodPost, api+"/users/register", "", body).Code)
	w := app.doJSON(http.MethodPost, api+"/users/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.doJSON(http.MethodPost, api+"/users/login", "", map[string]string{"email": "a@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid Email or Password", decode(t, w)["error"])
}

func TestCatalogToOrderTotal(t *testing.T) {
	app := newTestApp(t, false)
	adminToken := app.seedAdmin(t)

	w := app.doJSON(http.MethodPost, api+"/category", adminToken, map[string]string{"name": "Electronics"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	categoryID := decode(t, w)["id"].(string)

	w = app.do(productForm(t, adminToken, map[string]string{
		"name": "TV", "description": "Big screen", "price": "100", "category": categoryID, "countInStock": "5",
	}, true))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode(t, w)
	productID := product["id"].(string)
	assert.Equal(t, "Electronics", product["category"].(map[string]interface{})["name"])

	imageURL, err := url.Parse(product["image"].(string))
	require.NoError(t, err)
	assert.Equal(t, "example.com", imageURL.Host)
	w = app.do(httptest.NewRequest(http.MethodGet, imageURL.Path, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(http.MethodPost, api+"/order", adminToken, map[string]interface{}{
		"orderItems":       []map[string]interface{}{{"quantity": 2, "product": productID}},
		"shippingAddress1": "1 Main St",
		"city":             "Paris",
		"zip":              "75001",
		"country":          "FR",
		"phone":            "555",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode(t, w)
	assert.Equal(t, 200.0, order["totalPrice"])
	assert.Equal(t, models.OrderStatusPending, order["status"])
	assert.Equal(t, "Root", order["user"].(map[string]interface{})["name"])
	lines := order["orderItems"].([]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, "TV", lines[0].(map[string]interface{})["product"].(map[string]interface{})["name"])

	w = app.doJSON(http.MethodGet, api+"/order/get/totalsales", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200.0, decode(t, w)["totalSales"])

	orderID := order["id"].(string)
	w = app.doJSON(http.MethodDelete, api+"/order/"+orderID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, app.itemRepo.docs)
}

func TestRejectedProductUploadWritesNothing(t *testing.T) {
	app := newTestApp(t, false)
	require.Equal(t, http.StatusCreated, app.doJSON(http.MethodPost, api+"/users/register", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "p1", "phone": "1",
	}).Code)
	token := app.login(t, "a@x.com", "p1")

	w := app.do(productForm(t, token, map[string]string{"name": "TV", "description": "d", "category": primitive.NewObjectID().Hex()}, true))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(productForm(t, "", map[string]string{"name": "TV"}, true))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	entries, err := os.ReadDir(app.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInvalidCategoryStoresNoImage(t *testing.T) {
	app := newTestApp(t, false)
	adminToken := app.seedAdmin(t)

	w := app.do(productForm(t, adminToken, map[string]string{
		"name": "TV", "description": "d", "price": "1", "category": primitive.NewObjectID().Hex(),
	}, true))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid Category", decode(t, w)["error"])

	entries, err := os.ReadDir(app.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOrderRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, false)
	for _, path := range []string{"/order", "/order/get/totalsales", "/order/get/ordercount"} {
		w := app.doJSON(http.MethodGet, api+path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, api+"/order", nil)
	req.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, app.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, api+"/order", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	w := app.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decode(t, w)["error"])
}

func TestPublicCatalogReads(t *testing.T) {
	app := newTestApp(t, false)

	w := app.doJSON(http.MethodGet, api+"/category", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = app.doJSON(http.MethodGet, api+"/products/get/count", "", nil)
	assert.JSONEq(t, `{"productCount":0}`, w.Body.String())

	w = app.doJSON(http.MethodGet, api+"/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGlobalGuard(t *testing.T) {
	app := newTestApp(t, true)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, api + "/category", http.StatusOK},
		{http.MethodGet, api + "/products/get/count", http.StatusOK},
		{http.MethodGet, api + "/users", http.StatusUnauthorized},
		{http.MethodGet, api + "/users/get/count", http.StatusUnauthorized},
		{http.MethodPost, api + "/users/login", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s %s", tc.method, tc.path), func(t *testing.T) {
			w := app.doJSON(tc.method, tc.path, "", nil)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}

	adminToken := app.seedAdmin(t)
	w := app.doJSON(http.MethodGet, api+"/users/get/count", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
