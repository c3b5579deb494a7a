package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yashrajoria/catalog-service/internal/auth"
	awspkg "github.com/yashrajoria/catalog-service/internal/aws"
	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/logger"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/repository"
)

const (
	OrderCreatedEventType = "order.created"

	defaultOrderParallelism = 8
	metricTimeout           = 5 * time.Second
)

var (
	ErrOrderNotFound   = apperrors.WithMessage(apperrors.ErrNotFound, "Order not found")
	ErrOrderNotCreated = apperrors.WithMessage(apperrors.ErrStorage, "The order cannot be created")
	ErrNoSales         = apperrors.WithMessage(apperrors.ErrValidation, "The order sales cannot be generated")
	ErrUnknownBuyer    = apperrors.WithMessage(apperrors.ErrValidation, "The buyer could not be resolved")
)

// OrderMetrics counts workflow events. *aws.MetricsClient satisfies it.
type OrderMetrics interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

type OrderService struct {
	orders   repository.OrderRepo
	items    repository.OrderItemRepo
	products repository.ProductRepo
	users    repository.UserRepo

	tx          repository.Transactor
	parallelism int

	publisher awspkg.SNSPublisher
	topicArn  string
	metrics   OrderMetrics

	now func() time.Time
}

type OrderOption func(*OrderService)

// WithTransactor runs the create workflow inside tx. Line items are then
// written one at a time because a session cannot be shared across
// goroutines.
func WithTransactor(tx repository.Transactor) OrderOption {
	return func(s *OrderService) {
		s.tx = tx
		s.parallelism = 1
	}
}

// WithEventPublisher publishes an order.created event to topicArn after each
// successful order.
func WithEventPublisher(pub awspkg.SNSPublisher, topicArn string) OrderOption {
	return func(s *OrderService) {
		s.publisher = pub
		s.topicArn = topicArn
	}
}

// WithOrderMetrics counts created orders. Data points are sent in the
// background and never delay the response.
func WithOrderMetrics(m OrderMetrics) OrderOption {
	return func(s *OrderService) { s.metrics = m }
}

func NewOrderService(orders repository.OrderRepo, items repository.OrderItemRepo, products repository.ProductRepo, users repository.UserRepo, opts ...OrderOption) *OrderService {
	s := &OrderService{
		orders:      orders,
		items:       items,
		products:    products,
		users:       users,
		tx:          repository.NoopTransactor{},
		parallelism: defaultOrderParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create runs the order workflow: persist one line item per input entry,
// price each against the product's current price, sum the total and persist
// the order as Pending. Without a transactor, line items written before a
// failure are left in place.
func (s *OrderService) Create(ctx context.Context, principal auth.Principal, req CreateOrderRequest) (*models.OrderDetail, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	buyer, err := s.resolveBuyer(ctx, principal, req.User)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		items, err := s.createItems(ctx, req.OrderItems)
		if err != nil {
			return err
		}
		total, err := s.total(ctx, items)
		if err != nil {
			return err
		}

		ids := make([]primitive.ObjectID, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		order = &models.Order{
			OrderItems:       ids,
			ShippingAddress1: req.ShippingAddress1,
			ShippingAddress2: req.ShippingAddress2,
			City:             req.City,
			Zip:              req.Zip,
			Country:          req.Country,
			Phone:            req.Phone,
			Status:           models.OrderStatusPending,
			TotalPrice:       total,
			User:             buyer,
			DateOrdered:      s.now().UTC(),
		}
		return s.orders.Create(ctx, order)
	})
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrValidation) {
			return nil, err
		}
		logger.FromContext(ctx).Error("order creation failed", zap.Error(err))
		return nil, apperrors.Wrap(ErrOrderNotCreated, err)
	}

	logger.FromContext(ctx).Info("order created",
		zap.String("order_id", order.ID.Hex()),
		zap.Int("items", len(order.OrderItems)),
		zap.Float64("total", order.TotalPrice),
	)
	s.publishCreated(ctx, order, req.OrderItems)
	s.recordCreated()

	return s.expand(ctx, order)
}

// recordCreated runs detached from the request so a client disconnect does
// not drop the data point.
func (s *OrderService) recordCreated() {
	if s.metrics == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricTimeout)
		defer cancel()
		if err := s.metrics.RecordCount(ctx, awspkg.MetricOrdersCreated, nil); err != nil {
			zap.L().Warn("failed to record order metric", zap.Error(err))
		}
	}()
}

func (s *OrderService) resolveBuyer(ctx context.Context, principal auth.Principal, user string) (primitive.ObjectID, error) {
	if user != "" {
		id, err := primitive.ObjectIDFromHex(user)
		if err != nil {
			return primitive.NilObjectID, ErrUnknownBuyer
		}
		return id, nil
	}
	u, err := s.users.FindByEmail(ctx, principal.Email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return primitive.NilObjectID, ErrUnknownBuyer
		}
		return primitive.NilObjectID, err
	}
	return u.ID, nil
}

// createItems persists the line items concurrently and returns them in input
// order.
func (s *OrderService) createItems(ctx context.Context, reqs []OrderItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, len(reqs))
	for i, r := range reqs {
		productID, err := primitive.ObjectIDFromHex(r.Product)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "product must be a valid id")
		}
		items[i] = models.OrderItem{Quantity: r.Quantity, Product: productID}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range items {
		i := i
		g.Go(func() error {
			return s.items.Create(gctx, &items[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// total prices every item against a fresh product lookup. Products that no
// longer resolve contribute zero.
func (s *OrderService) total(ctx context.Context, items []models.OrderItem) (float64, error) {
	lines := make([]decimal.Decimal, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			product, err := s.products.FindByID(gctx, it.Product)
			if err != nil {
				if apperrors.IsKind(err, apperrors.ErrNotFound) {
					lines[i] = decimal.Zero
					return nil
				}
				return err
			}
			lines[i] = decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l)
	}
	return total.InexactFloat64(), nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *models.Order, items []OrderItemRequest) {
	if s.publisher == nil || s.topicArn == "" {
		return
	}
	evt := OrderCreatedEvent{
		Type:       OrderCreatedEventType,
		OrderID:    order.ID.Hex(),
		UserID:     order.User.Hex(),
		TotalPrice: order.TotalPrice,
		Items:      items,
		CreatedAt:  order.DateOrdered.Format(time.RFC3339),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		zap.L().Warn("failed to marshal order event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topicArn, payload); err != nil {
		logger.FromContext(ctx).Warn("failed to publish order event",
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
	}
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.OrderDetail, error) {
	orders, err := s.orders.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	return s.expandAll(ctx, orders)
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.OrderDetail, error) {
	oid, err := parseID(id, ErrOrderNotFound)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return s.expand(ctx, order)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, req UpdateOrderStatusRequest) (*models.OrderDetail, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	oid, err := parseID(id, ErrOrderNotFound)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.UpdateStatus(ctx, oid, req.Status)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return s.expand(ctx, order)
}

// Delete removes the order and then its line items.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, ErrOrderNotFound)
	if err != nil {
		return err
	}
	order, err := s.orders.Delete(ctx, oid)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if err := s.items.DeleteMany(ctx, order.OrderItems); err != nil {
		logger.FromContext(ctx).Warn("order deleted but line items remain",
			zap.String("order_id", oid.Hex()),
			zap.Error(err),
		)
	}
	return nil
}

// TotalSales sums totalPrice over every order. With no orders there is
// nothing to report and ErrNoSales is returned.
func (s *OrderService) TotalSales(ctx context.Context) (float64, error) {
	total, n, err := s.orders.TotalSales(ctx)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNoSales
	}
	return total, nil
}

func (s *OrderService) Count(ctx context.Context) (int64, error) {
	return s.orders.Count(ctx)
}

// UserOrders lists one buyer's orders, newest first.
func (s *OrderService) UserOrders(ctx context.Context, userID string) ([]models.OrderDetail, error) {
	oid, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindAll(ctx, &oid)
	if err != nil {
		return nil, err
	}
	return s.expandAll(ctx, orders)
}

func (s *OrderService) expandAll(ctx context.Context, orders []models.Order) ([]models.OrderDetail, error) {
	details := make([]models.OrderDetail, len(orders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultOrderParallelism)
	for i := range orders {
		i := i
		g.Go(func() error {
			d, err := s.expand(gctx, &orders[i])
			if err != nil {
				return err
			}
			details[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// expand attaches the buyer summary and the line items with their products.
// References that no longer resolve expand to nil.
func (s *OrderService) expand(ctx context.Context, order *models.Order) (*models.OrderDetail, error) {
	detail := &models.OrderDetail{Order: *order, OrderItems: []models.OrderItemDetail{}}

	user, err := s.users.FindByID(ctx, order.User)
	switch {
	case err == nil:
		detail.User = &models.UserSummary{ID: user.ID, Name: user.Name}
	case !apperrors.IsKind(err, apperrors.ErrNotFound):
		return nil, err
	}

	items, err := s.items.FindByIDs(ctx, order.OrderItems)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		line := models.OrderItemDetail{ID: it.ID, Quantity: it.Quantity}
		product, err := s.products.FindByID(ctx, it.Product)
		switch {
		case err == nil:
			line.Product = &models.ProductSummary{ID: product.ID, Name: product.Name, Price: product.Price}
		case !apperrors.IsKind(err, apperrors.ErrNotFound):
			return nil, err
		}
		detail.OrderItems = append(detail.OrderItems, line)
	}
	return detail, nil
}
