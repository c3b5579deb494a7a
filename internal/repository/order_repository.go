package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yashrajoria/catalog-service/internal/database"
	"github.com/yashrajoria/catalog-service/internal/models"
)

type OrderItemRepository struct {
	collection *mongo.Collection
}

func NewOrderItemRepository(db *mongo.Database) *OrderItemRepository {
	return &OrderItemRepository{collection: db.Collection(database.OrderItemsCollection)}
}

func (r *OrderItemRepository) Create(ctx context.Context, item *models.OrderItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, item)
	return translate("insert order item", err)
}

// FindByIDs returns the items in ids order. Ids that no longer resolve are
// skipped.
func (r *OrderItemRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.OrderItem, error) {
	if len(ids) == 0 {
		return []models.OrderItem{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate("list order items", err)
	}
	defer cursor.Close(ctx)

	var found []models.OrderItem
	if err := cursor.All(ctx, &found); err != nil {
		return nil, translate("decode order items", err)
	}

	byID := make(map[primitive.ObjectID]models.OrderItem, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *OrderItemRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return translate("delete order items", err)
}

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection(database.OrdersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, order)
	return translate("insert order", err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translate("find order", err)
	}
	return &order, nil
}

func (r *OrderRepository) FindAll(ctx context.Context, userID *primitive.ObjectID) ([]models.Order, error) {
	filter := bson.M{}
	if userID != nil {
		filter["user"] = *userID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "dateOrdered", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, translate("list orders", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, translate("decode orders", err)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&order)
	if err != nil {
		return nil, translate("update order status", err)
	}
	return &order, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translate("delete order", err)
	}
	return &order, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return n, translate("count orders", err)
}

func (r *OrderRepository) TotalSales(ctx context.Context) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalsales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, translate("aggregate total sales", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalSales float64 `bson:"totalsales"`
		N          int64   `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, translate("decode total sales", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].TotalSales, rows[0].N, nil
}
