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

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(database.ProductsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, product)
	return translate("insert product", err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate("find product", err)
	}
	return &product, nil
}

func (r *ProductRepository) Find(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	findOptions := options.Find()
	if f.Limit > 0 {
		findOptions.SetLimit(f.Limit)
	}

	cursor, err := r.collection.Find(ctx, buildProductFilter(f), findOptions)
	if err != nil {
		return nil, translate("list products", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, translate("decode products", err)
	}
	return products, nil
}

func buildProductFilter(f ProductFilter) bson.M {
	filter := bson.M{}
	if len(f.Categories) > 0 {
		filter["category"] = bson.M{"$in": f.Categories}
	}
	if f.Featured != nil {
		filter["isFeatured"] = *f.Featured
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return n, translate("count products", err)
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return translate("update product", err)
	}
	if res.MatchedCount == 0 {
		return notFound("update product")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate("delete product", err)
	}
	if res.DeletedCount == 0 {
		return notFound("delete product")
	}
	return nil
}
