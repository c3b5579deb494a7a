package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatusPending is the status every new order starts in.
const OrderStatusPending = "Pending"

// OrderItem is one product+quantity entry. It is stored in its own
// collection and referenced by the owning Order.
type OrderItem struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Quantity int                `json:"quantity" bson:"quantity"`
	Product  primitive.ObjectID `json:"product" bson:"product"`
}

type Order struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	OrderItems       []primitive.ObjectID `json:"orderItems" bson:"orderItems"`
	ShippingAddress1 string               `json:"shippingAddress1" bson:"shippingAddress1"`
	ShippingAddress2 string               `json:"shippingAddress2" bson:"shippingAddress2"`
	City             string               `json:"city" bson:"city"`
	Zip              string               `json:"zip" bson:"zip"`
	Country          string               `json:"country" bson:"country"`
	Phone            string               `json:"phone" bson:"phone"`
	Status           string               `json:"status" bson:"status"`
	TotalPrice       float64              `json:"totalPrice" bson:"totalPrice"`
	User             primitive.ObjectID   `json:"user" bson:"user"`
	DateOrdered      time.Time            `json:"dateOrdered" bson:"dateOrdered"`
}

// OrderItemDetail is a line item with its product expanded. Product is nil
// when the reference no longer resolves.
type OrderItemDetail struct {
	ID       primitive.ObjectID `json:"id"`
	Quantity int                `json:"quantity"`
	Product  *ProductSummary    `json:"product"`
}

// OrderDetail is an order with buyer and line items expanded.
type OrderDetail struct {
	Order
	OrderItems []OrderItemDetail `json:"orderItems"`
	User       *UserSummary      `json:"user"`
}
