package services

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,max=72"`
	Phone     string `json:"phone" validate:"required"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// UpdateUserRequest is a partial profile update. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,max=72"`
	Phone     *string `json:"phone"`
	Street    *string `json:"street"`
	Apartment *string `json:"apartment"`
	Zip       *string `json:"zip"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
}

type CategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CreateProductRequest is bound from a multipart form.
type CreateProductRequest struct {
	Name            string  `form:"name" validate:"required"`
	Description     string  `form:"description" validate:"required"`
	RichDescription string  `form:"richDescription"`
	Brand           string  `form:"brand"`
	Price           float64 `form:"price" validate:"gte=0"`
	Category        string  `form:"category" validate:"required"`
	CountInStock    int     `form:"countInStock" validate:"gte=0"`
	Rating          float64 `form:"rating" validate:"gte=0"`
	NumReviews      int     `form:"numReviews" validate:"gte=0"`
	IsFeatured      bool    `form:"isFeatured"`
}

// UpdateProductRequest is a partial product update bound from a multipart
// form. Image carries an existing URL to keep when no new file is sent.
type UpdateProductRequest struct {
	Name            *string  `form:"name" validate:"omitempty,min=1"`
	Description     *string  `form:"description"`
	RichDescription *string  `form:"richDescription"`
	Brand           *string  `form:"brand"`
	Price           *float64 `form:"price" validate:"omitempty,gte=0"`
	Category        *string  `form:"category"`
	CountInStock    *int     `form:"countInStock" validate:"omitempty,gte=0"`
	Rating          *float64 `form:"rating" validate:"omitempty,gte=0"`
	NumReviews      *int     `form:"numReviews" validate:"omitempty,gte=0"`
	IsFeatured      *bool    `form:"isFeatured"`
	Image           *string  `form:"image"`
}

// FilterProductsRequest narrows the public browse listing.
type FilterProductsRequest struct {
	Categories []string
	Featured   *bool
	MinPrice   *float64 `validate:"omitempty,gte=0"`
	MaxPrice   *float64 `validate:"omitempty,gte=0"`
}

type OrderItemRequest struct {
	Quantity int    `json:"quantity" validate:"gt=0"`
	Product  string `json:"product" validate:"required,mongodb"`
}

// CreateOrderRequest is a cart submission. User may be omitted, in which case
// the caller's own account is the buyer.
type CreateOrderRequest struct {
	OrderItems       []OrderItemRequest `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress1 string             `json:"shippingAddress1" validate:"required"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city" validate:"required"`
	Zip              string             `json:"zip" validate:"required"`
	Country          string             `json:"country" validate:"required"`
	Phone            string             `json:"phone" validate:"required"`
	User             string             `json:"user" validate:"omitempty,mongodb"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderCreatedEvent is published after an order is persisted.
type OrderCreatedEvent struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	TotalPrice float64            `json:"total_price"`
	Items      []OrderItemRequest `json:"items"`
	CreatedAt  string             `json:"created_at"`
}
