package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses. Transitions happen outside this service but
// the field carries them.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
	OrderStatusReturned   = "Returned"
)

// OrderItem is a snapshot of a purchased product at checkout time,
// decoupled from later catalog changes.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// Order is a persisted purchase owned by a user.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	Products      []OrderItem        `bson:"products" json:"products"`
	TotalAmount   float64            `bson:"total_amount" json:"totalAmount"`
	Discount      float64            `bson:"discount" json:"discount"`
	FinalAmount   float64            `bson:"final_amount" json:"finalAmount"`
	Status        string             `bson:"status" json:"status"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	ShippingDate  *time.Time         `bson:"shipping_date,omitempty" json:"shippingDate,omitempty"`
	DeliveredDate *time.Time         `bson:"delivered_date,omitempty" json:"deliveredDate,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
