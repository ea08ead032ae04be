package store

import (
	"time"
)

// Order represents a transaction made by a customer.
// TotalCents uses the lowest currency unit to avoid floating-point errors.
type Order struct {
	ID           int64
	CustomerName string
	Status       OrderStatus
	TotalCents   int64
	Items        []OrderItem
	OrderedAt    time.Time
	Note         *string
	Internal     string
}

// OrderItem represents a specific product line within an order.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice int64
}

// Customer represents the user placing orders.
type Customer struct {
	ID         int64
	Email      string
	FullName   string
	Address    *string
	IsActive   bool
	Tags       []string
	Attributes map[string]string
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
