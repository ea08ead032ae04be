package warehouse

import (
	"strings"
)

// Order is the warehouse-side view of a store order.
type Order struct {
	ID       uint
	Customer string
	Status   string
	Amount   float64
	Items    []OrderItem
	PlacedAt string
	Note     string
	Internal string
}

// OrderItem is a line item within an order.
type OrderItem struct {
	ProductID uint
	Name      string
	Quantity  int32
	UnitPrice int64
}

// Customer is the warehouse copy of a customer record.
type Customer struct {
	ID         uint
	Email      string
	FullName   string
	Address    string
	IsActive   bool
	Tags       []string
	Attributes map[string]string
}

// Record is a loosely typed bean accessed through Get/Set instead of fields.
type Record struct {
	values map[string]any
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: map[string]any{}}
}

// Get returns the value stored under name.
func (r *Record) Get(name string) any {
	return r.values[strings.ToLower(name)]
}

// Set stores value under name.
func (r *Record) Set(name string, value any) {
	if r.values == nil {
		r.values = map[string]any{}
	}

	r.values[strings.ToLower(name)] = value
}

// Len returns the number of stored values.
func (r *Record) Len() int {
	return len(r.values)
}
