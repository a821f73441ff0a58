package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the order aggregate root. Lines are owned by the order and share its lifecycle.
type Order struct {
	ID              int64
	UserID          int64
	StatusID        int64
	TotalPrice      decimal.Decimal
	TotalWeight     decimal.Decimal
	ShippingAddress Address
	CreatedAt       time.Time
	Lines           []OrderLine
}

// OrderLine keeps the product price and weight captured when the line was created.
type OrderLine struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	UnitWeight  decimal.Decimal
}

// Subtotal returns quantity multiplied by the frozen unit price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SubtotalWeight returns quantity multiplied by the frozen unit weight.
func (l OrderLine) SubtotalWeight() decimal.Decimal {
	return l.UnitWeight.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Recalculate derives TotalPrice and TotalWeight from the current lines.
func (o *Order) Recalculate() {
	price := decimal.Zero
	weight := decimal.Zero
	for _, l := range o.Lines {
		price = price.Add(l.Subtotal())
		weight = weight.Add(l.SubtotalWeight())
	}
	o.TotalPrice = price
	o.TotalWeight = weight
}

// Page limits list queries.
type Page struct {
	Limit  int
	Offset int
}
