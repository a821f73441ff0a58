package model

import "github.com/shopspring/decimal"

// Product is a catalog entry as seen by the order workflow.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Weight      decimal.Decimal
	CategoryID  int64
}
