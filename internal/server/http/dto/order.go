package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LinePayload references a product by id or by name.
type LinePayload struct {
	ProductID   int64  `json:"productId" binding:"omitempty,gt=0"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest places an order. An empty userName means the caller.
type CreateOrderRequest struct {
	UserName string        `json:"userName"`
	Lines    []LinePayload `json:"lines" binding:"required,min=1,dive"`
}

// UpdateOrderRequest replaces lines and/or the status. Absent fields stay unchanged.
type UpdateOrderRequest struct {
	Lines    []LinePayload `json:"lines" binding:"omitempty,dive"`
	StatusID *int64        `json:"orderStatusId" binding:"omitempty,gt=0"`
}

// PageQuery carries list paging parameters.
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=0"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

type AddressResponse struct {
	Country    string `json:"country"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
}

type OrderLineResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitWeight  decimal.Decimal `json:"unitWeight"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse describes an order with its lines. Money and weight are decimal strings.
type OrderResponse struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"userId"`
	StatusID        int64               `json:"orderStatusId"`
	TotalPrice      decimal.Decimal     `json:"totalPrice"`
	TotalWeight     decimal.Decimal     `json:"totalWeight"`
	ShippingAddress AddressResponse     `json:"shippingAddress"`
	CreatedAt       time.Time           `json:"createdAt"`
	Lines           []OrderLineResponse `json:"lines"`
}
