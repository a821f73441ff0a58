package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/server/http/dto"
	"github.com/polkiloo/eshop/internal/server/http/middleware"
	"github.com/polkiloo/eshop/internal/usecase"
)

// CurrentRequester extracts the authenticated caller from context.
func CurrentRequester(c *gin.Context) model.Requester {
	return middleware.CurrentRequester(c)
}

// positiveID parses a path or query value as an id greater than zero.
func positiveID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad id %q", raw)
	}
	return id, nil
}

func toLineRequests(in []dto.LinePayload) []usecase.LineRequest {
	if in == nil {
		return nil
	}
	out := make([]usecase.LineRequest, 0, len(in))
	for _, l := range in {
		out = append(out, usecase.LineRequest{ProductID: l.ProductID, ProductName: l.ProductName, Quantity: l.Quantity})
	}
	return out
}

func toAddress(in *dto.AddressPayload) *model.Address {
	if in == nil {
		return nil
	}
	return &model.Address{Country: in.Country, City: in.City, Street: in.Street, PostalCode: in.PostalCode}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitWeight:  l.UnitWeight,
			Subtotal:    l.Subtotal(),
		})
	}
	a := order.ShippingAddress
	return dto.OrderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		StatusID:        order.StatusID,
		TotalPrice:      order.TotalPrice,
		TotalWeight:     order.TotalWeight,
		ShippingAddress: dto.AddressResponse{Country: a.Country, City: a.City, Street: a.Street, PostalCode: a.PostalCode},
		CreatedAt:       order.CreatedAt,
		Lines:           lines,
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
