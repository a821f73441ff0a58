package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/server/http/dto"
	"github.com/polkiloo/eshop/internal/server/http/response"
	"github.com/polkiloo/eshop/internal/usecase"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.WriteError(c, http.StatusBadRequest, response.CodeInvalidOrder, err)
		return
	}

	orders, err := h.facade.ListOrders(c.Request.Context(), CurrentRequester(c), model.Page{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), CurrentRequester(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// ListForUser handles GET /api/orders/name/:name?orderStatusID=.
func (h *OrderHandler) ListForUser(c *gin.Context) {
	var statusID *int64
	if raw, ok := c.GetQuery("orderStatusID"); ok && raw != "" {
		id, err := positiveID(raw)
		if err != nil {
			response.WriteError(c, http.StatusBadRequest, response.CodeInvalidStatus, err)
			return
		}
		statusID = &id
	}

	orders, err := h.facade.UserOrders(c.Request.Context(), CurrentRequester(c), c.Param("name"), statusID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ListByStatus handles GET /api/orders/status/:id.
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	statusID, err := positiveID(c.Param("id"))
	if err != nil {
		response.WriteError(c, http.StatusBadRequest, response.CodeInvalidStatus, err)
		return
	}

	orders, err := h.facade.OrdersByStatus(c.Request.Context(), CurrentRequester(c), statusID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, response.CodeInvalidOrder, err)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentRequester(c), usecase.CreateOrderRequest{
		UserName: req.UserName,
		Lines:    toLineRequests(req.Lines),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, response.CodeInvalidOrder, err)
		return
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), CurrentRequester(c), id, usecase.UpdateOrderRequest{
		Lines:    toLineRequests(req.Lines),
		StatusID: req.StatusID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// ChangeStatus handles PUT /api/orders/:id/change-status/:statusId.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	statusID, err := positiveID(c.Param("statusId"))
	if err != nil {
		response.WriteError(c, http.StatusBadRequest, response.CodeInvalidStatus, err)
		return
	}

	order, err := h.facade.ChangeOrderStatus(c.Request.Context(), CurrentRequester(c), id, statusID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), CurrentRequester(c), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := positiveID(c.Param("id"))
	if err != nil {
		response.WriteError(c, http.StatusBadRequest, response.CodeInvalidOrder, err)
		return 0, false
	}
	return id, true
}
