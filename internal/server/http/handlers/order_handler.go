package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/swiftdrop/swiftdrop/internal/domain/errors"
	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentActor(c), req.Product, req.Quantity, req.Location)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOrderResponse(*order))
}

// CustomerOrders handles GET /api/orders/customer/:id.
func (h *OrderHandler) CustomerOrders(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := h.facade.CustomerOrders(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// CourierOrders handles GET /api/orders/courier/:id.
func (h *OrderHandler) CourierOrders(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := h.facade.CourierOrders(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Pending handles GET /api/orders/pending.
func (h *OrderHandler) Pending(c *gin.Context) {
	orders, err := h.facade.PendingOrders(c.Request.Context(), CurrentActor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// History handles GET /api/orders/history/:id.
func (h *OrderHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := h.facade.DeliveredHistory(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}

	order, err := h.facade.UpdateStatus(c.Request.Context(), CurrentActor(c), id, model.OrderStatus(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// writeError maps domain errors onto HTTP statuses. Authorization always
// wins over transition legality upstream, so a 403 here never leaks
// whether the requested edge would have been legal.
func (h *OrderHandler) writeError(c *gin.Context, err error) {
	var transition *domainErrors.TransitionError
	switch {
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: transition.Error(), Status: transition.From})
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrUnauthorized):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "order not found"})
	case errors.Is(err, domainErrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "service temporarily unavailable"})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid identifier"})
		return 0, false
	}
	return id, true
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.NewOrderResponse(o))
	}
	return response
}
