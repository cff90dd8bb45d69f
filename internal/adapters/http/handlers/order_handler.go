package handlers

import (
	"errors"

	"librahub/internal/adapters/http/middleware"
	"librahub/internal/core/domain"
	"librahub/internal/core/services"
	"librahub/internal/pkg/pagination"
	"librahub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles ordering workflow endpoints
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest represents the create order body
type CreateOrderRequest struct {
	BookID uint `json:"book_id"`
}

// Create handles placing an order for a book
// @Summary Create order
// @Description Order an available book for the authenticated user; flips the book to unavailable atomically
// @Tags Orders
// @Accept json
// @Produce json
// @Param body body CreateOrderRequest true "Order data"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.BookID == 0 {
		return response.BadRequest(c, "Book ID is required")
	}

	order, err := h.orderService.Create(c.Context(), req.BookID, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrBookNotAvailable):
			return response.Conflict(c, "Book is not available")
		default:
			return response.InternalServerError(c, "Failed to create order")
		}
	}

	return response.Created(c, "Order created successfully", order.ToResponse())
}

// List handles listing all orders (Manager/Admin)
// @Summary List orders
// @Description List all orders with optional status filter
// @Tags Orders
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by status (PENDING/APPROVED/COMPLETED/CANCELLED)"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListOrdersInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: c.Query("status"),
	}

	result, err := h.orderService.List(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list orders")
	}

	return response.Success(c, "Orders retrieved successfully", result)
}

// ListMine handles listing the authenticated user's own orders
// @Summary List my orders
// @Description List orders belonging to the authenticated user
// @Tags Orders
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by status"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /orders/my [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListOrdersInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: c.Query("status"),
	}

	result, err := h.orderService.ListByUser(c.Context(), middleware.UserID(c), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list orders")
	}

	return response.Success(c, "Orders retrieved successfully", result)
}

// GetByID handles fetching a single order
// @Summary Get order
// @Description Get an order by ID; non-staff users can only see their own orders
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.GetByID(c.Context(), id, middleware.UserID(c), middleware.IsStaff(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not have access to this order")
		default:
			return response.InternalServerError(c, "Failed to get order")
		}
	}

	return response.Success(c, "Order retrieved successfully", order.ToResponse())
}

// Approve handles approving a pending order (Manager/Admin)
// @Summary Approve order
// @Description Move a pending order to approved
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.Approve(c.Context(), id)
	if err != nil {
		return h.mapWorkflowError(c, err, "Failed to approve order")
	}

	return response.Success(c, "Order approved successfully", order.ToResponse())
}

// Complete handles completing an approved order (Manager/Admin)
// @Summary Complete order
// @Description Move an approved order to completed and release the book
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.Complete(c.Context(), id)
	if err != nil {
		return h.mapWorkflowError(c, err, "Failed to complete order")
	}

	return response.Success(c, "Order completed successfully", order.ToResponse())
}

// Cancel handles cancelling an open order
// @Summary Cancel order
// @Description Cancel a pending or approved order and release the book; users can cancel only their own orders
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.Cancel(c.Context(), id, middleware.UserID(c), middleware.IsStaff(c))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "You do not have access to this order")
		}
		return h.mapWorkflowError(c, err, "Failed to cancel order")
	}

	return response.Success(c, "Order cancelled successfully", order.ToResponse())
}

// Delete handles deleting an order record (Manager/Admin)
// @Summary Delete order
// @Description Delete an order record; releases the book if the order was still open
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	if err := h.orderService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to delete order")
	}

	return response.Success(c, "Order deleted successfully", nil)
}

func (h *OrderHandler) mapWorkflowError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return response.NotFound(c, "Order not found")
	case errors.Is(err, domain.ErrInvalidOrderStatus):
		return response.Conflict(c, "Order is not in a valid state for this action")
	default:
		return response.InternalServerError(c, fallback)
	}
}
