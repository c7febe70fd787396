package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/middleware"
	"github.com/minhhua/figure-store/internal/model"
	"github.com/minhhua/figure-store/internal/policy"
	"github.com/minhhua/figure-store/internal/queue"
	"github.com/minhhua/figure-store/internal/repository"
)

// OrderStore is the slice of the order repository the handler needs.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	GetByIDForCustomer(ctx context.Context, id, customerID uint64) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByCustomer(ctx context.Context, customerID uint64) ([]model.Order, error)
	Update(ctx context.Context, o *model.Order) error
	UpdateShippingAddress(ctx context.Context, o *model.Order) error
	Delete(ctx context.Context, id uint64) error
}

// existsStore is the one-method view of the customer and product repositories
// used to validate order references.
type existsStore interface {
	exists(ctx context.Context, id uint64) error
}

type customerExists struct{ s CustomerStore }

func (e customerExists) exists(ctx context.Context, id uint64) error {
	_, err := e.s.GetByID(ctx, id)
	return err
}

type productExists struct{ s ProductStore }

func (e productExists) exists(ctx context.Context, id uint64) error {
	_, err := e.s.GetByID(ctx, id)
	return err
}

// OrderHandler implements the admin order CRUD and the customer-facing
// /orders/me endpoints. Mutations consult the ownership policy before
// touching the store, and order creation emits a best-effort order.placed
// event.
type OrderHandler struct {
	Orders      OrderStore
	Customers   existsStore
	Products    existsStore
	Transitions policy.TransitionValidator
	Publish     func(ctx context.Context, ev queue.OrderPlacedEvent) error
}

// NewOrderHandler wires an OrderHandler with the allow-any transition
// validator and the RabbitMQ publisher. Tests override both.
func NewOrderHandler(orders OrderStore, customers CustomerStore, products ProductStore,
	publish func(context.Context, queue.OrderPlacedEvent) error) *OrderHandler {
	return &OrderHandler{
		Orders:      orders,
		Customers:   customerExists{customers},
		Products:    productExists{products},
		Transitions: policy.AllowAny{},
		Publish:     publish,
	}
}

type createOrderReq struct {
	CustomerID      uint64                `json:"customer_id"`
	Items           []model.OrderItem     `json:"products"`
	TotalPrice      float64               `json:"total_price"`
	Status          string                `json:"status"`
	PaymentMethod   string                `json:"payment_method"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
}

type updateOrderReq struct {
	Status          *string              `json:"status"`
	TotalPrice      *float64             `json:"total_price"`
	PaymentMethod   *string              `json:"payment_method"`
	ShippingAddress policy.ShippingPatch `json:"shipping_address"`
	Phone           *string              `json:"phone"`
}

type shippingUpdateReq struct {
	ShippingAddress policy.ShippingPatch `json:"shipping_address"`
	Phone           *string              `json:"phone"`
}

// List returns every order. Admin only.
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns one order by path id. Admin only.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching order"})
	}
	return c.JSON(http.StatusOK, order)
}

// Create inserts an order on behalf of any customer. Admin only; the
// customer-facing variant is CreateMine.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	return h.create(c, req)
}

// CreateMine inserts an order owned by the authenticated customer. The owner
// always comes from the token, never from the body.
func (h *OrderHandler) CreateMine(c echo.Context) error {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.CustomerID = userID
	return h.create(c, req)
}

func (h *OrderHandler) create(c echo.Context, req createOrderReq) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Customers.exists(ctx, req.CustomerID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Customer does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating order"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "At least one product is required"})
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Quantity must be at least 1"})
		}
		if err := h.Products.exists(ctx, it.ProductID); err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": fmt.Sprintf("Product with id %d does not exist", it.ProductID)})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating order"})
		}
	}
	if req.TotalPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Total price must not be negative"})
	}
	if req.Status != "" && !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status"})
	}
	if !completeAddress(req.ShippingAddress) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "All shipping address fields are required"})
	}

	order := &model.Order{
		CustomerID:      req.CustomerID,
		Items:           req.Items,
		TotalPrice:      req.TotalPrice,
		Status:          req.Status,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
	}
	if err := h.Orders.Create(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating order"})
	}

	if h.Publish != nil {
		// Best effort; a broker outage must not fail the order.
		_ = h.Publish(ctx, queue.OrderPlacedEvent{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			ItemCount:  len(order.Items),
			TotalPrice: order.TotalPrice,
			Status:     order.Status,
			City:       order.ShippingAddress.City,
			Country:    order.ShippingAddress.Country,
			PlacedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusCreated, order)
}

// Update applies an admin mutation to any order. The ownership policy still
// runs so a non-admin reaching this handler can only touch their own order,
// and only its shipping fields; status, totals and payment method are
// admin-only. Status changes pass through the transition validator, which by
// default allows any move within the permitted set.
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}
	userID, role, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
	}
	var req updateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating order"})
	}
	if err := policy.AuthorizeMutation(order, userID, role); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied. You can only update your own order."})
	}
	adminOnly := req.Status != nil || req.TotalPrice != nil || req.PaymentMethod != nil
	if adminOnly && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied. You do not have the required role."})
	}

	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status"})
		}
		if err := h.Transitions.Validate(order.Status, *req.Status); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		order.Status = *req.Status
	}
	if req.TotalPrice != nil {
		if *req.TotalPrice < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Total price must not be negative"})
		}
		order.TotalPrice = *req.TotalPrice
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}
	req.ShippingAddress.Apply(&order.ShippingAddress)
	if req.Phone != nil {
		order.ShippingAddress.Phone = *req.Phone
	}

	if err := h.Orders.Update(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating order"})
	}
	return c.JSON(http.StatusOK, order)
}

// Delete removes an order and echoes the deleted record. Admin only.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting order"})
	}
	if err := h.Orders.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully", "deletedOrder": order})
}

// ListMine returns the authenticated customer's own orders.
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID, _, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByCustomer(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching customer orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetMine returns one of the authenticated customer's orders. The lookup is
// owner-scoped, so an order belonging to someone else reports the same 404 as
// a missing one.
func (h *OrderHandler) GetMine(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}
	userID, _, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.GetByIDForCustomer(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found or access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching customer order"})
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateShippingMine merges the supplied shipping-address fields into one of
// the authenticated customer's orders. Completed orders refuse the edit.
// Only shipping fields can change through this path, whatever the body says.
func (h *OrderHandler) UpdateShippingMine(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid order ID"})
	}
	userID, _, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
	}
	var req shippingUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if req.ShippingAddress.Empty() && req.Phone == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "At least one shipping address field is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.GetByIDForCustomer(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Order not found or access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating shipping address"})
	}
	if err := policy.CheckShippingUpdate(order); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cannot update shipping address for completed orders"})
	}

	req.ShippingAddress.Apply(&order.ShippingAddress)
	if req.Phone != nil {
		order.ShippingAddress.Phone = *req.Phone
	}
	if err := h.Orders.UpdateShippingAddress(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating shipping address"})
	}
	return c.JSON(http.StatusOK, order)
}

func completeAddress(a model.ShippingAddress) bool {
	return a.Street != "" && a.City != "" && a.PostalCode != "" && a.Country != "" && a.Phone != ""
}
