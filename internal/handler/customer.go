package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/middleware"
	"github.com/minhhua/figure-store/internal/repository"
	"github.com/minhhua/figure-store/internal/utils"
)

// CustomerHandler implements the admin customer CRUD and the self-service
// /customers/me endpoints.
type CustomerHandler struct {
	Customers  CustomerStore
	BcryptCost int
}

func NewCustomerHandler(customers CustomerStore, bcryptCost int) *CustomerHandler {
	return &CustomerHandler{Customers: customers, BcryptCost: bcryptCost}
}

type customerUpdateReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Username    string `json:"username"`
	DateOfBirth string `json:"date_of_birth"`
}

func (r customerUpdateReq) empty() bool {
	return r.Name == "" && r.Email == "" && r.Password == "" && r.Address == "" &&
		r.Phone == "" && r.Username == "" && r.DateOfBirth == ""
}

// List returns every customer record. Admin only (enforced by the router).
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	customers, err := h.Customers.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching customers"})
	}
	return c.JSON(http.StatusOK, customers)
}

// Get returns one customer by path id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid customer ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	return h.respondCustomer(c, ctx, id)
}

// Update merges the supplied fields into the customer identified by the path
// id. A supplied password is re-hashed; the role is never touched here.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid customer ID"})
	}
	return h.update(c, id)
}

// Delete removes a customer and echoes the deleted record.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid customer ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting customer"})
	}
	if err := h.Customers.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting customer"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted successfully", "deletedCustomer": cust})
}

// Me returns the authenticated customer's own record.
func (h *CustomerHandler) Me(c echo.Context) error {
	id, _, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	return h.respondCustomer(c, ctx, id)
}

// UpdateMe updates the authenticated customer's own profile. The same merge
// rules as the admin path apply; the role cannot be changed through here.
func (h *CustomerHandler) UpdateMe(c echo.Context) error {
	id, _, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
	}
	return h.update(c, id)
}

func (h *CustomerHandler) update(c echo.Context, id uint64) error {
	var req customerUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if req.empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "At least one field is required to update"})
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date_of_birth"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating customer"})
	}

	if req.Name != "" {
		cust.Name = req.Name
	}
	if req.Email != "" {
		cust.Email = req.Email
	}
	if req.Username != "" {
		cust.Username = req.Username
	}
	if req.Address != "" {
		cust.Address = req.Address
	}
	if req.Phone != "" {
		cust.Phone = req.Phone
	}
	if dob != nil {
		cust.DateOfBirth = dob
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating customer"})
		}
		cust.PasswordHash = hash
	}

	if err := h.Customers.Update(ctx, cust); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already exists"})
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username already exists"})
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating customer"})
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) respondCustomer(c echo.Context, ctx context.Context, id uint64) error {
	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching customer"})
	}
	return c.JSON(http.StatusOK, cust)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// reqCtx bounds a handler's store calls to a short deadline.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
