package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/auth"
	"github.com/minhhua/figure-store/internal/model"
	"github.com/minhhua/figure-store/internal/repository"
	"github.com/minhhua/figure-store/internal/utils"
)

// CustomerStore is the slice of the customer repository the handlers need.
// *repository.CustomerRepo satisfies it; tests substitute an in-memory fake.
type CustomerStore interface {
	Create(ctx context.Context, c *model.Customer, password string, cost int) error
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	GetByID(ctx context.Context, id uint64) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uint64) error
}

// AuthHandler implements registration and login. Both return a signed token
// alongside the created/verified customer record.
type AuthHandler struct {
	Customers  CustomerStore
	Issuer     *auth.Issuer
	BcryptCost int
}

func NewAuthHandler(customers CustomerStore, issuer *auth.Issuer, bcryptCost int) *AuthHandler {
	return &AuthHandler{Customers: customers, Issuer: issuer, BcryptCost: bcryptCost}
}

type registerReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Username    string `json:"username"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Token    string          `json:"token"`
	Customer *model.Customer `json:"customer"`
}

// Register creates a customer record and returns a token immediately. The
// role is always "customer"; elevation is not a self-service operation.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name, email, password, and username are required"})
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date_of_birth"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust := &model.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Username:    req.Username,
		Address:     req.Address,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Role:        model.RoleCustomer,
	}
	if err := h.Customers.Create(ctx, cust, req.Password, h.BcryptCost); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email already exists"})
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating customer"})
	}

	token, err := h.Issuer.Issue(cust.ID, cust.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error issuing token"})
	}
	return c.JSON(http.StatusCreated, authResp{Token: token, Customer: cust})
}

// Login verifies credentials by email and returns a fresh token. An unknown
// email and a wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal Server Error"})
	}
	if !utils.VerifyPassword(cust.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	token, err := h.Issuer.Issue(cust.ID, cust.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error issuing token"})
	}
	return c.JSON(http.StatusOK, authResp{Token: token, Customer: cust})
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
