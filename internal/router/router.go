// Package router wires the HTTP route table: which handler answers which
// path, and which gates (authentication, role, rate limit, cache) sit in
// front of it.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/auth"
	"github.com/minhhua/figure-store/internal/handler"
	"github.com/minhhua/figure-store/internal/middleware"
	"github.com/minhhua/figure-store/internal/model"
)

// RegisterRoutes registers the routes that carry no middleware at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints. Both are unauthenticated
// and sit behind the rate limiter so password guessing costs attempts.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterCustomers registers the customer endpoints. The /me pair needs only
// a valid token; the id-addressed CRUD is admin territory.
func RegisterCustomers(e *echo.Echo, h *handler.CustomerHandler, issuer *auth.Issuer) {
	jwtmw := middleware.JWTAuth(issuer)

	me := e.Group("/v1/customers/me", jwtmw)
	me.GET("", h.Me)
	me.PUT("", h.UpdateMe)

	admin := e.Group("/v1/customers", jwtmw, middleware.RequireRole(model.RoleAdmin))
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// RegisterOrders registers the order endpoints. Customers place and inspect
// their own orders under /v1/orders/me; everything id-addressed at the top
// level is admin-only.
func RegisterOrders(e *echo.Echo, h *handler.OrderHandler, issuer *auth.Issuer) {
	jwtmw := middleware.JWTAuth(issuer)

	mine := e.Group("/v1/orders/me", jwtmw)
	mine.GET("", h.ListMine)
	mine.POST("", h.CreateMine)
	mine.GET("/:id", h.GetMine)
	mine.PUT("/:id", h.UpdateShippingMine)

	admin := e.Group("/v1/orders", jwtmw, middleware.RequireRole(model.RoleAdmin))
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// RegisterCatalog registers the product and category endpoints. Reads are
// public and cacheable; writes require an admin token.
func RegisterCatalog(e *echo.Echo, p *handler.ProductHandler, c *handler.CategoryHandler,
	issuer *auth.Issuer, cache echo.MiddlewareFunc) {
	e.GET("/v1/products", p.List, cache)
	e.GET("/v1/products/:id", p.Get, cache)
	e.GET("/v1/categories", c.List, cache)
	e.GET("/v1/categories/:id", c.Get, cache)

	adminmw := []echo.MiddlewareFunc{middleware.JWTAuth(issuer), middleware.RequireRole(model.RoleAdmin)}
	products := e.Group("/v1/products", adminmw...)
	products.POST("", p.Create)
	products.PUT("/:id", p.Update)
	products.DELETE("/:id", p.Delete)

	categories := e.Group("/v1/categories", adminmw...)
	categories.POST("", c.Create)
	categories.PUT("/:id", c.Update)
	categories.DELETE("/:id", c.Delete)
}
