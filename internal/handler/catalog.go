package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/model"
	"github.com/minhhua/figure-store/internal/repository"
)

// ProductStore is the slice of the product repository the handlers need.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
}

// CategoryStore is the slice of the category repository the handlers need.
type CategoryStore interface {
	Create(ctx context.Context, cat *model.Category) error
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, cat *model.Category) error
	Delete(ctx context.Context, id uint64) error
}

// ProductHandler exposes the product catalog. Reads are public, writes sit
// behind the admin gate in the router.
type ProductHandler struct {
	Products ProductStore
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching products"})
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	product, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching product"})
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var p model.Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if p.Name == "" || p.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name and a non-negative price are required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Products.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating product"})
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	product, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating product"})
	}
	if err := c.Bind(product); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	product.ID = id
	if product.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Price must not be negative"})
	}
	if err := h.Products.Update(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating product"})
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	product, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting product"})
	}
	if err := h.Products.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting product"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully", "deletedProduct": product})
}

// CategoryHandler exposes the category catalog with the same public-read,
// admin-write split as products.
type CategoryHandler struct {
	Categories CategoryStore
}

func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	categories, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching categories"})
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	category, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching category"})
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var cat model.Category
	if err := c.Bind(&cat); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if cat.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.Create(ctx, &cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating category"})
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	category, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating category"})
	}
	if err := c.Bind(category); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	category.ID = id
	if err := h.Categories.Update(ctx, category); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating category"})
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category ID"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	category, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting category"})
	}
	if err := h.Categories.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting category"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully", "deletedCategory": category})
}
