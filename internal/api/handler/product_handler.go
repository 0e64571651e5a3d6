package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/marketplace-api/internal/api/metrics"
	"github.com/marketsquare/marketplace-api/internal/core/domain"
	"github.com/marketsquare/marketplace-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products. Public.
//
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {array}  domain.Product
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return policyError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /products/:id. Public.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return policyError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Create handles POST /products. Sellers only; the owner is taken from the
// authenticated identity, never from the payload.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	product, err := h.service.Create(c.Request().Context(), identityFromContext(c), ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return policyError(c, err)
	}

	metrics.ProductsCreatedTotal.Inc()
	return c.JSON(http.StatusOK, product)
}

// Update handles PUT /products/:id. Sellers only, own products only; applies
// name and price.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "Mutable fields"
// @Success      200   {object}  domain.Product
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	product, err := h.service.Update(c.Request().Context(), identityFromContext(c), c.Param("id"), ports.UpdateProductInput{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		return policyError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /products/:id. Sellers only, own products only.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), identityFromContext(c), c.Param("id")); err != nil {
		return policyError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// Mine handles GET /products/my-products. Sellers only.
//
// @Summary      List the caller's own products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Product
// @Failure      403  {object}  errorResponse
// @Router       /products/my-products [get]
func (h *ProductHandler) Mine(c echo.Context) error {
	products, err := h.service.ListMine(c.Request().Context(), identityFromContext(c))
	if err != nil {
		return policyError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// policyError maps domain errors from the access policy onto HTTP statuses
// and counts denials. Unknown errors fall through to the central handler.
func policyError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return denied(c, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, domain.ErrForbidden):
		return denied(c, http.StatusForbidden, "access forbidden")
	case errors.Is(err, domain.ErrProductNotFound):
		return denied(c, http.StatusNotFound, "product not found")
	}
	return err
}

func denied(c echo.Context, status int, msg string) error {
	metrics.PolicyDenialsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	return c.JSON(status, errorResponse{Error: msg})
}
