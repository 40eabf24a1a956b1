// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/product"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	productService *product.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns a paginated product list
func (h *ProductHandler) List(c *gin.Context) {
	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.productService.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    response,
	})
}

// Search searches products by name and description. A blank query is a
// validation error before any database access.
func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if err := product.ValidateSearchQuery(query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	response, err := h.productService.Search(query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    response,
	})
}

// Get returns a product by numeric id or slug
func (h *ProductHandler) Get(c *gin.Context) {
	idParam := c.Param("id")

	var (
		prod *product.Product
		err  error
	)
	if id, convErr := strconv.ParseUint(idParam, 10, 32); convErr == nil {
		prod, err = h.productService.Get(uint(id))
	} else {
		prod, err = h.productService.GetBySlug(idParam)
	}

	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    prod,
	})
}
