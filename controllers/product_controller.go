package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mikeychann-hash/Evies-Epoxy/middleware"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
	"github.com/mikeychann-hash/Evies-Epoxy/services"
)

type ProductController struct {
	products *services.ProductService
	cache    *CacheManager
}

func NewProductController(products *services.ProductService, cache *CacheManager) *ProductController {
	return &ProductController{
		products: products,
		cache:    cache,
	}
}

// GetProducts lists active products, optionally filtered by featured flag
// and category slug.
func (pc *ProductController) GetProducts(c *gin.Context) {
	filter := repository.ProductFilter{ActiveOnly: true}
	if featured := c.Query("featured"); featured == "true" {
		t := true
		filter.Featured = &t
	}
	filter.CategorySlug = c.Query("category")

	filterKey := fmt.Sprintf("featured=%v:category=%s", filter.Featured != nil, filter.CategorySlug)
	if cached, ok := pc.cache.GetProductList(c.Request.Context(), filterKey); ok {
		c.JSON(http.StatusOK, gin.H{"products": cached})
		return
	}

	products, appErr := pc.products.List(c.Request.Context(), filter)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	pc.cache.SetProductListAsync(filterKey, products)
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProductByID returns one product. Inactive products 404 for everyone
// but administrators.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	isAdmin := middleware.IsAdmin(c)

	if !isAdmin {
		if cached, ok := pc.cache.GetProduct(c.Request.Context(), id.String()); ok && cached.IsActive {
			c.JSON(http.StatusOK, gin.H{"product": cached})
			return
		}
	}

	product, appErr := pc.products.Get(c.Request.Context(), id, isAdmin)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	pc.cache.SetProductAsync(id.String(), product)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct creates a product. Admin only.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req services.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	product, appErr := pc.products.Create(c.Request.Context(), &req)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	pc.cache.InvalidateProduct(c.Request.Context(), "")
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct updates a product. Admin only.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req services.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	product, appErr := pc.products.Update(c.Request.Context(), id, &req)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	pc.cache.InvalidateProduct(c.Request.Context(), id.String())
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct deletes a product, or deactivates it when historical orders
// reference it. Admin only.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	deactivated, appErr := pc.products.Delete(c.Request.Context(), id)
	if appErr != nil {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	pc.cache.InvalidateProduct(c.Request.Context(), id.String())

	if deactivated {
		c.JSON(http.StatusOK, gin.H{
			"message": "Product has been ordered before and was deactivated instead of deleted",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
