package controllers

import (
	"net/http"

	"github.com/ayoogunade/AyoZon/logger"
	"github.com/ayoogunade/AyoZon/services"
	"github.com/ayoogunade/AyoZon/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

// ProductController handles catalog requests.
type ProductController struct {
	productService services.ProductService
	log            *zap.Logger
}

func NewProductController(productService services.ProductService, log *zap.Logger) *ProductController {
	return &ProductController{productService: productService, log: log}
}

// GetProducts handles GET /products.
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, svcErr := pc.productService.ListProducts(c.Request.Context())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, products)
}

// AddProduct handles POST /add_product (admin, multipart).
func (pc *ProductController) AddProduct(c *gin.Context) {
	in, cleanup, ok := pc.bindProductForm(c)
	if !ok {
		return
	}
	defer cleanup()

	product, svcErr := pc.productService.CreateProduct(c.Request.Context(), in)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Product added successfully!",
		"product_id": product.ID.Hex(),
	})
}

// UpdateProduct handles PUT /products/:id (admin, multipart).
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	in, cleanup, ok := pc.bindProductForm(c)
	if !ok {
		return
	}
	defer cleanup()

	if _, svcErr := pc.productService.UpdateProduct(c.Request.Context(), id, in); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Product updated successfully!",
		"product_id": id,
	})
}

// DeleteProduct handles DELETE /products/:id (admin).
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if svcErr := pc.productService.DeleteProduct(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Product deleted successfully!",
		"product_id": id,
	})
}

// bindProductForm reads the multipart fields and the optional "image" file.
// The returned cleanup closes the file and must be called when ok is true.
func (pc *ProductController) bindProductForm(c *gin.Context) (services.ProductInput, func(), bool) {
	noop := func() {}
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && err != http.ErrNotMultipart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data", "details": err.Error()})
		return services.ProductInput{}, noop, false
	}

	in := services.ProductInput{
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Description: c.PostForm("description"),
	}

	fh, err := c.FormFile("image")
	if err != nil || fh.Filename == "" {
		return in, noop, true
	}
	f, err := fh.Open()
	if err != nil {
		logger.FromContext(c, pc.log).Error("Failed to open uploaded image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error", "details": err.Error()})
		return services.ProductInput{}, noop, false
	}
	in.Image = &storage.Upload{
		Filename:    fh.Filename,
		Body:        f,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}
	return in, func() { _ = f.Close() }, true
}
