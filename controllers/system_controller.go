package controllers

import (
	"errors"
	"net/http"

	"github.com/ayoogunade/AyoZon/services"
	"github.com/ayoogunade/AyoZon/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SystemController serves the public, non-catalog endpoints.
type SystemController struct {
	publishableKey string
	images         services.ImageOpener
	log            *zap.Logger
}

func NewSystemController(publishableKey string, images services.ImageOpener, log *zap.Logger) *SystemController {
	return &SystemController{publishableKey: publishableKey, images: images, log: log}
}

// Home handles GET /.
func (sc *SystemController) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Amazon Clone API!"})
}

// Health handles GET /health.
func (sc *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Config handles GET /config.
func (sc *SystemController) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishable_key": sc.publishableKey})
}

// ServeUpload handles GET /uploads/:filename.
func (sc *SystemController) ServeUpload(c *gin.Context) {
	obj, err := sc.images.Open(c.Request.Context(), c.Param("filename"))
	switch {
	case errors.Is(err, storage.ErrInvalidName), errors.Is(err, storage.ErrObjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	case err != nil:
		sc.log.Error("Failed to open upload", zap.String("filename", c.Param("filename")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, nil)
}
