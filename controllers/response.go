package controllers

import (
	"github.com/ayoogunade/AyoZon/services"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, svcErr *services.ServiceError) {
	body := gin.H{"error": svcErr.Message}
	if svcErr.Details != "" {
		body["details"] = svcErr.Details
	}
	c.JSON(svcErr.StatusCode, body)
}
