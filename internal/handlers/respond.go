package handlers

import (
	"net/http"

	"devzora-control-center/internal/logger"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope: {success, data?, message?}.

func respondOK(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, message string, data gin.H) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

func respondUpdated(c *gin.Context, message string, data gin.H) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func respondDeleted(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func notFound(c *gin.Context, entity string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": entity + " not found"})
}

// internalError logs the underlying error server-side and hides it from the
// client.
func internalError(c *gin.Context, err error) {
	logger.Log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}
