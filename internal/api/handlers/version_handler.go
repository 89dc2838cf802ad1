package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestionloc/gestionloc_service/pkg/version"
)

// Version returns build information
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
