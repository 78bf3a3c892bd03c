package routes

import (
	"net/http"

	"dropbot/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const PathStatus = "/status"

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addStatusRoutes(rg *gin.RouterGroup, statusHandler *handlers.StatusHandler) {
	status := rg.Group(PathStatus)
	{
		status.GET("/coins", statusHandler.GetCoins)
		status.GET("/items", statusHandler.GetItems)
	}
}
