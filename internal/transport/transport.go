package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/antonk9218/imgsuite/internal/transport/middleware"
)

func InitRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api")
	{
		api.POST("/compress", handler.CompressImage)

		queue := api.Group("/queue")
		{
			queue.GET("", handler.ListQueue)
			queue.POST("/items", handler.EnqueueImages)
			queue.DELETE("/items/:id", handler.RemoveItem)
			queue.GET("/items/:id/preview", handler.ItemPreview)
			queue.GET("/items/:id/result", handler.ItemResult)
			queue.PUT("/active/:id", handler.SetActiveItem)
			queue.POST("/run", handler.RunBatch)
		}

		api.POST("/vision", middleware.Timeout(120), handler.RecognizeImage)
		api.POST("/generate", middleware.Timeout(120), handler.GenerateImage)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "image-utility-service",
		})
	})
	return router
}
