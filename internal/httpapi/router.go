package httpapi

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the API routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/generate_video", h.GenerateVideo)
		api.GET("/job_status/:id", h.JobStatus)
		api.GET("/jobs", h.ListJobs)
		api.GET("/download/:id", h.Download)
		api.POST("/scrape_article", h.ScrapeArticle)
	}

	return router
}
