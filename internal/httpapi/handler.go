package httpapi

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/pipeline"
	"github.com/nguyentantai21042004/slidecast/internal/source"
	"github.com/nguyentantai21042004/slidecast/internal/worker"
)

const version = "1.0.0"

// Handler serves the video generation API.
type Handler struct {
	pool   worker.Pool
	jobs   jobs.Store
	source source.Source
	logger logger.Logger
}

// NewHandler creates a Handler backed by the worker pool and job store.
func NewHandler(pool worker.Pool, store jobs.Store, src source.Source, log logger.Logger) *Handler {
	return &Handler{pool: pool, jobs: store, source: src, logger: log}
}

type jobStatusResponse struct {
	jobs.Job
	DownloadURL string `json:"download_url,omitempty"`
}

type scrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

// GenerateVideo queues a generation job and answers with its id.
func (h *Handler) GenerateVideo(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text content or URL required"})
		return
	}
	// Server-side files are only reachable through the inbox.
	req.PDFPath = ""
	req.VoiceSample = ""

	id, err := h.pool.Submit(c.Request.Context(), req)
	switch {
	case errors.Is(err, pipeline.ErrEmptyRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text content or URL required"})
		return
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error(c.Request.Context(), "Error starting video generation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start video generation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":  id,
		"status":  "started",
		"message": "Video generation started",
	})
}

// JobStatus reports a job, with a download URL once it completed.
func (h *Handler) JobStatus(c *gin.Context) {
	job, ok := h.lookup(c)
	if !ok {
		return
	}

	resp := jobStatusResponse{Job: job}
	if job.Status == jobs.StatusCompleted {
		resp.DownloadURL = "/api/download/" + job.ID
	}
	c.JSON(http.StatusOK, resp)
}

// ListJobs returns the most recent jobs, newest first.
func (h *Handler) ListJobs(c *gin.Context) {
	list, err := h.jobs.List(c.Request.Context(), 50)
	if err != nil {
		h.logger.Error(c.Request.Context(), "List jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
		return
	}
	if list == nil {
		list = []jobs.Job{}
	}
	c.JSON(http.StatusOK, list)
}

// Download serves the video of a completed job as an attachment.
func (h *Handler) Download(c *gin.Context) {
	job, ok := h.lookup(c)
	if !ok {
		return
	}
	if job.Status != jobs.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video not ready"})
		return
	}
	if _, err := os.Stat(job.OutputPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video file not found"})
		return
	}
	c.FileAttachment(job.OutputPath, job.ID+".mp4")
}

// ScrapeArticle previews the article at a URL without starting a job.
func (h *Handler) ScrapeArticle(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL required"})
		return
	}

	article, err := h.source.Preview(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Warn(c.Request.Context(), "Error scraping article: %v", err)
		var srcErr *source.SourceError
		if errors.As(err, &srcErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":        article.Title,
		"text":         article.Text,
		"author":       article.Author,
		"publish_date": article.PublishDate,
		"top_image":    article.ImageURL,
	})
}

// Health is the liveness endpoint.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

// lookup loads the job named by the :id parameter, answering 404 itself.
func (h *Handler) lookup(c *gin.Context) (jobs.Job, bool) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return jobs.Job{}, false
	}
	if err != nil {
		h.logger.Error(c.Request.Context(), "Get job %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load job"})
		return jobs.Job{}, false
	}
	return job, true
}
