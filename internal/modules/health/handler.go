package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storagebox/internal/config"
)

// ObjectStore is the slice of the blob store the probes need.
type ObjectStore interface {
	HeadBucket(ctx context.Context) bool
}

type Handler struct {
	cfg   *config.Config
	store ObjectStore
}

func NewHandler(cfg *config.Config, store ObjectStore) *Handler {
	return &Handler{cfg: cfg, store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Root)
	rg.GET("/health", h.Health)
	rg.GET("/test-s3", h.TestS3)
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.cfg.AppName + " API is running"})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// TestS3 probes bucket connectivity. A failed probe is still a 200; the body
// carries the verdict.
func (h *Handler) TestS3(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"s3_connected": h.store.HeadBucket(c.Request.Context()),
		"bucket":       h.cfg.AWSS3Bucket,
		"region":       h.cfg.AWSRegion,
	})
}
