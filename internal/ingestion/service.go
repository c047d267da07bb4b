package ingestion

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skshmgpt/folio/internal/core/storage"
)

type Service struct {
	store            storage.SummaryStore
	dedup            *Deduper
	maxBodySizeBytes int
	now              func() time.Time
}

// NewService creates the ingestion service. dedup may be nil, in which case
// every accepted event is counted, retries included.
func NewService(repo storage.SummaryStore, maxBodySizeKB int, dedup *Deduper) *Service {
	if repo == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeKB <= 0 {
		maxBodySizeKB = 64 // default to 64KB
	}
	return &Service{
		store:            repo,
		dedup:            dedup,
		maxBodySizeBytes: maxBodySizeKB * 1024,
		now:              time.Now,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Path the blog's tracker posts to.
	r.POST("/api/metrics", s.IngestHandler)

	// Versioned alias.
	r.POST("/v1/events", s.IngestHandler)
}
