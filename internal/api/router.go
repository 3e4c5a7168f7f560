package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/cache"
	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/keywords"
	"github.com/Adda-Baaj/tour-sosik/internal/logger"
	"github.com/Adda-Baaj/tour-sosik/internal/report"
	"github.com/Adda-Baaj/tour-sosik/pkg/providers"

	"github.com/gin-gonic/gin"
)

// AllSources is the source filter value meaning "no filter".
const AllSources = "전체"

// SnapshotLoader serves the cached harvest.
type SnapshotLoader interface {
	Load(ctx context.Context) cache.Snapshot
	Invalidate(ctx context.Context) error
}

// Server exposes the harvested news as JSON.
type Server struct {
	loader    SnapshotLoader
	filter    *keywords.Filter
	pipeline  string
	providers []providers.Provider
	log       logger.Logger
}

// NewServer creates a Server over loader. filter drives title highlighting.
func NewServer(loader SnapshotLoader, pipeline string, list []providers.Provider, filter *keywords.Filter, log logger.Logger) *Server {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Server{
		loader:    loader,
		filter:    filter,
		pipeline:  pipeline,
		providers: append([]providers.Provider(nil), list...),
		log:       log,
	}
}

// NewRouter returns a gin engine with recovery, request logging and the
// Server's routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/sources", s.listSources)
		v1.POST("/refresh", s.refresh)
	}
}

type newsItem struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	TitleHTML string `json:"title_html"`
	Link      string `json:"link"`
	Date      string `json:"date"`
}

type newsStats struct {
	Total         int `json:"total"`
	Filtered      int `json:"filtered"`
	ActiveSources int `json:"active_sources"`
}

type newsPayload struct {
	Pipeline  string     `json:"pipeline"`
	Items     []newsItem `json:"items"`
	Stats     newsStats  `json:"stats"`
	FetchedAt time.Time  `json:"fetched_at"`
	Cached    bool       `json:"cached"`
}

type sourceEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	Items int    `json:"items"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	source := strings.TrimSpace(c.Query("source"))
	if source == AllSources {
		source = ""
	}
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))

	snap := s.loader.Load(harvestContext(c))

	out := make([]newsItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		if source != "" && it.Source != source {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(it.Title), query) {
			continue
		}
		out = append(out, newsItem{
			Source:    it.Source,
			Title:     it.Title,
			TitleHTML: string(report.HighlightHTML(s.filter, it.Title)),
			Link:      it.Link,
			Date:      it.Date,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": newsPayload{
			Pipeline: s.pipeline,
			Items:    out,
			Stats: newsStats{
				Total:         len(snap.Items),
				Filtered:      len(out),
				ActiveSources: len(countBySource(snap.Items)),
			},
			FetchedAt: snap.FetchedAt,
			Cached:    snap.Cached,
		},
	})
}

func (s *Server) listSources(c *gin.Context) {
	counts := countBySource(s.loader.Load(harvestContext(c)).Items)

	out := make([]sourceEntry, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, sourceEntry{
			ID:    p.ID,
			Name:  p.DisplayName(),
			Type:  p.Type,
			URL:   p.SourceURL,
			Items: counts[p.DisplayName()],
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    out,
	})
}

func (s *Server) refresh(c *gin.Context) {
	if err := s.loader.Invalidate(c.Request.Context()); err != nil {
		s.log.ErrorObj("cache invalidate failed", "cache_invalidate_failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"code":    "ok",
		"message": "cache cleared, next request fetches fresh results",
	})
}

// harvestContext outlives the request: a harvest started by one reader is
// shared through the cache, so a client hanging up must not cut it short.
func harvestContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func countBySource(items []domain.NewsItem) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Source]++
	}
	return counts
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.DebugObj("http request", "http_request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
