package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ainewslab/autopress/app/cfg"
	"github.com/ainewslab/autopress/app/publisher"
	"github.com/ainewslab/autopress/app/store"
)

func NewHandler(st PostsStore, archive RunArchive, trigger PipelineTrigger) *Handler {
	return &Handler{
		store:     st,
		archive:   archive,
		trigger:   trigger,
		outputDir: cfg.Get().OutputDir,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if posts, err := h.store.LoadPosts(); err == nil {
		health["posts"] = len(posts)
	}

	if candidates, err := h.store.LoadCandidates(); err == nil {
		pending := 0
		for _, cand := range candidates {
			if cand.Status == store.StatusPending {
				pending++
			}
		}
		health["candidates"] = len(candidates)
		health["pending_candidates"] = pending
	}

	if h.archive != nil {
		if count, err := h.archive.RunCount(); err == nil {
			health["archived_runs"] = count
		}
	}

	if h.trigger != nil {
		health["run_in_progress"] = h.trigger.IsRunning()
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetFeed(c *gin.Context) {
	posts, err := h.store.LoadPosts()
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss := publisher.GenerateRSS(posts)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(posts)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetPosts(c *gin.Context) {
	posts, err := h.store.LoadPosts()
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"posts": posts,
		"total": len(posts),
	})
}

// GetStatus serves the latest run status artifact verbatim.
func (h *Handler) GetStatus(c *gin.Context) {
	data, err := os.ReadFile(filepath.Join(h.outputDir, "pipeline-status.json"))
	if os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pipeline run recorded yet"})
		return
	}
	if err != nil {
		slog.Error("Failed to read status artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read status artifact"})
		return
	}

	var status json.RawMessage = data
	c.JSON(http.StatusOK, status)
}

func (h *Handler) APIListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.archive.RecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run archive"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"total": len(runs),
	})
}

func (h *Handler) APITriggerRun(c *gin.Context) {
	if err := h.trigger.TriggerRun(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Failed to trigger pipeline run",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Pipeline run triggered",
	})
}
