package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shortsboard/shorts-analytics/internal/middleware"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

// Handlers groups everything the router mounts. Metrics is optional.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Handlers struct {
	Health     *HealthHandler
	Sync       *SyncHandler
	Videos     *VideoHandler
	Embeddings *EmbeddingHandler
	Assistant  *AssistantHandler
	Metrics    http.Handler

	// AllowOrigins enables CORS for the listed dashboard origins.
	AllowOrigins []string
}

// NewRouter builds the gin engine with every API route.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger.L()), middleware.Recovery(logger.L()))
	if len(h.AllowOrigins) > 0 {
		router.Use(middleware.CORS(h.AllowOrigins))
	}

	router.GET("/health/live", h.Health.LivenessProbe)
	router.GET("/health/ready", h.Health.ReadinessProbe)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/sync", h.Sync.TriggerSync)

		api.GET("/videos", h.Videos.ListVideos)
		api.GET("/videos/:video_id", h.Videos.GetVideo)
		api.GET("/videos/:video_id/history", h.Videos.GetHistory)
		api.GET("/videos/:video_id/embedding", h.Videos.GetEmbedding)

		api.GET("/embeddings", h.Embeddings.ListEmbeddings)
		api.POST("/embeddings", h.Embeddings.CreateEmbedding)
		api.GET("/embeddings/:id", h.Embeddings.GetEmbedding)
		api.PUT("/embeddings/:id", h.Embeddings.UpdateEmbedding)
		api.DELETE("/embeddings/:id", h.Embeddings.DeleteEmbedding)
		api.PUT("/embeddings/:id/assignment", h.Embeddings.AssignEmbedding)
		api.DELETE("/embeddings/:id/assignment", h.Embeddings.UnassignEmbedding)

		api.POST("/assistant/prompt", h.Assistant.BuildPrompt)
		api.POST("/chat", h.Assistant.Chat)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "No route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return router
}
