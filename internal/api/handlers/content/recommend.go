// Package content holds the content-facing HTTP handlers.
package content

import (
	"context"
	"net/http"

	"media-tracker/internal/api/middleware"
	"media-tracker/internal/core/ai/openrouter"
	"media-tracker/internal/core/recommend"
	"media-tracker/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Curator runs the recommendation pipeline.
type Curator interface {
	Curate(ctx context.Context, userID string, contentType common.ContentType, isPremium bool) (*recommend.Result, error)
}

// Handler serves content endpoints.
type Handler struct {
	curator Curator
}

// NewHandler creates the content handler.
func NewHandler(curator Curator) *Handler {
	return &Handler{curator: curator}
}

// HandleRecommend serves GET /content/recommend. All non-fatal outcomes
// (gated, no history, zero verified candidates) are 200; only a generation
// failure is a server error.
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": common.ErrInvalidSession.Message,
			"code":  common.ErrInvalidSession.Code,
		})
		return
	}

	contentType, err := common.ParseContentType(c.Query("content_type"))
	if err != nil {
		common.LogWarn("invalid content_type parameter",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrInvalidContentType.Code,
		})
		return
	}

	common.LogInfo("handling recommendation request",
		zap.String("request_id", requestID),
		zap.String("user_id", id.UserID),
		zap.String("content_type", string(contentType)),
		zap.Bool("is_premium", id.IsPremium),
	)

	ctx := context.WithValue(c.Request.Context(), openrouter.RequestIDKey, requestID)

	result, err := h.curator.Curate(ctx, id.UserID, contentType, id.IsPremium)
	if err != nil {
		common.LogError("curation failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("user_id", id.UserID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate recommendations",
			"code":    common.ErrModelServiceError.Code,
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
