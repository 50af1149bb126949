package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/services"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type ContentHandler struct {
	log        *logger.Logger
	contentSvc services.ContentService
}

func NewContentHandler(log *logger.Logger, contentSvc services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:        log.With("handler", "ContentHandler"),
		contentSvc: contentSvc,
	}
}

type syncContentRequest struct {
	ContentType types.ContentType `json:"content_type" binding:"required"`
	ContentID   uuid.UUID         `json:"content_id" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Category    string            `json:"category"`
	Tags        []string          `json:"tags"`
	CreatedAt   *time.Time        `json:"created_at"`
}

// POST /api/content/sync
func (h *ContentHandler) Sync(c *gin.Context) {
	var req syncContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.contentSvc.Sync(c.Request.Context(), services.ContentSyncInput{
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Title:       req.Title,
		Category:    req.Category,
		Tags:        req.Tags,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "sync_content_failed", err)
		return
	}
	RespondOK(c, row)
}
