package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/services"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type InteractionHandler struct {
	log            *logger.Logger
	interactionSvc services.InteractionService
}

func NewInteractionHandler(log *logger.Logger, interactionSvc services.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		log:            log.With("handler", "InteractionHandler"),
		interactionSvc: interactionSvc,
	}
}

type recordInteractionRequest struct {
	UserID          uuid.UUID              `json:"user_id" binding:"required"`
	ContentType     types.ContentType      `json:"content_type" binding:"required"`
	ContentID       uuid.UUID              `json:"content_id" binding:"required"`
	InteractionType types.InteractionType  `json:"interaction_type" binding:"required"`
	Rating          *int                   `json:"rating"`
	DurationSeconds *int                   `json:"duration_seconds"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// POST /api/interactions
func (h *InteractionHandler) Record(c *gin.Context) {
	var req recordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.interactionSvc.Record(c.Request.Context(), services.InteractionInput{
		UserID:          req.UserID,
		ContentType:     req.ContentType,
		ContentID:       req.ContentID,
		InteractionType: req.InteractionType,
		Rating:          req.Rating,
		DurationSeconds: req.DurationSeconds,
		Metadata:        req.Metadata,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "record_interaction_failed", err)
		return
	}
	RespondCreated(c, gin.H{"interaction_id": row.ID, "created_at": row.CreatedAt})
}
