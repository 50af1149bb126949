package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/services"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

// GET /api/recommendations?user_id&content_type&type&limit&exclude_dismissed&exclude_viewed
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", fmt.Errorf("user_id must be a uuid"))
		return
	}

	req := services.RecommendationRequest{
		UserID:             userID,
		ContentType:        types.ContentType(c.Query("content_type")),
		RecommendationType: types.RecommendationType(c.Query("type")),
		ExcludeDismissed:   true,
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > services.MaxRecommendationLimit {
			RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be between 1 and %d", services.MaxRecommendationLimit))
			return
		}
		req.Limit = limit
	}
	if raw := c.Query("exclude_dismissed"); raw != "" {
		req.ExcludeDismissed = raw != "false" && raw != "0"
	}
	if raw := c.Query("exclude_viewed"); raw != "" {
		req.ExcludeViewed = raw == "true" || raw == "1"
	}

	items, err := h.recSvc.GetRecommendations(c.Request.Context(), req)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "get_recommendations_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": items})
}

type dismissRequest struct {
	UserID             uuid.UUID                `json:"user_id" binding:"required"`
	ContentType        types.ContentType        `json:"content_type" binding:"required"`
	ContentID          uuid.UUID                `json:"content_id" binding:"required"`
	RecommendationType types.RecommendationType `json:"recommendation_type"`
}

// POST /api/recommendations/dismiss
func (h *RecommendationHandler) Dismiss(c *gin.Context) {
	var req dismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.recSvc.Dismiss(c.Request.Context(), req.UserID, req.ContentType, req.ContentID, req.RecommendationType)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "dismiss_failed", err)
		return
	}
	if row == nil {
		RespondOK(c, gin.H{"dismissed": false, "recommendation": nil})
		return
	}
	RespondOK(c, gin.H{"dismissed": true, "recommendation": row})
}

type feedbackRequest struct {
	UserID             uuid.UUID                `json:"user_id" binding:"required"`
	ContentType        types.ContentType        `json:"content_type" binding:"required"`
	ContentID          uuid.UUID                `json:"content_id" binding:"required"`
	FeedbackType       string                   `json:"feedback_type" binding:"required"`
	FeedbackData       interface{}              `json:"feedback_data"`
	RecommendationType types.RecommendationType `json:"recommendation_type"`
}

// POST /api/recommendations/feedback
func (h *RecommendationHandler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.recSvc.SubmitFeedback(c.Request.Context(), req.UserID, req.ContentType, req.ContentID, req.FeedbackType, req.FeedbackData, req.RecommendationType)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "feedback_failed", err)
		return
	}
	if row == nil {
		RespondOK(c, gin.H{"recorded": false, "recommendation": nil})
		return
	}
	RespondOK(c, gin.H{"recorded": true, "recommendation": row})
}

type purgeRequest struct {
	BeforeDays int `json:"before_days"`
}

// POST /api/recommendations/purge
func (h *RecommendationHandler) Purge(c *gin.Context) {
	var req purgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.BeforeDays <= 0 {
		req.BeforeDays = 90
	}
	n, err := h.recSvc.PurgeStale(c.Request.Context(), time.Duration(req.BeforeDays)*24*time.Hour)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "purge_failed", err)
		return
	}
	RespondOK(c, gin.H{"purged": n})
}
