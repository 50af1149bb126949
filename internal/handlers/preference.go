package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/services"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type PreferenceHandler struct {
	log     *logger.Logger
	prefSvc services.PreferenceService
}

func NewPreferenceHandler(log *logger.Logger, prefSvc services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		log:     log.With("handler", "PreferenceHandler"),
		prefSvc: prefSvc,
	}
}

// GET /api/preferences?user_id&content_type
func (h *PreferenceHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", fmt.Errorf("user_id must be a uuid"))
		return
	}
	row, err := h.prefSvc.Get(c.Request.Context(), userID, types.ContentType(c.Query("content_type")))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "get_preferences_failed", err)
		return
	}
	RespondOK(c, row)
}

type updatePreferenceRequest struct {
	UserID            uuid.UUID              `json:"user_id" binding:"required"`
	ContentType       types.ContentType      `json:"content_type" binding:"required"`
	Preferences       map[string]interface{} `json:"preferences"`
	Interests         []string               `json:"interests"`
	BehaviorPatterns  map[string]interface{} `json:"behavior_patterns"`
	WeightPreferences map[string]float64     `json:"weight_preferences"`
}

// PUT /api/preferences
func (h *PreferenceHandler) Update(c *gin.Context) {
	var req updatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.prefSvc.Update(c.Request.Context(), req.UserID, req.ContentType, services.PreferenceUpdate{
		Preferences:       req.Preferences,
		Interests:         req.Interests,
		BehaviorPatterns:  req.BehaviorPatterns,
		WeightPreferences: req.WeightPreferences,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_preferences_failed", err)
		return
	}
	RespondOK(c, row)
}
