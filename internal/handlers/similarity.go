package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/services"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type SimilarityHandler struct {
	log           *logger.Logger
	similaritySvc services.SimilarityService
}

func NewSimilarityHandler(log *logger.Logger, similaritySvc services.SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{
		log:           log.With("handler", "SimilarityHandler"),
		similaritySvc: similaritySvc,
	}
}

type computeSimilarityRequest struct {
	Scope          string               `json:"scope" binding:"required"`
	SimilarityType types.SimilarityType `json:"similarity_type"`
	ContentType    types.ContentType    `json:"content_type"`
}

// POST /api/similarity/compute
func (h *SimilarityHandler) Compute(c *gin.Context) {
	var req computeSimilarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.SimilarityType == "" {
		req.SimilarityType = types.SimilarityTypeCosine
	}

	var (
		pairs int
		err   error
	)
	switch req.Scope {
	case "users":
		pairs, err = h.similaritySvc.ComputeUserSimilarities(c.Request.Context(), req.SimilarityType, req.ContentType)
	case "items":
		pairs, err = h.similaritySvc.ComputeItemSimilarities(c.Request.Context(), req.SimilarityType, req.ContentType)
	default:
		RespondError(c, http.StatusBadRequest, "invalid_scope", fmt.Errorf("scope must be %q or %q", "users", "items"))
		return
	}
	if err != nil {
		RespondError(c, http.StatusBadRequest, "compute_similarity_failed", err)
		return
	}
	RespondOK(c, gin.H{"scope": req.Scope, "similarity_type": req.SimilarityType, "pairs": pairs})
}
