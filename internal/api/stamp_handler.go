package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stampflow-backend-go/internal/core"
	"stampflow-backend-go/internal/models"
)

// StampHandler handles the stamp lifecycle endpoints.
type StampHandler struct {
	stampService core.StampService
}

// NewStampHandler creates a new StampHandler.
func NewStampHandler(ss core.StampService) *StampHandler {
	return &StampHandler{stampService: ss}
}

// SetPreset handles POST /stamps/set-preset.
func (h *StampHandler) SetPreset(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.SetPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	stamp, err := h.stampService.SetPreset(c.Request.Context(), userID, req.StampID, req.PresetID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SetPresetResponse{
		StampID:  stamp.ID,
		PresetID: stamp.PresetID,
		Status:   stamp.Status,
	})
}

// Generate handles POST /stamps/generate.
func (h *StampHandler) Generate(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.StampActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	stamp, err := h.stampService.Generate(c.Request.Context(), userID, req.StampID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StampActionResponse{StampID: stamp.ID, Status: stamp.Status})
}

// Submit handles POST /stamps/submit.
func (h *StampHandler) Submit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.StampActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	stamp, err := h.stampService.Submit(c.Request.Context(), userID, req.StampID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StampActionResponse{StampID: stamp.ID, Status: stamp.Status})
}

// Retry handles POST /stamps/retry.
func (h *StampHandler) Retry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.StampActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	stamp, err := h.stampService.Retry(c.Request.Context(), userID, req.StampID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, RetryResponse{
		StampID:    stamp.ID,
		Status:     stamp.Status,
		RetryCount: stamp.RetryCount,
	})
}

// Status handles GET /stamps/:id/status, the polling endpoint.
func (h *StampHandler) Status(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	stampID := c.Param("id")
	if stampID == "" {
		badRequest(c, "Stamp ID is required")
		return
	}

	stamp, err := h.stampService.GetOwned(c.Request.Context(), userID, stampID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StampStatusResponse{
		StampID:    stamp.ID,
		Status:     stamp.Status,
		RetryCount: stamp.RetryCount,
		PresetID:   stamp.PresetID,
		CreatedAt:  stamp.CreatedAt,
		UpdatedAt:  stamp.UpdatedAt,
	})
}

// Preview handles GET /stamps/:id/preview.
func (h *StampHandler) Preview(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	stampID := c.Param("id")
	if stampID == "" {
		badRequest(c, "Stamp ID is required")
		return
	}

	preview, err := h.stampService.Preview(c.Request.Context(), userID, stampID)
	if err != nil {
		mapServiceError(c, err)
		return
	}

	processed := preview.ProcessedImages
	if processed == nil {
		processed = []*models.Image{}
	}
	c.JSON(http.StatusOK, PreviewResponse{
		StampID:         preview.Stamp.ID,
		Status:          preview.Stamp.Status,
		ProcessedImages: processed,
		MainImage:       preview.MainImage,
	})
}
