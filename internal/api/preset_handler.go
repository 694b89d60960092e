package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stampflow-backend-go/internal/core"
)

// PresetHandler handles the preset catalog endpoints.
type PresetHandler struct {
	presetService core.PresetService
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(ps core.PresetService) *PresetHandler {
	return &PresetHandler{presetService: ps}
}

// List handles GET /presets/list. The catalog is seeded with defaults on the
// first empty read.
func (h *PresetHandler) List(c *gin.Context) {
	presets, err := h.presetService.List(c.Request.Context())
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PresetListResponse{Presets: presets})
}
