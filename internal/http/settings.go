package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleaf/reader/internal/settings"
)

type SettingsController struct {
	service *settings.Service
}

func NewSettingsController(service *settings.Service) *SettingsController {
	return &SettingsController{service: service}
}

// GetSettings returns the effective reader settings. Out-of-range
// stored values come back already corrected. The reload parameter
// bypasses the in-memory cache.
// GET /api/settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	forceReload := c.Query("reload") == "true"

	current, err := sc.service.Load(c.Request.Context(), forceReload)
	if err != nil {
		respondInternalError(c, err, "load settings")
		return
	}

	c.JSON(http.StatusOK, current)
}

// UpdateSettings merges a partial update onto the current settings and
// returns the persisted result. Invalid values are corrected, never
// rejected, so this endpoint only fails on malformed JSON or storage
// errors.
// PATCH /api/settings
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var update settings.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	next, err := sc.service.Update(c.Request.Context(), update)
	if err != nil {
		respondInternalError(c, err, "update settings")
		return
	}

	c.JSON(http.StatusOK, next)
}

// ResetSettings restores and returns the default settings.
// POST /api/settings/reset
func (sc *SettingsController) ResetSettings(c *gin.Context) {
	defaults, err := sc.service.Reset(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "reset settings")
		return
	}

	c.JSON(http.StatusOK, defaults)
}
