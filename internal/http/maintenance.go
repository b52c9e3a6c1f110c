package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaintenanceStore defines the storage maintenance operations.
type MaintenanceStore interface {
	ClearAll(ctx context.Context) error
	GetStorageSize(ctx context.Context) (int64, error)
}

type MaintenanceController struct {
	store MaintenanceStore
}

func NewMaintenanceController(store MaintenanceStore) *MaintenanceController {
	return &MaintenanceController{store: store}
}

// GetStorageSize reports how many bytes the library occupies on disk.
// GET /api/storage
func (mc *MaintenanceController) GetStorageSize(c *gin.Context) {
	size, err := mc.store.GetStorageSize(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "get storage size")
		return
	}

	c.JSON(http.StatusOK, gin.H{"size_bytes": size})
}

// ClearAll wipes every stored record: books, files, annotations,
// progress, sessions, collections and settings. Requires the confirm
// parameter as a guard against accidental calls.
// DELETE /api/storage
func (mc *MaintenanceController) ClearAll(c *gin.Context) {
	if c.Query("confirm") != "true" {
		respondBadRequest(c, "confirm=true is required")
		return
	}

	if err := mc.store.ClearAll(c.Request.Context()); err != nil {
		respondInternalError(c, err, "clear storage")
		return
	}

	respondSuccess(c, "storage cleared")
}
