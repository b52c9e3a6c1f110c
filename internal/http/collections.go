package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openleaf/reader/internal/entities"
)

// CollectionsStore defines database operations for collections.
type CollectionsStore interface {
	SaveCollection(ctx context.Context, collection *entities.Collection) (string, error)
	GetCollection(ctx context.Context, id string) (*entities.Collection, error)
	GetAllCollections(ctx context.Context) ([]entities.Collection, error)
	UpdateCollection(ctx context.Context, id string, updates map[string]any) error
	DeleteCollection(ctx context.Context, id string) error
}

type CollectionsController struct {
	store CollectionsStore
}

func NewCollectionsController(store CollectionsStore) *CollectionsController {
	return &CollectionsController{store: store}
}

// ListCollections returns all collections.
// GET /api/collections
func (cc *CollectionsController) ListCollections(c *gin.Context) {
	collections, err := cc.store.GetAllCollections(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": collections, "total": len(collections)})
}

// GetCollection returns one collection.
// GET /api/collections/:id
func (cc *CollectionsController) GetCollection(c *gin.Context) {
	collection, err := cc.store.GetCollection(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get collection")
		return
	}
	if collection == nil {
		respondNotFound(c, "collection")
		return
	}

	c.JSON(http.StatusOK, collection)
}

// CreateCollection stores a new collection.
// POST /api/collections
func (cc *CollectionsController) CreateCollection(c *gin.Context) {
	var collection entities.Collection
	if err := c.ShouldBindJSON(&collection); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if strings.TrimSpace(collection.Name) == "" {
		respondBadRequest(c, "name is required")
		return
	}

	if collection.ID == "" {
		collection.ID = uuid.NewString()
	}
	if collection.BookIDs == nil {
		collection.BookIDs = []string{}
	}
	now := time.Now()
	collection.CreatedAt = now
	collection.UpdatedAt = now

	id, err := cc.store.SaveCollection(c.Request.Context(), &collection)
	if err != nil {
		respondInternalError(c, err, "create collection")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "collection created", "id": id})
}

// UpdateCollection applies a partial update. The book_ids field
// replaces the membership list wholesale.
// PATCH /api/collections/:id
func (cc *CollectionsController) UpdateCollection(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if len(updates) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	existing, err := cc.store.GetCollection(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "update collection")
		return
	}
	if existing == nil {
		respondNotFound(c, "collection")
		return
	}

	updates["updated_at"] = time.Now()
	if err := cc.store.UpdateCollection(c.Request.Context(), c.Param("id"), updates); err != nil {
		respondInternalError(c, err, "update collection")
		return
	}

	respondSuccess(c, "collection updated")
}

// DeleteCollection removes a collection. The books themselves are
// untouched.
// DELETE /api/collections/:id
func (cc *CollectionsController) DeleteCollection(c *gin.Context) {
	if err := cc.store.DeleteCollection(c.Request.Context(), c.Param("id")); err != nil {
		respondInternalError(c, err, "delete collection")
		return
	}

	respondSuccess(c, "collection deleted")
}
