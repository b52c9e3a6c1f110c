package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openleaf/reader/internal/entities"
)

// AnnotationsStore defines database operations for annotations.
type AnnotationsStore interface {
	SaveAnnotation(ctx context.Context, annotation *entities.Annotation) (string, error)
	GetAnnotation(ctx context.Context, id string) (*entities.Annotation, error)
	GetAnnotations(ctx context.Context, bookID string, annotationType entities.AnnotationType) ([]entities.Annotation, error)
	UpdateAnnotation(ctx context.Context, id string, updates map[string]any) error
	DeleteAnnotation(ctx context.Context, id string) error
}

type AnnotationsController struct {
	store AnnotationsStore
}

func NewAnnotationsController(store AnnotationsStore) *AnnotationsController {
	return &AnnotationsController{store: store}
}

// ListAnnotations returns a book's annotations, optionally filtered by
// type (highlight, note, bookmark).
// GET /api/books/:id/annotations
func (ac *AnnotationsController) ListAnnotations(c *gin.Context) {
	annotationType := entities.AnnotationType(c.Query("type"))

	annotations, err := ac.store.GetAnnotations(c.Request.Context(), c.Param("id"), annotationType)
	if err != nil {
		respondInternalError(c, err, "list annotations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"annotations": annotations, "total": len(annotations)})
}

// CreateAnnotation stores a new highlight, note or bookmark.
// POST /api/books/:id/annotations
func (ac *AnnotationsController) CreateAnnotation(c *gin.Context) {
	var annotation entities.Annotation
	if err := c.ShouldBindJSON(&annotation); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	switch annotation.Type {
	case entities.AnnotationTypeHighlight, entities.AnnotationTypeNote, entities.AnnotationTypeBookmark:
	default:
		respondBadRequest(c, "unknown annotation type")
		return
	}
	if annotation.Location == "" {
		respondBadRequest(c, "location is required")
		return
	}

	annotation.BookID = c.Param("id")
	if annotation.ID == "" {
		annotation.ID = uuid.NewString()
	}
	now := time.Now()
	annotation.CreatedAt = now
	annotation.UpdatedAt = now

	id, err := ac.store.SaveAnnotation(c.Request.Context(), &annotation)
	if err != nil {
		respondInternalError(c, err, "create annotation")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "annotation created", "id": id})
}

// UpdateAnnotation applies a partial update to an annotation.
// PATCH /api/annotations/:id
func (ac *AnnotationsController) UpdateAnnotation(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if len(updates) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	existing, err := ac.store.GetAnnotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "update annotation")
		return
	}
	if existing == nil {
		respondNotFound(c, "annotation")
		return
	}

	updates["updated_at"] = time.Now()
	if err := ac.store.UpdateAnnotation(c.Request.Context(), c.Param("id"), updates); err != nil {
		respondInternalError(c, err, "update annotation")
		return
	}

	respondSuccess(c, "annotation updated")
}

// DeleteAnnotation removes an annotation.
// DELETE /api/annotations/:id
func (ac *AnnotationsController) DeleteAnnotation(c *gin.Context) {
	if err := ac.store.DeleteAnnotation(c.Request.Context(), c.Param("id")); err != nil {
		respondInternalError(c, err, "delete annotation")
		return
	}

	respondSuccess(c, "annotation deleted")
}
