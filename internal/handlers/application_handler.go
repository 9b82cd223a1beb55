package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/applyforge/applyforge-backend/internal/apperrors"
	"github.com/applyforge/applyforge-backend/internal/dtos"
	"github.com/applyforge/applyforge-backend/internal/services"
	"github.com/applyforge/applyforge-backend/internal/storage"
)

// ApplicationHandler exposes the lifecycle operations over HTTP.
type ApplicationHandler struct {
	Apps  *services.ApplicationService
	Files *storage.LocalStore
}

func NewApplicationHandler(apps *services.ApplicationService, files *storage.LocalStore) *ApplicationHandler {
	return &ApplicationHandler{Apps: apps, Files: files}
}

// ProfessionalInfo is POST /profile/professional-info — the onboarding
// step that creates the profile and first application, or updates the
// first application in place.
func (h *ApplicationHandler) ProfessionalInfo(c *gin.Context) {
	var req dtos.ProfessionalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	profile, err := h.Apps.EnsureProfile(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateJobDescription handles PUT /applications/job-description (legacy
// implicit target) and PUT /applications/:id/job-description.
func (h *ApplicationHandler) UpdateJobDescription(c *gin.Context) {
	var req dtos.JobDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	appID, ok := optionalID(c)
	if !ok {
		return
	}
	app, err := h.Apps.UpdateJobDescription(c.Request.Context(), currentUser(c), appID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// CreateApplication is POST /applications — "apply to a different offer".
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req dtos.ProfessionalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	app, err := h.Apps.CreateApplication(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// SetActive is PUT /applications/:id/activate.
func (h *ApplicationHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	app, err := h.Apps.SetActiveApplication(c.Request.Context(), currentUser(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UploadCV handles POST /applications/cv and POST /applications/:id/cv.
// The multipart file goes to the file store; only the handle reaches the
// lifecycle engine.
func (h *ApplicationHandler) UploadCV(c *gin.Context) {
	appID, ok := optionalID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("cv")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'cv' file field"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload: " + err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload: " + err.Error()})
		return
	}

	doc, err := h.Files.Save(data, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file: " + err.Error()})
		return
	}
	app, err := h.Apps.AttachCV(c.Request.Context(), currentUser(c), appID, doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// optionalID parses the :id path param when the route carries one.
func optionalID(c *gin.Context) (*uint, bool) {
	raw := c.Param("id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// respondError maps engine errors to HTTP statuses. Unauthorized is
// deliberately presented as 404 so callers cannot probe for other
// users' application ids.
func respondError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, apperrors.ErrProfileNotFound),
		errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error: " + err.Error()})
	}
}
