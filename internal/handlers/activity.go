package handlers

import (
	"errors"
	"net/http"

	"github.com/confcfp/cfp-server/internal/dto"
	apierrors "github.com/confcfp/cfp-server/internal/errors"
	"github.com/confcfp/cfp-server/internal/services"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// CreateActivity creates an activity with one content per supported language
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.InvalidBody(c, err)
		return
	}

	activity, err := h.activityService.Create(req.ToInput())
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToActivityDTO(*activity))
}

// ListActivities returns all activities, newest first
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	activities, err := h.activityService.FindAll()
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityDTOs(activities))
}

// GetActivity returns one activity with all its contents
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activity, err := h.activityService.FindOneByID(c.Param("id"))
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityDTO(*activity))
}

// GetActivityBySlug returns the public view, optionally narrowed to ?lang=
func (h *ActivityHandler) GetActivityBySlug(c *gin.Context) {
	view, err := h.activityService.FindOneBySlug(c.Param("slug"), c.Query("lang"))
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func respondActivityError(c *gin.Context, err error) {
	switch {
	case services.IsValidationError(err):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSlugTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrActivityNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "Internal server error")
	}
}
