package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightclass/class-rewards-api/internal/models"
	"github.com/brightclass/class-rewards-api/internal/service"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
	"github.com/brightclass/class-rewards-api/pkg/response"
)

// GroupWorkHandler handles the group-work aggregate endpoints.
type GroupWorkHandler struct {
	service *service.GroupWorkService
}

// NewGroupWorkHandler constructs a group work handler.
func NewGroupWorkHandler(svc *service.GroupWorkService) *GroupWorkHandler {
	return &GroupWorkHandler{service: svc}
}

// Create godoc
// @Summary Create a group work with groups and behaviors
// @Tags GroupWorks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.GroupWorkRequest true "Group work payload"
// @Success 201 {object} response.Envelope
// @Router /group-works [post]
func (h *GroupWorkHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.GroupWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.service.Create(c.Request.Context(), claims.TeacherID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// List godoc
// @Summary List the teacher's group works
// @Tags GroupWorks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /group-works [get]
func (h *GroupWorkHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	details, err := h.service.List(c.Request.Context(), claims.TeacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Get godoc
// @Summary Get one group work, fully hydrated
// @Tags GroupWorks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group work ID"
// @Success 200 {object} response.Envelope
// @Router /group-works/{id} [get]
func (h *GroupWorkHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), claims.TeacherID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Replace a group work's name, groups and behaviors
// @Tags GroupWorks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group work ID"
// @Param payload body models.GroupWorkUpdateRequest true "Replacement payload"
// @Success 200 {object} response.Envelope
// @Router /group-works/{id} [put]
func (h *GroupWorkHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.GroupWorkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.service.Update(c.Request.Context(), claims.TeacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Delete godoc
// @Summary Delete a group work
// @Tags GroupWorks
// @Security BearerAuth
// @Param id path string true "Group work ID"
// @Success 204
// @Router /group-works/{id} [delete]
func (h *GroupWorkHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.TeacherID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Leaderboard godoc
// @Summary Rank a group work's groups by awarded points
// @Tags GroupWorks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group work ID"
// @Success 200 {object} response.Envelope
// @Router /group-works/{id}/leaderboard [get]
func (h *GroupWorkHandler) Leaderboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	standings, err := h.service.Leaderboard(c.Request.Context(), claims.TeacherID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, standings, nil)
}
