package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightclass/class-rewards-api/internal/models"
	"github.com/brightclass/class-rewards-api/internal/service"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
	"github.com/brightclass/class-rewards-api/pkg/response"
)

// PointHandler handles the individual and group ledgers.
type PointHandler struct {
	service *service.PointService
}

// NewPointHandler constructs a point handler.
func NewPointHandler(svc *service.PointService) *PointHandler {
	return &PointHandler{service: svc}
}

// History godoc
// @Summary List a student's point ledger
// @Tags Points
// @Produce json
// @Security BearerAuth
// @Param studentId query string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /points [get]
func (h *PointHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	points, err := h.service.History(c.Request.Context(), claims.TeacherID, c.Query("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}

// GroupHistory godoc
// @Summary List a group's point ledger
// @Tags GroupPoints
// @Produce json
// @Security BearerAuth
// @Param groupId query string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /group-points [get]
func (h *PointHandler) GroupHistory(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	points, err := h.service.GroupHistory(c.Request.Context(), claims.TeacherID, c.Query("groupId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}

// AppendGroupPoint godoc
// @Summary Append a group ledger row
// @Tags GroupPoints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.GroupPointRequest true "Group point payload"
// @Success 201 {object} response.Envelope
// @Router /group-points [post]
func (h *PointHandler) AppendGroupPoint(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.GroupPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	point, err := h.service.AppendGroupPoint(c.Request.Context(), claims.TeacherID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, point)
}

type groupPointUpdateRequest struct {
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateGroupPoint godoc
// @Summary Rewrite a group ledger row
// @Tags GroupPoints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group point ID"
// @Param payload body groupPointUpdateRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /group-points/{id} [put]
func (h *PointHandler) UpdateGroupPoint(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req groupPointUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	point, err := h.service.UpdateGroupPoint(c.Request.Context(), claims.TeacherID, c.Param("id"), req.Points, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, point, nil)
}

// DeleteGroupPoint godoc
// @Summary Delete a group ledger row
// @Tags GroupPoints
// @Security BearerAuth
// @Param id path string true "Group point ID"
// @Success 204
// @Router /group-points/{id} [delete]
func (h *PointHandler) DeleteGroupPoint(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.DeleteGroupPoint(c.Request.Context(), claims.TeacherID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
