package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightclass/class-rewards-api/internal/models"
	"github.com/brightclass/class-rewards-api/internal/service"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
	"github.com/brightclass/class-rewards-api/pkg/response"
)

// AwardHandler handles group work award endpoints.
type AwardHandler struct {
	service *service.AwardService
	metrics *service.MetricsService
}

// NewAwardHandler constructs an award handler.
func NewAwardHandler(svc *service.AwardService, metrics *service.MetricsService) *AwardHandler {
	return &AwardHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Award points, praise and a badge to a group
// @Tags Awards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.GroupAwardRequest true "Award payload"
// @Success 201 {object} response.Envelope
// @Router /group-work-awards [post]
func (h *AwardHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.GroupAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	award, err := h.service.Award(c.Request.Context(), claims.TeacherID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordAward("group")
	response.Created(c, award)
}

// History godoc
// @Summary List a group's awards, newest first
// @Tags Awards
// @Produce json
// @Security BearerAuth
// @Param groupId query string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /group-work-awards [get]
func (h *AwardHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	awards, err := h.service.History(c.Request.Context(), claims.TeacherID, c.Query("groupId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, awards, nil)
}
