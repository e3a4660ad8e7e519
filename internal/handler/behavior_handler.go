package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightclass/class-rewards-api/internal/models"
	"github.com/brightclass/class-rewards-api/internal/service"
	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
	"github.com/brightclass/class-rewards-api/pkg/response"
)

// BehaviorHandler handles behavior catalog endpoints.
type BehaviorHandler struct {
	service *service.BehaviorService
}

// NewBehaviorHandler constructs a behavior handler.
func NewBehaviorHandler(svc *service.BehaviorService) *BehaviorHandler {
	return &BehaviorHandler{service: svc}
}

// List godoc
// @Summary List the teacher's behaviors
// @Tags Behaviors
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type (INDIVIDUAL or GROUP_WORK)"
// @Success 200 {object} response.Envelope
// @Router /behaviors [get]
func (h *BehaviorHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	behaviors, err := h.service.List(c.Request.Context(), claims.TeacherID, c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, behaviors, nil)
}

// Create godoc
// @Summary Add a behavior
// @Tags Behaviors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.BehaviorCreateRequest true "Behavior payload"
// @Success 201 {object} response.Envelope
// @Router /behaviors [post]
func (h *BehaviorHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.BehaviorCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	behavior, err := h.service.Create(c.Request.Context(), claims.TeacherID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, behavior)
}

// Update godoc
// @Summary Update an owned behavior
// @Tags Behaviors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Behavior ID"
// @Param payload body models.BehaviorUpdateRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Router /behaviors/{id} [put]
func (h *BehaviorHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.BehaviorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	behavior, err := h.service.Update(c.Request.Context(), claims.TeacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, behavior, nil)
}

// Delete godoc
// @Summary Delete an owned, non-default behavior
// @Tags Behaviors
// @Security BearerAuth
// @Param id path string true "Behavior ID"
// @Success 204
// @Router /behaviors/{id} [delete]
func (h *BehaviorHandler) Delete(c *gin.Context) {
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
