package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/validation"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	validator      *validation.Validator
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, v *validation.Validator, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		validator:      v,
		logger:         log,
	}
}

func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	view, err := h.profileUseCase.ExecuteGetMine(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *ProfileHandler) GetByUser(c *gin.Context) {
	view, err := h.profileUseCase.ExecuteGetByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *ProfileHandler) List(c *gin.Context) {
	views, err := h.profileUseCase.ExecuteList(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// Upsert reads the body once: the required fields are checked on a typed
// view of it and the whole map goes to the reconciler.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile", err))
		return
	}
	if err := h.validator.Check(profileRequestFrom(raw)); err != nil {
		c.Error(err)
		return
	}

	view, err := h.profileUseCase.ExecuteUpsert(c.Request.Context(), profileUC.UpsertProfileInput{
		CallerID: userID,
		Raw:      raw,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.profileUseCase.ExecuteDelete(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Profile and User Deleted"})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req ExperienceRequest
	if !bindAndCheck(c, h.validator, &req) {
		return
	}
	exp, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.ExecuteAddExperience(c.Request.Context(), userID, exp)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (h *ProfileHandler) UpdateExperience(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for experience", err))
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.ExecuteUpdateExperience(c.Request.Context(), userID, c.Param("exp_id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	p, err := h.profileUseCase.ExecuteRemoveExperience(c.Request.Context(), userID, c.Param("exp_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req EducationRequest
	if !bindAndCheck(c, h.validator, &req) {
		return
	}
	edu, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.ExecuteAddEducation(c.Request.Context(), userID, edu)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for education", err))
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.ExecuteUpdateEducation(c.Request.Context(), userID, c.Param("edu_id"), patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	p, err := h.profileUseCase.ExecuteRemoveEducation(c.Request.Context(), userID, c.Param("edu_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}
