package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	chartUC "github.com/khoahotran/devconnect/internal/application/usecase/chart"
	"github.com/khoahotran/devconnect/pkg/validation"
)

type ChartHandler struct {
	createChartUseCase *chartUC.CreateChartUseCase
	listChartsUseCase  *chartUC.ListChartsUseCase
	validator          *validation.Validator
}

func NewChartHandler(createUC *chartUC.CreateChartUseCase, listUC *chartUC.ListChartsUseCase, v *validation.Validator) *ChartHandler {
	return &ChartHandler{
		createChartUseCase: createUC,
		listChartsUseCase:  listUC,
		validator:          v,
	}
}

func (h *ChartHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req ChartRequest
	if !bindAndCheck(c, h.validator, &req) {
		return
	}

	ch, err := h.createChartUseCase.Execute(c.Request.Context(), chartUC.CreateChartInput{
		CallerID:  userID,
		Name:      req.Name,
		Type:      req.Type,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ch})
}

func (h *ChartHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	charts, err := h.listChartsUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": charts})
}
