package chart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/domain/chart"
	"github.com/khoahotran/devconnect/pkg/logger"
)

var tracer = otel.Tracer("chart_usecase")

type CreateChartUseCase struct {
	chartRepo chart.Repository
	logger    logger.Logger
}

func NewCreateChartUseCase(repo chart.Repository, log logger.Logger) *CreateChartUseCase {
	return &CreateChartUseCase{chartRepo: repo, logger: log}
}

type CreateChartInput struct {
	CallerID  uuid.UUID
	Name      string
	Type      string
	CreatedBy string
}

// Execute stores a chart owned by the caller. CreatedBy defaults to the
// caller id.
func (uc *CreateChartUseCase) Execute(ctx context.Context, input CreateChartInput) (*chart.Chart, error) {
	ctx, span := tracer.Start(ctx, "CreateChart")
	defer span.End()

	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = input.CallerID.String()
	}
	c := chart.New(input.CallerID, input.Name, input.Type, createdBy, time.Now().UTC())
	if err := uc.chartRepo.Save(ctx, c); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Info("Chart created", zap.String("chart_id", c.ChartID), zap.String("user_id", input.CallerID.String()))
	return c, nil
}

type ListChartsUseCase struct {
	chartRepo chart.Repository
}

func NewListChartsUseCase(repo chart.Repository) *ListChartsUseCase {
	return &ListChartsUseCase{chartRepo: repo}
}

func (uc *ListChartsUseCase) Execute(ctx context.Context, callerID uuid.UUID) ([]*chart.Chart, error) {
	ctx, span := tracer.Start(ctx, "ListCharts")
	defer span.End()

	return uc.chartRepo.ListByUser(ctx, callerID)
}
