package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnect/internal/domain/chart"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type postgresChartRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresChartRepo(db *pgxpool.Pool, logger logger.Logger) chart.Repository {
	return &postgresChartRepo{db: db, logger: logger}
}

var chartColumns = []string{"id", "user_id", "chart_name", "chart_type", "created_by", "chart_id", "created_at"}

func (r *postgresChartRepo) Save(ctx context.Context, c *chart.Chart) error {
	query, args, err := psql.Insert("charts").
		Columns(chartColumns...).
		Values(c.ID, c.UserID, c.Name, c.Type, c.CreatedBy, c.ChartID, c.CreatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return apperror.NewConflict("Chart", "chartId", c.ChartID)
		}
		return apperror.NewInternal("failed to save chart", err)
	}
	return nil
}

func (r *postgresChartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*chart.Chart, error) {
	query, args, err := psql.Select(chartColumns...).
		From("charts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query charts", err)
	}
	defer rows.Close()

	charts := make([]*chart.Chart, 0)
	for rows.Next() {
		c := &chart.Chart{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedBy, &c.ChartID, &c.CreatedAt); err != nil {
			return nil, apperror.NewInternal("failed to scan chart", err)
		}
		charts = append(charts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating charts", err)
	}
	return charts, nil
}

func (r *postgresChartRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM charts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, apperror.NewInternal("failed to delete charts of user", err)
	}
	return cmdTag.RowsAffected(), nil
}
