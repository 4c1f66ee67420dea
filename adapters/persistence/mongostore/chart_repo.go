package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnect/internal/domain/chart"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type mongoChartRepo struct {
	coll *mongo.Collection
}

func NewMongoChartRepo(db *mongo.Database) chart.Repository {
	return &mongoChartRepo{coll: db.Collection(collCharts)}
}

func (r *mongoChartRepo) Save(ctx context.Context, c *chart.Chart) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewConflict("Chart", "chartId", c.ChartID)
		}
		return apperror.NewInternal("failed to save chart", err)
	}
	return nil
}

func (r *mongoChartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*chart.Chart, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, apperror.NewInternal("failed to query charts", err)
	}

	charts := make([]*chart.Chart, 0)
	if err := cur.All(ctx, &charts); err != nil {
		return nil, apperror.NewInternal("failed to decode charts", err)
	}
	return charts, nil
}

func (r *mongoChartRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, apperror.NewInternal("failed to delete charts of user", err)
	}
	return res.DeletedCount, nil
}
