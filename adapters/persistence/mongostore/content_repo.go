package mongostore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type mongoContentRepo struct {
	coll *mongo.Collection
	kind content.Kind
}

// NewMongoContentRepo keeps posts and projects in separate collections.
func NewMongoContentRepo(db *mongo.Database, kind content.Kind) content.Repository {
	name := collPosts
	if kind == content.KindProject {
		name = collProjects
	}
	return &mongoContentRepo{coll: db.Collection(name), kind: kind}
}

func (r *mongoContentRepo) Kind() content.Kind {
	return r.kind
}

func (r *mongoContentRepo) Save(ctx context.Context, it *content.Item) error {
	it.Version = 1
	if _, err := r.coll.InsertOne(ctx, it); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewConflict(r.kind.Label(), "id", it.ID.String())
		}
		return apperror.NewInternal("failed to save content item", err)
	}
	return nil
}

func (r *mongoContentRepo) Update(ctx context.Context, it *content.Item) error {
	filter := bson.M{"_id": it.ID, "version": it.Version}
	update := bson.M{
		"$set": bson.M{
			"text":        it.Text,
			"title":       it.Title,
			"description": it.Description,
			"likes":       it.Likes,
			"comments":    it.Comments,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return apperror.NewInternal("failed to update content item", err)
	}
	if res.MatchedCount == 0 {
		n, cerr := r.coll.CountDocuments(ctx, bson.M{"_id": it.ID})
		if cerr == nil && n == 0 {
			return r.kind.NotFound()
		}
		return apperror.ErrModifiedConcurrently
	}
	it.Version++
	return nil
}

func (r *mongoContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.NewInternal("failed to delete content item", err)
	}
	if res.DeletedCount == 0 {
		return r.kind.NotFound()
	}
	return nil
}

func (r *mongoContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	it := &content.Item{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, content.ErrItemNotFound
		}
		return nil, apperror.NewInternal("failed to query content item", err)
	}
	normalizeItem(it)
	return it, nil
}

func (r *mongoContentRepo) List(ctx context.Context) ([]*content.Item, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, apperror.NewInternal("failed to query content items", err)
	}
	defer cur.Close(ctx)

	items := make([]*content.Item, 0)
	for cur.Next(ctx) {
		it := &content.Item{}
		if err := cur.Decode(it); err != nil {
			return nil, apperror.NewInternal("failed to decode content item", err)
		}
		normalizeItem(it)
		items = append(items, it)
	}
	if err := cur.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating content items", err)
	}
	return items, nil
}

func (r *mongoContentRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, apperror.NewInternal("failed to delete content items of user", err)
	}
	return res.DeletedCount, nil
}

// normalizeItem turns the nil slices of an empty BSON array back into empty ones.
func normalizeItem(it *content.Item) {
	if it.Likes == nil {
		it.Likes = []content.Like{}
	}
	if it.Comments == nil {
		it.Comments = []content.Comment{}
	}
}
