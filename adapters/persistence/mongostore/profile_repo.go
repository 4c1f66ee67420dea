package mongostore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type mongoProfileRepo struct {
	coll *mongo.Collection
}

func NewMongoProfileRepo(db *mongo.Database) profile.Repository {
	return &mongoProfileRepo{coll: db.Collection(collProfiles)}
}

func normalizeProfile(p *profile.Profile) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if p.Education == nil {
		p.Education = []profile.Education{}
	}
}

func (r *mongoProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p := &profile.Profile{}
	if err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	normalizeProfile(p)
	return p, nil
}

func (r *mongoProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, apperror.NewInternal("failed to query profiles", err)
	}
	defer cur.Close(ctx)

	profiles := make([]*profile.Profile, 0)
	for cur.Next(ctx) {
		p := &profile.Profile{}
		if err := cur.Decode(p); err != nil {
			return nil, apperror.NewInternal("failed to decode profile", err)
		}
		normalizeProfile(p)
		profiles = append(profiles, p)
	}
	if err := cur.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profiles", err)
	}
	return profiles, nil
}

func (r *mongoProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	p.Version = 1
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.ErrModifiedConcurrently
		}
		return apperror.NewInternal("failed to save profile", err)
	}
	return nil
}

// Update replaces the whole document when the stored version still matches.
func (r *mongoProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	next := *p
	next.Version = p.Version + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"user": p.UserID, "version": p.Version}, &next)
	if err != nil {
		return apperror.NewInternal("failed to update profile", err)
	}
	if res.MatchedCount == 0 {
		n, cerr := r.coll.CountDocuments(ctx, bson.M{"user": p.UserID})
		if cerr == nil && n == 0 {
			return profile.ErrProfileNotFound
		}
		return apperror.ErrModifiedConcurrently
	}
	p.Version = next.Version
	return nil
}

func (r *mongoProfileRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	if res.DeletedCount == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}
