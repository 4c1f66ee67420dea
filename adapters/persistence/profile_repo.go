package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var profileColumns = []string{
	"id", "user_id", "company", "website", "location", "bio", "status", "github_username",
	"skills", "social", "experience", "education", "extra", "version", "created_at", "updated_at",
}

type profileDocs struct {
	skills, social, experience, education, extra []byte
}

func marshalProfileDocs(p *profile.Profile) (d profileDocs, err error) {
	if d.skills, err = json.Marshal(p.Skills); err != nil {
		return d, fmt.Errorf("marshal skills: %w", err)
	}
	if d.social, err = json.Marshal(p.Social); err != nil {
		return d, fmt.Errorf("marshal social: %w", err)
	}
	if d.experience, err = json.Marshal(p.Experience); err != nil {
		return d, fmt.Errorf("marshal experience: %w", err)
	}
	if d.education, err = json.Marshal(p.Education); err != nil {
		return d, fmt.Errorf("marshal education: %w", err)
	}
	extra := p.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	if d.extra, err = json.Marshal(extra); err != nil {
		return d, fmt.Errorf("marshal extra: %w", err)
	}
	return d, nil
}

func (r *postgresProfileRepo) scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var d profileDocs

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Company,
		&p.Website,
		&p.Location,
		&p.Bio,
		&p.Status,
		&p.GithubUsername,
		&d.skills,
		&d.social,
		&d.experience,
		&d.education,
		&d.extra,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	unmarshal := func(field string, data []byte, dst any) {
		if err := json.Unmarshal(data, dst); err != nil {
			r.logger.Warn("Failed to unmarshal profile field",
				zap.String("field", field),
				zap.String("user_id", p.UserID.String()),
				zap.Error(err))
		}
	}
	unmarshal("skills", d.skills, &p.Skills)
	unmarshal("social", d.social, &p.Social)
	unmarshal("experience", d.experience, &p.Experience)
	unmarshal("education", d.education, &p.Education)
	unmarshal("extra", d.extra, &p.Extra)

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if p.Education == nil {
		p.Education = []profile.Education{}
	}
	if len(p.Extra) == 0 {
		p.Extra = nil
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build select", err)
	}

	p, err := r.scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profiles", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profiles", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	d, err := marshalProfileDocs(p)
	if err != nil {
		return apperror.NewInternal("failed to encode profile", err)
	}
	p.Version = 1

	query, args, err := psql.Insert("profiles").
		Columns(profileColumns...).
		Values(p.ID, p.UserID, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GithubUsername,
			d.skills, d.social, d.experience, d.education, d.extra, p.Version, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			// another first submission for this user won the race
			return apperror.ErrModifiedConcurrently
		case pgForeignKeyViolation:
			return user.ErrUserNotFound
		}
		return apperror.NewInternal("failed to save profile", err)
	}
	return nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	d, err := marshalProfileDocs(p)
	if err != nil {
		return apperror.NewInternal("failed to encode profile", err)
	}

	query, args, err := psql.Update("profiles").
		SetMap(map[string]any{
			"company":         p.Company,
			"website":         p.Website,
			"location":        p.Location,
			"bio":             p.Bio,
			"status":          p.Status,
			"github_username": p.GithubUsername,
			"skills":          d.skills,
			"social":          d.social,
			"experience":      d.experience,
			"education":       d.education,
			"extra":           d.extra,
			"updated_at":      p.UpdatedAt,
			"version":         sq.Expr("version + 1"),
		}).
		Where(sq.Eq{"user_id": p.UserID, "version": p.Version}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build update", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewInternal("failed to update profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, ferr := r.FindByUserID(ctx, p.UserID); errors.Is(ferr, profile.ErrProfileNotFound) {
			return profile.ErrProfileNotFound
		}
		return apperror.ErrModifiedConcurrently
	}
	p.Version++
	return nil
}

func (r *postgresProfileRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}
