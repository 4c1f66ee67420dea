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

	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type postgresContentRepo struct {
	db     *pgxpool.Pool
	kind   content.Kind
	logger logger.Logger
}

// NewPostgresContentRepo returns the repository of one content kind. Posts
// and projects live in the same table.
func NewPostgresContentRepo(db *pgxpool.Pool, kind content.Kind, logger logger.Logger) content.Repository {
	return &postgresContentRepo{db: db, kind: kind, logger: logger}
}

var contentColumns = []string{
	"id", "kind", "user_id", "name", "avatar", "text", "title", "description",
	"likes", "comments", "version", "created_at",
}

func (r *postgresContentRepo) Kind() content.Kind {
	return r.kind
}

func (r *postgresContentRepo) scanItem(row pgx.Row) (*content.Item, error) {
	it := &content.Item{}
	var likesBytes, commentsBytes []byte

	err := row.Scan(
		&it.ID,
		&it.Kind,
		&it.UserID,
		&it.Name,
		&it.Avatar,
		&it.Text,
		&it.Title,
		&it.Description,
		&likesBytes,
		&commentsBytes,
		&it.Version,
		&it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(likesBytes, &it.Likes); err != nil {
		r.logger.Warn("Failed to unmarshal likes", zap.String("item_id", it.ID.String()), zap.Error(err))
		it.Likes = []content.Like{}
	}
	if err := json.Unmarshal(commentsBytes, &it.Comments); err != nil {
		r.logger.Warn("Failed to unmarshal comments", zap.String("item_id", it.ID.String()), zap.Error(err))
		it.Comments = []content.Comment{}
	}
	return it, nil
}

func marshalSubcollections(it *content.Item) (likes, comments []byte, err error) {
	if likes, err = json.Marshal(it.Likes); err != nil {
		return nil, nil, fmt.Errorf("marshal likes: %w", err)
	}
	if comments, err = json.Marshal(it.Comments); err != nil {
		return nil, nil, fmt.Errorf("marshal comments: %w", err)
	}
	return likes, comments, nil
}

func (r *postgresContentRepo) Save(ctx context.Context, it *content.Item) error {
	likes, comments, err := marshalSubcollections(it)
	if err != nil {
		return apperror.NewInternal("failed to encode content item", err)
	}
	it.Version = 1

	query, args, err := psql.Insert("content_items").
		Columns(contentColumns...).
		Values(it.ID, r.kind, it.UserID, it.Name, it.Avatar, it.Text, it.Title, it.Description,
			likes, comments, it.Version, it.CreatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return apperror.NewConflict(r.kind.Label(), "id", it.ID.String())
		}
		return apperror.NewInternal("failed to save content item", err)
	}
	return nil
}

// Update rewrites the mutable parts of the document when the stored version
// still matches.
func (r *postgresContentRepo) Update(ctx context.Context, it *content.Item) error {
	likes, comments, err := marshalSubcollections(it)
	if err != nil {
		return apperror.NewInternal("failed to encode content item", err)
	}

	query, args, err := psql.Update("content_items").
		Set("text", it.Text).
		Set("title", it.Title).
		Set("description", it.Description).
		Set("likes", likes).
		Set("comments", comments).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": it.ID, "kind": r.kind, "version": it.Version}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build update", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewInternal("failed to update content item", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, ferr := r.FindByID(ctx, it.ID); errors.Is(ferr, content.ErrItemNotFound) {
			return r.kind.NotFound()
		}
		return apperror.ErrModifiedConcurrently
	}
	it.Version++
	return nil
}

func (r *postgresContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM content_items WHERE id = $1 AND kind = $2`, id, r.kind)
	if err != nil {
		return apperror.NewInternal("failed to delete content item", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.kind.NotFound()
	}
	return nil
}

func (r *postgresContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	query, args, err := psql.Select(contentColumns...).
		From("content_items").
		Where(sq.Eq{"id": id, "kind": r.kind}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build select", err)
	}

	it, err := r.scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.ErrItemNotFound
		}
		return nil, apperror.NewInternal("failed to query content item", err)
	}
	return it, nil
}

func (r *postgresContentRepo) List(ctx context.Context) ([]*content.Item, error) {
	query, args, err := psql.Select(contentColumns...).
		From("content_items").
		Where(sq.Eq{"kind": r.kind}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query content items", err)
	}
	defer rows.Close()

	items := make([]*content.Item, 0)
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan content item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating content items", err)
	}
	return items, nil
}

func (r *postgresContentRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM content_items WHERE user_id = $1 AND kind = $2`, userID, r.kind)
	if err != nil {
		return 0, apperror.NewInternal("failed to delete content items of user", err)
	}
	return cmdTag.RowsAffected(), nil
}
