// Package content models posts and projects: authored items that other users
// like and comment on. Both kinds share one type and one set of rules.
package content

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/subcollection"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type Kind string

const (
	KindPost    Kind = "post"
	KindProject Kind = "project"
)

func (k Kind) Valid() bool {
	return k == KindPost || k == KindProject
}

// Label is the capitalised name used in client messages.
func (k Kind) Label() string {
	switch k {
	case KindProject:
		return "Project"
	default:
		return "Post"
	}
}

type Like struct {
	UserID uuid.UUID `json:"user" bson:"user"`
}

type Comment struct {
	ID     uuid.UUID `json:"id" bson:"id"`
	UserID uuid.UUID `json:"user" bson:"user"`
	Text   string    `json:"text" bson:"text"`
	Name   string    `json:"name" bson:"name"`
	Avatar string    `json:"avatar" bson:"avatar"`
	Date   time.Time `json:"date" bson:"date"`
}

type Item struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	Kind        Kind      `json:"kind" bson:"kind"`
	UserID      uuid.UUID `json:"user" bson:"user"`
	Name        string    `json:"name" bson:"name"`
	Avatar      string    `json:"avatar" bson:"avatar"`
	Text        string    `json:"text,omitempty" bson:"text,omitempty"`
	Title       string    `json:"title,omitempty" bson:"title,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Likes       []Like    `json:"likes" bson:"likes"`
	Comments    []Comment `json:"comments" bson:"comments"`
	Version     int64     `json:"-" bson:"version"`
	CreatedAt   time.Time `json:"date" bson:"date"`
}

var (
	ErrItemNotFound    = apperror.NewCoded(apperror.ErrNotFound, "item_not_found", "Post not found")
	ErrAlreadyLiked    = apperror.NewCoded(apperror.ErrConflict, "already_liked", "Post already liked")
	ErrNotYetLiked     = apperror.NewCoded(apperror.ErrInvalidInput, "not_yet_liked", "Post has not yet been liked")
	ErrCommentNotFound = apperror.NewCoded(apperror.ErrNotFound, "comment_not_found", "Comment does not exist")
	ErrNotAuthorized   = apperror.NewCoded(apperror.ErrPermission, "not_authorized", "User not authorized")
)

// Body is the kind-specific text of an item.
type Body struct {
	Text        string
	Title       string
	Description string
}

// New captures the author's name and avatar at creation time. Later edits to
// the user do not change them.
func New(kind Kind, author uuid.UUID, snap user.Snapshot, body Body, now time.Time) *Item {
	it := &Item{
		ID:        uuid.New(),
		Kind:      kind,
		UserID:    author,
		Name:      snap.Name,
		Avatar:    snap.Avatar,
		Likes:     []Like{},
		Comments:  []Comment{},
		CreatedAt: now,
	}
	switch kind {
	case KindProject:
		it.Title = body.Title
		it.Description = body.Description
	default:
		it.Text = body.Text
	}
	return it
}

// NotFound returns the kind-specific not-found error.
func (k Kind) NotFound() error {
	return ErrItemNotFound.WithMessage("%s not found", k.Label())
}

func (it *Item) OwnedBy(userID uuid.UUID) bool {
	return it.UserID == userID
}

func likeUser(l Like) uuid.UUID { return l.UserID }

func commentKey(c Comment) uuid.UUID { return c.ID }

// Like adds userID to the front of the likes. A user likes an item at most once.
func (it *Item) Like(userID uuid.UUID) error {
	if subcollection.Contains(it.Likes, userID.String(), likeUser) {
		return ErrAlreadyLiked.WithMessage("%s already liked", it.Kind.Label())
	}
	it.Likes = subcollection.Prepend(it.Likes, Like{UserID: userID})
	return nil
}

// Unlike removes userID's like and no other.
func (it *Item) Unlike(userID uuid.UUID) error {
	pos := subcollection.Locate(it.Likes, userID.String(), likeUser)
	if pos == subcollection.NotFound {
		return ErrNotYetLiked.WithMessage("%s has not yet been liked", it.Kind.Label())
	}
	it.Likes = subcollection.RemoveAt(it.Likes, pos)
	return nil
}

func (it *Item) AddComment(c Comment) {
	it.Comments = subcollection.Prepend(it.Comments, c)
}

// DeleteComment removes the comment identified by commentID. Only its author
// may delete it. The entry removed is the one matched by id.
func (it *Item) DeleteComment(commentID string, userID uuid.UUID) error {
	pos := subcollection.LocateID(it.Comments, commentID, commentKey)
	if pos == subcollection.NotFound {
		return ErrCommentNotFound
	}
	if it.Comments[pos].UserID != userID {
		return ErrNotAuthorized
	}
	it.Comments = subcollection.RemoveAt(it.Comments, pos)
	return nil
}

type Repository interface {
	Kind() Kind
	Save(ctx context.Context, it *Item) error
	// Update writes it back if the stored version still equals it.Version,
	// then bumps it.Version. Otherwise apperror.ErrModifiedConcurrently.
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// List returns every item of the repository's kind, newest first.
	List(ctx context.Context) ([]*Item, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
