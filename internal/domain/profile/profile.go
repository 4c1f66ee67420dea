package profile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/subcollection"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type Social struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id" bson:"id"`
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           uuid.UUID  `json:"id" bson:"id"`
	School       string     `json:"school" bson:"school"`
	Degree       string     `json:"degree" bson:"degree"`
	FieldOfStudy string     `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time  `json:"from" bson:"from"`
	To           *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool       `json:"current" bson:"current"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Profile struct {
	ID             uuid.UUID      `json:"id" bson:"_id"`
	UserID         uuid.UUID      `json:"user" bson:"user"`
	Company        string         `json:"company,omitempty" bson:"company,omitempty"`
	Website        string         `json:"website,omitempty" bson:"website,omitempty"`
	Location       string         `json:"location,omitempty" bson:"location,omitempty"`
	Bio            string         `json:"bio,omitempty" bson:"bio,omitempty"`
	Status         string         `json:"status" bson:"status"`
	GithubUsername string         `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Skills         []string       `json:"skills" bson:"skills"`
	Social         Social         `json:"social" bson:"social"`
	Experience     []Experience   `json:"experience" bson:"experience"`
	Education      []Education    `json:"education" bson:"education"`
	Extra          map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
	Version        int64          `json:"-" bson:"version"`
	CreatedAt      time.Time      `json:"date" bson:"date"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

// Owner is the slice of the owning user shown alongside a profile.
type Owner struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

// View is a profile with its owner's name and avatar filled in. Its "user"
// key shadows Profile.UserID when encoded.
type View struct {
	*Profile
	User Owner `json:"user"`
}

var (
	ErrProfileNotFound    = apperror.NewCoded(apperror.ErrNotFound, "profile_not_found", "There is no profile for this user")
	ErrExperienceNotFound = apperror.NewCoded(apperror.ErrNotFound, "experience_not_found", "Experience not found")
	ErrEducationNotFound  = apperror.NewCoded(apperror.ErrNotFound, "education_not_found", "Education not found")
)

// New creates the first profile of userID from a reconciled patch.
func New(patch Patch, now time.Time) *Profile {
	p := &Profile{
		ID:         uuid.New(),
		UserID:     patch.UserID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.Apply(patch, now)
	return p
}

func experienceKey(e Experience) uuid.UUID { return e.ID }

func educationKey(e Education) uuid.UUID { return e.ID }

// AddExperience front-inserts e under a fresh id and returns that id.
func (p *Profile) AddExperience(e Experience) uuid.UUID {
	e.ID = uuid.New()
	p.Experience = subcollection.Prepend(p.Experience, e)
	return e.ID
}

func (p *Profile) UpdateExperience(id string, patch func(*Experience)) error {
	return updateEntry(p.Experience, id, experienceKey, ErrExperienceNotFound, patch)
}

func (p *Profile) RemoveExperience(id string) error {
	out, err := removeEntry(p.Experience, id, experienceKey, ErrExperienceNotFound)
	if err != nil {
		return err
	}
	p.Experience = out
	return nil
}

// AddEducation front-inserts e under a fresh id and returns that id.
func (p *Profile) AddEducation(e Education) uuid.UUID {
	e.ID = uuid.New()
	p.Education = subcollection.Prepend(p.Education, e)
	return e.ID
}

func (p *Profile) UpdateEducation(id string, patch func(*Education)) error {
	return updateEntry(p.Education, id, educationKey, ErrEducationNotFound, patch)
}

func (p *Profile) RemoveEducation(id string) error {
	out, err := removeEntry(p.Education, id, educationKey, ErrEducationNotFound)
	if err != nil {
		return err
	}
	p.Education = out
	return nil
}

func removeEntry[T any](entries []T, id string, key func(T) uuid.UUID, notFound error) ([]T, error) {
	pos := subcollection.LocateID(entries, id, key)
	if pos == subcollection.NotFound {
		return entries, notFound
	}
	return subcollection.RemoveAt(entries, pos), nil
}

// updateEntry patches a copy of one entry and stores it only when the id
// survived. A rejected patch leaves the entry untouched.
func updateEntry[T any](entries []T, id string, key func(T) uuid.UUID, notFound error, patch func(*T)) error {
	pos := subcollection.LocateID(entries, id, key)
	if pos == subcollection.NotFound {
		return notFound
	}
	e := entries[pos]
	patch(&e)
	if key(e) != key(entries[pos]) {
		return apperror.NewInvalidInput("entry id is immutable", nil)
	}
	entries[pos] = e
	return nil
}

type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Save(ctx context.Context, p *Profile) error
	// Update is versioned like content.Repository.Update.
	Update(ctx context.Context, p *Profile) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
