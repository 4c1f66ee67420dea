package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnect/pkg/apperror"
)

func TestReconcile(t *testing.T) {
	caller := uuid.New()

	t.Run("skills are split and trimmed", func(t *testing.T) {
		p := Reconcile(caller, map[string]any{"status": "Developer", "skills": "node, react , sql"})
		assert.True(t, p.HasSkills)
		assert.Equal(t, []string{"node", "react", "sql"}, p.Skills)
		assert.Equal(t, "Developer", p.Scalars["status"])
		assert.Equal(t, caller, p.UserID)
	})

	t.Run("empty pieces are kept", func(t *testing.T) {
		p := Reconcile(caller, map[string]any{"skills": "go,,rust, "})
		assert.Equal(t, []string{"go", "", "rust", ""}, p.Skills)
	})

	t.Run("skills as a list", func(t *testing.T) {
		p := Reconcile(caller, map[string]any{"skills": []any{" go", "sql "}})
		assert.Equal(t, []string{"go", "sql"}, p.Skills)
	})

	t.Run("social keys ignore case", func(t *testing.T) {
		p := Reconcile(caller, map[string]any{"Twitter": "@ann", "LINKEDIN": "in/ann"})
		assert.Equal(t, map[string]string{"twitter": "@ann", "linkedin": "in/ann"}, p.Social)
	})

	t.Run("nested social object", func(t *testing.T) {
		p := Reconcile(caller, map[string]any{"social": map[string]any{"YouTube": "yt", "myspace": "x"}})
		assert.Equal(t, map[string]string{"youtube": "yt"}, p.Social)
	})

	t.Run("scalars are stringified", func(t *testing.T) {
		p := Reconcile(caller, map[string]any{"company": 42, "bio": true})
		assert.Equal(t, "42", p.Scalars["company"])
		assert.Equal(t, "true", p.Scalars["bio"])
	})

	t.Run("unknown keys go to extra, reserved keys are dropped", func(t *testing.T) {
		p := Reconcile(caller, map[string]any{"handle": "ann", "user": uuid.NewString(), "experience": []any{}})
		assert.Equal(t, map[string]any{"handle": "ann"}, p.Extra)
		assert.Equal(t, caller, p.UserID)
	})
}

func TestApply_FieldLevelMerge(t *testing.T) {
	caller := uuid.New()
	now := time.Now()

	p := New(Reconcile(caller, map[string]any{
		"status":   "Developer",
		"skills":   "go",
		"company":  "Acme",
		"twitter":  "@ann",
		"location": "Hanoi",
	}), now)
	p.AddExperience(Experience{Title: "Dev", Company: "Acme", From: now})

	p.Apply(Reconcile(caller, map[string]any{"status": "Lead", "skills": "go, k8s", "facebook": "fb"}), now)

	assert.Equal(t, "Lead", p.Status)
	assert.Equal(t, "Acme", p.Company, "absent keys keep their stored value")
	assert.Equal(t, "Hanoi", p.Location)
	assert.Equal(t, []string{"go", "k8s"}, p.Skills)
	assert.Equal(t, Social{Twitter: "@ann", Facebook: "fb"}, p.Social)
	assert.Len(t, p.Experience, 1, "experience is untouched by a profile submission")
	assert.Equal(t, caller, p.UserID)
}

func TestApply_Idempotent(t *testing.T) {
	caller := uuid.New()
	now := time.Now()
	patch := Reconcile(caller, map[string]any{"status": "Dev", "skills": "a, b", "Instagram": "ig", "extra": 1})

	once := New(patch, now)
	twice := New(patch, now)
	twice.Apply(patch, now)

	twice.ID = once.ID
	assert.Equal(t, once, twice)
}

func TestExperience_Order(t *testing.T) {
	p := New(Reconcile(uuid.New(), map[string]any{"status": "Dev", "skills": "go"}), time.Now())

	first := p.AddExperience(Experience{Title: "A"})
	second := p.AddExperience(Experience{Title: "B"})

	require.Len(t, p.Experience, 2)
	assert.Equal(t, "B", p.Experience[0].Title)
	assert.Equal(t, second, p.Experience[0].ID)
	assert.Equal(t, first, p.Experience[1].ID)
}

func TestExperience_UpdateAndRemove(t *testing.T) {
	p := New(Reconcile(uuid.New(), map[string]any{"status": "Dev", "skills": "go"}), time.Now())
	a := p.AddExperience(Experience{Title: "A"})
	b := p.AddExperience(Experience{Title: "B"})

	require.NoError(t, p.UpdateExperience(a.String(), func(e *Experience) { e.Title = "A2" }))
	assert.Equal(t, "A2", p.Experience[1].Title)

	err := p.UpdateExperience(b.String(), func(e *Experience) {
		e.ID = uuid.New()
		e.Title = "hijacked"
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, b, p.Experience[0].ID)
	assert.Equal(t, "B", p.Experience[0].Title)

	assert.ErrorIs(t, p.RemoveExperience(uuid.NewString()), ErrExperienceNotFound)
	assert.ErrorIs(t, p.RemoveExperience("not-an-id"), ErrExperienceNotFound)

	require.NoError(t, p.RemoveExperience(b.String()))
	require.Len(t, p.Experience, 1)
	assert.Equal(t, a, p.Experience[0].ID)
}

func TestEducation_AddAndRemove(t *testing.T) {
	p := New(Reconcile(uuid.New(), map[string]any{"status": "Dev", "skills": "go"}), time.Now())
	id := p.AddEducation(Education{School: "HUST", Degree: "BSc", FieldOfStudy: "CS"})

	require.Len(t, p.Education, 1)
	assert.ErrorIs(t, p.UpdateEducation(uuid.NewString(), func(*Education) {}), ErrEducationNotFound)
	require.NoError(t, p.UpdateEducation(strings.ToUpper(id.String()), func(e *Education) { e.Degree = "MSc" }))
	assert.Equal(t, "MSc", p.Education[0].Degree)
	require.NoError(t, p.RemoveEducation(id.String()))
	assert.Empty(t, p.Education)
	assert.ErrorIs(t, p.RemoveEducation(id.String()), ErrEducationNotFound)
}
