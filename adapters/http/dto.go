package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/validation"
)

// Auth DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required,strong_password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// Profile DTOs

// ProfileRequest holds the fields a submission must carry. The rest of the
// body is passed through to the reconciler untyped.
type ProfileRequest struct {
	Status string `json:"status" validate:"required" msg:"Status is required"`
	Skills string `json:"skills" validate:"required" msg:"Skills is required"`
}

func profileRequestFrom(raw map[string]any) ProfileRequest {
	return ProfileRequest{
		Status: cast.ToString(raw["status"]),
		Skills: looseString(raw["skills"]),
	}
}

func looseString(v any) string {
	if list, ok := v.([]any); ok {
		return strings.Join(cast.ToStringSlice(list), ",")
	}
	return cast.ToString(v)
}

type ExperienceRequest struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Company     string `json:"company" validate:"required" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r ExperienceRequest) toDomain() (profile.Experience, error) {
	from, to, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.Experience{}, err
	}
	return profile.Experience{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        from,
		To:          to,
		Current:     r.Current,
		Description: r.Description,
	}, nil
}

type EducationRequest struct {
	School       string `json:"school" validate:"required" msg:"School is required"`
	Degree       string `json:"degree" validate:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required" msg:"Field of study is required"`
	From         string `json:"from" validate:"required" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r EducationRequest) toDomain() (profile.Education, error) {
	from, to, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.Education{}, err
	}
	return profile.Education{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      r.Current,
		Description:  r.Description,
	}, nil
}

// Entry updates carry only the fields being changed.

type UpdateExperienceRequest struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	From        *string `json:"from"`
	To          *string `json:"to"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
}

func (r UpdateExperienceRequest) toPatch() (profileUC.ExperiencePatch, error) {
	from, err := parseOptionalDate(r.From)
	if err != nil {
		return profileUC.ExperiencePatch{}, err
	}
	to, err := parseOptionalDate(r.To)
	if err != nil {
		return profileUC.ExperiencePatch{}, err
	}
	return profileUC.ExperiencePatch{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        from,
		To:          to,
		ClearTo:     isBlank(r.To),
		Current:     r.Current,
		Description: r.Description,
	}, nil
}

type UpdateEducationRequest struct {
	School       *string `json:"school"`
	Degree       *string `json:"degree"`
	FieldOfStudy *string `json:"fieldofstudy"`
	From         *string `json:"from"`
	To           *string `json:"to"`
	Current      *bool   `json:"current"`
	Description  *string `json:"description"`
}

func (r UpdateEducationRequest) toPatch() (profileUC.EducationPatch, error) {
	from, err := parseOptionalDate(r.From)
	if err != nil {
		return profileUC.EducationPatch{}, err
	}
	to, err := parseOptionalDate(r.To)
	if err != nil {
		return profileUC.EducationPatch{}, err
	}
	return profileUC.EducationPatch{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         from,
		To:           to,
		ClearTo:      isBlank(r.To),
		Current:      r.Current,
		Description:  r.Description,
	}, nil
}

func parseRange(fromRaw, toRaw string) (time.Time, *time.Time, error) {
	from, err := cast.ToTimeE(fromRaw)
	if err != nil {
		return time.Time{}, nil, apperror.NewInvalidInput("from is not a date", err)
	}
	to, err := parseOptionalDate(&toRaw)
	if err != nil {
		return time.Time{}, nil, err
	}
	return from, to, nil
}

// isBlank reports a field sent as "", which clears it, as opposed to one not sent.
func isBlank(raw *string) bool {
	return raw != nil && *raw == ""
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := cast.ToTimeE(*raw)
	if err != nil {
		return nil, apperror.NewInvalidInput("date is not valid", err)
	}
	return &t, nil
}

// Content DTOs

type PostRequest struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

type ProjectRequest struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Description string `json:"description" validate:"required" msg:"Description is required"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// Chart DTOs

type ChartRequest struct {
	Name      string `json:"chartName" validate:"required" msg:"Chart name is required"`
	Type      string `json:"chartType"`
	CreatedBy string `json:"createdBy"`
}

// bindAndCheck decodes the JSON body into req and runs its rules. On failure
// the error is pushed onto c and false is returned.
func bindAndCheck(c *gin.Context, v *validation.Validator, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return false
	}
	if err := v.Check(req); err != nil {
		c.Error(err)
		return false
	}
	return true
}
