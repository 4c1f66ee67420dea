package profile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/profile"
)

// mutate is one read-modify-write cycle on the caller's profile.
func (uc *ProfileUseCase) mutate(ctx context.Context, callerID uuid.UUID, fn func(*profile.Profile) error) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, callerID)
	return p, nil
}

type ExperiencePatch struct {
	Title       *string
	Company     *string
	Location    *string
	From        *time.Time
	To          *time.Time
	ClearTo     bool
	Current     *bool
	Description *string
}

func (ep ExperiencePatch) apply(e *profile.Experience) {
	setIf(&e.Title, ep.Title)
	setIf(&e.Company, ep.Company)
	setIf(&e.Location, ep.Location)
	setIf(&e.From, ep.From)
	setIf(&e.Current, ep.Current)
	setIf(&e.Description, ep.Description)
	e.To = patchTo(e.To, ep.To, ep.ClearTo, ep.Current)
}

type EducationPatch struct {
	School       *string
	Degree       *string
	FieldOfStudy *string
	From         *time.Time
	To           *time.Time
	ClearTo      bool
	Current      *bool
	Description  *string
}

func (ep EducationPatch) apply(e *profile.Education) {
	setIf(&e.School, ep.School)
	setIf(&e.Degree, ep.Degree)
	setIf(&e.FieldOfStudy, ep.FieldOfStudy)
	setIf(&e.From, ep.From)
	setIf(&e.Current, ep.Current)
	setIf(&e.Description, ep.Description)
	e.To = patchTo(e.To, ep.To, ep.ClearTo, ep.Current)
}

// patchTo resolves the end date: an explicit clear or a switch to current
// drops it, otherwise a submitted date replaces it.
func patchTo(stored, to *time.Time, drop bool, current *bool) *time.Time {
	if drop || (current != nil && *current) {
		return nil
	}
	if to != nil {
		return to
	}
	return stored
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (uc *ProfileUseCase) ExecuteAddExperience(ctx context.Context, callerID uuid.UUID, e profile.Experience) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "AddExperience")
	defer span.End()

	return uc.mutate(ctx, callerID, func(p *profile.Profile) error {
		p.AddExperience(e)
		return nil
	})
}

func (uc *ProfileUseCase) ExecuteUpdateExperience(ctx context.Context, callerID uuid.UUID, expID string, patch ExperiencePatch) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "UpdateExperience")
	defer span.End()

	return uc.mutate(ctx, callerID, func(p *profile.Profile) error {
		return p.UpdateExperience(expID, patch.apply)
	})
}

func (uc *ProfileUseCase) ExecuteRemoveExperience(ctx context.Context, callerID uuid.UUID, expID string) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "RemoveExperience")
	defer span.End()

	return uc.mutate(ctx, callerID, func(p *profile.Profile) error {
		return p.RemoveExperience(expID)
	})
}

func (uc *ProfileUseCase) ExecuteAddEducation(ctx context.Context, callerID uuid.UUID, e profile.Education) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "AddEducation")
	defer span.End()

	return uc.mutate(ctx, callerID, func(p *profile.Profile) error {
		p.AddEducation(e)
		return nil
	})
}

func (uc *ProfileUseCase) ExecuteUpdateEducation(ctx context.Context, callerID uuid.UUID, eduID string, patch EducationPatch) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "UpdateEducation")
	defer span.End()

	return uc.mutate(ctx, callerID, func(p *profile.Profile) error {
		return p.UpdateEducation(eduID, patch.apply)
	})
}

func (uc *ProfileUseCase) ExecuteRemoveEducation(ctx context.Context, callerID uuid.UUID, eduID string) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "RemoveEducation")
	defer span.End()

	return uc.mutate(ctx, callerID, func(p *profile.Profile) error {
		return p.RemoveEducation(eduID)
	})
}
