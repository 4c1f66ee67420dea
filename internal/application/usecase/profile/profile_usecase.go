package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	cache       service.ProfileCache
	events      service.EventPublisher
	logger      logger.Logger
}

func NewProfileUseCase(pRepo profile.Repository, uRepo user.Repository, cache service.ProfileCache, events service.EventPublisher, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: pRepo,
		userRepo:    uRepo,
		cache:       cache,
		events:      events,
		logger:      log,
	}
}

// view joins p with its owner. A profile whose user is gone still renders,
// with an empty name and avatar.
func (uc *ProfileUseCase) view(ctx context.Context, p *profile.Profile) (*profile.View, error) {
	v := &profile.View{Profile: p, User: profile.Owner{ID: p.UserID}}
	u, err := uc.userRepo.FindByID(ctx, p.UserID)
	switch {
	case err == nil:
		v.User.Name = u.Name
		v.User.Avatar = u.Avatar
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, err
	}
	return v, nil
}

func (uc *ProfileUseCase) ExecuteGetMine(ctx context.Context, callerID uuid.UUID) (*profile.View, error) {
	ctx, span := tracer.Start(ctx, "GetMyProfile")
	defer span.End()

	p, err := uc.profileRepo.FindByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, p)
}

// ExecuteGetByUser reads through the profile cache, filling it only if no
// write invalidated the entry meanwhile. A user id that does not parse reads
// as a missing profile.
func (uc *ProfileUseCase) ExecuteGetByUser(ctx context.Context, rawUserID string) (*profile.View, error) {
	ctx, span := tracer.Start(ctx, "GetProfileByUser")
	defer span.End()

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, profile.ErrProfileNotFound
	}
	v, gen, ok := uc.cache.Get(ctx, userID)
	if ok {
		return v, nil
	}

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	v, err = uc.view(ctx, p)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, v, gen)
	return v, nil
}

func (uc *ProfileUseCase) ExecuteList(ctx context.Context) ([]*profile.View, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*profile.View, 0, len(profiles))
	for _, p := range profiles {
		v, err := uc.view(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type UpsertProfileInput struct {
	CallerID uuid.UUID
	Raw      map[string]any
}

// ExecuteUpsert merges the submitted fields into the caller's profile,
// creating it on first use. Fields not submitted keep their stored values.
func (uc *ProfileUseCase) ExecuteUpsert(ctx context.Context, input UpsertProfileInput) (*profile.View, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile")
	defer span.End()

	now := time.Now().UTC()
	patch := profile.Reconcile(input.CallerID, input.Raw)

	p, err := uc.profileRepo.FindByUserID(ctx, input.CallerID)
	switch {
	case err == nil:
		p.Apply(patch, now)
		err = uc.profileRepo.Update(ctx, p)
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(patch, now)
		err = uc.profileRepo.Save(ctx, p)
		if errors.Is(err, apperror.ErrModifiedConcurrently) {
			// another first submission won the insert; merge into it once
			p, err = uc.profileRepo.FindByUserID(ctx, input.CallerID)
			if err == nil {
				p.Apply(patch, now)
				err = uc.profileRepo.Update(ctx, p)
			}
		}
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.cache.Invalidate(ctx, input.CallerID)
	uc.logger.Info("Profile saved", zap.String("user_id", input.CallerID.String()))
	return uc.view(ctx, p)
}

// ExecuteDelete removes the caller's profile and account. Their content is
// removed by whoever consumes the user event.
func (uc *ProfileUseCase) ExecuteDelete(ctx context.Context, callerID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteProfile")
	defer span.End()

	if err := uc.profileRepo.DeleteByUserID(ctx, callerID); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		span.RecordError(err)
		return err
	}
	if err := uc.userRepo.Delete(ctx, callerID); err != nil && !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return err
	}
	uc.cache.Invalidate(ctx, callerID)

	err := uc.events.PublishUserEvent(ctx, service.UserEvent{
		EventType:  service.UserDeleted,
		UserID:     callerID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		uc.logger.Error("Failed to publish user event", err, zap.String("user_id", callerID.String()))
	}
	uc.logger.Info("User deleted", zap.String("user_id", callerID.String()))
	return nil
}
