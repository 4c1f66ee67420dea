package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnect/internal/domain/profile"
)

// ProfileCache holds rendered profile views keyed by owning user. A miss, an
// unreachable backend and a corrupt entry all read as (nil, gen, false).
//
// Every Invalidate advances the user's generation. Get reports the generation
// it observed and Set stores only if it is still current, so a read that
// raced a write cannot put the older view back.
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (v *profile.View, gen int64, ok bool)
	Set(ctx context.Context, v *profile.View, gen int64)
	Invalidate(ctx context.Context, userID uuid.UUID)
}
