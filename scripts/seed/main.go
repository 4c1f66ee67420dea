package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/adapters/event"
	"github.com/khoahotran/devconnect/adapters/persistence"
	"github.com/khoahotran/devconnect/adapters/persistence/store"
	authUC "github.com/khoahotran/devconnect/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
)

// seed creates a demo account with a profile, or refreshes the profile of an
// existing one. SEED_NAME, SEED_EMAIL and SEED_PASSWORD pick the account.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, logger.WithLevel(cfg.App.LogLevel), logger.WithService("devconnect-seed"))
	defer appLogger.Sync()

	name := os.Getenv("SEED_NAME")
	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		appLogger.Fatal("SEED_EMAIL and SEED_PASSWORD are required", nil)
	}
	if name == "" {
		name = "Demo Developer"
	}

	ctx := context.Background()
	repos, err := store.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open store", err)
	}
	defer repos.Close()

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	register := authUC.NewRegisterUseCase(repos.Users, jwtSvc, appLogger)
	login := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)

	_, err = register.Execute(ctx, authUC.RegisterInput{Name: name, Email: email, Password: password})
	if errors.Is(err, user.ErrEmailTaken) {
		_, err = login.Execute(ctx, authUC.LoginInput{Email: email, Password: password})
	}
	if err != nil {
		appLogger.Fatal("cannot register or log in the seed account", err)
	}

	owner, err := repos.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		appLogger.Fatal("cannot load account", err)
	}
	userID := owner.ID.String()

	profiles := profileUC.NewProfileUseCase(repos.Profiles, repos.Users, persistence.NewNopProfileCache(), event.NewLocalPublisher(nil, appLogger), appLogger)
	if view, err := profiles.ExecuteGetByUser(ctx, userID); err == nil {
		appLogger.Info("profile already seeded", zap.String("user_id", userID), zap.String("status", view.Status))
		return
	}

	_, err = profiles.ExecuteUpsert(ctx, profileUC.UpsertProfileInput{
		CallerID: owner.ID,
		Raw: map[string]any{
			"status":         "Developer",
			"skills":         "go, postgres, kafka",
			"bio":            "Seeded demo account",
			"githubusername": "devconnect",
		},
	})
	if err != nil {
		appLogger.Fatal("cannot seed profile", err)
	}
	appLogger.Info("seeded demo account", zap.String("email", email), zap.String("user_id", userID))
}
