// Package store opens the repositories for the configured driver.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/adapters/persistence"
	"github.com/khoahotran/devconnect/adapters/persistence/memory"
	"github.com/khoahotran/devconnect/adapters/persistence/mongostore"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/internal/domain/chart"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type Repositories struct {
	Users    user.Repository
	Profiles profile.Repository
	Posts    content.Repository
	Projects content.Repository
	Charts   chart.Repository

	close func()
}

// Close releases the underlying connection, if any.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Items returns the post and project repositories.
func (r *Repositories) Items() []content.Repository {
	return []content.Repository{r.Posts, r.Projects}
}

func Open(ctx context.Context, cfg config.Config, log logger.Logger) (*Repositories, error) {
	log.Info("Opening store", zap.String("driver", cfg.DB.Driver))

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverMemory:
		return &Repositories{
			Users:    memory.NewMemoryUserRepo(),
			Profiles: memory.NewMemoryProfileRepo(),
			Posts:    memory.NewMemoryContentRepo(content.KindPost),
			Projects: memory.NewMemoryContentRepo(content.KindProject),
			Charts:   memory.NewMemoryChartRepo(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config, log logger.Logger) (*Repositories, error) {
	if cfg.DB.AutoMigrate {
		if err := persistence.MigrateUp(cfg, log); err != nil {
			return nil, err
		}
	}

	pool, err := persistence.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Users:    persistence.NewPostgresUserRepo(pool, log),
		Profiles: persistence.NewPostgresProfileRepo(pool, log),
		Posts:    persistence.NewPostgresContentRepo(pool, content.KindPost, log),
		Projects: persistence.NewPostgresContentRepo(pool, content.KindProject, log),
		Charts:   persistence.NewPostgresChartRepo(pool, log),
		close:    pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config, log logger.Logger) (*Repositories, error) {
	client, err := mongostore.NewMongoClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	db := client.Database(cfg.Mongo.Database)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Repositories{
		Users:    mongostore.NewMongoUserRepo(db),
		Profiles: mongostore.NewMongoProfileRepo(db),
		Posts:    mongostore.NewMongoContentRepo(db, content.KindPost),
		Projects: mongostore.NewMongoContentRepo(db, content.KindProject),
		Charts:   mongostore.NewMongoChartRepo(db),
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error("Disconnect MongoDB failed", err)
			}
		},
	}, nil
}
