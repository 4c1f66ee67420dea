package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/internal/domain/chart"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	testLogger  logger.Logger

	userRepo    user.Repository
	profileRepo profile.Repository
	postRepo    content.Repository
	projectRepo content.Repository
	chartRepo   chart.Repository
	testOwner   *user.User
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	var cfg config.Config
	cfg.DB.DSN = dsn
	cfg.DB.Migrations = "file://../../migrations"
	if err := MigrateUp(cfg, s.testLogger); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := NewPostgresPool(ctx, cfg, s.testLogger)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.userRepo = NewPostgresUserRepo(s.dbPool, s.testLogger)
	s.profileRepo = NewPostgresProfileRepo(s.dbPool, s.testLogger)
	s.postRepo = NewPostgresContentRepo(s.dbPool, content.KindPost, s.testLogger)
	s.projectRepo = NewPostgresContentRepo(s.dbPool, content.KindProject, s.testLogger)
	s.chartRepo = NewPostgresChartRepo(s.dbPool, s.testLogger)

	s.testOwner = &user.User{
		ID:           uuid.New(),
		Name:         "Owner",
		Email:        "testowner@example.com",
		PasswordHash: "hashedpassword",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Save(ctx, s.testOwner); err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func (s *RepoIntegrationTestSuite) Test_User_EmailIsUniqueIgnoringCase() {
	ctx := context.Background()

	err := s.userRepo.Save(ctx, &user.User{ID: uuid.New(), Name: "Dup", Email: "TestOwner@example.com", PasswordHash: "x"})
	s.ErrorIs(err, user.ErrEmailTaken)

	found, err := s.userRepo.FindByEmail(ctx, "testowner@example.com")
	s.Require().NoError(err)
	s.Equal(s.testOwner.ID, found.ID)

	_, err = s.userRepo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Content_SaveFindUpdate() {
	ctx := context.Background()
	it := content.New(content.KindPost, s.testOwner.ID, s.testOwner.Snapshot(), content.Body{Text: "Hello world"}, time.Now().UTC())
	s.Require().NoError(s.postRepo.Save(ctx, it))

	found, err := s.postRepo.FindByID(ctx, it.ID)
	s.Require().NoError(err)
	s.Equal("Hello world", found.Text)
	s.Equal("Owner", found.Name)
	s.Empty(found.Likes)

	_, err = s.projectRepo.FindByID(ctx, it.ID)
	s.ErrorIs(err, content.ErrItemNotFound, "kinds do not leak into each other")

	stale, err := s.postRepo.FindByID(ctx, it.ID)
	s.Require().NoError(err)

	liker := uuid.New()
	s.Require().NoError(found.Like(liker))
	found.AddComment(content.Comment{ID: uuid.New(), UserID: liker, Text: "nice", Date: time.Now().UTC()})
	s.Require().NoError(s.postRepo.Update(ctx, found))

	s.Require().NoError(stale.Like(uuid.New()))
	s.ErrorIs(s.postRepo.Update(ctx, stale), apperror.ErrModifiedConcurrently)

	again, err := s.postRepo.FindByID(ctx, it.ID)
	s.Require().NoError(err)
	s.Equal([]content.Like{{UserID: liker}}, again.Likes)
	s.Require().Len(again.Comments, 1)
	s.Equal("nice", again.Comments[0].Text)
	s.Equal(found.Version, again.Version)
}

func (s *RepoIntegrationTestSuite) Test_Content_ListAndDeleteByUser() {
	ctx := context.Background()
	author := uuid.New()
	base := time.Now().UTC()

	older := content.New(content.KindProject, author, user.Snapshot{}, content.Body{Title: "old", Description: "d"}, base)
	newer := content.New(content.KindProject, author, user.Snapshot{}, content.Body{Title: "new", Description: "d"}, base.Add(time.Second))
	s.Require().NoError(s.projectRepo.Save(ctx, older))
	s.Require().NoError(s.projectRepo.Save(ctx, newer))

	items, err := s.projectRepo.List(ctx)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(items), 2)
	s.Equal("new", items[0].Title)

	n, err := s.projectRepo.DeleteByUser(ctx, author)
	s.Require().NoError(err)
	s.Equal(int64(2), n)
	s.ErrorIs(s.projectRepo.Delete(ctx, older.ID), content.ErrItemNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Profile_SaveUpdateDelete() {
	ctx := context.Background()
	owner := &user.User{ID: uuid.New(), Name: "P", Email: "profile@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.userRepo.Save(ctx, owner))

	p := profile.New(profile.Reconcile(owner.ID, map[string]any{
		"status": "Dev", "skills": "go, sql", "linkedin": "in/p", "handle": "p",
	}), time.Now().UTC())
	p.AddEducation(profile.Education{School: "HUST", Degree: "BSc", FieldOfStudy: "CS"})
	s.Require().NoError(s.profileRepo.Save(ctx, p))

	got, err := s.profileRepo.FindByUserID(ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal([]string{"go", "sql"}, got.Skills)
	s.Equal("in/p", got.Social.LinkedIn)
	s.Equal("p", got.Extra["handle"])
	s.Require().Len(got.Education, 1)

	got.Apply(profile.Reconcile(owner.ID, map[string]any{"status": "Lead"}), time.Now().UTC())
	s.Require().NoError(s.profileRepo.Update(ctx, got))
	s.ErrorIs(s.profileRepo.Update(ctx, p), apperror.ErrModifiedConcurrently)

	orphan := profile.New(profile.Reconcile(uuid.New(), map[string]any{"status": "x"}), time.Now().UTC())
	s.ErrorIs(s.profileRepo.Save(ctx, orphan), user.ErrUserNotFound)

	s.Require().NoError(s.profileRepo.DeleteByUserID(ctx, owner.ID))
	s.ErrorIs(s.profileRepo.DeleteByUserID(ctx, owner.ID), profile.ErrProfileNotFound)
}

func (s *RepoIntegrationTestSuite) Test_Charts() {
	ctx := context.Background()
	c := chart.New(s.testOwner.ID, "Skills", "bar", "owner", time.Now().UTC())
	s.Require().NoError(s.chartRepo.Save(ctx, c))

	charts, err := s.chartRepo.ListByUser(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Require().Len(charts, 1)
	s.Equal(c.ChartID, charts[0].ChartID)

	n, err := s.chartRepo.DeleteByUser(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func TestRedisProfileCacheIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	var cfg config.Config
	cfg.Redis.Addr = addr
	rdb, err := NewRedisClient(ctx, cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer rdb.Close()

	cache := NewRedisProfileCache(rdb, time.Minute, logger.NewNopLogger())
	owner := uuid.New()
	p := profile.New(profile.Reconcile(owner, map[string]any{"status": "Dev", "skills": "go"}), time.Now().UTC())
	view := &profile.View{Profile: p, User: profile.Owner{ID: owner, Name: "Ann"}}

	_, gen, ok := cache.Get(ctx, owner)
	assert.False(t, ok, "empty cache")
	assert.Zero(t, gen)

	cache.Set(ctx, view, gen)
	got, _, ok := cache.Get(ctx, owner)
	require.True(t, ok)
	assert.Equal(t, "Dev", got.Status)
	assert.Equal(t, "Ann", got.User.Name)
	assert.Equal(t, owner, got.UserID)

	cache.Invalidate(ctx, owner)
	_, gen2, ok := cache.Get(ctx, owner)
	assert.False(t, ok)
	assert.Equal(t, gen+1, gen2)

	// a fill that read before the invalidation is dropped
	cache.Set(ctx, view, gen)
	_, _, ok = cache.Get(ctx, owner)
	assert.False(t, ok, "stale fill must not be stored")

	cache.Set(ctx, view, gen2)
	_, _, ok = cache.Get(ctx, owner)
	assert.True(t, ok)

	require.NoError(t, rdb.Set(ctx, profileKey(owner), "not json", time.Minute).Err())
	_, _, ok = cache.Get(ctx, owner)
	assert.False(t, ok, "corrupt entries read as a miss")
	n, err := rdb.Exists(ctx, profileKey(owner)).Result()
	require.NoError(t, err)
	assert.Zero(t, n, "corrupt entry is dropped")
}
