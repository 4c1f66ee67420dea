package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnect/adapters/event"
	"github.com/khoahotran/devconnect/adapters/persistence"
	"github.com/khoahotran/devconnect/adapters/persistence/memory"
	authUC "github.com/khoahotran/devconnect/internal/application/usecase/auth"
	chartUC "github.com/khoahotran/devconnect/internal/application/usecase/chart"
	"github.com/khoahotran/devconnect/internal/application/usecase/cleanup"
	contentUC "github.com/khoahotran/devconnect/internal/application/usecase/content"
	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/validation"
)

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Token  string          `json:"token"`
	Msg    string          `json:"msg"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type E2ETestSuite struct {
	suite.Suite
	Router *gin.Engine
	jwtSvc *auth.JWTService
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (s *E2ETestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()
	v := validation.New()
	s.jwtSvc = auth.NewJWTService("e2e-secret", time.Hour)

	users := memory.NewMemoryUserRepo()
	profiles := memory.NewMemoryProfileRepo()
	posts := memory.NewMemoryContentRepo(content.KindPost)
	projects := memory.NewMemoryContentRepo(content.KindProject)
	charts := memory.NewMemoryChartRepo()

	cascade := cleanup.NewCascadeUserDeletionUseCase(charts, log, posts, projects)
	events := event.NewLocalPublisher(cascade, log)

	contentHandler := func(kind content.Kind, items content.Repository) *ContentHandler {
		return NewContentHandler(
			kind,
			contentUC.NewCreateItemUseCase(items, users, events, log),
			contentUC.NewListItemsUseCase(items),
			contentUC.NewGetItemUseCase(items),
			contentUC.NewDeleteItemUseCase(items, events, log),
			contentUC.NewLikeUseCase(items, events, log),
			contentUC.NewCommentUseCase(items, users, events, log),
			v,
		)
	}

	s.Router = NewRouter(Handlers{
		Auth: NewAuthHandler(
			authUC.NewRegisterUseCase(users, s.jwtSvc, log),
			authUC.NewLoginUseCase(users, s.jwtSvc, log),
			authUC.NewCurrentUserUseCase(users),
			v,
		),
		Profile:  NewProfileHandler(profileUC.NewProfileUseCase(profiles, users, persistence.NewNopProfileCache(), events, log), v, log),
		Posts:    contentHandler(content.KindPost, posts),
		Projects: contentHandler(content.KindProject, projects),
		Charts:   NewChartHandler(chartUC.NewCreateChartUseCase(charts, log), chartUC.NewListChartsUseCase(charts), v),
	}, s.jwtSvc, log)
}

func (s *E2ETestSuite) do(method, path, token string, body any) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr.Code, env
}

func (s *E2ETestSuite) register(name, email string) string {
	code, env := s.do(http.MethodPost, "/api/user", "", gin.H{"name": name, "email": email, "password": "Secret123"})
	s.Require().Equal(http.StatusOK, code, env.Msg)
	s.Require().NotEmpty(env.Token)
	return env.Token
}

func (s *E2ETestSuite) Test_AuthGate() {
	code, env := s.do(http.MethodGet, "/api/auth", "", nil)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("No token, authorization denied", env.Msg)

	code, env = s.do(http.MethodGet, "/api/auth", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Token is not valid", env.Msg)

	code, _ = s.do(http.MethodGet, "/api/posts", "", nil)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *E2ETestSuite) Test_RegisterAndLogin() {
	token := s.register("Ann", "ann@example.com")

	code, env := s.do(http.MethodGet, "/api/auth", token, nil)
	s.Require().Equal(http.StatusOK, code)
	var me map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &me))
	s.Equal("Ann", me["name"])
	s.NotContains(me, "password")
	s.NotContains(me, "PasswordHash")

	code, env = s.do(http.MethodPost, "/api/user", "", gin.H{"name": "Ann", "email": "ANN@example.com", "password": "Secret123"})
	s.Equal(http.StatusConflict, code)
	s.Equal("User already exists", env.Msg)

	code, env = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "ann@example.com", "password": "Wrong1234"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Invalid Credentials", env.Msg)

	code, env = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "nobody@example.com", "password": "Wrong1234"})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Invalid Credentials", env.Msg)

	code, env = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "ann@example.com", "password": "Secret123"})
	s.Equal(http.StatusOK, code)
	s.NotEmpty(env.Token)
}

func (s *E2ETestSuite) Test_RegisterValidation() {
	code, env := s.do(http.MethodPost, "/api/user", "", gin.H{"email": "bad", "password": "short"})
	s.Equal(http.StatusBadRequest, code)
	s.Len(env.Errors, 3)
	s.Equal("name", env.Errors[0].Field)
	s.Equal("Name is required", env.Errors[0].Message)
	s.Equal("Please include a valid email", env.Errors[1].Message)
}

func (s *E2ETestSuite) Test_PostLifecycle() {
	token := s.register("Ann", "ann@example.com")
	other := s.register("Bob", "bob@example.com")

	code, env := s.do(http.MethodPost, "/api/posts", token, gin.H{})
	s.Equal(http.StatusBadRequest, code)
	s.Require().Len(env.Errors, 1)
	s.Equal("Text is required", env.Errors[0].Message)

	code, env = s.do(http.MethodPost, "/api/posts", token, gin.H{"text": "hello"})
	s.Require().Equal(http.StatusOK, code)
	var post content.Item
	s.Require().NoError(json.Unmarshal(env.Data, &post))
	s.Equal("Ann", post.Name)
	s.Equal("hello", post.Text)
	id := post.ID.String()

	code, env = s.do(http.MethodPut, "/api/posts/like/"+id, other, nil)
	s.Require().Equal(http.StatusOK, code)
	var likes []content.Like
	s.Require().NoError(json.Unmarshal(env.Data, &likes))
	s.Len(likes, 1)

	code, env = s.do(http.MethodPut, "/api/posts/like/"+id, other, nil)
	s.Equal(http.StatusConflict, code)
	s.Equal("Post already liked", env.Msg)

	code, _ = s.do(http.MethodPut, "/api/posts/unlike/"+id, other, nil)
	s.Equal(http.StatusOK, code)

	code, env = s.do(http.MethodPut, "/api/posts/unlike/"+id, other, nil)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Post has not yet been liked", env.Msg)

	code, env = s.do(http.MethodDelete, "/api/posts/"+id, other, nil)
	s.Equal(http.StatusForbidden, code)
	s.Equal("User not authorized", env.Msg)

	code, env = s.do(http.MethodDelete, "/api/posts/"+id, token, nil)
	s.Equal(http.StatusOK, code)
	s.Equal("Post removed", env.Msg)

	code, env = s.do(http.MethodGet, "/api/posts/"+id, token, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Post not found", env.Msg)

	code, env = s.do(http.MethodGet, "/api/posts/not-a-uuid", token, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Post not found", env.Msg)
}

func (s *E2ETestSuite) Test_ProjectComments() {
	token := s.register("Ann", "ann@example.com")
	other := s.register("Bob", "bob@example.com")

	code, env := s.do(http.MethodPost, "/api/projects", token, gin.H{"title": "devconnect"})
	s.Equal(http.StatusBadRequest, code)
	s.Require().Len(env.Errors, 1)
	s.Equal("Description is required", env.Errors[0].Message)

	code, env = s.do(http.MethodPost, "/api/projects", token, gin.H{"title": "devconnect", "description": "social network"})
	s.Require().Equal(http.StatusOK, code)
	var project content.Item
	s.Require().NoError(json.Unmarshal(env.Data, &project))
	id := project.ID.String()

	code, env = s.do(http.MethodPost, "/api/project/comment/"+id, other, gin.H{"text": "nice"})
	s.Require().Equal(http.StatusOK, code)
	var comments []content.Comment
	s.Require().NoError(json.Unmarshal(env.Data, &comments))
	s.Require().Len(comments, 1)
	s.Equal("Bob", comments[0].Name)
	commentID := comments[0].ID.String()

	code, env = s.do(http.MethodDelete, "/api/project/comment/"+id+"/"+commentID, token, nil)
	s.Equal(http.StatusForbidden, code)
	s.Equal("User not authorized", env.Msg)

	code, env = s.do(http.MethodDelete, "/api/project/comment/"+id+"/"+uuid.NewString(), other, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Comment does not exist", env.Msg)

	code, env = s.do(http.MethodDelete, "/api/project/comment/"+id+"/"+commentID, other, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(env.Data, &comments))
	s.Empty(comments)

	code, env = s.do(http.MethodGet, "/api/project/"+uuid.NewString(), token, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Project not found", env.Msg)
}

func (s *E2ETestSuite) Test_ExperienceEndDateClears() {
	token := s.register("Bo", "bo@example.com")
	code, _ := s.do(http.MethodPost, "/profile", token, gin.H{"status": "Developer", "skills": "go"})
	s.Require().Equal(http.StatusOK, code)
	code, _ = s.do(http.MethodPut, "/profile/experience", token, gin.H{"title": "Dev", "company": "Acme", "from": "2020-01-01", "to": "2021-01-01"})
	s.Require().Equal(http.StatusOK, code)

	type entry struct {
		ID      string  `json:"id"`
		To      *string `json:"to"`
		Current bool    `json:"current"`
	}
	latest := func() entry {
		code, env := s.do(http.MethodGet, "/profile/me", token, nil)
		s.Require().Equal(http.StatusOK, code)
		var mine struct {
			Experience []entry `json:"experience"`
		}
		s.Require().NoError(json.Unmarshal(env.Data, &mine))
		s.Require().Len(mine.Experience, 1)
		return mine.Experience[0]
	}
	e := latest()
	s.Require().NotNil(e.To)

	code, _ = s.do(http.MethodPut, "/profile/experience/"+e.ID, token, gin.H{"to": ""})
	s.Require().Equal(http.StatusOK, code)
	s.Nil(latest().To)

	code, _ = s.do(http.MethodPut, "/profile/experience/"+e.ID, token, gin.H{"to": "2022-06-01"})
	s.Require().Equal(http.StatusOK, code)
	s.NotNil(latest().To)

	code, _ = s.do(http.MethodPut, "/profile/experience/"+strings.ToUpper(e.ID), token, gin.H{"current": true})
	s.Require().Equal(http.StatusOK, code)
	e = latest()
	s.True(e.Current)
	s.Nil(e.To)
}

func (s *E2ETestSuite) Test_ProfileFlow() {
	token := s.register("Ann", "ann@example.com")

	code, env := s.do(http.MethodGet, "/profile/me", token, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("There is no profile for this user", env.Msg)

	code, env = s.do(http.MethodPost, "/profile", token, gin.H{"company": "Acme"})
	s.Equal(http.StatusBadRequest, code)
	s.Len(env.Errors, 2)

	code, env = s.do(http.MethodPost, "/profile", token, gin.H{"status": "Developer", "skills": "node, react , sql", "linkedIn": "in/ann"})
	s.Require().Equal(http.StatusOK, code)
	var view map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.Equal([]any{"node", "react", "sql"}, view["skills"])
	s.Equal(map[string]any{"linkedin": "in/ann"}, view["social"])

	exp := func(title string) {
		code, _ := s.do(http.MethodPut, "/profile/experience", token, gin.H{"title": title, "company": "Acme", "from": "2020-01-01"})
		s.Require().Equal(http.StatusOK, code)
	}
	exp("Junior")
	exp("Senior")

	code, env = s.do(http.MethodPut, "/profile/experience", token, gin.H{"title": "x"})
	s.Equal(http.StatusBadRequest, code)
	s.Len(env.Errors, 2)

	code, env = s.do(http.MethodGet, "/profile/me", token, nil)
	s.Require().Equal(http.StatusOK, code)
	var mine struct {
		Experience []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"experience"`
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &mine))
	s.Require().Len(mine.Experience, 2)
	s.Equal("Senior", mine.Experience[0].Title)
	s.Equal("Junior", mine.Experience[1].Title)
	s.Equal("Ann", mine.User.Name)

	code, _ = s.do(http.MethodPut, "/profile/experience/"+mine.Experience[1].ID, token, gin.H{"title": "Intern"})
	s.Equal(http.StatusOK, code)

	code, env = s.do(http.MethodDelete, "/profile/experience/"+uuid.NewString(), token, nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("Experience not found", env.Msg)

	code, _ = s.do(http.MethodDelete, "/profile/experience/"+mine.Experience[0].ID, token, nil)
	s.Equal(http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/profile/user/"+mine.User.ID, "", nil)
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(env.Data, &mine))
	s.Require().Len(mine.Experience, 1)
	s.Equal("Intern", mine.Experience[0].Title)

	code, _ = s.do(http.MethodPost, "/profile/education", token, gin.H{"school": "HUST", "degree": "BSc", "fieldofstudy": "CS", "from": "2015-09-01"})
	s.Equal(http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/profile", "", nil)
	s.Require().Equal(http.StatusOK, code)
	var all []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &all))
	s.Len(all, 1)
}

func (s *E2ETestSuite) Test_DeleteAccountCascades() {
	token := s.register("Ann", "ann@example.com")
	other := s.register("Bob", "bob@example.com")

	code, _ := s.do(http.MethodPost, "/profile", token, gin.H{"status": "Dev", "skills": "go"})
	s.Require().Equal(http.StatusOK, code)
	code, env := s.do(http.MethodPost, "/api/posts", token, gin.H{"text": "bye"})
	s.Require().Equal(http.StatusOK, code)
	var post content.Item
	s.Require().NoError(json.Unmarshal(env.Data, &post))
	code, _ = s.do(http.MethodPost, "/api/chart", token, gin.H{"chartName": "growth", "chartType": "line"})
	s.Require().Equal(http.StatusOK, code)

	code, env = s.do(http.MethodDelete, "/profile", token, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("Profile and User Deleted", env.Msg)

	code, _ = s.do(http.MethodGet, "/api/posts/"+post.ID.String(), other, nil)
	s.Equal(http.StatusNotFound, code)

	code, env = s.do(http.MethodGet, "/api/chart", token, nil)
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq("[]", string(env.Data))

	code, _ = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "ann@example.com", "password": "Secret123"})
	s.Equal(http.StatusBadRequest, code)
}

func (s *E2ETestSuite) Test_Charts() {
	token := s.register("Ann", "ann@example.com")

	code, env := s.do(http.MethodPost, "/api/chart", token, gin.H{"chartType": "bar"})
	s.Equal(http.StatusBadRequest, code)
	s.Require().Len(env.Errors, 1)
	s.Equal("chartName", env.Errors[0].Field)

	code, env = s.do(http.MethodPost, "/api/chart", token, gin.H{"chartName": "growth", "chartType": "bar", "createdBy": "ann"})
	s.Require().Equal(http.StatusOK, code)
	var created map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Contains(created["chartId"], "ann-")

	code, env = s.do(http.MethodGet, "/api/chart", token, nil)
	s.Require().Equal(http.StatusOK, code)
	var charts []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &charts))
	s.Len(charts, 1)
}

func (s *E2ETestSuite) Test_Liveness() {
	code, _ := s.do(http.MethodGet, "/test-get", "", nil)
	s.Equal(http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, code)
}
