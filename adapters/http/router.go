package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type Handlers struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Posts    *ContentHandler
	Projects *ContentHandler
	Charts   *ChartHandler
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(jwtSvc, log)

	alive := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) }
	router.GET("/health", alive)
	router.GET("/test-get", alive)

	api := router.Group("/api")
	{
		api.POST("/user", h.Auth.Register)
		api.POST("/auth", h.Auth.Login)
		api.GET("/auth", authMiddleware, h.Auth.Me)

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			registerContent(private.Group("/posts"), private.Group("/posts"), h.Posts)
			registerContent(private.Group("/projects"), private.Group("/project"), h.Projects)

			private.POST("/chart", h.Charts.Create)
			private.GET("/chart", h.Charts.List)
		}
	}

	profile := router.Group("/profile")
	{
		profile.GET("", h.Profile.List)
		profile.GET("/user/:user_id", h.Profile.GetByUser)

		owner := profile.Group("")
		owner.Use(authMiddleware)
		{
			owner.GET("/me", h.Profile.GetMine)
			owner.POST("", h.Profile.Upsert)
			owner.DELETE("", h.Profile.Delete)

			owner.PUT("/experience", h.Profile.AddExperience)
			owner.PUT("/experience/:exp_id", h.Profile.UpdateExperience)
			owner.DELETE("/experience/:exp_id", h.Profile.RemoveExperience)

			owner.POST("/education", h.Profile.AddEducation)
			owner.PUT("/education/:edu_id", h.Profile.UpdateEducation)
			owner.DELETE("/education/:edu_id", h.Profile.RemoveEducation)
		}
	}

	return router
}

// registerContent mounts a content handler. Projects are created and listed
// under a plural path and addressed under a singular one.
func registerContent(collection, item *gin.RouterGroup, h *ContentHandler) {
	collection.POST("", h.Create)
	collection.GET("", h.List)

	item.GET("/:id", h.Get)
	item.DELETE("/:id", h.Delete)
	item.PUT("/like/:id", h.Like)
	item.PUT("/unlike/:id", h.Unlike)
	item.POST("/comment/:id", h.AddComment)
	item.DELETE("/comment/:id/:comment_id", h.DeleteComment)
}
