package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"
	TokenHeader         = "x-auth-token"
)

type ctxKey struct{}

// AuthMiddleware admits requests carrying a valid token in x-auth-token and
// records the caller id. It never touches persistence.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}

		userID, err := jwtSvc.ValidateToken(token)
		if err != nil {
			log.Debug("token rejected", zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
			return
		}

		c.Set(GinContextKeyUserID, userID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey{}, userID))

		c.Next()
	}
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return userID, ok
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return id, true
}

var errNoCaller = apperror.NewCoded(apperror.ErrUnauthorized, "no_caller", "Token is not valid")

// callerID reads the authenticated user id, pushing a 401 when the auth
// middleware did not run for the route.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(errNoCaller)
	}
	return id, ok
}

// ErrorMiddleware renders the last error a handler pushed with c.Error.
// Anything that is not an AppError is reported as a plain server error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			log.Error("unhandled error", err, zap.String("path", c.FullPath()))
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
			return
		}

		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", err, zap.String("path", c.FullPath()), zap.String("details", appErr.Details))
		}
		c.JSON(status, appErr.ToJSON())
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if userID, ok := GetUserIDFromGinContext(c); ok {
			fields = append(fields, zap.String("user_id", userID.String()))
		}
		log.Info("request", fields...)
	}
}
