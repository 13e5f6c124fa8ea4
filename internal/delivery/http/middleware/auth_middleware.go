package middleware

import (
	"strings"

	"matrimony-backend/internal/domain"
	"matrimony-backend/pkg/apperror"
	"matrimony-backend/pkg/auth"
	"matrimony-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthCookieName carries the session token for browser clients.
const AuthCookieName = "auth_token"

// TokenParser verifies session tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthMiddleware accepts a Bearer header or the auth cookie, verifies the
// token and loads the user so the role is always current. Identity is stored
// both on the gin context and on the request context.
func AuthMiddleware(tokens TokenParser, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if header := c.GetHeader("Authorization"); header != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie(AuthCookieName); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			abortUnauthorized(c, "Authorization header or auth_token cookie required")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := authUC.GetCurrentUser(c.Request.Context(), claims.Subject)
		if err != nil {
			abortUnauthorized(c, "User not found")
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), user.Role)

		c.Request = c.Request.WithContext(domain.WithUser(c.Request.Context(), user))

		c.Next()
	}
}

// RequireRole lets only the listed roles through. It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
			Event:        security.EventUnauthorizedAccess,
			SubjectType:  "user_id",
			SubjectValue: c.GetString(string(domain.KeyUserID)),
			IP:           c.ClientIP(),
			RequestID:    c.GetString(RequestIDKey),
			Details:      map[string]interface{}{"path": c.FullPath(), "role": role},
		})
		_ = c.Error(apperror.Forbidden("You do not have permission to perform this action"))
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	_ = c.Error(apperror.Unauthorized(msg))
	c.Abort()
}
