package v1

import (
	"net/http"
	"time"

	"matrimony-backend/internal/delivery/http/middleware"
	"matrimony-backend/internal/delivery/http/response"
	"matrimony-backend/internal/domain"
	"matrimony-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC       domain.AuthUsecase
	cookieSecure bool
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, cookieSecure bool, loginLimit gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC:       authUC,
		cookieSecure: cookieSecure,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", loginLimit, handler.Login)
		publicAuth.POST("/logout", handler.Logout)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
	}
}

// Login godoc
// @Summary      Login
// @Description  Exchange email and password for a session token. The token is also set as an HttpOnly auth_token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=domain.LoginResult}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Email and password are required"))
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req, domain.LoginMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(middleware.RequestIDKey),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, result.Token, maxAge, "/", "", h.cookieSecure, true)

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Logout godoc
// @Summary      Logout
// @Description  Clears the session cookie. Bearer tokens simply expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved successfully", user)
}
