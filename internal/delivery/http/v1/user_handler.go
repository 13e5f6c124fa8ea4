package v1

import (
	"net/http"
	"strconv"

	"matrimony-backend/internal/delivery/http/middleware"
	"matrimony-backend/internal/delivery/http/response"
	"matrimony-backend/internal/domain"
	"matrimony-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authUC domain.AuthUsecase
}

func NewUserHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &UserHandler{authUC: authUC}

	users := protected.Group("/admin/users")
	users.Use(middleware.RequireRole(domain.RoleAdmin))
	{
		users.GET("", handler.List)
		users.POST("", handler.Create)
		users.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        page      query     int  false  "Page number"
// @Param        pageSize  query     int  false  "Page size"
// @Success      200  {object}  response.Response{data=domain.PaginatedResult[domain.User]}
// @Failure      403  {object}  response.Response
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	result, err := h.authUC.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved successfully", result)
}

// Create godoc
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        user  body      domain.CreateUserRequest  true  "New user"
// @Success      201   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /admin/users [post]
// @Security     BearerAuth
func (h *UserHandler) Create(c *gin.Context) {
	var req domain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Valid email, password (min 8 characters) and role are required"))
		return
	}

	user, err := h.authUC.CreateUser(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "User created successfully", user)
}

// Delete godoc
// @Summary      Delete user
// @Tags         admin
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/users/{id} [delete]
// @Security     BearerAuth
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.authUC.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}
