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

// Query parameters reserved for paging; everything else is a filter key.
const (
	pageParam     = "page"
	pageSizeParam = "pageSize"
)

type PersonHandler struct {
	personUC domain.PersonUsecase
}

func NewPersonHandler(protected *gin.RouterGroup, personUC domain.PersonUsecase, upload gin.HandlerFunc) {
	handler := &PersonHandler{personUC: personUC}
	admin := middleware.RequireRole(domain.RoleAdmin)

	people := protected.Group("/people")
	{
		people.GET("", handler.List)
		// Registered before /:id so the literal segment wins.
		people.GET("/export.xlsx", admin, handler.ExportSpreadsheet)
		people.GET("/:id", handler.Get)
		people.GET("/:id/pdf", handler.ExportPDF)
		people.POST("", admin, upload, handler.Create)
		people.PUT("/:id", admin, upload, handler.Update)
		people.DELETE("/:id", admin, handler.Delete)
		people.PATCH("/:id/approve", admin, handler.Approve)
	}
}

// filtersFromQuery flattens the query string into a Filter Request. Only the
// first value of a repeated key is used.
func filtersFromQuery(c *gin.Context) map[string]string {
	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if key == pageParam || key == pageSizeParam || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}
	return filters
}

// List godoc
// @Summary      List profiles
// @Description  Filter profiles by any recognized field. Text fields match case-insensitive substrings; budget accepts "min-max" or a single amount.
// @Tags         people
// @Produce      json
// @Param        page      query     int     false  "Page number"
// @Param        pageSize  query     int     false  "Page size (max 100)"
// @Param        name      query     string  false  "Partial name"
// @Param        budget    query     string  false  "Budget range or value"
// @Param        status    query     string  false  "approved or pending"
// @Success      200  {object}  response.Response{data=domain.PaginatedResult[domain.Person]}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /people [get]
// @Security     BearerAuth
func (h *PersonHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery(pageParam, "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery(pageSizeParam, "20"))

	result, err := h.personUC.List(c.Request.Context(), filtersFromQuery(c), page, pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profiles retrieved successfully", result)
}

// Get godoc
// @Summary      Get profile
// @Tags         people
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.Person}
// @Failure      404  {object}  response.Response
// @Router       /people/{id} [get]
// @Security     BearerAuth
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.personUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", person)
}

// Create godoc
// @Summary      Create profile
// @Description  Admin only. Multipart form with profile fields and one or more "photos" files.
// @Tags         people
// @Accept       multipart/form-data
// @Produce      json
// @Param        name           formData  string  true   "Name"
// @Param        gender         formData  string  true   "Gender"
// @Param        maritalStatus  formData  string  true   "Marital status"
// @Param        religion       formData  string  true   "Religion"
// @Param        budget         formData  string  false  "Budget as displayed"
// @Param        photos         formData  file    true   "Photos"
// @Success      201  {object}  response.Response{data=domain.Person}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /people [post]
// @Security     BearerAuth
func (h *PersonHandler) Create(c *gin.Context) {
	var in domain.PersonInput
	if err := c.ShouldBind(&in); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid form data"))
		return
	}

	person, err := h.personUC.Create(c.Request.Context(), in, middleware.UploadedPhotos(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile created successfully", person)
}

// Update godoc
// @Summary      Update profile
// @Description  Admin only. Only submitted fields change. photoMode=replace swaps all photos for the uploaded ones.
// @Tags         people
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true   "Profile ID"
// @Param        photoMode  formData  string  false  "append (default) or replace"
// @Param        photos     formData  file    false  "Photos"
// @Success      200  {object}  response.Response{data=domain.Person}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /people/{id} [put]
// @Security     BearerAuth
func (h *PersonHandler) Update(c *gin.Context) {
	var upd domain.PersonUpdate
	if err := c.ShouldBind(&upd); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid form data"))
		return
	}

	person, err := h.personUC.Update(c.Request.Context(), c.Param("id"), upd, middleware.UploadedPhotos(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", person)
}

// Delete godoc
// @Summary      Delete profile
// @Tags         people
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /people/{id} [delete]
// @Security     BearerAuth
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.personUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile deleted successfully", nil)
}

// Approve godoc
// @Summary      Approve a pending submission
// @Tags         people
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.Person}
// @Router       /people/{id}/approve [patch]
// @Security     BearerAuth
func (h *PersonHandler) Approve(c *gin.Context) {
	person, err := h.personUC.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile approved", person)
}

// ExportPDF godoc
// @Summary      Download profile as PDF
// @Tags         people
// @Produce      application/pdf
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {file}    binary
// @Router       /people/{id}/pdf [get]
// @Security     BearerAuth
func (h *PersonHandler) ExportPDF(c *gin.Context) {
	data, filename, err := h.personUC.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	attachment(c, filename, "application/pdf", data)
}

// ExportSpreadsheet godoc
// @Summary      Download filtered profiles as XLSX
// @Description  Admin only. Accepts the same filters as the listing and exports every match.
// @Tags         people
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Router       /people/export.xlsx [get]
// @Security     BearerAuth
func (h *PersonHandler) ExportSpreadsheet(c *gin.Context) {
	data, filename, err := h.personUC.ExportSpreadsheet(c.Request.Context(), filtersFromQuery(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	attachment(c, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}
