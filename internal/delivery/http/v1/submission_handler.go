package v1

import (
	"net/http"

	"matrimony-backend/internal/delivery/http/middleware"
	"matrimony-backend/internal/delivery/http/response"
	"matrimony-backend/internal/domain"
	"matrimony-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	personUC domain.PersonUsecase
}

func NewSubmissionHandler(public *gin.RouterGroup, personUC domain.PersonUsecase, limit, upload gin.HandlerFunc) {
	handler := &SubmissionHandler{personUC: personUC}

	public.POST("/public/submissions", limit, upload, handler.Submit)
}

// Submit godoc
// @Summary      Submit a profile for review
// @Description  Public form. The profile is stored as pending until an admin approves it.
// @Tags         public
// @Accept       multipart/form-data
// @Produce      json
// @Param        name           formData  string  true  "Name"
// @Param        gender         formData  string  true  "Gender"
// @Param        maritalStatus  formData  string  true  "Marital status"
// @Param        religion       formData  string  true  "Religion"
// @Param        photos         formData  file    true  "Photos"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /public/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var in domain.PersonInput
	if err := c.ShouldBind(&in); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid form data"))
		return
	}

	person, err := h.personUC.Submit(c.Request.Context(), in, middleware.UploadedPhotos(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	// Submitters only get the reference, not the stored record.
	response.Success(c, http.StatusCreated, "Thank you. Your profile has been submitted for review.", gin.H{
		"id":     person.ID,
		"status": person.Status,
	})
}
