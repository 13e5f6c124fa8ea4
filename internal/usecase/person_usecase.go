package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/filter"
	"matrimony-backend/pkg/apperror"
	"matrimony-backend/pkg/email"
	"matrimony-backend/pkg/export"
	"matrimony-backend/pkg/logger"
	"matrimony-backend/pkg/security"
	"matrimony-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SubmissionNotifier delivers the admin alert for a public submission.
type SubmissionNotifier interface {
	IsConfigured() bool
	SendSubmissionNotification(data email.SubmissionEmailData) error
}

type PersonUsecaseOptions struct {
	MaxPhotos int
	AdminURL  string // frontend base used for review links
}

type personUsecase struct {
	repo     domain.PersonRepository
	photos   domain.PhotoStore
	notifier SubmissionNotifier
	validate *validator.Validate
	opts     PersonUsecaseOptions
	audit    *security.SecurityLogger
	now      func() time.Time
}

func NewPersonUsecase(repo domain.PersonRepository, photos domain.PhotoStore, notifier SubmissionNotifier, validate *validator.Validate, opts PersonUsecaseOptions) domain.PersonUsecase {
	if opts.MaxPhotos <= 0 {
		opts.MaxPhotos = 6
	}
	return &personUsecase{
		repo:     repo,
		photos:   photos,
		notifier: notifier,
		validate: validate,
		opts:     opts,
		audit:    security.DefaultLogger(),
		now:      time.Now,
	}
}

func requireAdmin(ctx context.Context) error {
	role := domain.UserRole(ctx)
	if role != domain.RoleAdmin {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}

func (u *personUsecase) validationError(err error) error {
	return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
}

func mapRepoError(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(what + " not found")
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}

// translate maps filter errors to responses: unknown keys are the caller's
// fault, anything else is a defect.
func translate(filters map[string]string) (filter.Predicate, error) {
	pred, err := filter.Translate(filters)
	if err == nil {
		return pred, nil
	}
	if errors.Is(err, filter.ErrUnknownField) {
		return nil, apperror.BadRequest(err.Error())
	}
	return nil, apperror.Internal(err)
}

func (u *personUsecase) List(ctx context.Context, filters map[string]string, page, pageSize int) (*domain.PaginatedResult[domain.Person], error) {
	pred, err := translate(filters)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	people, total, err := u.repo.List(ctx, pred, page, pageSize)
	if err != nil {
		return nil, mapRepoError(err, "Profile")
	}
	return domain.NewPaginatedResult(people, total, page, pageSize), nil
}

func (u *personUsecase) Get(ctx context.Context, id string) (*domain.Person, error) {
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Profile")
	}
	return p, nil
}

func (u *personUsecase) Create(ctx context.Context, in domain.PersonInput, photos []domain.PhotoUpload) (*domain.Person, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	userID := domain.UserID(ctx)
	return u.create(ctx, in, photos, domain.PersonStatusApproved, domain.PersonSourceAdmin, userID)
}

func (u *personUsecase) Submit(ctx context.Context, in domain.PersonInput, photos []domain.PhotoUpload) (*domain.Person, error) {
	p, err := u.create(ctx, in, photos, domain.PersonStatusPending, domain.PersonSourcePublic, "")
	if err != nil {
		return nil, err
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventSubmissionReceived,
		SubjectType:  "person_id",
		SubjectValue: p.ID,
	})
	u.notify(p)
	return p, nil
}

// notify is best effort; a mail failure never fails the submission.
func (u *personUsecase) notify(p *domain.Person) {
	if u.notifier == nil || !u.notifier.IsConfigured() {
		return
	}
	data := email.SubmissionEmailData{
		PersonID:      p.ID,
		Name:          p.Name,
		Gender:        p.Gender,
		Religion:      p.Religion,
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
	}
	if u.opts.AdminURL != "" {
		data.ReviewURL = strings.TrimRight(u.opts.AdminURL, "/") + "/people/" + p.ID
	}
	if err := u.notifier.SendSubmissionNotification(data); err != nil {
		logger.Log.Warn("Submission notification failed", "person_id", p.ID, "error", err)
	}
}

func (u *personUsecase) create(ctx context.Context, in domain.PersonInput, photos []domain.PhotoUpload, status, source, createdBy string) (*domain.Person, error) {
	if err := u.validate.Struct(in); err != nil {
		return nil, u.validationError(err)
	}
	if len(photos) == 0 {
		return nil, apperror.BadRequest("At least one photo is required")
	}
	if len(photos) > u.opts.MaxPhotos {
		return nil, apperror.BadRequest(fmt.Sprintf("At most %d photos are allowed", u.opts.MaxPhotos))
	}

	p := domain.NewPerson(in)
	p.ID = uuid.NewString()
	p.Status = status
	p.Source = source
	p.CreatedBy = createdBy
	p.CreatedAt = u.now().UTC()
	p.UpdatedAt = p.CreatedAt

	urls, err := u.savePhotos(ctx, p.ID, photos)
	if err != nil {
		return nil, err
	}
	p.Photos = urls

	if err := u.repo.Create(ctx, p); err != nil {
		u.deletePhotos(ctx, urls)
		return nil, mapRepoError(err, "Profile")
	}
	return p, nil
}

func (u *personUsecase) Update(ctx context.Context, id string, upd domain.PersonUpdate, photos []domain.PhotoUpload) (*domain.Person, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(upd); err != nil {
		return nil, u.validationError(err)
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Profile")
	}

	replace := upd.PhotoMode == "replace"
	if replace && len(photos) == 0 {
		return nil, apperror.BadRequest("Replacing photos requires at least one new photo")
	}
	count := len(photos)
	if !replace {
		count += len(p.Photos)
	}
	if count > u.opts.MaxPhotos {
		return nil, apperror.BadRequest(fmt.Sprintf("At most %d photos are allowed", u.opts.MaxPhotos))
	}

	p.Apply(upd)
	p.UpdatedAt = u.now().UTC()

	urls, err := u.savePhotos(ctx, p.ID, photos)
	if err != nil {
		return nil, err
	}
	old := p.Photos
	if replace {
		p.Photos = urls
	} else {
		p.Photos = append(append([]string{}, old...), urls...)
	}

	if err := u.repo.Update(ctx, p); err != nil {
		u.deletePhotos(ctx, urls)
		return nil, mapRepoError(err, "Profile")
	}
	if replace {
		u.deletePhotos(ctx, old)
	}
	return p, nil
}

func (u *personUsecase) Delete(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "Profile")
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "Profile")
	}
	u.deletePhotos(ctx, p.Photos)

	actor := domain.UserID(ctx)
	u.audit.LogAdminAction(ctx, security.EventProfileDeleted, actor, "person_id", id)
	return nil
}

func (u *personUsecase) Approve(ctx context.Context, id string) (*domain.Person, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Profile")
	}
	if p.Status == domain.PersonStatusApproved {
		return p, nil
	}
	p.Status = domain.PersonStatusApproved
	p.UpdatedAt = u.now().UTC()
	if err := u.repo.Update(ctx, p); err != nil {
		return nil, mapRepoError(err, "Profile")
	}
	return p, nil
}

func (u *personUsecase) savePhotos(ctx context.Context, personID string, photos []domain.PhotoUpload) ([]string, error) {
	urls := make([]string, 0, len(photos))
	for _, ph := range photos {
		key := fmt.Sprintf("people/%s/%s.jpg", personID, uuid.NewString())
		url, err := u.photos.Save(ctx, key, ph.Data, ph.ContentType)
		if err != nil {
			u.deletePhotos(ctx, urls)
			return nil, apperror.Internal(fmt.Errorf("save photo %s: %w", ph.Filename, err))
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// deletePhotos removes stored photos, logging failures instead of returning them.
func (u *personUsecase) deletePhotos(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := u.photos.Delete(ctx, url); err != nil {
			logger.Log.Warn("Failed to delete photo", "url", url, "error", err)
		}
	}
}

func (u *personUsecase) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", mapRepoError(err, "Profile")
	}

	doc := export.Document{Title: p.Name, Fields: profileFields(p)}
	if len(p.Photos) > 0 {
		if data, err := u.photos.Load(ctx, p.Photos[0]); err == nil {
			doc.Photo = data
		} else {
			logger.Log.Warn("PDF export without photo", "person_id", p.ID, "error", err)
		}
	}

	out, err := export.PDF(doc)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return out, fmt.Sprintf("profile-%s.pdf", slug(p.Name, p.ID)), nil
}

func (u *personUsecase) ExportSpreadsheet(ctx context.Context, filters map[string]string) ([]byte, string, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, "", err
	}
	pred, err := translate(filters)
	if err != nil {
		return nil, "", err
	}
	people, _, err := u.repo.List(ctx, pred, 1, 0)
	if err != nil {
		return nil, "", mapRepoError(err, "Profile")
	}

	sheet := export.Sheet{Name: "Profiles", Headers: spreadsheetHeaders}
	for i := range people {
		sheet.Rows = append(sheet.Rows, spreadsheetRow(&people[i]))
	}
	out, err := export.XLSX(sheet)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	actor := domain.UserID(ctx)
	u.audit.Log(ctx, security.SecurityEvent{
		Event:   security.EventProfileExported,
		Details: map[string]interface{}{"actor": actor, "rows": len(people)},
	})
	return out, fmt.Sprintf("profiles-%s.xlsx", u.now().Format("20060102")), nil
}

func profileFields(p *domain.Person) []export.Field {
	return []export.Field{
		{Label: "Gender", Value: p.Gender},
		{Label: "Marital status", Value: p.MaritalStatus},
		{Label: "Date of birth", Value: p.DateOfBirth},
		{Label: "Religion", Value: p.Religion},
		{Label: "Gotra", Value: p.Gotra},
		{Label: "Height", Value: p.Height},
		{Label: "Complexion", Value: p.Complexion},
		{Label: "Education", Value: p.Education},
		{Label: "Occupation", Value: p.Occupation},
		{Label: "Budget", Value: p.Budget},
		{Label: "Father's name", Value: p.FatherName},
		{Label: "Mother's name", Value: p.MotherName},
		{Label: "Native place", Value: p.NativePlace},
		{Label: "Area", Value: p.Area},
		{Label: "State", Value: p.State},
		{Label: "Contact number", Value: p.ContactNumber},
		{Label: "Email", Value: p.Email},
		{Label: "Address", Value: p.Address},
		{Label: "About", Value: p.About},
	}
}

var spreadsheetHeaders = []string{
	"ID", "Name", "Gender", "Marital Status", "Religion", "Gotra", "Area", "State", "Height",
	"Complexion", "Native Place", "Date of Birth", "Education", "Occupation", "Father's Name",
	"Mother's Name", "Contact Number", "Email", "Budget", "Status", "Source", "Created At",
}

func spreadsheetRow(p *domain.Person) []string {
	return []string{
		p.ID, p.Name, p.Gender, p.MaritalStatus, p.Religion, p.Gotra, p.Area, p.State, p.Height,
		p.Complexion, p.NativePlace, p.DateOfBirth, p.Education, p.Occupation, p.FatherName,
		p.MotherName, p.ContactNumber, p.Email, p.Budget, p.Status, p.Source,
		p.CreatedAt.Format(time.RFC3339),
	}
}

// slug makes an ASCII filename fragment, falling back to the id.
func slug(name, id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteRune('-')
			}
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return id
	}
	return s
}
