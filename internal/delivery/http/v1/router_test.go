package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"matrimony-backend/config"
	"matrimony-backend/internal/delivery/http/middleware"
	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/repository/memory"
	"matrimony-backend/internal/usecase"
	"matrimony-backend/pkg/auth"
	"matrimony-backend/pkg/security"
	"matrimony-backend/pkg/storage"
	"matrimony-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.org"
	adminPassword = "correct-horse-battery"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t         *testing.T
	engine    *gin.Engine
	uploadDir string
	people    domain.PersonRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploadDir := t.TempDir()
	photos, err := storage.NewLocalStore(uploadDir, "http://api.test/uploads")
	require.NoError(t, err)

	people := memory.NewPersonRepository()
	users := memory.NewUserRepository()
	tokens := auth.NewTokenManager("router-test-secret", time.Hour)

	authUC := usecase.NewAuthUsecase(users, security.NewLoginTracker(security.DefaultLoginTrackerConfig()), tokens)
	require.NoError(t, authUC.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	personUC := usecase.NewPersonUsecase(people, photos, nil, validation.New(), usecase.PersonUsecaseOptions{MaxPhotos: 3})

	engine := NewRouter(RouterDeps{
		AuthUC:    authUC,
		PersonUC:  personUC,
		HealthUC:  usecase.NewHealthUsecase(map[string]domain.HealthChecker{}),
		Tokens:    tokens,
		Config:    &config.Config{Environment: "test", CORSOrigins: []string{"https://app.example"}},
		UploadDir: uploadDir,
	})

	return &testServer{t: t, engine: engine, uploadDir: uploadDir, people: people}
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *testServer) form(method, path string, fields map[string]string, photos int, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	for i := 0; i < photos; i++ {
		part, err := w.CreateFormFile(middleware.PhotosFormField, "photo.png")
		require.NoError(s.t, err)
		_, err = part.Write(testPNG(s.t))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.do(req, token)
}

func (s *testServer) login(email, password string) string {
	rec := s.json(http.MethodPost, "/v1/auth/login", domain.LoginRequest{Email: email, Password: password}, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var result domain.LoginResult
	decodeData(s.t, rec, &result)
	return result.Token
}

func (s *testServer) userToken(adminToken string) string {
	rec := s.json(http.MethodPost, "/v1/admin/users", domain.CreateUserRequest{
		Email:    "viewer@example.org",
		Password: "viewer-password",
		Role:     domain.RoleUser,
	}, adminToken)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return s.login("viewer@example.org", "viewer-password")
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Message
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for x := 0; x < 24; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y * 10), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func profile(name, budget string) map[string]string {
	return map[string]string{
		"name":          name,
		"gender":        "Female",
		"maritalStatus": "Never Married",
		"religion":      "Hindu",
		"state":         "Rajasthan",
		"budget":        budget,
	}
}

func (s *testServer) createPerson(token, name, budget string) domain.Person {
	rec := s.form(http.MethodPost, "/v1/people", profile(name, budget), 1, token)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var p domain.Person
	decodeData(s.t, rec, &p)
	return p
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/health", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestLoginSetsCookieAndMe(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(http.MethodPost, "/v1/auth/login", domain.LoginRequest{Email: "ADMIN@example.org", Password: adminPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.AddCookie(cookie)
	rec = s.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me domain.User
	decodeData(t, rec, &me)
	assert.Equal(t, adminEmail, me.Email)
	assert.Equal(t, domain.RoleAdmin, me.Role)
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	rec := s.json(http.MethodPost, "/v1/auth/login", domain.LoginRequest{Email: adminEmail, Password: "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPeopleRequireAuth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/people", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndListWithFilters(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)

	raj := s.createPerson(admin, "Raj Kumar", "₹5,00,000")
	s.createPerson(admin, "Rajesh Sharma", "₹10,00,000")
	s.createPerson(admin, "Meena", "")

	require.NotNil(t, raj.BudgetNumeric)
	assert.Equal(t, 500000.0, *raj.BudgetNumeric)
	assert.Equal(t, domain.PersonStatusApproved, raj.Status)
	assert.Equal(t, domain.PersonSourceAdmin, raj.Source)
	require.Len(t, raj.Photos, 1)
	assert.True(t, strings.HasPrefix(raj.Photos[0], "http://api.test/uploads/people/"+raj.ID+"/"))

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{"match all newest first", url.Values{}, []string{"Meena", "Rajesh Sharma", "Raj Kumar"}},
		{"partial case-insensitive", url.Values{"name": {"raj"}}, []string{"Rajesh Sharma", "Raj Kumar"}},
		{"budget range", url.Values{"budget": {"4,00,000-6,00,000"}}, []string{"Raj Kumar"}},
		{"budget single", url.Values{"budget": {"1000000"}}, []string{"Rajesh Sharma"}},
		{"blank filter ignored", url.Values{"gotra": {" "}}, []string{"Meena", "Rajesh Sharma", "Raj Kumar"}},
		{"combined", url.Values{"name": {"raj"}, "state": {"rajasthan"}, "budget": {"0-600000"}}, []string{"Raj Kumar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/people?"+tt.query.Encode(), nil), admin)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var page domain.PaginatedResult[domain.Person]
			decodeData(t, rec, &page)
			names := make([]string, len(page.Data))
			for i, p := range page.Data {
				names[i] = p.Name
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}
}

func TestListPaging(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	for _, n := range []string{"Asha", "Bina", "Chetna"} {
		s.createPerson(admin, n, "")
	}

	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/people?page=2&pageSize=2", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.PaginatedResult[domain.Person]
	decodeData(t, rec, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Asha", page.Data[0].Name)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListRejectsUnknownFilter(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/people?salary=100", nil), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "salary")
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)

	rec := s.form(http.MethodPost, "/v1/people", map[string]string{"name": "Asha"}, 1, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.form(http.MethodPost, "/v1/people", profile("Asha", ""), 0, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, message(t, rec), "photo")
}

func TestNonAdminCannotWrite(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	viewer := s.userToken(admin)
	p := s.createPerson(admin, "Asha", "")

	rec := s.form(http.MethodPost, "/v1/people", profile("Bina", ""), 1, viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/v1/people/"+p.ID, nil), viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/people/export.xlsx", nil), viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Read access is open to every signed-in user.
	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/people/"+p.ID, nil), viewer)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateBudgetAndReplacePhotos(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	p := s.createPerson(admin, "Raj Kumar", "₹5,00,000")
	oldPath := filepath.Join(s.uploadDir, strings.TrimPrefix(p.Photos[0], "http://api.test/uploads/"))
	_, err := os.Stat(oldPath)
	require.NoError(t, err)

	rec := s.form(http.MethodPut, "/v1/people/"+p.ID, map[string]string{"budget": "₹7,50,000"}, 0, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated domain.Person
	decodeData(t, rec, &updated)
	require.NotNil(t, updated.BudgetNumeric)
	assert.Equal(t, 750000.0, *updated.BudgetNumeric)
	assert.Equal(t, "Raj Kumar", updated.Name)
	assert.Equal(t, p.Photos, updated.Photos)

	rec = s.form(http.MethodPut, "/v1/people/"+p.ID, map[string]string{"budget": "negotiable"}, 0, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared domain.Person
	decodeData(t, rec, &cleared)
	assert.Equal(t, "negotiable", cleared.Budget)
	assert.Nil(t, cleared.BudgetNumeric)
	stored, err := s.people.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.BudgetNumeric)

	rec = s.form(http.MethodPut, "/v1/people/"+p.ID, map[string]string{"photoMode": "replace"}, 2, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var replaced domain.Person
	decodeData(t, rec, &replaced)
	assert.Len(t, replaced.Photos, 2)
	assert.NotContains(t, replaced.Photos, p.Photos[0])
	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	rec = s.form(http.MethodPut, "/v1/people/"+p.ID, map[string]string{"photoMode": "append"}, 2, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRemovesProfileAndPhotos(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	p := s.createPerson(admin, "Asha", "")

	rec := s.do(httptest.NewRequest(http.MethodDelete, "/v1/people/"+p.ID, nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/people/"+p.ID, nil), admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	entries, err := os.ReadDir(filepath.Join(s.uploadDir, "people", p.ID))
	if err == nil {
		assert.Empty(t, entries)
	}

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/v1/people/"+p.ID, nil), admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicSubmissionAndApproval(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)

	rec := s.form(http.MethodPost, "/v1/public/submissions", profile("Kavita", "3,00,000"), 1, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var ref struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, rec, &ref)
	assert.Equal(t, domain.PersonStatusPending, ref.Status)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/people?status=pending&source=public", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.PaginatedResult[domain.Person]
	decodeData(t, rec, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, ref.ID, page.Data[0].ID)
	assert.Empty(t, page.Data[0].CreatedBy)

	rec = s.do(httptest.NewRequest(http.MethodPatch, "/v1/people/"+ref.ID+"/approve", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var approved domain.Person
	decodeData(t, rec, &approved)
	assert.Equal(t, domain.PersonStatusApproved, approved.Status)
	assert.Equal(t, domain.PersonSourcePublic, approved.Source)
}

func TestPublicSubmissionRequiresPhoto(t *testing.T) {
	s := newTestServer(t)
	rec := s.form(http.MethodPost, "/v1/public/submissions", profile("Kavita", ""), 0, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExports(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	p := s.createPerson(admin, "Raj Kumar", "₹5,00,000")
	s.createPerson(admin, "Meena", "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/people/"+p.ID+"/pdf", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/people/export.xlsx?name=raj", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	// XLSX is a zip container.
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/people/export.xlsx?salary=1", nil), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUserManagement(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	s.userToken(admin)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.PaginatedResult[domain.User]
	decodeData(t, rec, &page)
	assert.Equal(t, int64(2), page.Total)

	rec = s.json(http.MethodPost, "/v1/admin/users", domain.CreateUserRequest{
		Email: "viewer@example.org", Password: "another-password", Role: domain.RoleUser,
	}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.json(http.MethodPost, "/v1/admin/users", map[string]string{"email": "x@example.org", "password": "short", "role": "user"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var self domain.User
	rec = s.do(httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil), admin)
	decodeData(t, rec, &self)
	rec = s.do(httptest.NewRequest(http.MethodDelete, "/v1/admin/users/"+self.ID, nil), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadedPhotosAreServed(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	p := s.createPerson(admin, "Asha", "")

	path := strings.TrimPrefix(p.Photos[0], "http://api.test")
	rec := s.do(httptest.NewRequest(http.MethodGet, path, nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}
