package usecase_test

import (
	"context"
	"sync"
	"time"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/filter"
	"matrimony-backend/pkg/email"

	"github.com/stretchr/testify/mock"
)

type MockPersonRepo struct {
	mock.Mock
}

func (m *MockPersonRepo) Create(ctx context.Context, p *domain.Person) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPersonRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}

func (m *MockPersonRepo) Update(ctx context.Context, p *domain.Person) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPersonRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPersonRepo) List(ctx context.Context, pred filter.Predicate, page, pageSize int) ([]domain.Person, int64, error) {
	args := m.Called(ctx, pred, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Person), args.Get(1).(int64), args.Error(2)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	args := m.Called(ctx, email, ip)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuard) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	args := m.Called(ctx, email, ip, userAgent, requestID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockGuard) ClearAttempts(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

type stubTokens struct{}

func (stubTokens) Issue(userID, email, role string) (string, time.Time, error) {
	return "token-" + userID, time.Unix(0, 0), nil
}

// fakePhotos is an in-memory PhotoStore that records deletions.
type fakePhotos struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{saved: map[string][]byte{}}
}

func (f *fakePhotos) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "https://cdn.test/" + key
	f.saved[url] = data
	return url, nil
}

func (f *fakePhotos) Load(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.saved[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (f *fakePhotos) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, url)
	f.deleted = append(f.deleted, url)
	return nil
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockNotifier) SendSubmissionNotification(data email.SubmissionEmailData) error {
	return m.Called(data).Error(0)
}
