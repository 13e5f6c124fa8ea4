package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"matrimony-backend/internal/domain"
	"matrimony-backend/pkg/apperror"
	"matrimony-backend/pkg/logger"
	"matrimony-backend/pkg/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LoginGuard tracks failed logins and lockouts.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, email, role string) (string, time.Time, error)
}

type authUsecase struct {
	userRepo   domain.UserRepository
	guard      LoginGuard
	tokens     TokenIssuer
	audit      *security.SecurityLogger
	bcryptCost int
}

func NewAuthUsecase(userRepo domain.UserRepository, guard LoginGuard, tokens TokenIssuer) domain.AuthUsecase {
	return &authUsecase{
		userRepo:   userRepo,
		guard:      guard,
		tokens:     tokens,
		audit:      security.DefaultLogger(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// compareDummy spends the same bcrypt time for unknown emails as for known ones.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

var errInvalidCredentials = apperror.Unauthorized("Invalid email or password")

func (u *authUsecase) Login(ctx context.Context, req domain.LoginRequest, meta domain.LoginMeta) (*domain.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	blocked, err := u.guard.IsBlocked(ctx, email, meta.IP)
	if err != nil {
		logger.Log.Warn("Login block check failed", "error", err)
	}
	if blocked {
		u.audit.LogLogin(ctx, security.EventLoginBlocked, email, meta.IP, meta.UserAgent, meta.RequestID, "")
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	if user == nil {
		compareDummy(req.Password)
		return nil, u.failed(ctx, email, meta)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, u.failed(ctx, email, meta)
	}

	if err := u.guard.ClearAttempts(ctx, email, meta.IP); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}

	token, expiresAt, err := u.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.audit.LogLogin(ctx, security.EventLoginSuccess, email, meta.IP, meta.UserAgent, meta.RequestID, "")

	return &domain.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (u *authUsecase) failed(ctx context.Context, email string, meta domain.LoginMeta) error {
	nowBlocked, _, err := u.guard.RecordFailedAttempt(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
	if err != nil {
		logger.Log.Warn("Failed to record login attempt", "error", err)
	}
	if nowBlocked {
		return apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}
	return errInvalidCredentials
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "User")
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin when no account has that email.
func (u *authUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := u.newUser(ctx, email, password, domain.RoleAdmin); err != nil {
		return err
	}
	logger.Log.Info("Bootstrap admin created", "email", security.MaskEmail(email))
	return nil
}

func (u *authUsecase) ListUsers(ctx context.Context, page, pageSize int) (*domain.PaginatedResult[domain.User], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	users, total, err := u.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, mapRepoError(err, "User")
	}
	return domain.NewPaginatedResult(users, total, page, pageSize), nil
}

func (u *authUsecase) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	user, err := u.newUser(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	actor := domain.UserID(ctx)
	u.audit.LogAdminAction(ctx, security.EventUserCreated, actor, "user_id", user.ID)
	return user, nil
}

func (u *authUsecase) DeleteUser(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	actor := domain.UserID(ctx)
	if actor == id {
		return apperror.BadRequest("You cannot delete your own account")
	}
	if err := u.userRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "User")
	}
	u.audit.LogAdminAction(ctx, security.EventUserDeleted, actor, "user_id", id)
	return nil
}

func (u *authUsecase) newUser(ctx context.Context, email, password, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return nil, apperror.BadRequest("Password cannot be used")
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, mapRepoError(err, "User")
	}
	return user, nil
}
