package domain

import (
	"context"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

// LoginMeta is request metadata used for lockout tracking and audit logs.
type LoginMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page, pageSize int) ([]User, int64, error)
	Delete(ctx context.Context, id string) error
}

type AuthUsecase interface {
	Login(ctx context.Context, req LoginRequest, meta LoginMeta) (*LoginResult, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	EnsureAdmin(ctx context.Context, email, password string) error
	ListUsers(ctx context.Context, page, pageSize int) (*PaginatedResult[User], error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}
