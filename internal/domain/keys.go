package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// WithUser returns a context carrying the authenticated user's identity.
func WithUser(ctx context.Context, u *User) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, u.ID)
	ctx = context.WithValue(ctx, KeyUserEmail, u.Email)
	return context.WithValue(ctx, KeyUserRole, u.Role)
}

// UserID is empty for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(KeyUserID).(string)
	return id
}

func UserRole(ctx context.Context) string {
	role, _ := ctx.Value(KeyUserRole).(string)
	return role
}
