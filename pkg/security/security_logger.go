package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names an audit event.
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventBlockCreated       EventType = "block_created"
	EventUploadRejected     EventType = "upload_rejected"
	EventUserCreated        EventType = "user_created"
	EventUserDeleted        EventType = "user_deleted"
	EventProfileDeleted     EventType = "profile_deleted"
	EventProfileExported    EventType = "profile_exported"
	EventSubmissionReceived EventType = "submission_received"
)

// Unlisted events log at warn.
var eventLevels = map[EventType]zapcore.Level{
	EventLoginSuccess:       zapcore.InfoLevel,
	EventUserCreated:        zapcore.InfoLevel,
	EventProfileExported:    zapcore.InfoLevel,
	EventSubmissionReceived: zapcore.InfoLevel,
	EventLoginBlocked:       zapcore.ErrorLevel,
	EventBlockCreated:       zapcore.ErrorLevel,
	EventUnauthorizedAccess: zapcore.ErrorLevel,
}

// SecurityEvent is one audit entry. SubjectValue must already be masked or
// hashed when it carries personal data.
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // email, ip, user_id, person_id
	SubjectValue string
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes audit events as structured zap entries, separate from
// the application log.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *SecurityLogger
	defaultOnce   sync.Once
)

// InitSecurityLogger builds the audit logger and installs it as the default.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}

	zl, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		zl = zap.NewNop()
	}

	defaultLogger = NewSecurityLogger(zl, serviceName, environment)
	return defaultLogger
}

func NewSecurityLogger(zl *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

// DefaultLogger returns the installed audit logger, building one on first use
// when main never called InitSecurityLogger (tests, scripts).
func DefaultLogger() *SecurityLogger {
	defaultOnce.Do(func() {
		if defaultLogger == nil {
			env := os.Getenv("APP_ENV")
			if env == "" {
				env = "development"
			}
			InitSecurityLogger("matrimony-backend", env)
		}
	})
	return defaultLogger
}

func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	level, ok := eventLevels[event.Event]
	if !ok {
		level = zapcore.WarnLevel
	}

	fields := make([]zap.Field, 0, 9)
	fields = append(fields,
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.Time("occurred_at", time.Now().UTC()),
	)
	for _, f := range [...]struct{ key, val string }{
		{"subject_type", event.SubjectType},
		{"subject_value", event.SubjectValue},
		{"ip", event.IP},
		{"user_agent", event.UserAgent},
		{"request_id", event.RequestID},
	} {
		if f.val != "" {
			fields = append(fields, zap.String(f.key, f.val))
		}
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogLogin records a login outcome (success, failure or block) for an email.
// reason is optional.
func (sl *SecurityLogger) LogLogin(ctx context.Context, event EventType, email, ip, userAgent, requestID, reason string) {
	e := SecurityEvent{
		Event:        event,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
	}
	if reason != "" {
		e.Details = map[string]interface{}{"reason": reason}
	}
	sl.Log(ctx, e)
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, subjectType, subjectValue, ip, requestID string, durationMinutes int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  subjectType,
		SubjectValue: maskSubject(subjectType, subjectValue),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"duration_minutes": durationMinutes},
	})
}

// LogAdminAction records a mutation an admin performed on a user or profile.
func (sl *SecurityLogger) LogAdminAction(ctx context.Context, event EventType, actorID, subjectType, subjectID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  subjectType,
		SubjectValue: subjectID,
		Details:      map[string]interface{}{"actor": actorID},
	})
}

func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail keeps the first character and the domain: j***@example.com.
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***" + email[1:]
	}
	return email[:1] + "***" + email[at:]
}

func maskSubject(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip":
		return value
	}
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
