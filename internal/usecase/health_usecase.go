package usecase

import (
	"context"
	"sort"
	"time"

	"matrimony-backend/internal/domain"
)

type healthUsecase struct {
	checkers map[string]domain.HealthChecker
}

// NewHealthUsecase probes each named dependency on every Check.
func NewHealthUsecase(checkers map[string]domain.HealthChecker) domain.HealthUsecase {
	return &healthUsecase{checkers: checkers}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(u.checkers))
	for name := range u.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	status := map[string]string{"status": "ok"}
	healthy := true
	for _, name := range names {
		if err := u.checkers[name].Ping(ctx); err != nil {
			status[name] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
