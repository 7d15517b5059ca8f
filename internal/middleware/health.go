package middleware

import (
	"context"
	"time"
)

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a plain function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// HealthStatus represents the health status
type HealthStatus struct {
	Status      string                 `json:"status"`
	ModelStatus string                 `json:"model_status"`
	Timestamp   time.Time              `json:"timestamp"`
	Checks      map[string]CheckStatus `json:"checks,omitempty"`
}

// CheckStatus represents individual check status
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// RunChecks runs all registered checkers and aggregates the result.
// modelLoaded drives the model_status field the prediction API exposes.
func RunChecks(ctx context.Context, checkers map[string]HealthChecker, modelLoaded bool) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      "healthy",
		ModelStatus: "loaded",
		Timestamp:   time.Now(),
		Checks:      make(map[string]CheckStatus),
	}
	if !modelLoaded {
		health.ModelStatus = "not loaded"
	}

	for name, checker := range checkers {
		if err := checker.Check(ctx); err != nil {
			health.Status = "unhealthy"
			health.Checks[name] = CheckStatus{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			health.Checks[name] = CheckStatus{
				Status: "healthy",
			}
		}
	}
	return health
}
