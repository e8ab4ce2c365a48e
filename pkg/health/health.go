package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check represents a single health check
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// Report represents the overall health of the site
type Report struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

func begin(name string) (Check, time.Time) {
	start := time.Now()
	return Check{Name: name, Timestamp: start, Details: map[string]string{}}, start
}

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	check, start := begin(c.Name)

	pong, err := c.Client.Ping(ctx).Result()
	check.Duration = time.Since(start)

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Redis connection failed: %v", err)
		check.Details["error"] = err.Error()
		return check
	}
	check.Status = StatusUp
	check.Message = "Redis connection successful"
	check.Details["response_time"] = check.Duration.String()
	check.Details["ping_response"] = pong
	return check
}

// OutboxStats is the part of the contact outbox the checker reads.
type OutboxStats interface {
	Stats(ctx context.Context) (map[string]int64, error)
}

// OutboxChecker reports the contact outbox backlog. Dead letters do not
// fail the check; they are surfaced in details for the host.
type OutboxChecker struct {
	Outbox OutboxStats
	Name   string
}

func (c *OutboxChecker) Check(ctx context.Context) Check {
	check, start := begin(c.Name)

	stats, err := c.Outbox.Stats(ctx)
	check.Duration = time.Since(start)

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Outbox check failed: %v", err)
		check.Details["error"] = err.Error()
		return check
	}
	check.Status = StatusUp
	check.Message = "Outbox is operational"
	for _, k := range []string{"pending", "processing", "dead", "delivered"} {
		check.Details[k] = fmt.Sprintf("%d", stats[k])
	}
	return check
}

// FileChecker verifies a required file, such as the gallery manifest, is readable.
type FileChecker struct {
	Path string
	Name string
}

func (c *FileChecker) Check(ctx context.Context) Check {
	check, start := begin(c.Name)

	info, err := os.Stat(c.Path)
	check.Duration = time.Since(start)
	check.Details["path"] = c.Path

	switch {
	case err != nil:
		check.Status = StatusDown
		check.Message = fmt.Sprintf("File unavailable: %v", err)
	case info.IsDir():
		check.Status = StatusDown
		check.Message = "Path is a directory"
	default:
		check.Status = StatusUp
		check.Message = "File present"
		check.Details["size"] = fmt.Sprintf("%d", info.Size())
	}
	return check
}

// HealthChecker orchestrates multiple health checks
type HealthChecker struct {
	checkers  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{version: version, startTime: time.Now()}
}

// AddChecker adds a health checker
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

func (h *HealthChecker) run(ctx context.Context, checkers []Checker) Report {
	checks := make(map[string]Check, len(checkers))
	overall := StatusUp
	for _, checker := range checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check
		if check.Status == StatusDown {
			overall = StatusDown
		}
	}
	return Report{
		Status:    overall,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}

// CheckHealth performs all health checks
func (h *HealthChecker) CheckHealth(ctx context.Context) Report {
	return h.run(ctx, h.checkers)
}

// CheckReadiness runs only the checks the site cannot serve without:
// Redis and required files.
func (h *HealthChecker) CheckReadiness(ctx context.Context) Report {
	var critical []Checker
	for _, checker := range h.checkers {
		switch checker.(type) {
		case *RedisChecker, *FileChecker:
			critical = append(critical, checker)
		}
	}
	return h.run(ctx, critical)
}

// CheckLiveness reports that the process is running.
func (h *HealthChecker) CheckLiveness(ctx context.Context) Report {
	now := time.Now()
	return Report{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: now,
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: now,
			},
		},
		Uptime: time.Since(h.startTime),
	}
}
