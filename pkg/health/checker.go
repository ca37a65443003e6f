// Package health serves the liveness and readiness probes of the museum
// server.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wgaamuseum/museum/pkg/catalog"
)

// Status represents the health status of the server.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTimeout bounds a check that sets no timeout of its own.
const DefaultTimeout = 5 * time.Second

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status   Status `json:"status"`
	Duration int64  `json:"duration_ms"`
	Error    string `json:"error,omitempty"`
}

// Report is the combined outcome of every check.
type Report struct {
	Status    Status                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
}

// Check is a named probe. A failing critical check makes the server
// unhealthy; any other failure only degrades it.
type Check struct {
	Name     string
	Probe    func(ctx context.Context) error
	Timeout  time.Duration
	Critical bool
}

// Checker runs the registered checks.
type Checker struct {
	mu      sync.RWMutex
	checks  []Check
	version string
}

// NewChecker returns a checker reporting the given build version.
func NewChecker(version string) *Checker {
	return &Checker{version: version}
}

// Add registers a check.
func (c *Checker) Add(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

// Run executes all checks concurrently and folds their results.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := append([]Check(nil), c.checks...)
	version := c.version
	c.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			results[i] = run(ctx, check)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Status:    StatusHealthy,
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now(),
		Version:   version,
	}
	for i, check := range checks {
		r := results[i]
		report.Checks[check.Name] = r
		if r.Status == StatusHealthy {
			continue
		}
		if check.Critical {
			report.Status = StatusUnhealthy
		} else if report.Status == StatusHealthy {
			report.Status = StatusDegraded
		}
	}
	return report
}

func run(ctx context.Context, check Check) CheckResult {
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := check.Probe(ctx)
	r := CheckResult{Status: StatusHealthy, Duration: time.Since(start).Milliseconds()}
	if err != nil {
		r.Status = StatusUnhealthy
		r.Error = err.Error()
	}
	return r
}

// LivenessHandler answers 200 while the process is up.
func (c *Checker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "alive",
			"timestamp": time.Now(),
		})
	})
}

// ReadinessHandler answers 503 when a critical check fails.
func (c *Checker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := c.Run(r.Context())
		code := http.StatusOK
		if report.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, report)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// SnapshotCheck passes once the region's catalog has been loaded.
func SnapshotCheck(store *catalog.Store, region string) func(context.Context) error {
	return func(context.Context) error {
		if _, ok := store.Cached(region); !ok {
			return fmt.Errorf("catalog for region %q not loaded", region)
		}
		return nil
	}
}

// SessionCapacityCheck fails when the live session count reaches max.
// A max of zero disables the check.
func SessionCapacityCheck(count func() int, max int) func(context.Context) error {
	return func(context.Context) error {
		if n := count(); max > 0 && n >= max {
			return fmt.Errorf("live sessions at capacity: %d of %d", n, max)
		}
		return nil
	}
}
